package handler

import (
	"time"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// --- Request types ---

type addressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type emergencyContactRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	PhoneNumber  string `json:"phone_number"`
}

type createClientRequest struct {
	FirstName          string                  `json:"first_name"   validate:"required"`
	LastName           string                  `json:"last_name"    validate:"required"`
	PhoneNumber        string                  `json:"phone_number" validate:"required"`
	Email              string                  `json:"email"`
	CompanyName        string                  `json:"company_name"`
	RegistrationNumber string                  `json:"registration_number"`
	IDNumber           string                  `json:"id_number"`
	ClientType         string                  `json:"client_type" validate:"omitempty,oneof=individual corporate"`
	Status             string                  `json:"status"      validate:"omitempty,oneof=active inactive suspended"`
	Address            addressRequest          `json:"address"`
	DateOfBirth        *time.Time              `json:"date_of_birth"`
	PreferredDeptID    string                  `json:"preferred_department_id"`
	Notes              string                  `json:"notes"`
	EmergencyContact   emergencyContactRequest `json:"emergency_contact"`
	Tags               []string                `json:"tags"`
	ProfileImage       string                  `json:"profile_image"`
}

// updateClientRequest is a partial update: absent fields leave the record
// untouched, while a present-but-empty email clears the address.
type updateClientRequest struct {
	FirstName          *string                  `json:"first_name"`
	LastName           *string                  `json:"last_name"`
	PhoneNumber        *string                  `json:"phone_number"`
	Email              *string                  `json:"email"`
	CompanyName        *string                  `json:"company_name"`
	RegistrationNumber *string                  `json:"registration_number"`
	IDNumber           *string                  `json:"id_number"`
	ClientType         *string                  `json:"client_type" validate:"omitempty,oneof=individual corporate"`
	Status             *string                  `json:"status"      validate:"omitempty,oneof=active inactive suspended"`
	Address            *addressRequest          `json:"address"`
	DateOfBirth        *time.Time               `json:"date_of_birth"`
	PreferredDeptID    *string                  `json:"preferred_department_id"`
	Notes              *string                  `json:"notes"`
	EmergencyContact   *emergencyContactRequest `json:"emergency_contact"`
	Tags               *[]string                `json:"tags"`
	ProfileImage       *string                  `json:"profile_image"`
}

// --- Response types ---

type paginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type listClientsResponse struct {
	Clients    []*domain.Client   `json:"clients"`
	Pagination paginationResponse `json:"pagination"`
}

type deleteClientResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
