package ports

import (
	"context"
	"time"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// CreateClientInput carries all data needed to register a new client.
// LawFirmID and CreatedBy are stamped from the actor by the service, never
// taken from the caller's payload.
type CreateClientInput struct {
	FirstName          string
	LastName           string
	CompanyName        string
	RegistrationNumber string
	IDNumber           string
	PhoneNumber        string
	Email              string
	ClientType         string
	Status             string
	Address            domain.Address
	DateOfBirth        *time.Time
	PreferredDeptID    string
	Notes              string
	EmergencyContact   domain.EmergencyContact
	Tags               []string
	ProfileImage       string
}

// ListClientsInput carries all parameters for the list endpoint.
type ListClientsInput struct {
	Status       string // default "active"; "all" disables the status filter
	ClientType   string
	DepartmentID string
	Search       string
	SortBy       string
	SortOrder    string // "asc" | "desc" (default desc)
	Page         int
	Limit        int
}

// ListClientsResult is returned by List.
type ListClientsResult struct {
	Items      []*domain.Client
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// SearchHit is the projected view returned by the typeahead search.
type SearchHit struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number"`
}

// ClientService defines the firm-scoped directory operations.
type ClientService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateClientInput) (*domain.Client, error)
	List(ctx context.Context, actor domain.Actor, input ListClientsInput) (*ListClientsResult, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch ClientPatch) (*domain.Client, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Stats(ctx context.Context, actor domain.Actor) (*FirmStats, error)
	Search(ctx context.Context, actor domain.Actor, query string, limit int) ([]SearchHit, error)
}
