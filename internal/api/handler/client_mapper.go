package handler

import (
	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createClientRequest) ports.CreateClientInput {
	return ports.CreateClientInput{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		IDNumber:           req.IDNumber,
		ClientType:         req.ClientType,
		Status:             req.Status,
		Address:            toAddress(req.Address),
		DateOfBirth:        req.DateOfBirth,
		PreferredDeptID:    req.PreferredDeptID,
		Notes:              req.Notes,
		EmergencyContact:   toEmergencyContact(req.EmergencyContact),
		Tags:               req.Tags,
		ProfileImage:       req.ProfileImage,
	}
}

func toPatch(req updateClientRequest) ports.ClientPatch {
	patch := ports.ClientPatch{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		IDNumber:           req.IDNumber,
		ClientType:         req.ClientType,
		Status:             req.Status,
		DateOfBirth:        req.DateOfBirth,
		PreferredDeptID:    req.PreferredDeptID,
		Notes:              req.Notes,
		Tags:               req.Tags,
		ProfileImage:       req.ProfileImage,
	}
	if req.Address != nil {
		a := toAddress(*req.Address)
		patch.Address = &a
	}
	if req.EmergencyContact != nil {
		ec := toEmergencyContact(*req.EmergencyContact)
		patch.EmergencyContact = &ec
	}
	return patch
}

func toAddress(a addressRequest) domain.Address {
	return domain.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func toEmergencyContact(ec emergencyContactRequest) domain.EmergencyContact {
	return domain.EmergencyContact{
		Name:         ec.Name,
		Relationship: ec.Relationship,
		PhoneNumber:  ec.PhoneNumber,
	}
}

// --- Service result → HTTP response ---

func toListResponse(r *ports.ListClientsResult) listClientsResponse {
	return listClientsResponse{
		Clients: r.Items,
		Pagination: paginationResponse{
			Page:       r.Page,
			Limit:      r.Limit,
			Total:      r.Total,
			TotalPages: r.TotalPages,
		},
	}
}
