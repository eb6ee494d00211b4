package ports

import (
	"context"
	"time"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// ListClientsFilter carries all query parameters for listing clients.
// LawFirmID is always enforced by the service layer (tenant isolation).
type ListClientsFilter struct {
	LawFirmID    string // always non-empty: every list query is firm-scoped
	Status       string // optional: filter by lifecycle status; empty = no filter
	ClientType   string // optional: individual | corporate
	DepartmentID string // optional: preferred department
	Search       string // optional: case-insensitive substring across name/email/phone/company/id number
	HasEmail     bool   // when true, only records with a non-empty email match
	SortBy       string // bson field name; empty = created_at; "name" = first then last
	SortAsc      bool
	Page         int // 1-based
	Limit        int // <= 0 disables pagination (used by the newsletter selection)
}

// ClientPatch is a partial update. Nil pointers leave fields untouched; a
// pointer to the zero value overwrites. Email pointing at "" clears the field.
type ClientPatch struct {
	FirstName          *string
	LastName           *string
	CompanyName        *string
	RegistrationNumber *string
	IDNumber           *string
	PhoneNumber        *string
	Email              *string
	ClientType         *string
	Status             *string
	Address            *domain.Address
	DateOfBirth        *time.Time
	PreferredDeptID    *string
	Notes              *string
	EmergencyContact   *domain.EmergencyContact
	Tags               *[]string
	ProfileImage       *string
	UpdatedBy          string
}

// DepartmentCount is one bucket of the per-department grouping. DepartmentID
// is "unassigned" for clients without a preferred department.
type DepartmentCount struct {
	DepartmentID string `json:"department_id"`
	Count        int64  `json:"count"`
}

// FirmStats is the aggregate returned by Stats for a single law firm.
type FirmStats struct {
	Total         int64             `json:"total"`
	Active        int64             `json:"active"`
	Inactive      int64             `json:"inactive"`
	Individual    int64             `json:"individual"`
	Corporate     int64             `json:"corporate"`
	ByDepartment  []DepartmentCount `json:"by_department"`
	RecentClients int64             `json:"recent_clients"` // created within the trailing 30 days
}

// ClientRepository defines persistence operations for client records.
type ClientRepository interface {
	// Insert persists a new client and returns the stored record with its
	// generated id. Returns domain.ErrDuplicateEmail when the firm already has
	// a client with the same email (enforced by a partial unique index).
	Insert(ctx context.Context, c *domain.Client) (*domain.Client, error)
	// FindByID retrieves a client by id with no firm filter. Callers must
	// verify the record's law firm against the caller's before use.
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	// FindByIDs retrieves the clients with the given ids belonging to lawFirmID.
	// Ids from other firms or unknown ids are silently dropped.
	FindByIDs(ctx context.Context, lawFirmID string, ids []string) ([]*domain.Client, error)
	// List returns a page of clients matching filter and the total count.
	List(ctx context.Context, filter ListClientsFilter) ([]*domain.Client, int64, error)
	// UpdateByID applies a partial update and returns the updated record.
	UpdateByID(ctx context.Context, id string, patch ClientPatch) (*domain.Client, error)
	DeleteByID(ctx context.Context, id string) error
	// CountByEmail counts clients of a firm holding the (lowercased) email,
	// excluding excludeID when non-empty. Used as the duplicate fast path.
	CountByEmail(ctx context.Context, lawFirmID, email, excludeID string) (int64, error)
	Stats(ctx context.Context, lawFirmID string) (*FirmStats, error)
	EnsureIndexes(ctx context.Context) error
}
