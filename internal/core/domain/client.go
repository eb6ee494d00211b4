package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// ClientType distinguishes private individuals from corporate clients.
type ClientType string

const (
	TypeIndividual ClientType = "individual"
	TypeCorporate  ClientType = "corporate"
)

// ClientStatus represents the lifecycle state of a client record.
type ClientStatus string

const (
	StatusActive    ClientStatus = "active"
	StatusInactive  ClientStatus = "inactive"
	StatusSuspended ClientStatus = "suspended"
)

var ErrClientNotFound = errors.New("client not found")
var ErrInvalidClientID = errors.New("invalid client id")
var ErrDuplicateEmail = errors.New("a client with this email already exists for this firm")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrSearchQueryTooShort = errors.New("search query must be at least 2 characters")
var ErrClientHasCases = errors.New("client has associated cases and cannot be deleted")

// Address is a client's postal address.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

// EmergencyContact is an out-of-band contact person for a client.
type EmergencyContact struct {
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
}

// Document is a file attached to a client record.
type Document struct {
	Name       string    `json:"name" bson:"name"`
	Path       string    `json:"path" bson:"path"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
	UploadedBy string    `json:"uploaded_by,omitempty" bson:"uploaded_by,omitempty"`
}

// CaseStats holds denormalized case counters maintained by the case module.
type CaseStats struct {
	Total     int `json:"total" bson:"total"`
	Active    int `json:"active" bson:"active"`
	Completed int `json:"completed" bson:"completed"`
}

// Client is the core aggregate root. Every client belongs to exactly one law
// firm for its entire lifetime; LawFirmID is set at creation and never changes.
type Client struct {
	ID                 string           `json:"id" bson:"_id,omitempty"`
	LawFirmID          string           `json:"law_firm_id" bson:"law_firm"`
	FirstName          string           `json:"first_name" bson:"first_name"`
	LastName           string           `json:"last_name" bson:"last_name"`
	CompanyName        string           `json:"company_name,omitempty" bson:"company_name,omitempty"`
	RegistrationNumber string           `json:"registration_number,omitempty" bson:"registration_number,omitempty"`
	IDNumber           string           `json:"id_number,omitempty" bson:"id_number,omitempty"`
	PhoneNumber        string           `json:"phone_number" bson:"phone_number"`
	Email              string           `json:"email,omitempty" bson:"email,omitempty"`
	ClientType         ClientType       `json:"client_type" bson:"client_type"`
	Status             ClientStatus     `json:"status" bson:"status"`
	Address            Address          `json:"address,omitempty" bson:"address,omitempty"`
	DateOfBirth        *time.Time       `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	PreferredDeptID    string           `json:"preferred_department_id,omitempty" bson:"preferred_department,omitempty"`
	Notes              string           `json:"notes,omitempty" bson:"notes,omitempty"`
	EmergencyContact   EmergencyContact `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty"`
	Tags               []string         `json:"tags,omitempty" bson:"tags,omitempty"`
	ProfileImage       string           `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	Documents          []Document       `json:"documents,omitempty" bson:"documents,omitempty"`
	CaseStats          CaseStats        `json:"case_stats" bson:"case_stats"`
	CreatedBy          string           `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy          string           `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt          time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" bson:"updated_at"`
}

// emailPattern accepts the basic local@domain.tld shape; anything stricter is
// the mail provider's problem.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s has a plausible email shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail lowercases and trims an email address. An empty or
// whitespace-only value normalizes to "" and the caller must leave the field
// unset rather than store the empty string.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// TitleCase normalizes a name so that each word starts with an upper-case
// letter and continues lower-case. It is idempotent: applying it to an
// already-normalized name is a no-op.
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Normalize applies the write-time normalization rules in place: title-cased
// names, lowercased email (empty email left unset).
func (c *Client) Normalize() {
	c.FirstName = TitleCase(c.FirstName)
	c.LastName = TitleCase(c.LastName)
	if c.CompanyName != "" {
		c.CompanyName = TitleCase(c.CompanyName)
	}
	c.Email = NormalizeEmail(c.Email)
}

// DisplayName returns the client's full name, or the company name for
// corporate clients without personal names.
func (c *Client) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.CompanyName
	}
	return name
}
