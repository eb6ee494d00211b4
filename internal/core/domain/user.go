package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// MailboxTokens is the OAuth token set persisted on a user's account record
// after completing the mailbox consent flow.
type MailboxTokens struct {
	AccessToken  string    `json:"access_token" bson:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty" bson:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty" bson:"token_type,omitempty"`
	Scope        string    `json:"scope,omitempty" bson:"scope,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty" bson:"expiry,omitempty"`
}

// User models an authenticated staff member of a law firm.
type User struct {
	ID            string         `json:"id"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"-"`
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	Role          string         `json:"role"`
	LawFirmID     string         `json:"law_firm_id"`
	MailboxTokens *MailboxTokens `json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Actor is the authenticated identity performing an operation, carrying the
// role and owning-firm reference every tenancy check compares against. It is
// injected by the transport layer and trusted as-is.
type Actor struct {
	UserID    string
	Role      string
	LawFirmID string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
