package ports

import (
	"context"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// RegisterInput carries the data for creating a staff account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
	LawFirmID string
}

// AuthService implements staff registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed JWT and the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
