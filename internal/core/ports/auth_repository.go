package ports

import (
	"context"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// UserRepository defines persistence for staff accounts. Mailbox OAuth tokens
// live on the user record, so token persistence is part of this interface.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// SaveMailboxTokens stores (or replaces) the user's mailbox token set.
	// A nil tokens value disconnects the mailbox.
	SaveMailboxTokens(ctx context.Context, userID string, tokens *domain.MailboxTokens) error
	EnsureIndexes(ctx context.Context) error
}
