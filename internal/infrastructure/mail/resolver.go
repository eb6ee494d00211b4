package mail

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// Ensure Resolver implements ports.SenderResolver.
var _ ports.SenderResolver = (*Resolver)(nil)

// Resolver picks the outbound transport for a dispatch run: the actor's
// connected mailbox when tokens are on file and the gateway is configured,
// otherwise the firm-wide SMTP fallback.
type Resolver struct {
	gateway  ports.MailboxGateway
	users    ports.UserRepository
	fallback *SMTPSender
	log      zerolog.Logger
}

func NewResolver(gateway ports.MailboxGateway, users ports.UserRepository, fallback *SMTPSender, log zerolog.Logger) *Resolver {
	return &Resolver{gateway: gateway, users: users, fallback: fallback, log: log}
}

func (r *Resolver) SenderFor(ctx context.Context, actor domain.Actor) (ports.MailSender, error) {
	user, err := r.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if user.MailboxTokens != nil && r.gateway.Configured() {
		return &mailboxSender{
			gateway: r.gateway,
			users:   r.users,
			userID:  user.ID,
			tokens:  user.MailboxTokens,
			log:     r.log,
		}, nil
	}

	if r.fallback != nil && r.fallback.Configured() {
		return r.fallback, nil
	}

	if !r.gateway.Configured() {
		return nil, domain.ErrMailboxNotConfigured
	}
	return nil, domain.ErrMailboxNotAuthenticated
}

// mailboxSender binds one dispatch run to one user's token set. The instance
// is scoped to a single run, never shared across requests, so a concurrent
// run under another identity cannot override these credentials. Rotated
// tokens are persisted as they arrive so the rotation survives the process.
type mailboxSender struct {
	gateway ports.MailboxGateway
	users   ports.UserRepository
	userID  string
	log     zerolog.Logger

	mu     sync.Mutex
	tokens *domain.MailboxTokens
}

func (s *mailboxSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	s.mu.Lock()
	tokens := s.tokens
	s.mu.Unlock()

	rotated, err := s.gateway.Send(ctx, tokens, to, subject, htmlBody, textBody)
	if rotated != nil {
		s.mu.Lock()
		s.tokens = rotated
		s.mu.Unlock()
		if persistErr := s.users.SaveMailboxTokens(ctx, s.userID, rotated); persistErr != nil {
			s.log.Warn().Err(persistErr).Str("user_id", s.userID).Msg("failed to persist rotated mailbox tokens")
		}
	}
	return err
}
