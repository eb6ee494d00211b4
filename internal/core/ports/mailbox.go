package ports

import (
	"context"
	"time"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// FetchOptions controls a mailbox listing call.
type FetchOptions struct {
	Query      string // provider query string, e.g. "is:unread"
	MaxResults int64  // capped at the provider maximum (500)
	PageToken  string
}

// MailMessage is a decoded mailbox message.
type MailMessage struct {
	ID           string    `json:"id"`
	ThreadID     string    `json:"thread_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Subject      string    `json:"subject"`
	Snippet      string    `json:"snippet"`
	Body         string    `json:"body"`      // plain text; falls back to tag-stripped HTML
	HTMLBody     string    `json:"html_body"` // HTML; falls back to the plain text
	InternalDate time.Time `json:"internal_date"`
	LabelIDs     []string  `json:"label_ids,omitempty"`
}

// FetchResult is a page of mailbox messages.
type FetchResult struct {
	Messages           []MailMessage `json:"messages"`
	NextPageToken      string        `json:"next_page_token,omitempty"`
	ResultSizeEstimate int64         `json:"result_size_estimate"`
}

// MailboxProfile identifies the connected mailbox.
type MailboxProfile struct {
	EmailAddress  string `json:"email_address"`
	MessagesTotal int64  `json:"messages_total"`
	ThreadsTotal  int64  `json:"threads_total"`
}

// MailboxGateway wraps the external OAuth2 mail provider. Implementations
// must be stateless with respect to credentials: every call receives the
// caller's persisted tokens and builds a request-scoped client, and any
// rotated token set is returned for the caller to persist — there is no
// process-wide "current credentials" state.
type MailboxGateway interface {
	// Configured reports whether OAuth app credentials were supplied at startup.
	Configured() bool
	// AuthURL returns the provider consent URL requesting read and send scopes,
	// forcing a fresh consent so a refresh token is always issued. The state
	// value is round-tripped by the provider and re-identifies the actor on
	// the callback, which arrives as a plain browser redirect.
	AuthURL(state string) (string, error)
	// ExchangeCode trades an authorization code for a token set.
	ExchangeCode(ctx context.Context, code string) (*domain.MailboxTokens, error)
	// FetchMessages lists and fully fetches messages matching opts. The second
	// return value carries rotated tokens, or nil when unchanged.
	FetchMessages(ctx context.Context, tokens *domain.MailboxTokens, opts FetchOptions) (*FetchResult, *domain.MailboxTokens, error)
	// Profile returns the connected mailbox's address; a provider error here is
	// how stale tokens are detected.
	Profile(ctx context.Context, tokens *domain.MailboxTokens) (*MailboxProfile, *domain.MailboxTokens, error)
	// Send delivers a single message through the connected mailbox.
	Send(ctx context.Context, tokens *domain.MailboxTokens, to, subject, htmlBody, textBody string) (*domain.MailboxTokens, error)
}

// MailSender is the minimal outbound-mail interface the newsletter dispatcher
// drives. Both the mailbox gateway (bound to a user's tokens) and the plain
// SMTP sender implement it.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// SenderResolver picks the outbound sender for an actor: the actor's connected
// mailbox when tokens are on file, otherwise the firm-wide fallback transport.
type SenderResolver interface {
	SenderFor(ctx context.Context, actor domain.Actor) (MailSender, error)
}
