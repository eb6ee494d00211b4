package ports

import (
	"context"

	"github.com/lexhaven/clientdesk/internal/core/domain"
)

// Recipient is a resolved newsletter target.
type Recipient struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name,omitempty"`
	Email       string `json:"email"`
}

// NewsletterSendInput carries the dispatch request. When ClientIDs is empty,
// all active clients of the actor's firm with an email address are selected.
type NewsletterSendInput struct {
	Subject   string
	Content   string // HTML template with {firstName} {lastName} {name} {companyName} tokens
	ClientIDs []string
}

// RecipientResult is the per-recipient accounting entry in a dispatch summary.
type RecipientResult struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"` // "sent" | "failed"
	Error  string `json:"error,omitempty"`
}

// NewsletterSummary reports the outcome of a dispatch run. Success is true
// iff at least one send succeeded.
type NewsletterSummary struct {
	RunID   string            `json:"run_id"`
	Total   int               `json:"total"`
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Success bool              `json:"success"`
	Details []RecipientResult `json:"details"`
}

// NewsletterService selects recipients and drives best-effort batched delivery.
type NewsletterService interface {
	// Recipients resolves the target list without sending anything.
	Recipients(ctx context.Context, actor domain.Actor, clientIDs []string) ([]Recipient, error)
	// Send dispatches the newsletter in fixed-size batches with per-recipient
	// failure accounting. Per-recipient errors never abort the run.
	Send(ctx context.Context, actor domain.Actor, input NewsletterSendInput) (*NewsletterSummary, error)
}
