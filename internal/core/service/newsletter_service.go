package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lexhaven/clientdesk/internal/api/metrics"
	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
	"github.com/lexhaven/clientdesk/internal/pkg/htmlutil"
)

const (
	// batchSize caps how many sends are in flight at once; the provider's
	// rate limits are the constraint, not local throughput.
	batchSize = 10
	// defaultBatchPause separates consecutive batches.
	defaultBatchPause = time.Second
	// namePlaceholder substitutes {name} when a recipient has no usable name.
	namePlaceholder = "Valued Client"
)

type NewsletterService struct {
	clients  ports.ClientRepository
	resolver ports.SenderResolver
	pause    time.Duration
	sleep    func(time.Duration)
	log      zerolog.Logger
}

// NewNewsletterService returns the batched newsletter dispatcher. A pause of
// zero or less falls back to the default one-second inter-batch delay.
func NewNewsletterService(clients ports.ClientRepository, resolver ports.SenderResolver, pause time.Duration, log zerolog.Logger) *NewsletterService {
	if pause <= 0 {
		pause = defaultBatchPause
	}
	return &NewsletterService{clients: clients, resolver: resolver, pause: pause, sleep: time.Sleep, log: log}
}

// Recipients resolves the dispatch targets. Explicit ids are looked up scoped
// to the actor's firm with status unfiltered; otherwise all active clients of
// the firm are selected. Either way, clients without an email are dropped.
func (s *NewsletterService) Recipients(ctx context.Context, actor domain.Actor, clientIDs []string) ([]ports.Recipient, error) {
	var (
		clients []*domain.Client
		err     error
	)
	if len(clientIDs) > 0 {
		clients, err = s.clients.FindByIDs(ctx, actor.LawFirmID, clientIDs)
	} else {
		clients, _, err = s.clients.List(ctx, ports.ListClientsFilter{
			LawFirmID: actor.LawFirmID,
			Status:    string(domain.StatusActive),
			HasEmail:  true,
		})
	}
	if err != nil {
		return nil, err
	}

	recipients := make([]ports.Recipient, 0, len(clients))
	for _, c := range clients {
		if strings.TrimSpace(c.Email) == "" {
			continue
		}
		recipients = append(recipients, ports.Recipient{
			ID:          c.ID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			CompanyName: c.CompanyName,
			Email:       c.Email,
		})
	}
	return recipients, nil
}

// Send dispatches the newsletter in batches of batchSize. Sends within a
// batch run concurrently; the next batch starts only after the previous one
// fully completes and the inter-batch pause has elapsed, so at most batchSize
// requests are ever in flight. A failed recipient never aborts the batch or
// the run; failures surface only in the summary.
func (s *NewsletterService) Send(ctx context.Context, actor domain.Actor, input ports.NewsletterSendInput) (*ports.NewsletterSummary, error) {
	if strings.TrimSpace(input.Subject) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrMissingFields
	}

	recipients, err := s.Recipients(ctx, actor, input.ClientIDs)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, domain.ErrNoRecipients
	}

	sender, err := s.resolver.SenderFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	details := make([]ports.RecipientResult, len(recipients))

	s.log.Info().
		Str("run_id", runID).
		Str("law_firm_id", actor.LawFirmID).
		Int("recipients", len(recipients)).
		Msg("newsletter dispatch started")

	for start := 0; start < len(recipients); start += batchSize {
		end := start + batchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		batchStart := time.Now()
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r := recipients[i]
				htmlBody := personalize(input.Content, r)
				textBody := htmlutil.StripTags(htmlBody)
				subject := personalize(input.Subject, r)

				if err := sender.Send(ctx, r.Email, subject, htmlBody, textBody); err != nil {
					s.log.Warn().Err(err).Str("run_id", runID).Str("email", r.Email).Msg("newsletter send failed")
					details[i] = ports.RecipientResult{
						Name:   recipientName(r),
						Email:  r.Email,
						Status: "failed",
						Error:  err.Error(),
					}
					metrics.NewsletterRecipientsTotal.WithLabelValues("failed").Inc()
					return
				}
				details[i] = ports.RecipientResult{
					Name:   recipientName(r),
					Email:  r.Email,
					Status: "sent",
				}
				metrics.NewsletterRecipientsTotal.WithLabelValues("sent").Inc()
			}(i)
		}
		wg.Wait()
		metrics.NewsletterBatchDuration.Observe(time.Since(batchStart).Seconds())

		if end < len(recipients) {
			s.sleep(s.pause)
		}
	}

	summary := &ports.NewsletterSummary{
		RunID:   runID,
		Total:   len(recipients),
		Details: details,
	}
	for _, d := range details {
		if d.Status == "sent" {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}
	summary.Success = summary.Sent > 0

	result := "failure"
	if summary.Success {
		result = "success"
	}
	metrics.NewsletterRunsTotal.WithLabelValues(result).Inc()

	s.log.Info().
		Str("run_id", runID).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("newsletter dispatch finished")

	return summary, nil
}

// personalize substitutes the per-recipient template tokens. Unknown tokens
// are left untouched; known tokens with blank values render as empty strings.
func personalize(template string, r ports.Recipient) string {
	return strings.NewReplacer(
		"{firstName}", r.FirstName,
		"{lastName}", r.LastName,
		"{name}", recipientName(r),
		"{companyName}", r.CompanyName,
	).Replace(template)
}

func recipientName(r ports.Recipient) string {
	name := strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
	if name == "" {
		return namePlaceholder
	}
	return name
}
