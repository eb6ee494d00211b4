package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lexhaven/clientdesk/internal/api/metrics"
	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

const (
	defaultPageLimit   = 10
	maxPageLimit       = 100
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// StatsCache abstracts the firm-stats cache (Redis). A nil result with a nil
// error is a cache miss.
type StatsCache interface {
	Get(ctx context.Context, lawFirmID string) (*ports.FirmStats, error)
	Set(ctx context.Context, lawFirmID string, stats *ports.FirmStats) error
	Invalidate(ctx context.Context, lawFirmID string) error
}

type ClientService struct {
	repo  ports.ClientRepository
	cache StatsCache
	log   zerolog.Logger
}

// NewClientService returns the firm-scoped client directory. cache may be nil
// when no Redis instance is available.
func NewClientService(repo ports.ClientRepository, cache StatsCache, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, cache: cache, log: log}
}

// Create registers a new client for the actor's firm. The duplicate-email
// pre-check is a fast path only; the store's unique index is the real
// guarantee, and its violation maps to the same ErrDuplicateEmail.
func (s *ClientService) Create(ctx context.Context, actor domain.Actor, input ports.CreateClientInput) (*domain.Client, error) {
	if strings.TrimSpace(input.FirstName) == "" ||
		strings.TrimSpace(input.LastName) == "" ||
		strings.TrimSpace(input.PhoneNumber) == "" {
		return nil, fmt.Errorf("%w: first name, last name and phone number are required", domain.ErrValidation)
	}

	clientType := domain.ClientType(input.ClientType)
	if clientType == "" {
		clientType = domain.TypeIndividual
	}
	if clientType != domain.TypeIndividual && clientType != domain.TypeCorporate {
		return nil, fmt.Errorf("%w: unknown client type %q", domain.ErrValidation, input.ClientType)
	}

	status := domain.ClientStatus(input.Status)
	if status == "" {
		status = domain.StatusActive
	}
	if status != domain.StatusActive && status != domain.StatusInactive && status != domain.StatusSuspended {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
	}

	email := domain.NormalizeEmail(input.Email)
	if email != "" {
		if !domain.ValidEmail(email) {
			return nil, fmt.Errorf("%w: malformed email address", domain.ErrValidation)
		}
		n, err := s.repo.CountByEmail(ctx, actor.LawFirmID, email, "")
		if err != nil {
			return nil, fmt.Errorf("create client: email pre-check: %w", err)
		}
		if n > 0 {
			metrics.DuplicateEmailTotal.WithLabelValues("create").Inc()
			return nil, domain.ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	client := &domain.Client{
		LawFirmID:          actor.LawFirmID,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		CompanyName:        input.CompanyName,
		RegistrationNumber: input.RegistrationNumber,
		IDNumber:           input.IDNumber,
		PhoneNumber:        strings.TrimSpace(input.PhoneNumber),
		Email:              email,
		ClientType:         clientType,
		Status:             status,
		Address:            input.Address,
		DateOfBirth:        input.DateOfBirth,
		PreferredDeptID:    input.PreferredDeptID,
		Notes:              input.Notes,
		EmergencyContact:   input.EmergencyContact,
		Tags:               input.Tags,
		ProfileImage:       input.ProfileImage,
		CreatedBy:          actor.UserID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	client.Normalize()

	created, err := s.repo.Insert(ctx, client)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, actor.LawFirmID)
	metrics.ClientsCreatedTotal.WithLabelValues(string(created.ClientType)).Inc()
	s.log.Info().
		Str("client_id", created.ID).
		Str("law_firm_id", actor.LawFirmID).
		Str("client_type", string(created.ClientType)).
		Msg("client created")

	return created, nil
}

// List returns a firm-scoped page of clients. Status defaults to active;
// "all" disables the status filter entirely.
func (s *ClientService) List(ctx context.Context, actor domain.Actor, input ports.ListClientsInput) (*ports.ListClientsResult, error) {
	status := input.Status
	if status == "" {
		status = string(domain.StatusActive)
	}
	if status == "all" {
		status = ""
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := ports.ListClientsFilter{
		LawFirmID:    actor.LawFirmID,
		Status:       status,
		ClientType:   input.ClientType,
		DepartmentID: input.DepartmentID,
		Search:       strings.TrimSpace(input.Search),
		SortBy:       sortField(input.SortBy),
		SortAsc:      strings.EqualFold(input.SortOrder, "asc"),
		Page:         page,
		Limit:        limit,
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	return &ports.ListClientsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// Get fetches one client and verifies the record belongs to the actor's firm
// before returning it.
func (s *ClientService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.LawFirmID != actor.LawFirmID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

// Update applies a partial update after the same id/tenancy checks as Get.
// Changing the email to a value already held by another client of the firm
// fails with ErrDuplicateEmail; a blank email patch clears the field.
func (s *ClientService) Update(ctx context.Context, actor domain.Actor, id string, patch ports.ClientPatch) (*domain.Client, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return nil, fmt.Errorf("%w: first name cannot be blank", domain.ErrValidation)
		}
		*patch.FirstName = domain.TitleCase(*patch.FirstName)
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return nil, fmt.Errorf("%w: last name cannot be blank", domain.ErrValidation)
		}
		*patch.LastName = domain.TitleCase(*patch.LastName)
	}
	if patch.PhoneNumber != nil && strings.TrimSpace(*patch.PhoneNumber) == "" {
		return nil, fmt.Errorf("%w: phone number cannot be blank", domain.ErrValidation)
	}
	if patch.CompanyName != nil && *patch.CompanyName != "" {
		*patch.CompanyName = domain.TitleCase(*patch.CompanyName)
	}
	if patch.ClientType != nil {
		ct := domain.ClientType(*patch.ClientType)
		if ct != domain.TypeIndividual && ct != domain.TypeCorporate {
			return nil, fmt.Errorf("%w: unknown client type %q", domain.ErrValidation, *patch.ClientType)
		}
	}
	if patch.Status != nil {
		st := domain.ClientStatus(*patch.Status)
		if st != domain.StatusActive && st != domain.StatusInactive && st != domain.StatusSuspended {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, *patch.Status)
		}
	}

	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email != "" {
			if !domain.ValidEmail(email) {
				return nil, fmt.Errorf("%w: malformed email address", domain.ErrValidation)
			}
			if email != current.Email {
				n, err := s.repo.CountByEmail(ctx, actor.LawFirmID, email, id)
				if err != nil {
					return nil, fmt.Errorf("update client: email pre-check: %w", err)
				}
				if n > 0 {
					metrics.DuplicateEmailTotal.WithLabelValues("update").Inc()
					return nil, domain.ErrDuplicateEmail
				}
			}
		}
		*patch.Email = email
	}

	patch.UpdatedBy = actor.UserID

	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.invalidateStats(ctx, actor.LawFirmID)
	s.log.Info().Str("client_id", id).Str("law_firm_id", actor.LawFirmID).Msg("client updated")
	return updated, nil
}

// Delete removes a client permanently. Deletion is refused while the
// denormalized case counters show live cases; the long-term referential
// policy is still an open product decision, so failing is the safe interim.
func (s *ClientService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	client, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if client.CaseStats.Total > 0 {
		return domain.ErrClientHasCases
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	s.invalidateStats(ctx, actor.LawFirmID)
	metrics.ClientsDeletedTotal.Inc()
	s.log.Info().Str("client_id", id).Str("law_firm_id", actor.LawFirmID).Msg("client deleted")
	return nil
}

// Stats returns the firm aggregate, served from cache when fresh.
func (s *ClientService) Stats(ctx context.Context, actor domain.Actor) (*ports.FirmStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, actor.LawFirmID)
		if err != nil {
			s.log.Warn().Err(err).Str("law_firm_id", actor.LawFirmID).Msg("stats cache read failed")
		} else if cached != nil {
			metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
	}

	stats, err := s.repo.Stats(ctx, actor.LawFirmID)
	if err != nil {
		return nil, fmt.Errorf("firm stats: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, actor.LawFirmID, stats); err != nil {
			s.log.Warn().Err(err).Str("law_firm_id", actor.LawFirmID).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// Search is the typeahead lookup over active clients of the actor's firm,
// sorted by first then last name. The query must contain at least two
// non-space characters.
func (s *ClientService) Search(ctx context.Context, actor domain.Actor, query string, limit int) ([]ports.SearchHit, error) {
	q := strings.TrimSpace(query)
	if len(strings.ReplaceAll(q, " ", "")) < 2 {
		return nil, domain.ErrSearchQueryTooShort
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	items, _, err := s.repo.List(ctx, ports.ListClientsFilter{
		LawFirmID: actor.LawFirmID,
		Status:    string(domain.StatusActive),
		Search:    q,
		SortBy:    "name",
		SortAsc:   true,
		Page:      1,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}

	hits := make([]ports.SearchHit, 0, len(items))
	for _, c := range items {
		hits = append(hits, ports.SearchHit{
			ID:          c.ID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			CompanyName: c.CompanyName,
			Email:       c.Email,
			PhoneNumber: c.PhoneNumber,
		})
	}
	return hits, nil
}

func (s *ClientService) invalidateStats(ctx context.Context, lawFirmID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, lawFirmID); err != nil {
		s.log.Warn().Err(err).Str("law_firm_id", lawFirmID).Msg("stats cache invalidation failed")
	}
}

// sortField whitelists client-supplied sort fields to actual document fields.
func sortField(s string) string {
	switch s {
	case "first_name", "last_name", "email", "status", "client_type", "created_at", "updated_at":
		return s
	case "":
		return "created_at"
	default:
		return "created_at"
	}
}
