package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lexhaven/clientdesk/internal/core/domain"
	"github.com/lexhaven/clientdesk/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubClientRepo struct {
	byID    map[string]*domain.Client
	nextID  int
	listErr error // if set, List returns this error
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{byID: make(map[string]*domain.Client)}
}

func cloneClient(c *domain.Client) *domain.Client {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

func (r *stubClientRepo) Insert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	// Mirrors the partial unique index: only records WITH an email collide.
	if c.Email != "" {
		for _, existing := range r.byID {
			if existing.LawFirmID == c.LawFirmID && existing.Email == c.Email {
				return nil, domain.ErrDuplicateEmail
			}
		}
	}
	r.nextID++
	stored := cloneClient(c)
	stored.ID = fmt.Sprintf("client_%d", r.nextID)
	r.byID[stored.ID] = stored
	return cloneClient(stored), nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id string) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return cloneClient(c), nil
}

func (r *stubClientRepo) FindByIDs(_ context.Context, lawFirmID string, ids []string) ([]*domain.Client, error) {
	var out []*domain.Client
	for _, id := range ids {
		if c, ok := r.byID[id]; ok && c.LawFirmID == lawFirmID {
			out = append(out, cloneClient(c))
		}
	}
	return out, nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubClientRepo) List(_ context.Context, f ports.ListClientsFilter) ([]*domain.Client, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}

	var matched []*domain.Client
	for _, c := range r.byID {
		if c.LawFirmID != f.LawFirmID {
			continue
		}
		if f.Status != "" && string(c.Status) != f.Status {
			continue
		}
		if f.ClientType != "" && string(c.ClientType) != f.ClientType {
			continue
		}
		if f.DepartmentID != "" && c.PreferredDeptID != f.DepartmentID {
			continue
		}
		if f.HasEmail && c.Email == "" {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			haystack := strings.ToLower(strings.Join([]string{
				c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.CompanyName, c.IDNumber,
			}, " "))
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		matched = append(matched, cloneClient(c))
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))

	limit := f.Limit
	if limit <= 0 {
		return matched, total, nil
	}
	skip := (f.Page - 1) * limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Client{}, total, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubClientRepo) UpdateByID(_ context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.CompanyName != nil {
		c.CompanyName = *patch.CompanyName
	}
	if patch.PhoneNumber != nil {
		c.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Status != nil {
		c.Status = domain.ClientStatus(*patch.Status)
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}
	c.UpdatedBy = patch.UpdatedBy
	return cloneClient(c), nil
}

func (r *stubClientRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrClientNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubClientRepo) CountByEmail(_ context.Context, lawFirmID, email, excludeID string) (int64, error) {
	var n int64
	for id, c := range r.byID {
		if c.LawFirmID == lawFirmID && c.Email == email && id != excludeID {
			n++
		}
	}
	return n, nil
}

func (r *stubClientRepo) Stats(_ context.Context, lawFirmID string) (*ports.FirmStats, error) {
	stats := &ports.FirmStats{}
	for _, c := range r.byID {
		if c.LawFirmID != lawFirmID {
			continue
		}
		stats.Total++
		switch c.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusInactive:
			stats.Inactive++
		}
		switch c.ClientType {
		case domain.TypeIndividual:
			stats.Individual++
		case domain.TypeCorporate:
			stats.Corporate++
		}
	}
	return stats, nil
}

func (r *stubClientRepo) EnsureIndexes(_ context.Context) error { return nil }

// ---------------------------------------------------------------------------
// In-memory stub stats cache
// ---------------------------------------------------------------------------

type stubStatsCache struct {
	entries     map[string]*ports.FirmStats
	gets, sets  int
	invalidates int
}

func newStubStatsCache() *stubStatsCache {
	return &stubStatsCache{entries: make(map[string]*ports.FirmStats)}
}

func (c *stubStatsCache) Get(_ context.Context, lawFirmID string) (*ports.FirmStats, error) {
	c.gets++
	return c.entries[lawFirmID], nil
}

func (c *stubStatsCache) Set(_ context.Context, lawFirmID string, stats *ports.FirmStats) error {
	c.sets++
	c.entries[lawFirmID] = stats
	return nil
}

func (c *stubStatsCache) Invalidate(_ context.Context, lawFirmID string) error {
	c.invalidates++
	delete(c.entries, lawFirmID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func firmActor(firm string) domain.Actor {
	return domain.Actor{UserID: "user_1", Role: domain.RoleStaff, LawFirmID: firm}
}

func minimalClientInput(email string) ports.CreateClientInput {
	return ports.CreateClientInput{
		FirstName:   "maria",
		LastName:    "lopez",
		PhoneNumber: "+34 600 000 000",
		Email:       email,
	}
}

func newTestClientService(repo *stubClientRepo) *ClientService {
	return NewClientService(repo, nil, discardLogger)
}

// ---------------------------------------------------------------------------
// Create tests
// ---------------------------------------------------------------------------

func TestClientService_Create_Success(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("Maria@Example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
	if created.LawFirmID != "firm_1" {
		t.Errorf("law firm must come from the actor, got %q", created.LawFirmID)
	}
	if created.FirstName != "Maria" || created.LastName != "Lopez" {
		t.Errorf("names must be title-cased, got %q %q", created.FirstName, created.LastName)
	}
	if created.Email != "maria@example.com" {
		t.Errorf("email must be lowercased, got %q", created.Email)
	}
	if created.ClientType != domain.TypeIndividual {
		t.Errorf("client type must default to individual, got %q", created.ClientType)
	}
	if created.Status != domain.StatusActive {
		t.Errorf("status must default to active, got %q", created.Status)
	}
	if created.CreatedBy != "user_1" {
		t.Errorf("created_by must be stamped from the actor, got %q", created.CreatedBy)
	}
}

func TestClientService_Create_MissingRequiredFields(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	cases := []struct {
		name  string
		input ports.CreateClientInput
	}{
		{"no first name", ports.CreateClientInput{LastName: "Lopez", PhoneNumber: "+34"}},
		{"no last name", ports.CreateClientInput{FirstName: "Maria", PhoneNumber: "+34"}},
		{"no phone", ports.CreateClientInput{FirstName: "Maria", LastName: "Lopez"}},
		{"whitespace only", ports.CreateClientInput{FirstName: "  ", LastName: "Lopez", PhoneNumber: "+34"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), firmActor("firm_1"), tc.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestClientService_Create_UnknownTypeAndStatus(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	input := minimalClientInput("")
	input.ClientType = "trust"
	if _, err := svc.Create(context.Background(), firmActor("firm_1"), input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown type, got %v", err)
	}

	input = minimalClientInput("")
	input.Status = "archived"
	if _, err := svc.Create(context.Background(), firmActor("firm_1"), input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestClientService_Create_DuplicateEmailSameFirm(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	if _, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("dup@example.com")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("DUP@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestClientService_Create_SameEmailDifferentFirms(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	if _, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("shared@example.com")); err != nil {
		t.Fatalf("firm_1 create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), firmActor("firm_2"), minimalClientInput("shared@example.com")); err != nil {
		t.Fatalf("same email under another firm must succeed, got %v", err)
	}
}

func TestClientService_Create_ManyClientsWithoutEmail(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("")); err != nil {
			t.Fatalf("email-less create %d failed: %v", i, err)
		}
	}
	if len(repo.byID) != 3 {
		t.Errorf("expected 3 stored clients, got %d", len(repo.byID))
	}
}

func TestClientService_Create_MalformedEmail(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	_, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("not-an-email"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func seedClients(t *testing.T, svc *ClientService, firm string, n int, status string) {
	t.Helper()
	for i := 0; i < n; i++ {
		input := minimalClientInput("")
		input.FirstName = fmt.Sprintf("Client%02d", i)
		input.Status = status
		if _, err := svc.Create(context.Background(), firmActor(firm), input); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
}

func TestClientService_List_DefaultsToActive(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)
	seedClients(t, svc, "firm_1", 2, "active")
	seedClients(t, svc, "firm_1", 3, "inactive")

	result, err := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("default list must only see active clients: total=%d", result.Total)
	}
}

func TestClientService_List_StatusAllDisablesFilter(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)
	seedClients(t, svc, "firm_1", 2, "active")
	seedClients(t, svc, "firm_1", 3, "inactive")

	result, err := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{Status: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 5 {
		t.Errorf("status=all must see every client: total=%d", result.Total)
	}
}

func TestClientService_List_CeilPagination(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)
	seedClients(t, svc, "firm_1", 23, "active")

	result, err := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalPages != 3 {
		t.Errorf("23 records at limit 10 must yield 3 pages, got %d", result.TotalPages)
	}
	if len(result.Items) != 10 {
		t.Errorf("expected 10 items on page 1, got %d", len(result.Items))
	}

	last, _ := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{Page: 3, Limit: 10})
	if len(last.Items) != 3 {
		t.Errorf("expected 3 items on last page, got %d", len(last.Items))
	}

	beyond, _ := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{Page: 9, Limit: 10})
	if len(beyond.Items) != 0 {
		t.Errorf("beyond-last page must be empty, got %d items", len(beyond.Items))
	}
	if beyond.Total != 23 {
		t.Errorf("beyond-last page must keep the true total, got %d", beyond.Total)
	}
}

func TestClientService_List_NeverLeaksOtherFirms(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)
	seedClients(t, svc, "firm_1", 2, "active")
	seedClients(t, svc, "firm_2", 4, "active")

	result, err := svc.List(context.Background(), firmActor("firm_1"), ports.ListClientsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("firm_1 must only see its own 2 clients, got %d", result.Total)
	}
	for _, c := range result.Items {
		if c.LawFirmID != "firm_1" {
			t.Errorf("leaked record from firm %q", c.LawFirmID)
		}
	}
}

// ---------------------------------------------------------------------------
// Get / tenancy tests
// ---------------------------------------------------------------------------

func TestClientService_Get_CrossTenantForbidden(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.Get(context.Background(), firmActor("firm_2"), created.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for cross-tenant access, got %v", err)
	}
}

func TestClientService_Get_NotFound(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	_, err := svc.Get(context.Background(), firmActor("firm_1"), "missing")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update tests
// ---------------------------------------------------------------------------

func strPtr(s string) *string { return &s }

func TestClientService_Update_TitleCasesNames(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))

	updated, err := svc.Update(context.Background(), firmActor("firm_1"), created.ID, ports.ClientPatch{
		FirstName: strPtr("ANA SOFIA"),
		LastName:  strPtr("garcia"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "Ana Sofia" || updated.LastName != "Garcia" {
		t.Errorf("expected title-cased names, got %q %q", updated.FirstName, updated.LastName)
	}
	if updated.UpdatedBy != "user_1" {
		t.Errorf("updated_by must be stamped from the actor, got %q", updated.UpdatedBy)
	}
}

func TestClientService_Update_UnknownClientTypeAndStatus(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))

	_, err := svc.Update(context.Background(), firmActor("firm_1"), created.ID, ports.ClientPatch{
		ClientType: strPtr("alien"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown client type: expected ErrValidation, got %v", err)
	}

	_, err = svc.Update(context.Background(), firmActor("firm_1"), created.ID, ports.ClientPatch{
		Status: strPtr("archived"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown status: expected ErrValidation, got %v", err)
	}

	got, err := svc.Get(context.Background(), firmActor("firm_1"), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ClientType != domain.TypeIndividual || got.Status != domain.StatusActive {
		t.Errorf("rejected patches must not touch the record, got type %q status %q", got.ClientType, got.Status)
	}
}

func TestClientService_Update_EmailConflictWithOtherClient(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	_, _ = svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("taken@example.com"))
	target, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("free@example.com"))

	_, err := svc.Update(context.Background(), firmActor("firm_1"), target.ID, ports.ClientPatch{
		Email: strPtr("Taken@Example.com"),
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestClientService_Update_KeepingOwnEmailIsNotAConflict(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("mine@example.com"))

	updated, err := svc.Update(context.Background(), firmActor("firm_1"), created.ID, ports.ClientPatch{
		Email: strPtr("MINE@example.com"),
	})
	if err != nil {
		t.Fatalf("re-saving the client's own email must succeed, got %v", err)
	}
	if updated.Email != "mine@example.com" {
		t.Errorf("email must stay lowercased, got %q", updated.Email)
	}
}

func TestClientService_Update_BlankEmailClearsField(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("gone@example.com"))

	updated, err := svc.Update(context.Background(), firmActor("firm_1"), created.ID, ports.ClientPatch{
		Email: strPtr("  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Email != "" {
		t.Errorf("blank email patch must clear the field, got %q", updated.Email)
	}
}

func TestClientService_Update_CrossTenantForbidden(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))

	_, err := svc.Update(context.Background(), firmActor("firm_2"), created.ID, ports.ClientPatch{
		Notes: strPtr("sneaky"),
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Delete tests
// ---------------------------------------------------------------------------

func TestClientService_Delete_Success(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))

	if err := svc.Delete(context.Background(), firmActor("firm_1"), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID[created.ID]; ok {
		t.Error("client must be removed from the store")
	}
}

func TestClientService_Delete_RefusedWithLiveCases(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	created, _ := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput(""))
	repo.byID[created.ID].CaseStats = domain.CaseStats{Total: 2, Active: 1, Completed: 1}

	err := svc.Delete(context.Background(), firmActor("firm_1"), created.ID)
	if !errors.Is(err, domain.ErrClientHasCases) {
		t.Fatalf("expected ErrClientHasCases, got %v", err)
	}
	if _, ok := repo.byID[created.ID]; !ok {
		t.Error("client must not be deleted while cases exist")
	}
}

// ---------------------------------------------------------------------------
// Stats / cache tests
// ---------------------------------------------------------------------------

func TestClientService_Stats_CachesResult(t *testing.T) {
	repo := newStubClientRepo()
	cache := newStubStatsCache()
	svc := NewClientService(repo, cache, discardLogger)
	seedClients(t, svc, "firm_1", 3, "active")

	first, err := svc.Stats(context.Background(), firmActor("firm_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Total != 3 || first.Active != 3 {
		t.Errorf("unexpected stats: %+v", first)
	}
	if cache.sets != 1 {
		t.Errorf("expected one cache write, got %d", cache.sets)
	}

	// Second call must be served from cache.
	second, _ := svc.Stats(context.Background(), firmActor("firm_1"))
	if second.Total != 3 {
		t.Errorf("cached stats wrong: %+v", second)
	}
	if cache.sets != 1 {
		t.Errorf("cache hit must not write again, writes=%d", cache.sets)
	}
}

func TestClientService_Stats_InvalidatedOnWrite(t *testing.T) {
	repo := newStubClientRepo()
	cache := newStubStatsCache()
	svc := NewClientService(repo, cache, discardLogger)

	seedClients(t, svc, "firm_1", 1, "active")
	if _, err := svc.Stats(context.Background(), firmActor("firm_1")); err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	// A create write must drop the cached aggregate.
	if _, err := svc.Create(context.Background(), firmActor("firm_1"), minimalClientInput("")); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	stats, _ := svc.Stats(context.Background(), firmActor("firm_1"))
	if stats.Total != 2 {
		t.Errorf("stale stats after invalidation: %+v", stats)
	}
}

// ---------------------------------------------------------------------------
// Search tests
// ---------------------------------------------------------------------------

func TestClientService_Search_QueryTooShort(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	for _, q := range []string{"", "a", " a "} {
		if _, err := svc.Search(context.Background(), firmActor("firm_1"), q, 10); !errors.Is(err, domain.ErrSearchQueryTooShort) {
			t.Errorf("query %q: expected ErrSearchQueryTooShort, got %v", q, err)
		}
	}

	// Two non-space characters are enough, even when split by a space.
	for _, q := range []string{"ab", "a a"} {
		if _, err := svc.Search(context.Background(), firmActor("firm_1"), q, 10); err != nil {
			t.Errorf("query %q must be accepted, got %v", q, err)
		}
	}
}

func TestClientService_Search_OnlyActiveClients(t *testing.T) {
	repo := newStubClientRepo()
	svc := newTestClientService(repo)

	active := minimalClientInput("")
	active.FirstName = "findme"
	if _, err := svc.Create(context.Background(), firmActor("firm_1"), active); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inactive := minimalClientInput("")
	inactive.FirstName = "findme"
	inactive.Status = "inactive"
	if _, err := svc.Create(context.Background(), firmActor("firm_1"), inactive); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	hits, err := svc.Search(context.Background(), firmActor("firm_1"), "findme", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("search must only cover active clients, got %d hits", len(hits))
	}
	if hits[0].FirstName != "Findme" {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
}
