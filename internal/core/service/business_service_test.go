package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

func newTestBusinessService() (*BusinessService, *memBusinessRepo, *memUserRepo) {
	businesses := newMemBusinessRepo()
	users := newMemUserRepo()
	return NewBusinessService(businesses, users, nil, zerolog.Nop()), businesses, users
}

func seedBusiness(t *testing.T, repo *memBusinessRepo, id, ownerID string, createdAt time.Time) {
	t.Helper()
	if err := repo.Create(context.Background(), &domain.Business{
		ID:        id,
		Name:      "biz " + id,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}); err != nil {
		t.Fatalf("seed business: %v", err)
	}
}

func TestBusinessService_Create_RequiresExistingOwner(t *testing.T) {
	svc, _, users := newTestBusinessService()
	seedUser(t, users, "u1", "alice", "a@x.com")

	b, err := svc.Create(context.Background(), &domain.Identity{ID: "u1", Role: domain.RoleUser},
		ports.CreateBusinessInput{Name: "Cafe", Description: "coffee"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.OwnerID != "u1" {
		t.Fatalf("owner not set: %+v", b)
	}
	if b.Photos == nil {
		t.Fatalf("photos must default to an empty slice")
	}

	if _, err := svc.Create(context.Background(), &domain.Identity{ID: "ghost", Role: domain.RoleUser},
		ports.CreateBusinessInput{Name: "X", Description: "y"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for missing owner, got %v", err)
	}

	if _, err := svc.Create(context.Background(), nil,
		ports.CreateBusinessInput{Name: "X", Description: "y"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// Walking the cursor chain over 5 records with take=2 must return every
// record exactly once and finish with a nil cursor, while totalCount stays 5.
func TestBusinessService_FindAll_CursorChain(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedBusiness(t, repo, fmt.Sprintf("b%d", i), "u1", base.Add(time.Duration(i)*time.Minute))
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		page, err := svc.FindAll(context.Background(), ports.PageInput{Take: 2, Cursor: cursor})
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		if page.TotalCount != 5 {
			t.Fatalf("totalCount = %d, want 5", page.TotalCount)
		}
		for _, n := range page.Nodes {
			if seen[n.ID] {
				t.Fatalf("record %s returned twice", n.ID)
			}
			seen[n.ID] = true
		}
		pages++
		if page.NextCursor == nil {
			if len(page.Nodes) != 1 {
				t.Fatalf("final page should hold the leftover record, got %d", len(page.Nodes))
			}
			break
		}
		if len(page.Nodes) != 2 {
			t.Fatalf("full page should hold 2 records, got %d", len(page.Nodes))
		}
		cursor = *page.NextCursor
	}

	if pages != 3 || len(seen) != 5 {
		t.Fatalf("expected 3 pages covering 5 records, got %d pages covering %d", pages, len(seen))
	}
}

func TestBusinessService_FindAll_NewestFirst(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedBusiness(t, repo, "old", "u1", base)
	seedBusiness(t, repo, "new", "u1", base.Add(time.Hour))

	page, err := svc.FindAll(context.Background(), ports.PageInput{Take: 10})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if page.Nodes[0].ID != "new" || page.Nodes[1].ID != "old" {
		t.Fatalf("expected newest first, got %s then %s", page.Nodes[0].ID, page.Nodes[1].ID)
	}
	if page.NextCursor != nil {
		t.Fatalf("expected nil cursor on a single page")
	}
}

// Identical creation timestamps still produce a total order via the id
// tie-break, so a cursor walk neither skips nor repeats records.
func TestBusinessService_FindAll_TimestampCollision(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"a", "b", "c", "d"} {
		seedBusiness(t, repo, id, "u1", at)
	}

	seen := map[string]bool{}
	cursor := ""
	for {
		page, err := svc.FindAll(context.Background(), ports.PageInput{Take: 3, Cursor: cursor})
		if err != nil {
			t.Fatalf("find all: %v", err)
		}
		for _, n := range page.Nodes {
			if seen[n.ID] {
				t.Fatalf("record %s returned twice", n.ID)
			}
			seen[n.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 distinct records, got %d", len(seen))
	}
}

func TestBusinessService_FindAll_DefaultsTake(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedBusiness(t, repo, fmt.Sprintf("b%02d", i), "u1", base.Add(time.Duration(i)*time.Second))
	}

	page, err := svc.FindAll(context.Background(), ports.PageInput{})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(page.Nodes) != ports.DefaultPageSize {
		t.Fatalf("expected default page size %d, got %d", ports.DefaultPageSize, len(page.Nodes))
	}
	if page.NextCursor == nil {
		t.Fatalf("expected a next cursor with 12 records")
	}
}

func TestBusinessService_FindAll_UnknownCursor(t *testing.T) {
	svc, _, _ := newTestBusinessService()

	if _, err := svc.FindAll(context.Background(), ports.PageInput{Take: 2, Cursor: "ghost"}); !errors.Is(err, domain.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound for unknown cursor, got %v", err)
	}
}

func TestBusinessService_Update_MissingBeforeForbidden(t *testing.T) {
	svc, _, _ := newTestBusinessService()

	_, err := svc.Update(context.Background(), &domain.Identity{ID: "u2", Role: domain.RoleUser},
		ports.UpdateBusinessInput{ID: "missing", Name: strptr("X")})
	if !errors.Is(err, domain.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}

func TestBusinessService_Update_OwnershipMatrix(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	seedBusiness(t, repo, "b1", "u1", time.Now().UTC())

	cases := []struct {
		name    string
		caller  *domain.Identity
		wantErr error
	}{
		{"owner", &domain.Identity{ID: "u1", Role: domain.RoleUser}, nil},
		{"admin", &domain.Identity{ID: "root", Role: domain.RoleAdmin}, nil},
		{"other user", &domain.Identity{ID: "u2", Role: domain.RoleUser}, domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tc.caller, ports.UpdateBusinessInput{ID: "b1", Name: strptr("renamed")})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestBusinessService_Update_Partial(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	now := time.Now().UTC()
	if err := repo.Create(context.Background(), &domain.Business{
		ID:          "b1",
		Name:        "Cafe",
		Description: "coffee",
		OwnerID:     "u1",
		ContactInfo: map[string]any{"email": "cafe@x.com"},
		Photos:      []string{"p1.jpg"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Update(context.Background(), &domain.Identity{ID: "u1", Role: domain.RoleUser},
		ports.UpdateBusinessInput{ID: "b1", Description: strptr("espresso bar")})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Description != "espresso bar" {
		t.Fatalf("description not applied")
	}
	if updated.Name != "Cafe" || updated.ContactInfo["email"] != "cafe@x.com" || len(updated.Photos) != 1 {
		t.Fatalf("absent fields must stay untouched: %+v", updated)
	}
}

func TestBusinessService_Remove(t *testing.T) {
	svc, repo, _ := newTestBusinessService()
	seedBusiness(t, repo, "b1", "u1", time.Now().UTC())

	if err := svc.Remove(context.Background(), &domain.Identity{ID: "u2", Role: domain.RoleUser}, "b1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Remove(context.Background(), &domain.Identity{ID: "u1", Role: domain.RoleUser}, "b1"); err != nil {
		t.Fatalf("owner remove failed: %v", err)
	}
	if err := svc.Remove(context.Background(), &domain.Identity{ID: "u1", Role: domain.RoleUser}, "b1"); !errors.Is(err, domain.ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound after delete, got %v", err)
	}
}

func TestBusinessService_AuditsDenials(t *testing.T) {
	businesses := newMemBusinessRepo()
	users := newMemUserRepo()
	audit := &recordingAudit{}
	svc := NewBusinessService(businesses, users, audit, zerolog.Nop())
	seedBusiness(t, businesses, "b1", "u1", time.Now().UTC())

	_, _ = svc.Update(context.Background(), &domain.Identity{ID: "u2", Role: domain.RoleUser},
		ports.UpdateBusinessInput{ID: "b1", Name: strptr("X")})

	denials := audit.byAction(domain.AuditUpdateBusiness)
	if len(denials) != 1 || denials[0].Decision != "deny" {
		t.Fatalf("expected one deny audit entry, got %+v", denials)
	}
}
