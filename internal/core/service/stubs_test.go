package service

import (
	"context"
	"sort"
	"sync"

	"github.com/openbiz/directory-api/internal/core/domain"
	"github.com/openbiz/directory-api/internal/core/ports"
)

// memUserRepo is an in-memory ports.UserRepository. When businesses is set,
// Delete cascades to it the way the mongo transaction does.
type memUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	businesses *memBusinessRepo
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	if r.businesses != nil {
		r.businesses.deleteByOwner(id)
	}
	return nil
}

// memBusinessRepo is an in-memory ports.BusinessRepository with the same
// (created_at desc, id desc) ordering as the mongo implementation.
type memBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*domain.Business
}

func newMemBusinessRepo() *memBusinessRepo {
	return &memBusinessRepo{businesses: make(map[string]*domain.Business)}
}

func cloneBusiness(b *domain.Business) *domain.Business {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

func (r *memBusinessRepo) Create(_ context.Context, b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.businesses[b.ID] = cloneBusiness(b)
	return nil
}

func (r *memBusinessRepo) FindByID(_ context.Context, id string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.businesses[id]; ok {
		return cloneBusiness(b), nil
	}
	return nil, domain.ErrBusinessNotFound
}

func (r *memBusinessRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Business{}
	for _, b := range r.sorted() {
		if b.OwnerID == ownerID {
			out = append(out, cloneBusiness(b))
		}
	}
	return out, nil
}

func (r *memBusinessRepo) ListAfter(_ context.Context, after *ports.PageKey, limit int) ([]*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Business{}
	for _, b := range r.sorted() {
		if after != nil {
			beforeAnchor := b.CreatedAt.Before(after.CreatedAt) ||
				(b.CreatedAt.Equal(after.CreatedAt) && b.ID < after.ID)
			if !beforeAnchor {
				continue
			}
		}
		out = append(out, cloneBusiness(b))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memBusinessRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.businesses)), nil
}

func (r *memBusinessRepo) Update(_ context.Context, b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[b.ID]; !ok {
		return domain.ErrBusinessNotFound
	}
	r.businesses[b.ID] = cloneBusiness(b)
	return nil
}

func (r *memBusinessRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.businesses[id]; !ok {
		return domain.ErrBusinessNotFound
	}
	delete(r.businesses, id)
	return nil
}

func (r *memBusinessRepo) deleteByOwner(ownerID string) {
	for id, b := range r.businesses {
		if b.OwnerID == ownerID {
			delete(r.businesses, id)
		}
	}
}

// sorted returns businesses ordered by (created_at desc, id desc).
func (r *memBusinessRepo) sorted() []*domain.Business {
	out := make([]*domain.Business, 0, len(r.businesses))
	for _, b := range r.businesses {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// recordingAudit captures emitted audit entries.
type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) Record(e domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAudit) byAction(action string) []domain.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []domain.AuditEntry{}
	for _, e := range a.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// stubLimiter answers every Allow call with a fixed verdict.
type stubLimiter struct {
	allow bool
	err   error
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) {
	return l.allow, l.err
}
