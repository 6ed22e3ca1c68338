package memdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pota_dashboard/internal/domain/user"
)

var ErrUserNotFound = fmt.Errorf("user not found")

// UserRepository is a session-scoped in-memory implementation of
// user.Repository. All state is lost when the process exits.
type UserRepository struct {
	mu    sync.RWMutex
	table map[string]*user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{table: make(map[string]*user.User)}
}

// add is used by the seeder; users are immutable afterwards.
func (r *UserRepository) add(u *user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.table[u.ID] = &cp
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.table[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.table {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *UserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*user.User, 0, len(r.table))
	for _, u := range r.table {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
