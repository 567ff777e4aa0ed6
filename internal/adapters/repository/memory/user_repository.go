package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/tasukeai/shift-marketplace/internal/core/user"
)

// UserRepository はインメモリの職員名簿実装です。
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*user.User
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*user.User)}
}

// Create は職員を登録します。
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; ok {
		return nil, user.ErrUserAlreadyExists
	}
	stored := cloneUser(u)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

// Update は既存の職員情報を置き換えます。
func (r *UserRepository) Update(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return nil, user.ErrUserNotFound
	}
	stored := cloneUser(u)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

// FindByID は ID で職員を取得します。
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// List は職員の一覧を ID 順で返します。
func (r *UserRepository) List(ctx context.Context, filter user.ListUsersFilter) ([]*user.User, string, error) {
	if filter.Limit <= 0 {
		return nil, "", user.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, "", user.ErrInvalidPageToken
	}

	all := r.sortedUsers()

	matched := make([]*user.User, 0, len(all))
	for _, u := range all {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		matched = append(matched, u)
	}

	if filter.Offset >= len(matched) {
		return []*user.User{}, "", nil
	}
	matched = matched[filter.Offset:]

	var nextToken string
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
		nextToken = strconv.Itoa(filter.Offset + filter.Limit)
	}

	return matched, nextToken, nil
}

// ListAll は全職員を ID 順で返します。
func (r *UserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	return r.sortedUsers(), nil
}

// Count は登録済み職員数を返します。
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}

func (r *UserRepository) sortedUsers() []*user.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func cloneUser(u *user.User) *user.User {
	clone := *u
	return &clone
}
