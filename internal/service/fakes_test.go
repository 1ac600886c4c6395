package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/internal/repository"
)

// fakeUserRepo is an in-memory repository.UserRepository. Setting
// getByUsernameErr makes username lookups fail, standing in for a store
// outage.
type fakeUserRepo struct {
	mu               sync.Mutex
	nextID           int64
	users            map[int64]*domain.User
	getByUsernameErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	stored.UpdatedAt = time.Now()
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	failure := f.getByUsernameErr
	f.mu.Unlock()
	if failure != nil {
		return nil, failure
	}
	return f.findBy(func(u *domain.User) bool { return u.Username == username })
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return f.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []*domain.User
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (f *fakeUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeRoleRepo serves the seeded role set and records lookups.
type fakeRoleRepo struct {
	mu      sync.Mutex
	roles   map[domain.RoleName]*domain.Role
	lookups []domain.RoleName
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[domain.RoleName]*domain.Role{
		domain.RoleAdmin: {ID: 1, Name: domain.RoleAdmin},
		domain.RoleUser:  {ID: 2, Name: domain.RoleUser},
	}}
}

func (f *fakeRoleRepo) GetByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, name)
	role, ok := f.roles[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *role
	return &copied, nil
}

func (f *fakeRoleRepo) lookedUp() []domain.RoleName {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.RoleName(nil), f.lookups...)
}

// fakeResetRepo is an in-memory repository.PasswordResetRepository. It
// honors the same contract as the Postgres implementation: Create keeps at
// most one live token per user, Consume redeems atomically with at most
// one winner.
type fakeResetRepo struct {
	mu     sync.Mutex
	nextID int64
	tokens map[string]*repository.PasswordResetToken
	users  *fakeUserRepo
}

func newFakeResetRepo(users *fakeUserRepo) *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken), users: users}
}

func (f *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, existing := range f.tokens {
		if existing.UserID == token.UserID {
			delete(f.tokens, key)
		}
	}
	f.nextID++
	token.ID = f.nextID
	token.CreatedAt = time.Now()
	stored := *token
	f.tokens[token.Token] = &stored
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenStr]
	if !ok {
		return nil, repository.ErrResetTokenNotFound
	}
	copied := *token
	return &copied, nil
}

func (f *fakeResetRepo) Consume(ctx context.Context, tokenStr string, newPasswordHash string) error {
	f.mu.Lock()
	token, ok := f.tokens[tokenStr]
	if !ok {
		f.mu.Unlock()
		return repository.ErrResetTokenNotFound
	}
	if time.Now().After(token.ExpiresAt) {
		f.mu.Unlock()
		return repository.ErrResetTokenExpired
	}
	delete(f.tokens, tokenStr)
	userID := token.UserID
	f.mu.Unlock()

	return f.users.UpdatePassword(ctx, userID, newPasswordHash)
}

func (f *fakeResetRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}
