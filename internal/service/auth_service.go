package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/config"
	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/internal/events"
	"github.com/quocphungccq1911h/mobi/internal/repository"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// AuthService coordinates registration and sign-in flows.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Signup creates a new account. Username and email must be unique; unknown
// role hints fall back to the base role.
func (s *AuthService) Signup(ctx context.Context, username, email, password string, roleHints []string) (*domain.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errorutil.NewConflict("username is already taken", nil)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errorutil.NewConflict("email is already in use", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	roles, err := resolveRoles(ctx, s.roles, roleHints)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		roleNames := make([]string, len(user.Roles))
		for i, r := range user.Roles {
			roleNames[i] = string(r)
		}
		s.dispatcher.Publish(context.Background(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			Timestamp: time.Now(),
			Payload: events.UserRegisteredPayload{
				UserID:   user.ID,
				Username: user.Username,
				Email:    user.Email,
				Roles:    roleNames,
			},
		})
	}
	return user, nil
}

// Signin authenticates a user and issues a signed token. Unknown username
// and wrong password produce the same generic failure.
func (s *AuthService) Signin(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid username or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("invalid username or password")
	}

	token, expiresAt, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return errorutil.NewValidationError("invalid current password", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(context.Background(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordChanged,
			Timestamp: time.Now(),
			Payload:   events.PasswordChangedPayload{UserID: user.ID},
		})
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// resolveRoles maps signup hints to role records. Every assigned role must
// exist in the role store; the migrations seed the closed set, so a missing
// record is a store problem, not a caller one.
func resolveRoles(ctx context.Context, roles repository.RoleRepository, hints []string) ([]domain.RoleName, error) {
	names := parseRoleHints(hints)
	resolved := make([]domain.RoleName, 0, len(names))
	for _, name := range names {
		role, err := roles.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, role.Name)
	}
	return resolved, nil
}

func parseRoleHints(hints []string) []domain.RoleName {
	if len(hints) == 0 {
		return []domain.RoleName{domain.RoleUser}
	}
	seen := make(map[domain.RoleName]struct{}, len(hints))
	var names []domain.RoleName
	for _, hint := range hints {
		name := domain.ParseRoleHint(hint)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
