package service

import (
	"context"

	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/internal/repository"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// UserUpdate carries the optional fields of an account update. Nil fields
// are left unchanged.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
	Roles    []string
}

// UserService exposes account administration. Authorization is resolved by
// the policy layer before any of these run, except the role-change check,
// which depends on the acting identity.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, bcryptCost int) *UserService {
	return &UserService{users: users, roles: roles, bcryptCost: bcryptCost}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Get returns the account with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update applies an account update. Username and email stay unique; only an
// admin identity may change role assignments.
func (s *UserService) Update(ctx context.Context, actor *domain.Identity, id int64, update UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil && *update.Username != "" && *update.Username != user.Username {
		taken, err := s.users.ExistsByUsername(ctx, *update.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errorutil.NewConflict("username is already taken", nil)
		}
		user.Username = *update.Username
	}

	if update.Email != nil && *update.Email != "" && *update.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, *update.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errorutil.NewConflict("email is already in use", nil)
		}
		user.Email = *update.Email
	}

	if update.Password != nil && *update.Password != "" {
		hash, err := auth.HashPassword(*update.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if len(update.Roles) > 0 {
		if actor == nil || !actor.HasRole(domain.RoleAdmin) {
			return nil, errorutil.NewForbidden("only admins can change roles")
		}
		roles, err := resolveRoles(ctx, s.roles, update.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account with the given id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
