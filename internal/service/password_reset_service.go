package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/config"
	"github.com/quocphungccq1911h/mobi/internal/events"
	"github.com/quocphungccq1911h/mobi/internal/repository"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// PasswordResetService owns the one-time reset token lifecycle: issuance,
// expiry, and single-use consumption.
type PasswordResetService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	resetTTL   time.Duration
	bcryptCost int
}

// PasswordResetDependencies encapsulates collaborator requirements.
type PasswordResetDependencies struct {
	UserRepo   repository.UserRepository
	ResetRepo  repository.PasswordResetRepository
	Dispatcher events.Dispatcher
}

// NewPasswordResetService builds the service.
func NewPasswordResetService(cfg config.Config, deps PasswordResetDependencies) *PasswordResetService {
	return &PasswordResetService{
		users:      deps.UserRepo,
		resets:     deps.ResetRepo,
		dispatcher: deps.Dispatcher,
		resetTTL:   cfg.Auth.PasswordResetTTL(),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RequestReset creates a reset token for the account behind email and hands
// the notification off asynchronously. An unknown email is a silent no-op:
// the caller always gets the same generic outcome, so account existence is
// never disclosed. Notification dispatch never blocks or fails this call.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return err
	}

	if s.dispatcher != nil {
		s.dispatcher.Publish(context.Background(), events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordResetRequested,
			Timestamp: time.Now(),
			Payload: events.PasswordResetRequestedPayload{
				UserID:    user.ID,
				Email:     user.Email,
				Token:     token.Token,
				ExpiresAt: token.ExpiresAt,
			},
		})
	}
	return nil
}

// ConsumeReset redeems a token and stores the re-hashed credential. The
// token deletion and the credential update are one atomic unit; a token is
// good for at most one successful reset. An expired token leaves the
// credential untouched.
func (s *PasswordResetService) ConsumeReset(ctx context.Context, tokenStr, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch err := s.resets.Consume(ctx, tokenStr, hash); {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrResetTokenNotFound):
		return errorutil.NewTokenNotFound()
	case errors.Is(err, repository.ErrResetTokenExpired):
		return errorutil.NewTokenExpired()
	default:
		return err
	}
}
