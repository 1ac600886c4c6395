package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reset redemption outcomes surfaced to the service layer.
var (
	ErrResetTokenNotFound = errors.New("password reset token not found")
	ErrResetTokenExpired  = errors.New("password reset token expired")
)

// PasswordResetToken represents stored one-time reset tokens.
type PasswordResetToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetRepository manages reset token persistence. Consume is the
// single-use redemption: deleting the token row and writing the new
// credential happen in one transaction.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	Consume(ctx context.Context, token string, newPasswordHash string) error
}

type passwordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

// Create stores a new token. Older tokens for the same account are removed
// in the same transaction, so at most one token is live per user.
func (r *passwordResetRepository) Create(ctx context.Context, token *PasswordResetToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id=$1`, token.UserID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO password_reset_tokens (user_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, tokenStr string) (*PasswordResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, created_at
        FROM password_reset_tokens WHERE token=$1`
	var token PasswordResetToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Consume redeems a token exactly once. The DELETE ... RETURNING row lock is
// the mutual-exclusion point: when two redemptions race on the same token
// string only one sees the row, the other gets ErrResetTokenNotFound. An
// expired token rolls back untouched and the credential is not modified.
func (r *passwordResetRepository) Consume(ctx context.Context, tokenStr string, newPasswordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const remove = `
        DELETE FROM password_reset_tokens WHERE token=$1
        RETURNING user_id, expires_at`
	var userID int64
	var expiresAt time.Time
	if err := tx.QueryRow(ctx, remove, tokenStr).Scan(&userID, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetTokenNotFound
		}
		return err
	}

	if time.Now().After(expiresAt) {
		return ErrResetTokenExpired
	}

	const update = `
        UPDATE users SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := tx.Exec(ctx, update, newPasswordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}
