package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// TokenRepo persists and validates refresh tokens.  Only the SHA-256
// hash of a token ever reaches this layer.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return wrapErr(err)
}

// ValidateRefresh returns the owning user ID if a non-revoked,
// non-expired token exists for the given hash.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	tok, err := r.getByHash(ctx, tokenHash)
	if err != nil {
		return 0, err
	}
	if tok.RevokedAt != nil {
		return 0, ErrNotFound
	}
	if time.Now().UTC().After(tok.ExpiresAt) {
		return 0, ErrNotFound
	}
	return tok.UserID, nil
}

// getByHash fetches a refresh token row into its model record.
func (r *TokenRepo) getByHash(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	var (
		tok     model.RefreshToken
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&tok.ID, &tok.UserID, &tok.TokenHash, &tok.ExpiresAt, &revoked, &tok.CreatedAt)
	if err != nil {
		return model.RefreshToken{}, wrapErr(err)
	}
	if revoked.Valid {
		t := revoked.Time
		tok.RevokedAt = &t
	}
	return tok, nil
}

// RevokeByHash marks a token as revoked.  Revoking an already revoked
// or unknown hash affects no rows and is not an error, which keeps
// logout idempotent.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return wrapErr(err)
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return wrapErr(err)
}
