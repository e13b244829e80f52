package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"authgate/internal/models"
)

var ErrCodeNotFound = errors.New("verification code not found")

type VerificationCodeRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationCodeRepository(pool *pgxpool.Pool) *VerificationCodeRepository {
	return &VerificationCodeRepository{pool: pool}
}

func (r *VerificationCodeRepository) Create(ctx context.Context, code models.VerificationCode) error {
	const query = `
		INSERT INTO verification_codes (
			id, user_id, code, type, created_at, expires_at
		) VALUES (
			$1, $2, $3, $4, NOW(), $5
		)
	`

	_, err := r.pool.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.Code,
		code.Type,
		code.ExpiresAt,
	)
	return err
}

// Redeem deletes the matching unexpired code and returns its owning user id.
// The single DELETE ... RETURNING makes redemption single-use: two concurrent
// redeems of the same code cannot both see a row.
func (r *VerificationCodeRepository) Redeem(ctx context.Context, code string, typ models.VerificationType, now time.Time) (string, error) {
	const query = `
		DELETE FROM verification_codes
		WHERE code = $1 AND type = $2 AND expires_at > $3
		RETURNING user_id
	`

	var userID string
	if err := r.pool.QueryRow(ctx, query, code, typ, now).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrCodeNotFound
		}
		return "", err
	}
	return userID, nil
}

func (r *VerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM verification_codes WHERE expires_at <= $1`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
