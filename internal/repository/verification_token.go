package repository

import (
	"context"
	"coursehub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type VerificationTokenRepository struct {
	db *pgxpool.Pool
}

func NewVerificationTokenRepository(db *pgxpool.Pool) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

// SaveToken удаляет старые коды пользователя и сохраняет новый: в любой
// момент действителен не больше одного кода.
func (r *VerificationTokenRepository) SaveToken(ctx context.Context, token *models.VerificationToken) error {
	_, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE user_id = $1`, token.UserID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO verification_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`, token.UserID, token.Token, token.ExpiresAt)

	return err
}

// GetValidToken возвращает самый свежий непросроченный код пользователя,
// совпадающий с присланным.
func (r *VerificationTokenRepository) GetValidToken(ctx context.Context, userID int, token string) (*models.VerificationToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM verification_tokens
		WHERE user_id = $1 AND token = $2 AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, token)

	var t models.VerificationToken
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteToken удаляет использованный код — повторная проверка невозможна.
func (r *VerificationTokenRepository) DeleteToken(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM verification_tokens WHERE id = $1`, id)
	return err
}
