package repository

import (
	"context"
	"coursehub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminUserRepository struct {
	db *pgxpool.Pool
}

func NewAdminUserRepository(db *pgxpool.Pool) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, username, email, password_hash, role, created_at
		FROM admin_users
		WHERE username = $1`, username)

	var a models.AdminUser
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
