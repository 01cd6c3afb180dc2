package models

import "time"

// AdminUser — отдельная таблица admin_users (идентичность админки
// хранится отдельно от обычных пользователей).
type AdminUser struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
