package models

import "time"

// VerificationToken — одноразовый шестизначный код подтверждения почты.
// При повторной выдаче старые коды пользователя удаляются.
type VerificationToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
