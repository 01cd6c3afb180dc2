package models

import "time"

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPaused    = "paused"
	SubscriptionStatusCancelled = "cancelled" // терминальный
)

// Subscription зеркалит объект подписки платёжного шлюза.
type Subscription struct {
	ID                   int        `json:"id"`
	UserID               int        `json:"user_id"`
	Plan                 string     `json:"plan"`
	Amount               float64    `json:"amount"`
	Status               string     `json:"status"`
	StripeSubscriptionID string     `json:"-"`
	NextBillingDate      *time.Time `json:"next_billing_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	StudentName string `json:"student,omitempty"`
}
