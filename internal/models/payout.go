package models

import "time"

const (
	PayoutStatusPending   = "pending"
	PayoutStatusCompleted = "completed"
)

// InstructorPayout — выплата преподавателю заработанной выручки.
type InstructorPayout struct {
	ID               int       `json:"id"`
	InstructorID     int       `json:"instructor_id"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	StripeTransferID string    `json:"-"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	InstructorName string `json:"instructor,omitempty"`
}
