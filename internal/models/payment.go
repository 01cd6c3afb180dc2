package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	ID              int       `json:"id"`
	UserID          int       `json:"user_id"`
	CourseID        int       `json:"course_id"`
	TransactionID   string    `json:"transaction_id"`
	IdempotencyKey  string    `json:"-"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"`
	PaymentMethod   string    `json:"payment_method"`
	StripePaymentID string    `json:"-"`
	RefundID        string    `json:"refund_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Поля из JOIN для админских выборок
	StudentName string `json:"student,omitempty"`
	CourseTitle string `json:"course,omitempty"`
}

const (
	EnrollmentStatusActive   = "active"
	EnrollmentStatusRefunded = "refunded"
)

// Enrollment создаётся в одной транзакции с успешным платежом.
type Enrollment struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	CourseID       int       `json:"course_id"`
	PaymentID      int       `json:"payment_id"`
	Status         string    `json:"status"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}
