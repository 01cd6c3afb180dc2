package models

import "time"

type GuestTeacher struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
	Availability   string    `json:"availability"`
	Rate           float64   `json:"rate"`
	Status         string    `json:"status"` // active|inactive
	CreatedAt      time.Time `json:"created_at"`
}
