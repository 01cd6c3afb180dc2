package models

import "time"

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	InstructorID *int      `json:"instructor_id,omitempty"` // NULL для курсов, созданных админом
	Price        float64   `json:"price"`
	Status       string    `json:"status"`
	Level        string    `json:"level"`
	Duration     string    `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	CategoryID  *int    `json:"category_id,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	Level       string  `json:"level"`
	Duration    string  `json:"duration"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *int     `json:"category_id,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	Level       *string  `json:"level,omitempty"`
	Duration    *string  `json:"duration,omitempty"`
}
