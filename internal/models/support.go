package models

import "time"

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type SupportTicket struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	CourseID    *int      `json:"course_id,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	Subject     string    `json:"subject"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Messages    []Message `json:"messages"`
}

const (
	ThreadStatusUnanswered = "unanswered"
	ThreadStatusAnswered   = "answered"
)

type QAThread struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	CourseID    *int      `json:"course_id,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	Question    string    `json:"question"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Messages    []Message `json:"messages"`
}

const (
	MentorshipStatusPending   = "pending"
	MentorshipStatusActive    = "active"
	MentorshipStatusCompleted = "completed"
)

type Mentorship struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	MentorID    *int      `json:"mentor_id,omitempty"`
	MentorName  string    `json:"mentor_name,omitempty"`
	CourseID    *int      `json:"course_id,omitempty"`
	CourseTitle string    `json:"course_title,omitempty"`
	Topic       string    `json:"topic"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Messages    []Message `json:"messages"`
}

// Message — сообщение внутри тикета/треда/менторства.
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"-"`
	SenderType string    `json:"-"` // user|admin|mentor
	Sender     string    `json:"sender"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
