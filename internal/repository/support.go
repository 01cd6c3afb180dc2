package repository

import (
	"context"
	"coursehub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SupportRepository struct {
	db *pgxpool.Pool
}

func NewSupportRepository(db *pgxpool.Pool) *SupportRepository {
	return &SupportRepository{db: db}
}

// ----- Тикеты поддержки -----

func (r *SupportRepository) ListTickets(ctx context.Context) ([]*models.SupportTicket, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.student_id, COALESCE(u.name, ''), t.course_id, COALESCE(c.title, ''),
		       t.subject, t.priority, t.status, t.created_at
		FROM support_tickets t
		LEFT JOIN users u ON u.id = t.student_id
		LEFT JOIN courses c ON c.id = t.course_id
		ORDER BY
			CASE
				WHEN t.status = 'open' AND t.priority = 'high' THEN 1
				WHEN t.status = 'open' THEN 2
				ELSE 3
			END,
			t.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*models.SupportTicket
	for rows.Next() {
		var t models.SupportTicket
		if err := rows.Scan(&t.ID, &t.StudentID, &t.StudentName, &t.CourseID, &t.CourseTitle,
			&t.Subject, &t.Priority, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range tickets {
		msgs, err := r.listMessages(ctx, "ticket_messages", "ticket_id", t.ID)
		if err != nil {
			return nil, err
		}
		t.Messages = msgs
	}
	return tickets, nil
}

func (r *SupportRepository) TicketExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM support_tickets WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *SupportRepository) UpdateTicketStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE support_tickets SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *SupportRepository) AddTicketMessage(ctx context.Context, ticketID int, m *models.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ticket_messages (ticket_id, sender_id, sender_type, content)
		VALUES ($1, $2, $3, $4)`,
		ticketID, m.SenderID, m.SenderType, m.Content)
	return err
}

// ----- Q&A треды -----

func (r *SupportRepository) ListThreads(ctx context.Context) ([]*models.QAThread, error) {
	rows, err := r.db.Query(ctx, `
		SELECT q.id, q.student_id, COALESCE(u.name, ''), q.course_id, COALESCE(c.title, ''),
		       q.question, q.status, q.created_at
		FROM qa_threads q
		LEFT JOIN users u ON u.id = q.student_id
		LEFT JOIN courses c ON c.id = q.course_id
		ORDER BY CASE WHEN q.status = 'unanswered' THEN 1 ELSE 2 END, q.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*models.QAThread
	for rows.Next() {
		var t models.QAThread
		if err := rows.Scan(&t.ID, &t.StudentID, &t.StudentName, &t.CourseID, &t.CourseTitle,
			&t.Question, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, t := range threads {
		msgs, err := r.listMessages(ctx, "qa_responses", "thread_id", t.ID)
		if err != nil {
			return nil, err
		}
		t.Messages = msgs
	}
	return threads, nil
}

func (r *SupportRepository) ThreadExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM qa_threads WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *SupportRepository) UpdateThreadStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE qa_threads SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *SupportRepository) AddThreadMessage(ctx context.Context, threadID int, m *models.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO qa_responses (thread_id, sender_id, sender_type, content)
		VALUES ($1, $2, $3, $4)`,
		threadID, m.SenderID, m.SenderType, m.Content)
	return err
}

// ----- Менторство -----

func (r *SupportRepository) ListMentorships(ctx context.Context) ([]*models.Mentorship, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.student_id, COALESCE(u.name, ''), m.mentor_id, COALESCE(i.name, ''),
		       m.course_id, COALESCE(c.title, ''), m.topic, m.status, m.created_at
		FROM mentorships m
		LEFT JOIN users u ON u.id = m.student_id
		LEFT JOIN users i ON i.id = m.mentor_id
		LEFT JOIN courses c ON c.id = m.course_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentorships []*models.Mentorship
	for rows.Next() {
		var m models.Mentorship
		if err := rows.Scan(&m.ID, &m.StudentID, &m.StudentName, &m.MentorID, &m.MentorName,
			&m.CourseID, &m.CourseTitle, &m.Topic, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		mentorships = append(mentorships, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range mentorships {
		msgs, err := r.listMessages(ctx, "mentorship_messages", "mentorship_id", m.ID)
		if err != nil {
			return nil, err
		}
		m.Messages = msgs
	}
	return mentorships, nil
}

func (r *SupportRepository) MentorshipExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM mentorships WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *SupportRepository) UpdateMentorshipStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE mentorships SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}

func (r *SupportRepository) AddMentorshipMessage(ctx context.Context, mentorshipID int, m *models.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mentorship_messages (mentorship_id, sender_id, sender_type, content)
		VALUES ($1, $2, $3, $4)`,
		mentorshipID, m.SenderID, m.SenderType, m.Content)
	return err
}

// listMessages собирает сообщения сущности; имя отправителя подставляется
// по sender_type, как это делала исходная выборка с JSON_ARRAYAGG.
func (r *SupportRepository) listMessages(ctx context.Context, table, fk string, id int) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.sender_id, m.sender_type,
		       CASE WHEN m.sender_type = 'admin' THEN 'Admin' ELSE COALESCE(u.name, '') END,
		       m.content, m.created_at
		FROM `+table+` m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.`+fk+` = $1
		ORDER BY m.created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderType, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
