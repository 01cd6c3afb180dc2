package services

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"errors"

	"go.uber.org/zap"
)

var (
	ErrTicketNotFound     = errors.New("тикет не найден")
	ErrThreadNotFound     = errors.New("тред не найден")
	ErrMentorshipNotFound = errors.New("запрос на менторство не найден")
	ErrBadStatus          = errors.New("недопустимый статус")
)

type SupportRepo interface {
	ListTickets(ctx context.Context) ([]*models.SupportTicket, error)
	TicketExists(ctx context.Context, id int) (bool, error)
	UpdateTicketStatus(ctx context.Context, id int, status string) error
	AddTicketMessage(ctx context.Context, ticketID int, m *models.Message) error

	ListThreads(ctx context.Context) ([]*models.QAThread, error)
	ThreadExists(ctx context.Context, id int) (bool, error)
	UpdateThreadStatus(ctx context.Context, id int, status string) error
	AddThreadMessage(ctx context.Context, threadID int, m *models.Message) error

	ListMentorships(ctx context.Context) ([]*models.Mentorship, error)
	MentorshipExists(ctx context.Context, id int) (bool, error)
	UpdateMentorshipStatus(ctx context.Context, id int, status string) error
	AddMentorshipMessage(ctx context.Context, mentorshipID int, m *models.Message) error
}

type SupportService struct {
	repo SupportRepo
}

func NewSupportService(repo SupportRepo) *SupportService {
	return &SupportService{repo: repo}
}

func (s *SupportService) ListTickets(ctx context.Context) ([]*models.SupportTicket, error) {
	return s.repo.ListTickets(ctx)
}

func (s *SupportService) UpdateTicketStatus(ctx context.Context, id int, status string) error {
	switch status {
	case models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusResolved, models.TicketStatusClosed:
	default:
		return ErrBadStatus
	}

	exists, err := s.repo.TicketExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTicketNotFound
	}
	return s.repo.UpdateTicketStatus(ctx, id, status)
}

func (s *SupportService) AddTicketMessage(ctx context.Context, ticketID int, m *models.Message) error {
	exists, err := s.repo.TicketExists(ctx, ticketID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTicketNotFound
	}
	return s.repo.AddTicketMessage(ctx, ticketID, m)
}

func (s *SupportService) ListThreads(ctx context.Context) ([]*models.QAThread, error) {
	return s.repo.ListThreads(ctx)
}

// AddThreadMessage сохраняет ответ в Q&A-треде; ответ администратора
// переводит тред в answered.
func (s *SupportService) AddThreadMessage(ctx context.Context, threadID int, m *models.Message) error {
	exists, err := s.repo.ThreadExists(ctx, threadID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrThreadNotFound
	}

	if err := s.repo.AddThreadMessage(ctx, threadID, m); err != nil {
		return err
	}

	if m.SenderType == "admin" {
		if err := s.repo.UpdateThreadStatus(ctx, threadID, models.ThreadStatusAnswered); err != nil {
			logger.Log.Warn("Ответ сохранён, но статус треда не обновился", zap.Error(err), zap.Int("thread_id", threadID))
		}
	}
	return nil
}

func (s *SupportService) ListMentorships(ctx context.Context) ([]*models.Mentorship, error) {
	return s.repo.ListMentorships(ctx)
}

func (s *SupportService) UpdateMentorshipStatus(ctx context.Context, id int, status string) error {
	switch status {
	case models.MentorshipStatusPending, models.MentorshipStatusActive, models.MentorshipStatusCompleted:
	default:
		return ErrBadStatus
	}

	exists, err := s.repo.MentorshipExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMentorshipNotFound
	}
	return s.repo.UpdateMentorshipStatus(ctx, id, status)
}

func (s *SupportService) AddMentorshipMessage(ctx context.Context, mentorshipID int, m *models.Message) error {
	exists, err := s.repo.MentorshipExists(ctx, mentorshipID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrMentorshipNotFound
	}
	return s.repo.AddMentorshipMessage(ctx, mentorshipID, m)
}
