package services

import (
	"context"
	"coursehub/internal/models"
	"errors"
	"testing"
)

type mockSupportRepo struct {
	tickets     map[int]*models.SupportTicket
	threads     map[int]*models.QAThread
	mentorships map[int]*models.Mentorship
	messages    []*models.Message
}

func newMockSupportRepo() *mockSupportRepo {
	return &mockSupportRepo{
		tickets:     map[int]*models.SupportTicket{1: {ID: 1, Status: models.TicketStatusOpen}},
		threads:     map[int]*models.QAThread{1: {ID: 1, Status: models.ThreadStatusUnanswered}},
		mentorships: map[int]*models.Mentorship{1: {ID: 1, Status: models.MentorshipStatusPending}},
	}
}

func (m *mockSupportRepo) ListTickets(_ context.Context) ([]*models.SupportTicket, error) {
	var out []*models.SupportTicket
	for _, t := range m.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockSupportRepo) TicketExists(_ context.Context, id int) (bool, error) {
	_, ok := m.tickets[id]
	return ok, nil
}

func (m *mockSupportRepo) UpdateTicketStatus(_ context.Context, id int, status string) error {
	m.tickets[id].Status = status
	return nil
}

func (m *mockSupportRepo) AddTicketMessage(_ context.Context, ticketID int, msg *models.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockSupportRepo) ListThreads(_ context.Context) ([]*models.QAThread, error) {
	var out []*models.QAThread
	for _, t := range m.threads {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockSupportRepo) ThreadExists(_ context.Context, id int) (bool, error) {
	_, ok := m.threads[id]
	return ok, nil
}

func (m *mockSupportRepo) UpdateThreadStatus(_ context.Context, id int, status string) error {
	m.threads[id].Status = status
	return nil
}

func (m *mockSupportRepo) AddThreadMessage(_ context.Context, threadID int, msg *models.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockSupportRepo) ListMentorships(_ context.Context) ([]*models.Mentorship, error) {
	var out []*models.Mentorship
	for _, mm := range m.mentorships {
		out = append(out, mm)
	}
	return out, nil
}

func (m *mockSupportRepo) MentorshipExists(_ context.Context, id int) (bool, error) {
	_, ok := m.mentorships[id]
	return ok, nil
}

func (m *mockSupportRepo) UpdateMentorshipStatus(_ context.Context, id int, status string) error {
	m.mentorships[id].Status = status
	return nil
}

func (m *mockSupportRepo) AddMentorshipMessage(_ context.Context, mentorshipID int, msg *models.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

func TestUpdateTicketStatus(t *testing.T) {
	repo := newMockSupportRepo()
	service := NewSupportService(repo)

	if err := service.UpdateTicketStatus(context.Background(), 1, models.TicketStatusResolved); err != nil {
		t.Fatalf("ошибка смены статуса: %v", err)
	}
	if repo.tickets[1].Status != models.TicketStatusResolved {
		t.Fatal("статус тикета не обновлён")
	}

	if err := service.UpdateTicketStatus(context.Background(), 1, "weird"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("ожидалась ErrBadStatus, получено %v", err)
	}
	if err := service.UpdateTicketStatus(context.Background(), 99, models.TicketStatusClosed); !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("ожидалась ErrTicketNotFound, получено %v", err)
	}
}

func TestAddThreadMessage_AdminAnswers(t *testing.T) {
	repo := newMockSupportRepo()
	service := NewSupportService(repo)

	// сообщение пользователя не закрывает вопрос
	userMsg := &models.Message{SenderID: 5, SenderType: "user", Content: "Уточнение"}
	if err := service.AddThreadMessage(context.Background(), 1, userMsg); err != nil {
		t.Fatal(err)
	}
	if repo.threads[1].Status != models.ThreadStatusUnanswered {
		t.Fatal("сообщение пользователя не должно менять статус треда")
	}

	// ответ администратора переводит тред в answered
	adminMsg := &models.Message{SenderID: 1, SenderType: "admin", Content: "Ответ"}
	if err := service.AddThreadMessage(context.Background(), 1, adminMsg); err != nil {
		t.Fatal(err)
	}
	if repo.threads[1].Status != models.ThreadStatusAnswered {
		t.Fatal("ответ администратора должен переводить тред в answered")
	}

	if err := service.AddThreadMessage(context.Background(), 42, adminMsg); !errors.Is(err, ErrThreadNotFound) {
		t.Fatalf("ожидалась ErrThreadNotFound, получено %v", err)
	}
}

func TestUpdateMentorshipStatus(t *testing.T) {
	repo := newMockSupportRepo()
	service := NewSupportService(repo)

	if err := service.UpdateMentorshipStatus(context.Background(), 1, models.MentorshipStatusActive); err != nil {
		t.Fatal(err)
	}
	if err := service.UpdateMentorshipStatus(context.Background(), 1, models.MentorshipStatusCompleted); err != nil {
		t.Fatal(err)
	}
	if repo.mentorships[1].Status != models.MentorshipStatusCompleted {
		t.Fatal("статус менторства не обновлён")
	}

	if err := service.UpdateMentorshipStatus(context.Background(), 1, "paused"); !errors.Is(err, ErrBadStatus) {
		t.Fatalf("ожидалась ErrBadStatus, получено %v", err)
	}
}
