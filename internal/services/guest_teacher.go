package services

import (
	"context"
	"coursehub/internal/models"
	"errors"
)

var ErrGuestTeacherNotFound = errors.New("приглашённый преподаватель не найден")

type GuestTeacherRepo interface {
	List(ctx context.Context) ([]*models.GuestTeacher, error)
	Create(ctx context.Context, t *models.GuestTeacher) (int, error)
	Exists(ctx context.Context, id int) (bool, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	Delete(ctx context.Context, id int) error
}

type GuestTeacherService struct {
	repo GuestTeacherRepo
}

func NewGuestTeacherService(repo GuestTeacherRepo) *GuestTeacherService {
	return &GuestTeacherService{repo: repo}
}

func (s *GuestTeacherService) List(ctx context.Context) ([]*models.GuestTeacher, error) {
	return s.repo.List(ctx)
}

func (s *GuestTeacherService) Add(ctx context.Context, t *models.GuestTeacher) (int, error) {
	if t.Status == "" {
		t.Status = "active"
	}
	return s.repo.Create(ctx, t)
}

func (s *GuestTeacherService) UpdateStatus(ctx context.Context, id int, status string) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrGuestTeacherNotFound
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *GuestTeacherService) Delete(ctx context.Context, id int) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrGuestTeacherNotFound
	}
	return s.repo.Delete(ctx, id)
}
