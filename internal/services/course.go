package services

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"errors"

	"go.uber.org/zap"
)

var (
	ErrCourseNotFound  = errors.New("курс не найден")
	ErrInvalidCategory = errors.New("указана несуществующая категория")
)

type CourseRepo interface {
	Create(ctx context.Context, c *models.Course) (int, error)
	GetByID(ctx context.Context, id int) (*models.Course, error)
	ListPublished(ctx context.Context) ([]*models.Course, error)
	ListAll(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, id int, input *models.UpdateCourseRequest) error
	Delete(ctx context.Context, id int) error
}

type CategoryLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
	GetDefaultID(ctx context.Context) (int, error)
}

type CourseService struct {
	repo       CourseRepo
	categories CategoryLookup
}

func NewCourseService(repo CourseRepo, categories CategoryLookup) *CourseService {
	return &CourseService{repo: repo, categories: categories}
}

// Create создаёт курс. Без category_id подставляется категория по
// умолчанию; несуществующая категория — ошибка. instructorID nil для
// курсов, созданных из админки.
func (s *CourseService) Create(ctx context.Context, req *models.CreateCourseRequest, instructorID *int) (*models.Course, error) {
	var categoryID int
	if req.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrInvalidCategory
		}
		categoryID = *req.CategoryID
	} else {
		defaultID, err := s.categories.GetDefaultID(ctx)
		if err != nil {
			logger.Log.Error("Не удалось получить категорию по умолчанию", zap.Error(err))
			return nil, err
		}
		categoryID = defaultID
	}

	status := req.Status
	if status == "" {
		status = models.CourseStatusDraft
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   categoryID,
		InstructorID: instructorID,
		Price:        req.Price,
		Status:       status,
		Level:        req.Level,
		Duration:     req.Duration,
	}

	id, err := s.repo.Create(ctx, course)
	if err != nil {
		logger.Log.Error("Ошибка создания курса (service)", zap.Error(err))
		return nil, err
	}
	course.ID = id

	logger.Log.Info("Курс создан (service)", zap.Int("course_id", id), zap.Int("category_id", categoryID))
	return course, nil
}

func (s *CourseService) GetByID(ctx context.Context, id int) (*models.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *CourseService) ListPublished(ctx context.Context) ([]*models.Course, error) {
	return s.repo.ListPublished(ctx)
}

func (s *CourseService) ListAll(ctx context.Context) ([]*models.Course, error) {
	return s.repo.ListAll(ctx)
}

func (s *CourseService) Update(ctx context.Context, id int, input *models.UpdateCourseRequest) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrCourseNotFound
	}

	if input.CategoryID != nil {
		exists, err := s.categories.Exists(ctx, *input.CategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrInvalidCategory
		}
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		logger.Log.Error("Ошибка обновления курса (service)", zap.Error(err), zap.Int("course_id", id))
		return err
	}
	return nil
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrCourseNotFound
	}

	logger.Log.Info("Удаление курса (service)", zap.Int("course_id", id))
	return s.repo.Delete(ctx, id)
}
