package services

import (
	"context"
	"coursehub/internal/models"
	"errors"
	"strings"
)

var ErrCategoryExists = errors.New("категория с таким названием уже существует")

type CategoryRepo interface {
	List(ctx context.Context) ([]*models.Category, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, c *models.Category) (int, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int) error
	GetDefaultID(ctx context.Context) (int, error)
}

type CategoryService struct {
	repo CategoryRepo
}

func NewCategoryService(repo CategoryRepo) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name, description string) (*models.Category, error) {
	exists, err := s.repo.NameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrCategoryExists
	}

	c := &models.Category{
		Name:        name,
		Slug:        Slugify(name),
		Description: description,
	}
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, c *models.Category) error {
	c.Slug = Slugify(c.Name)
	return s.repo.Update(ctx, c)
}

func (s *CategoryService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// Slugify — нижний регистр, пробелы в дефисы.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
