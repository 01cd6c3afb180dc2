package repository

import (
	"context"
	"coursehub/internal/models"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRepository struct {
	db *pgxpool.Pool
}

func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, category_id, instructor_id, price, status, level, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		c.Title, c.Description, c.CategoryID, c.InstructorID, c.Price, c.Status, c.Level, c.Duration,
	).Scan(&id)
	return id, err
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	row := r.db.QueryRow(ctx, `
		SELECT c.id, c.title, c.description, c.category_id, cat.name, c.instructor_id,
		       c.price, c.status, c.level, c.duration, c.created_at, c.updated_at
		FROM courses c
		LEFT JOIN categories cat ON cat.id = c.category_id
		WHERE c.id = $1`, id)

	var c models.Course
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.CategoryID, &c.CategoryName, &c.InstructorID,
		&c.Price, &c.Status, &c.Level, &c.Duration, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListPublished — публичная витрина: только опубликованные курсы.
func (r *CourseRepository) ListPublished(ctx context.Context) ([]*models.Course, error) {
	return r.list(ctx, `WHERE c.status = 'published'`)
}

// ListAll — админская выборка без фильтра по статусу.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	return r.list(ctx, ``)
}

func (r *CourseRepository) list(ctx context.Context, where string) ([]*models.Course, error) {
	q := fmt.Sprintf(`
		SELECT c.id, c.title, c.description, c.category_id, cat.name, c.instructor_id,
		       c.price, c.status, c.level, c.duration, c.created_at, c.updated_at
		FROM courses c
		LEFT JOIN categories cat ON cat.id = c.category_id
		%s
		ORDER BY c.created_at DESC`, where)

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.CategoryID, &c.CategoryName, &c.InstructorID,
			&c.Price, &c.Status, &c.Level, &c.Duration, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) Update(ctx context.Context, id int, input *models.UpdateCourseRequest) error {
	query := `UPDATE courses SET`
	var args []interface{}
	argNum := 1

	add := func(col string, val interface{}) {
		query += fmt.Sprintf(" %s = $%d,", col, argNum)
		args = append(args, val)
		argNum++
	}

	if input.Title != nil {
		add("title", *input.Title)
	}
	if input.Description != nil {
		add("description", *input.Description)
	}
	if input.CategoryID != nil {
		add("category_id", *input.CategoryID)
	}
	if input.Price != nil {
		add("price", *input.Price)
	}
	if input.Status != nil {
		add("status", *input.Status)
	}
	if input.Level != nil {
		add("level", *input.Level)
	}
	if input.Duration != nil {
		add("duration", *input.Duration)
	}

	if len(args) == 0 {
		return nil // нечего обновлять
	}

	query = strings.TrimSuffix(query, ",") + fmt.Sprintf(", updated_at = now() WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
