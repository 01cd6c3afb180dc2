package repository

import (
	"context"
	"coursehub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, slug, description, created_at, updated_at
		FROM categories
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id`,
		c.Name, c.Slug, c.Description,
	).Scan(&id)
	return id, err
}

func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	_, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $1, slug = $2, description = $3, updated_at = now()
		WHERE id = $4`,
		c.Name, c.Slug, c.Description, c.ID)
	return err
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return err
}

// GetDefaultID — категория по умолчанию для курсов без category_id:
// «general», а если её нет — самая первая.
func (r *CategoryRepository) GetDefaultID(ctx context.Context) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT id FROM categories WHERE slug = 'general'),
			(SELECT MIN(id) FROM categories)
		)`).Scan(&id)
	return id, err
}
