package repository

import (
	"context"
	"coursehub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GuestTeacherRepository struct {
	db *pgxpool.Pool
}

func NewGuestTeacherRepository(db *pgxpool.Pool) *GuestTeacherRepository {
	return &GuestTeacherRepository{db: db}
}

func (r *GuestTeacherRepository) List(ctx context.Context) ([]*models.GuestTeacher, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, specialization, availability, rate, status, created_at
		FROM guest_teachers
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []*models.GuestTeacher
	for rows.Next() {
		var t models.GuestTeacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.Specialization, &t.Availability, &t.Rate, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, &t)
	}
	return teachers, rows.Err()
}

func (r *GuestTeacherRepository) Create(ctx context.Context, t *models.GuestTeacher) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO guest_teachers (name, email, phone, specialization, availability, rate, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		t.Name, t.Email, t.Phone, t.Specialization, t.Availability, t.Rate, t.Status,
	).Scan(&id)
	return id, err
}

func (r *GuestTeacherRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM guest_teachers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *GuestTeacherRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx, `UPDATE guest_teachers SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *GuestTeacherRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM guest_teachers WHERE id = $1`, id)
	return err
}
