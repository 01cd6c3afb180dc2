package repository

import (
	"context"
	"coursehub/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PayoutRepository struct {
	db *pgxpool.Pool
}

func NewPayoutRepository(db *pgxpool.Pool) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) GetByID(ctx context.Context, id int) (*models.InstructorPayout, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, instructor_id, amount, status, COALESCE(stripe_transfer_id, ''), COALESCE(notes, ''), created_at, updated_at
		FROM instructor_payouts
		WHERE id = $1`, id)

	var p models.InstructorPayout
	if err := row.Scan(&p.ID, &p.InstructorID, &p.Amount, &p.Status, &p.StripeTransferID, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayoutRepository) List(ctx context.Context, from, to *time.Time) ([]*models.InstructorPayout, error) {
	q := `
		SELECT p.id, p.instructor_id, p.amount, p.status, COALESCE(p.notes, ''), p.created_at,
		       COALESCE(u.name, '')
		FROM instructor_payouts p
		LEFT JOIN users u ON u.id = p.instructor_id`

	var args []interface{}
	if from != nil && to != nil {
		q += ` WHERE p.created_at BETWEEN $1 AND $2`
		args = append(args, *from, *to)
	}
	q += ` ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payouts []*models.InstructorPayout
	for rows.Next() {
		var p models.InstructorPayout
		if err := rows.Scan(&p.ID, &p.InstructorID, &p.Amount, &p.Status, &p.Notes, &p.CreatedAt, &p.InstructorName); err != nil {
			return nil, err
		}
		payouts = append(payouts, &p)
	}
	return payouts, rows.Err()
}

// MarkCompleted закрывает выплату; transferID заполняется при выплате через
// шлюз, notes — при ручной выплате.
func (r *PayoutRepository) MarkCompleted(ctx context.Context, id int, transferID, notes string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE instructor_payouts
		SET status = $1, stripe_transfer_id = NULLIF($2, ''), notes = NULLIF($3, ''), updated_at = now()
		WHERE id = $4`,
		models.PayoutStatusCompleted, transferID, notes, id)
	return err
}
