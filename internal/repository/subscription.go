package repository

import (
	"context"
	"coursehub/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id int) (*models.Subscription, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, plan, amount, status, COALESCE(stripe_subscription_id, ''), next_billing_date, created_at, updated_at
		FROM subscriptions
		WHERE id = $1`, id)

	var s models.Subscription
	if err := row.Scan(&s.ID, &s.UserID, &s.Plan, &s.Amount, &s.Status, &s.StripeSubscriptionID, &s.NextBillingDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) List(ctx context.Context, from, to *time.Time) ([]*models.Subscription, error) {
	q := `
		SELECT s.id, s.user_id, s.plan, s.amount, s.status, s.next_billing_date, s.created_at,
		       COALESCE(u.name, '')
		FROM subscriptions s
		LEFT JOIN users u ON u.id = s.user_id`

	var args []interface{}
	if from != nil && to != nil {
		q += ` WHERE s.created_at BETWEEN $1 AND $2`
		args = append(args, *from, *to)
	}
	q += ` ORDER BY s.next_billing_date ASC NULLS LAST`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.UserID, &s.Plan, &s.Amount, &s.Status, &s.NextBillingDate, &s.CreatedAt, &s.StudentName); err != nil {
			return nil, err
		}
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	return err
}
