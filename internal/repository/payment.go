package repository

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateWithEnrollment записывает платёж и зачисление на курс в одной
// транзакции. Уникальный idempotency_key защищает от дублей при повторной
// отправке формы: конфликт откатывает всю транзакцию, дубль зачисления
// не появляется.
func (r *PaymentRepository) CreateWithEnrollment(ctx context.Context, p *models.Payment) error {
	logger.Log.Info("Запись платежа с зачислением (repo)",
		zap.Int("user_id", p.UserID), zap.Int("course_id", p.CourseID), zap.String("transaction_id", p.TransactionID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (user_id, course_id, transaction_id, idempotency_key, amount, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		p.UserID, p.CourseID, p.TransactionID, p.IdempotencyKey, p.Amount, p.Status, p.PaymentMethod,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка вставки платежа (repo)", zap.Error(err))
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO enrollments (user_id, course_id, payment_id, status, enrollment_date)
		VALUES ($1, $2, $3, $4, now())`,
		p.UserID, p.CourseID, p.ID, models.EnrollmentStatusActive,
	)
	if err != nil {
		logger.Log.Error("Ошибка вставки зачисления (repo)", zap.Error(err))
		return err
	}

	return tx.Commit(ctx)
}

func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error) {
	return r.getOne(ctx, `WHERE p.idempotency_key = $1`, key)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	return r.getOne(ctx, `WHERE p.id = $1`, id)
}

func (r *PaymentRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT p.id, p.user_id, p.course_id, p.transaction_id, p.idempotency_key, p.amount,
		       p.status, p.payment_method, COALESCE(p.stripe_payment_id, ''), COALESCE(p.refund_id, ''),
		       p.created_at, p.updated_at
		FROM payments p `+where, arg)

	var p models.Payment
	if err := row.Scan(
		&p.ID, &p.UserID, &p.CourseID, &p.TransactionID, &p.IdempotencyKey, &p.Amount,
		&p.Status, &p.PaymentMethod, &p.StripePaymentID, &p.RefundID,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser — история платежей пользователя с названием курса.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.transaction_id, p.amount, p.status, p.payment_method, p.created_at,
		       COALESCE(c.title, '')
		FROM payments p
		LEFT JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.Status, &p.PaymentMethod, &p.CreatedAt, &p.CourseTitle); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// ListAll — админская выборка транзакций с опциональным диапазоном дат.
func (r *PaymentRepository) ListAll(ctx context.Context, from, to *time.Time) ([]*models.Payment, error) {
	q := `
		SELECT p.id, p.transaction_id, p.amount, p.status, p.payment_method, p.created_at,
		       COALESCE(u.name, ''), COALESCE(c.title, '')
		FROM payments p
		LEFT JOIN users u ON u.id = p.user_id
		LEFT JOIN courses c ON c.id = p.course_id`

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

	var payments []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.Status, &p.PaymentMethod, &p.CreatedAt, &p.StudentName, &p.CourseTitle); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}

// MarkRefunded переводит платёж в refunded и каскадно помечает зачисление.
// refund_id заполняется только для возвратов через шлюз.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, paymentID int, refundID string) error {
	logger.Log.Info("Возврат платежа (repo)", zap.Int("payment_id", paymentID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if refundID != "" {
		_, err = tx.Exec(ctx,
			`UPDATE payments SET status = $1, refund_id = $2, updated_at = now() WHERE id = $3`,
			models.PaymentStatusRefunded, refundID, paymentID)
	} else {
		_, err = tx.Exec(ctx,
			`UPDATE payments SET status = $1, updated_at = now() WHERE id = $2`,
			models.PaymentStatusRefunded, paymentID)
	}
	if err != nil {
		logger.Log.Error("Ошибка обновления статуса платежа (repo)", zap.Error(err))
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE enrollments SET status = $1 WHERE payment_id = $2`,
		models.EnrollmentStatusRefunded, paymentID)
	if err != nil {
		logger.Log.Error("Ошибка обновления зачисления (repo)", zap.Error(err))
		return err
	}

	return tx.Commit(ctx)
}
