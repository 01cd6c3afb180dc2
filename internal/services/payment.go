package services

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrPaymentNotFound      = errors.New("платёж не найден")
	ErrPaymentNotRefundable = errors.New("вернуть можно только завершённый платёж")
	ErrPayoutNotFound       = errors.New("выплата не найдена")
	ErrPayoutNotPending     = errors.New("обработать можно только ожидающую выплату")
	ErrSubNotFound          = errors.New("подписка не найдена")
	ErrSubCancelled         = errors.New("подписка отменена и не может менять статус")
	ErrSubBadStatus         = errors.New("недопустимый статус подписки")
)

type PaymentRepo interface {
	CreateWithEnrollment(ctx context.Context, p *models.Payment) error
	GetByIdempotencyKey(ctx context.Context, key string) (*models.Payment, error)
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Payment, error)
	ListAll(ctx context.Context, from, to *time.Time) ([]*models.Payment, error)
	MarkRefunded(ctx context.Context, paymentID int, refundID string) error
}

type PayoutRepo interface {
	GetByID(ctx context.Context, id int) (*models.InstructorPayout, error)
	List(ctx context.Context, from, to *time.Time) ([]*models.InstructorPayout, error)
	MarkCompleted(ctx context.Context, id int, transferID, notes string) error
}

type SubscriptionRepo interface {
	GetByID(ctx context.Context, id int) (*models.Subscription, error)
	List(ctx context.Context, from, to *time.Time) ([]*models.Subscription, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

type StripeAccountRepo interface {
	GetStripeAccountID(ctx context.Context, userID int) (string, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
}

// Gateway — операции платёжного шлюза, нужные леджеру.
type Gateway interface {
	CreateRefund(paymentIntentID string) (string, error)
	CreateTransfer(amountCents int64, destination, description string) (string, error)
	PauseSubscription(subscriptionID string) error
	ResumeSubscription(subscriptionID string) error
	CancelSubscription(subscriptionID string) error
}

type PaymentService struct {
	payments PaymentRepo
	payouts  PayoutRepo
	subs     SubscriptionRepo
	users    StripeAccountRepo
	gateway  Gateway
}

func NewPaymentService(payments PaymentRepo, payouts PayoutRepo, subs SubscriptionRepo, users StripeAccountRepo, gateway Gateway) *PaymentService {
	return &PaymentService{
		payments: payments,
		payouts:  payouts,
		subs:     subs,
		users:    users,
		gateway:  gateway,
	}
}

// ProcessPayment записывает завершённый платёж и зачисление на курс одной
// транзакцией. Захвата средств через шлюз здесь нет — платёж фиксируется
// со слов клиента, как и в исходной системе. Ключ идемпотентности
// защищает от дублей: повторная отправка возвращает уже записанный платёж.
func (s *PaymentService) ProcessPayment(ctx context.Context, userID, courseID int, amount float64, method, idempotencyKey string) (*models.Payment, error) {
	logger.Log.Info("Обработка платежа (service)",
		zap.Int("user_id", userID), zap.Int("course_id", courseID), zap.Float64("amount", amount))

	if idempotencyKey != "" {
		if existing, err := s.payments.GetByIdempotencyKey(ctx, idempotencyKey); err == nil && existing != nil {
			logger.Log.Info("Повторная отправка платежа, возвращаем существующий",
				zap.String("idempotency_key", idempotencyKey), zap.Int("payment_id", existing.ID))
			return existing, nil
		}
	} else {
		idempotencyKey = uuid.New().String()
	}

	p := &models.Payment{
		UserID:         userID,
		CourseID:       courseID,
		TransactionID:  fmt.Sprintf("TXN%s", uuid.New().String()[:8]),
		IdempotencyKey: idempotencyKey,
		Amount:         amount,
		Status:         models.PaymentStatusCompleted,
		PaymentMethod:  method,
	}

	if err := s.payments.CreateWithEnrollment(ctx, p); err != nil {
		// гонка двух одинаковых отправок: уникальный индекс по ключу
		// отбил вторую — отдаём первую запись
		if existing, lookupErr := s.payments.GetByIdempotencyKey(ctx, idempotencyKey); lookupErr == nil && existing != nil {
			return existing, nil
		}
		logger.Log.Error("Ошибка записи платежа (service)", zap.Error(err))
		return nil, err
	}

	return p, nil
}

func (s *PaymentService) GetPaymentHistory(ctx context.Context, userID int) ([]*models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *PaymentService) GetPayment(ctx context.Context, id, userID int) (*models.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil || p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *PaymentService) ListTransactions(ctx context.Context, from, to *time.Time) ([]*models.Payment, error) {
	return s.payments.ListAll(ctx, from, to)
}

// Refund выполняет возврат платежа. Допустим только переход
// completed → refunded; повторный возврат — ошибка без изменения состояния.
func (s *PaymentService) Refund(ctx context.Context, paymentID int) error {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return ErrPaymentNotFound
	}

	if p.Status != models.PaymentStatusCompleted {
		logger.Log.Warn("Возврат отклонён: платёж не завершён",
			zap.Int("payment_id", paymentID), zap.String("status", p.Status))
		return ErrPaymentNotRefundable
	}

	refundID := ""
	if p.PaymentMethod == "stripe" && p.StripePaymentID != "" {
		refundID, err = s.gateway.CreateRefund(p.StripePaymentID)
		if err != nil {
			logger.Log.Error("Ошибка возврата через шлюз", zap.Error(err), zap.Int("payment_id", paymentID))
			return err
		}
	}

	if err := s.payments.MarkRefunded(ctx, paymentID, refundID); err != nil {
		logger.Log.Error("Ошибка записи возврата", zap.Error(err), zap.Int("payment_id", paymentID))
		return err
	}

	logger.Log.Info("Возврат выполнен", zap.Int("payment_id", paymentID), zap.String("refund_id", refundID))
	return nil
}

func (s *PaymentService) ListPayouts(ctx context.Context, from, to *time.Time) ([]*models.InstructorPayout, error) {
	return s.payouts.List(ctx, from, to)
}

// ProcessPayout обрабатывает выплату преподавателю. Допустим только переход
// pending → completed; повторная обработка — ошибка-noop.
func (s *PaymentService) ProcessPayout(ctx context.Context, payoutID int) error {
	p, err := s.payouts.GetByID(ctx, payoutID)
	if err != nil {
		return ErrPayoutNotFound
	}

	if p.Status != models.PayoutStatusPending {
		logger.Log.Warn("Обработка выплаты отклонена: статус не pending",
			zap.Int("payout_id", payoutID), zap.String("status", p.Status))
		return ErrPayoutNotPending
	}

	accountID, err := s.users.GetStripeAccountID(ctx, p.InstructorID)
	if err != nil {
		return ErrPayoutNotFound
	}

	if accountID != "" {
		instructor, err := s.users.GetUserByID(ctx, p.InstructorID)
		name := ""
		if err == nil {
			name = instructor.Name
		}
		cents := int64(math.Round(p.Amount * 100))
		transferID, err := s.gateway.CreateTransfer(cents, accountID, fmt.Sprintf("Payout for instructor %s", name))
		if err != nil {
			logger.Log.Error("Ошибка выплаты через шлюз", zap.Error(err), zap.Int("payout_id", payoutID))
			return err
		}
		return s.payouts.MarkCompleted(ctx, payoutID, transferID, "")
	}

	// без аккаунта в шлюзе — закрываем как ручную выплату
	return s.payouts.MarkCompleted(ctx, payoutID, "", "Manual payout required")
}

func (s *PaymentService) ListSubscriptions(ctx context.Context, from, to *time.Time) ([]*models.Subscription, error) {
	return s.subs.List(ctx, from, to)
}

// UpdateSubscription переводит подписку между статусами active/paused и в
// терминальный cancelled, сперва выполняя соответствующий вызов шлюза и
// затем зеркаля статус локально. Отката удалённого вызова при ошибке
// локальной записи нет — окно несогласованности унаследовано от исходной
// системы и только логируется.
func (s *PaymentService) UpdateSubscription(ctx context.Context, id int, status string) error {
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusPaused, models.SubscriptionStatusCancelled:
	default:
		return ErrSubBadStatus
	}

	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return ErrSubNotFound
	}

	if sub.Status == models.SubscriptionStatusCancelled {
		return ErrSubCancelled
	}

	if sub.StripeSubscriptionID != "" {
		switch status {
		case models.SubscriptionStatusActive:
			err = s.gateway.ResumeSubscription(sub.StripeSubscriptionID)
		case models.SubscriptionStatusPaused:
			err = s.gateway.PauseSubscription(sub.StripeSubscriptionID)
		case models.SubscriptionStatusCancelled:
			err = s.gateway.CancelSubscription(sub.StripeSubscriptionID)
		}
		if err != nil {
			logger.Log.Error("Ошибка вызова шлюза для подписки", zap.Error(err), zap.Int("subscription_id", id))
			return err
		}
	}

	if err := s.subs.UpdateStatus(ctx, id, status); err != nil {
		logger.Log.Error("Шлюз обновлён, но локальная запись не удалась",
			zap.Error(err), zap.Int("subscription_id", id), zap.String("status", status))
		return err
	}

	logger.Log.Info("Статус подписки обновлён", zap.Int("subscription_id", id), zap.String("status", status))
	return nil
}
