package services

import (
	"context"
	"coursehub/internal/models"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentRepo struct {
	payments map[int]*models.Payment
	byKey    map[string]*models.Payment
	nextID   int

	createCalls int
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		payments: make(map[int]*models.Payment),
		byKey:    make(map[string]*models.Payment),
	}
}

func (m *mockPaymentRepo) CreateWithEnrollment(_ context.Context, p *models.Payment) error {
	m.createCalls++
	if _, exists := m.byKey[p.IdempotencyKey]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	m.nextID++
	p.ID = m.nextID
	m.payments[p.ID] = p
	m.byKey[p.IdempotencyKey] = p
	return nil
}

func (m *mockPaymentRepo) GetByIdempotencyKey(_ context.Context, key string) (*models.Payment, error) {
	p, ok := m.byKey[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id int) (*models.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockPaymentRepo) ListByUser(_ context.Context, userID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) ListAll(_ context.Context, from, to *time.Time) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range m.payments {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPaymentRepo) MarkRefunded(_ context.Context, paymentID int, refundID string) error {
	p, ok := m.payments[paymentID]
	if !ok {
		return errors.New("not found")
	}
	p.Status = models.PaymentStatusRefunded
	p.RefundID = refundID
	return nil
}

type mockPayoutRepo struct {
	payouts map[int]*models.InstructorPayout
}

func (m *mockPayoutRepo) GetByID(_ context.Context, id int) (*models.InstructorPayout, error) {
	p, ok := m.payouts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *mockPayoutRepo) List(_ context.Context, from, to *time.Time) ([]*models.InstructorPayout, error) {
	var out []*models.InstructorPayout
	for _, p := range m.payouts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPayoutRepo) MarkCompleted(_ context.Context, id int, transferID, notes string) error {
	p, ok := m.payouts[id]
	if !ok {
		return errors.New("not found")
	}
	p.Status = models.PayoutStatusCompleted
	p.StripeTransferID = transferID
	p.Notes = notes
	return nil
}

type mockSubRepo struct {
	subs map[int]*models.Subscription
}

func (m *mockSubRepo) GetByID(_ context.Context, id int) (*models.Subscription, error) {
	s, ok := m.subs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (m *mockSubRepo) List(_ context.Context, from, to *time.Time) ([]*models.Subscription, error) {
	var out []*models.Subscription
	for _, s := range m.subs {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSubRepo) UpdateStatus(_ context.Context, id int, status string) error {
	s, ok := m.subs[id]
	if !ok {
		return errors.New("not found")
	}
	s.Status = status
	return nil
}

type mockStripeUsers struct {
	accounts map[int]string
}

func (m *mockStripeUsers) GetStripeAccountID(_ context.Context, userID int) (string, error) {
	return m.accounts[userID], nil
}

func (m *mockStripeUsers) GetUserByID(_ context.Context, id int) (*models.User, error) {
	return &models.User{ID: id, Name: "Инструктор"}, nil
}

// mockGateway записывает вызовы шлюза.
type mockGateway struct {
	refunds   []string
	transfers []string
	paused    []string
	resumed   []string
	cancelled []string
	failNext  error
}

func (m *mockGateway) CreateRefund(paymentIntentID string) (string, error) {
	if m.failNext != nil {
		return "", m.failNext
	}
	m.refunds = append(m.refunds, paymentIntentID)
	return "re_test_1", nil
}

func (m *mockGateway) CreateTransfer(amountCents int64, destination, description string) (string, error) {
	if m.failNext != nil {
		return "", m.failNext
	}
	m.transfers = append(m.transfers, destination)
	return "tr_test_1", nil
}

func (m *mockGateway) PauseSubscription(subscriptionID string) error {
	m.paused = append(m.paused, subscriptionID)
	return m.failNext
}

func (m *mockGateway) ResumeSubscription(subscriptionID string) error {
	m.resumed = append(m.resumed, subscriptionID)
	return m.failNext
}

func (m *mockGateway) CancelSubscription(subscriptionID string) error {
	m.cancelled = append(m.cancelled, subscriptionID)
	return m.failNext
}

func newTestPaymentService(payments *mockPaymentRepo, payouts *mockPayoutRepo, subs *mockSubRepo, gateway *mockGateway) *PaymentService {
	return NewPaymentService(payments, payouts, subs, &mockStripeUsers{accounts: map[int]string{}}, gateway)
}

func TestProcessPayment_Idempotent(t *testing.T) {
	repo := newMockPaymentRepo()
	service := newTestPaymentService(repo, &mockPayoutRepo{}, &mockSubRepo{}, &mockGateway{})

	first, err := service.ProcessPayment(context.Background(), 1, 10, 99.90, "card", "key-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, first.Status)
	assert.Contains(t, first.TransactionID, "TXN")

	// повторная отправка с тем же ключом возвращает исходную запись
	second, err := service.ProcessPayment(context.Background(), 1, 10, 99.90, "card", "key-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	assert.Len(t, repo.payments, 1)
}

func TestProcessPayment_GeneratedKey(t *testing.T) {
	repo := newMockPaymentRepo()
	service := newTestPaymentService(repo, &mockPayoutRepo{}, &mockSubRepo{}, &mockGateway{})

	// без ключа сервер генерирует свой
	p, err := service.ProcessPayment(context.Background(), 1, 10, 99.90, "card", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, p.Status)
	assert.NotEmpty(t, p.IdempotencyKey)
	assert.Len(t, repo.payments, 1)
}

func TestRefund_OnlyCompleted(t *testing.T) {
	repo := newMockPaymentRepo()
	gateway := &mockGateway{}
	service := newTestPaymentService(repo, &mockPayoutRepo{}, &mockSubRepo{}, gateway)

	p, err := service.ProcessPayment(context.Background(), 1, 10, 50, "card", "key-r")
	require.NoError(t, err)

	require.NoError(t, service.Refund(context.Background(), p.ID))
	assert.Equal(t, models.PaymentStatusRefunded, repo.payments[p.ID].Status)

	// повторный возврат — ошибка без изменения состояния
	err = service.Refund(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrPaymentNotRefundable)
	assert.Equal(t, models.PaymentStatusRefunded, repo.payments[p.ID].Status)

	err = service.Refund(context.Background(), 999)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRefund_ViaGateway(t *testing.T) {
	repo := newMockPaymentRepo()
	gateway := &mockGateway{}
	service := newTestPaymentService(repo, &mockPayoutRepo{}, &mockSubRepo{}, gateway)

	p, err := service.ProcessPayment(context.Background(), 1, 10, 50, "stripe", "key-s")
	require.NoError(t, err)
	repo.payments[p.ID].StripePaymentID = "pi_test_1"

	require.NoError(t, service.Refund(context.Background(), p.ID))
	assert.Equal(t, []string{"pi_test_1"}, gateway.refunds)
	assert.Equal(t, "re_test_1", repo.payments[p.ID].RefundID)
}

func TestProcessPayout_OnlyPending(t *testing.T) {
	payouts := &mockPayoutRepo{payouts: map[int]*models.InstructorPayout{
		1: {ID: 1, InstructorID: 5, Amount: 120.50, Status: models.PayoutStatusPending},
	}}
	gateway := &mockGateway{}
	service := newTestPaymentService(newMockPaymentRepo(), payouts, &mockSubRepo{}, gateway)

	require.NoError(t, service.ProcessPayout(context.Background(), 1))
	assert.Equal(t, models.PayoutStatusCompleted, payouts.payouts[1].Status)
	// без stripe-аккаунта выплата закрывается вручную
	assert.Equal(t, "Manual payout required", payouts.payouts[1].Notes)
	assert.Empty(t, gateway.transfers)

	err := service.ProcessPayout(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPayoutNotPending)

	err = service.ProcessPayout(context.Background(), 42)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}

func TestProcessPayout_StripeTransfer(t *testing.T) {
	payouts := &mockPayoutRepo{payouts: map[int]*models.InstructorPayout{
		1: {ID: 1, InstructorID: 5, Amount: 120.50, Status: models.PayoutStatusPending},
	}}
	gateway := &mockGateway{}
	users := &mockStripeUsers{accounts: map[int]string{5: "acct_test_1"}}
	service := NewPaymentService(newMockPaymentRepo(), payouts, &mockSubRepo{}, users, gateway)

	require.NoError(t, service.ProcessPayout(context.Background(), 1))
	assert.Equal(t, []string{"acct_test_1"}, gateway.transfers)
	assert.Equal(t, "tr_test_1", payouts.payouts[1].StripeTransferID)
	assert.Equal(t, models.PayoutStatusCompleted, payouts.payouts[1].Status)
}

func TestUpdateSubscription_Transitions(t *testing.T) {
	subs := &mockSubRepo{subs: map[int]*models.Subscription{
		1: {ID: 1, Status: models.SubscriptionStatusActive, StripeSubscriptionID: "sub_test_1"},
	}}
	gateway := &mockGateway{}
	service := newTestPaymentService(newMockPaymentRepo(), &mockPayoutRepo{}, subs, gateway)

	require.NoError(t, service.UpdateSubscription(context.Background(), 1, models.SubscriptionStatusPaused))
	assert.Equal(t, models.SubscriptionStatusPaused, subs.subs[1].Status)
	assert.Equal(t, []string{"sub_test_1"}, gateway.paused)

	require.NoError(t, service.UpdateSubscription(context.Background(), 1, models.SubscriptionStatusActive))
	assert.Equal(t, models.SubscriptionStatusActive, subs.subs[1].Status)
	assert.Equal(t, []string{"sub_test_1"}, gateway.resumed)

	require.NoError(t, service.UpdateSubscription(context.Background(), 1, models.SubscriptionStatusCancelled))
	assert.Equal(t, models.SubscriptionStatusCancelled, subs.subs[1].Status)

	// cancelled — терминальный статус
	err := service.UpdateSubscription(context.Background(), 1, models.SubscriptionStatusActive)
	assert.ErrorIs(t, err, ErrSubCancelled)
	assert.Equal(t, models.SubscriptionStatusCancelled, subs.subs[1].Status)

	err = service.UpdateSubscription(context.Background(), 1, "expired")
	assert.ErrorIs(t, err, ErrSubBadStatus)

	err = service.UpdateSubscription(context.Background(), 77, models.SubscriptionStatusPaused)
	assert.ErrorIs(t, err, ErrSubNotFound)
}

func TestUpdateSubscription_GatewayFailure(t *testing.T) {
	subs := &mockSubRepo{subs: map[int]*models.Subscription{
		1: {ID: 1, Status: models.SubscriptionStatusActive, StripeSubscriptionID: "sub_test_1"},
	}}
	gateway := &mockGateway{failNext: errors.New("stripe: boom")}
	service := newTestPaymentService(newMockPaymentRepo(), &mockPayoutRepo{}, subs, gateway)

	err := service.UpdateSubscription(context.Background(), 1, models.SubscriptionStatusPaused)
	require.Error(t, err)
	// локальный статус не меняется, если шлюз ответил ошибкой
	assert.Equal(t, models.SubscriptionStatusActive, subs.subs[1].Status)
}
