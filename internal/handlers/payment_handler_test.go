package handlers

import (
	"context"
	"coursehub/internal/models"
	"coursehub/internal/services"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentRepo struct {
	payments map[int]*models.Payment
	byKey    map[string]*models.Payment
	nextID   int
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{
		payments: make(map[int]*models.Payment),
		byKey:    make(map[string]*models.Payment),
	}
}

func (s *stubPaymentRepo) CreateWithEnrollment(_ context.Context, p *models.Payment) error {
	s.nextID++
	p.ID = s.nextID
	s.payments[p.ID] = p
	s.byKey[p.IdempotencyKey] = p
	return nil
}

func (s *stubPaymentRepo) GetByIdempotencyKey(_ context.Context, key string) (*models.Payment, error) {
	p, ok := s.byKey[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (s *stubPaymentRepo) GetByID(_ context.Context, id int) (*models.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (s *stubPaymentRepo) ListByUser(_ context.Context, userID int) ([]*models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) ListAll(_ context.Context, from, to *time.Time) ([]*models.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) MarkRefunded(_ context.Context, paymentID int, refundID string) error {
	return nil
}

type stubPayoutRepo struct{}

func (stubPayoutRepo) GetByID(_ context.Context, id int) (*models.InstructorPayout, error) {
	return nil, errors.New("not found")
}

func (stubPayoutRepo) List(_ context.Context, from, to *time.Time) ([]*models.InstructorPayout, error) {
	return nil, nil
}

func (stubPayoutRepo) MarkCompleted(_ context.Context, id int, transferID, notes string) error {
	return nil
}

type stubSubRepo struct{}

func (stubSubRepo) GetByID(_ context.Context, id int) (*models.Subscription, error) {
	return nil, errors.New("not found")
}

func (stubSubRepo) List(_ context.Context, from, to *time.Time) ([]*models.Subscription, error) {
	return nil, nil
}

func (stubSubRepo) UpdateStatus(_ context.Context, id int, status string) error {
	return nil
}

type stubStripeUsers struct{}

func (stubStripeUsers) GetStripeAccountID(_ context.Context, userID int) (string, error) {
	return "", nil
}

func (stubStripeUsers) GetUserByID(_ context.Context, id int) (*models.User, error) {
	return &models.User{ID: id}, nil
}

type stubGateway struct{}

func (stubGateway) CreateRefund(string) (string, error)                { return "", nil }
func (stubGateway) CreateTransfer(int64, string, string) (string, error) { return "", nil }
func (stubGateway) PauseSubscription(string) error                     { return nil }
func (stubGateway) ResumeSubscription(string) error                    { return nil }
func (stubGateway) CancelSubscription(string) error                    { return nil }

func newPaymentHandlerForTest() (*PaymentHandler, *stubPaymentRepo) {
	repo := newStubPaymentRepo()
	service := services.NewPaymentService(repo, stubPayoutRepo{}, stubSubRepo{}, stubStripeUsers{}, stubGateway{})
	return NewPaymentHandler(service, validator.New()), repo
}

func TestPaymentProcess(t *testing.T) {
	handler, repo := newPaymentHandlerForTest()

	body, _ := json.Marshal(map[string]interface{}{
		"course_id":       10,
		"amount":          149.99,
		"payment_method":  "card",
		"idempotency_key": "idem-1",
	})
	rec := httptest.NewRecorder()
	handler.Process(rec, authedRequest(http.MethodPost, "/api/payments/process", body, 7, "user"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Payment `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, models.PaymentStatusCompleted, resp.Data.Status)
	assert.Contains(t, resp.Data.TransactionID, "TXN")
	assert.Equal(t, 7, repo.payments[resp.Data.ID].UserID)
}

func TestPaymentProcess_NoIdempotencyKey(t *testing.T) {
	handler, repo := newPaymentHandlerForTest()

	body, _ := json.Marshal(map[string]interface{}{
		"course_id":      10,
		"amount":         149.99,
		"payment_method": "card",
	})
	rec := httptest.NewRecorder()
	handler.Process(rec, authedRequest(http.MethodPost, "/api/payments/process", body, 7, "user"))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Payment `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// ключ сгенерирован на стороне сервера
	assert.NotEmpty(t, repo.payments[resp.Data.ID].IdempotencyKey)
}

func TestPaymentDetails_OwnershipHidden(t *testing.T) {
	handler, repo := newPaymentHandlerForTest()
	repo.payments[1] = &models.Payment{ID: 1, UserID: 7, Amount: 10, Status: models.PaymentStatusCompleted}

	// владелец видит платёж
	req := authedRequest(http.MethodGet, "/api/payments/1", nil, 7, "user")
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec := httptest.NewRecorder()
	handler.Details(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// чужой платёж неотличим от несуществующего
	req = authedRequest(http.MethodGet, "/api/payments/1", nil, 8, "user")
	req = mux.SetURLVars(req, map[string]string{"id": "1"})
	rec = httptest.NewRecorder()
	handler.Details(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
