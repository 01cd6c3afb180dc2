package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/services"
	helpers "coursehub/internal/utils/helpers"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdminPaymentHandler — админские операции над платежами,
// выплатами и подписками.
type AdminPaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validator
}

func NewAdminPaymentHandler(service *services.PaymentService, validate *validator.Validator) *AdminPaymentHandler {
	return &AdminPaymentHandler{service: service, validate: validate}
}

type updateSubscriptionRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused cancelled"`
}

// dateRange разбирает необязательные query-параметры from и to (YYYY-MM-DD).
func dateRange(r *http.Request) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, err
		}
		// Включаем весь день целиком
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}

// Transactions godoc
// @Summary Все транзакции платформы
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param from query string false "Начало периода (YYYY-MM-DD)"
// @Param to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {array} models.Payment
// @Router /api/admin/transactions [get]
func (h *AdminPaymentHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный формат даты, ожидается YYYY-MM-DD")
		return
	}

	payments, err := h.service.ListTransactions(r.Context(), from, to)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения транзакций", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения транзакций")
		return
	}

	helpers.JSON(w, http.StatusOK, payments)
}

// Refund godoc
// @Summary Возврат платежа
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID платежа"
// @Success 200 {string} string "Платёж возвращён"
// @Failure 400 {string} string "Платёж нельзя вернуть"
// @Failure 404 {string} string "Платёж не найден"
// @Router /api/admin/payments/{id}/refund [post]
func (h *AdminPaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	if err := h.service.Refund(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			helpers.Error(w, http.StatusNotFound, "Платёж не найден")
		case errors.Is(err, services.ErrPaymentNotRefundable):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			// текст ошибки шлюза отдаётся клиенту как есть
			logger.WithCtx(r.Context()).Error("Ошибка возврата платежа", zap.Int("payment_id", id), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.WithCtx(r.Context()).Info("Платёж возвращён", zap.Int("payment_id", id))
	helpers.JSON(w, http.StatusOK, "Платёж возвращён")
}

// Payouts godoc
// @Summary Выплаты инструкторам
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param from query string false "Начало периода (YYYY-MM-DD)"
// @Param to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {array} models.InstructorPayout
// @Router /api/admin/payouts [get]
func (h *AdminPaymentHandler) Payouts(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный формат даты, ожидается YYYY-MM-DD")
		return
	}

	payouts, err := h.service.ListPayouts(r.Context(), from, to)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения выплат", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения выплат")
		return
	}

	helpers.JSON(w, http.StatusOK, payouts)
}

// ProcessPayout godoc
// @Summary Проведение выплаты инструктору
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID выплаты"
// @Success 200 {string} string "Выплата проведена"
// @Failure 400 {string} string "Выплата уже проведена"
// @Failure 404 {string} string "Выплата не найдена"
// @Router /api/admin/payouts/{id}/process [post]
func (h *AdminPaymentHandler) ProcessPayout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	if err := h.service.ProcessPayout(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrPayoutNotFound):
			helpers.Error(w, http.StatusNotFound, "Выплата не найдена")
		case errors.Is(err, services.ErrPayoutNotPending):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка проведения выплаты", zap.Int("payout_id", id), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.WithCtx(r.Context()).Info("Выплата проведена", zap.Int("payout_id", id))
	helpers.JSON(w, http.StatusOK, "Выплата проведена")
}

// Subscriptions godoc
// @Summary Подписки пользователей
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param from query string false "Начало периода (YYYY-MM-DD)"
// @Param to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {array} models.Subscription
// @Router /api/admin/subscriptions [get]
func (h *AdminPaymentHandler) Subscriptions(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный формат даты, ожидается YYYY-MM-DD")
		return
	}

	subs, err := h.service.ListSubscriptions(r.Context(), from, to)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения подписок", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения подписок")
		return
	}

	helpers.JSON(w, http.StatusOK, subs)
}

// UpdateSubscription godoc
// @Summary Смена статуса подписки
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID подписки"
// @Param input body updateSubscriptionRequest true "Новый статус"
// @Success 200 {string} string "Статус подписки обновлён"
// @Failure 400 {string} string "Недопустимый переход статуса"
// @Failure 404 {string} string "Подписка не найдена"
// @Router /api/admin/subscriptions/{id} [patch]
func (h *AdminPaymentHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req updateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateSubscription(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, services.ErrSubNotFound):
			helpers.Error(w, http.StatusNotFound, "Подписка не найдена")
		case errors.Is(err, services.ErrSubCancelled), errors.Is(err, services.ErrSubBadStatus):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка обновления подписки", zap.Int("subscription_id", id), zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	logger.WithCtx(r.Context()).Info("Статус подписки обновлён",
		zap.Int("subscription_id", id), zap.String("status", req.Status))
	helpers.JSON(w, http.StatusOK, "Статус подписки обновлён")
}
