package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/middleware"
	"coursehub/internal/services"
	helpers "coursehub/internal/utils/helpers"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validator
}

func NewPaymentHandler(service *services.PaymentService, validate *validator.Validator) *PaymentHandler {
	return &PaymentHandler{service: service, validate: validate}
}

// Клиент присылает результат оплаты сам: сумма и метод не сверяются
// с платёжным шлюзом. Ключ идемпотентности защищает от повторной
// записи при ретраях; без ключа сервер генерирует свой.
type processPaymentRequest struct {
	CourseID       int     `json:"course_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	IdempotencyKey string  `json:"idempotency_key"`
}

// Process godoc
// @Summary Запись платежа и зачисление на курс
// @Tags payments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body processPaymentRequest true "Данные платежа"
// @Success 201 {object} models.Payment
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/payments/process [post]
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.service.ProcessPayment(r.Context(), userID, req.CourseID, req.Amount, req.PaymentMethod, req.IdempotencyKey)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка записи платежа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка записи платежа")
		return
	}

	logger.WithCtx(r.Context()).Info("Платёж записан",
		zap.String("transaction_id", payment.TransactionID),
		zap.Int("course_id", req.CourseID))
	helpers.JSON(w, http.StatusCreated, payment)
}

// History godoc
// @Summary История платежей пользователя
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Payment
// @Router /api/payments/history [get]
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	payments, err := h.service.GetPaymentHistory(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения истории платежей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения истории платежей")
		return
	}

	helpers.JSON(w, http.StatusOK, payments)
}

// Details godoc
// @Summary Детали платежа
// @Tags payments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID платежа"
// @Success 200 {object} models.Payment
// @Failure 404 {string} string "Платёж не найден"
// @Router /api/payments/{id} [get]
func (h *PaymentHandler) Details(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			// Чужой платёж тоже отдаём как not found
			helpers.Error(w, http.StatusNotFound, "Платёж не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка получения платежа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения платежа")
		return
	}

	helpers.JSON(w, http.StatusOK, payment)
}
