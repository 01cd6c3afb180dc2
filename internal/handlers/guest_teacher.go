package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/models"
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

type GuestTeacherHandler struct {
	service  *services.GuestTeacherService
	validate *validator.Validator
}

func NewGuestTeacherHandler(service *services.GuestTeacherService, validate *validator.Validator) *GuestTeacherHandler {
	return &GuestTeacherHandler{service: service, validate: validate}
}

type guestTeacherRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization" validate:"required"`
	Availability   string  `json:"availability"`
	Rate           float64 `json:"rate" validate:"gte=0"`
}

type guestTeacherStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// List godoc
// @Summary Список приглашённых преподавателей
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.GuestTeacher
// @Router /api/admin/guest-teachers [get]
func (h *GuestTeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения преподавателей", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения преподавателей")
		return
	}
	helpers.JSON(w, http.StatusOK, teachers)
}

// Create godoc
// @Summary Добавление приглашённого преподавателя
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body guestTeacherRequest true "Данные преподавателя"
// @Success 201 {object} map[string]int
// @Failure 400 {string} string "Ошибка валидации"
// @Router /api/admin/guest-teachers [post]
func (h *GuestTeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req guestTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher := &models.GuestTeacher{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Availability:   req.Availability,
		Rate:           req.Rate,
		Status:         "active",
	}
	id, err := h.service.Add(r.Context(), teacher)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка добавления преподавателя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка добавления преподавателя")
		return
	}

	helpers.JSON(w, http.StatusCreated, map[string]int{"id": id})
}

// UpdateStatus godoc
// @Summary Смена статуса преподавателя
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID преподавателя"
// @Param input body guestTeacherStatusRequest true "Новый статус"
// @Success 200 {string} string "Статус обновлён"
// @Failure 404 {string} string "Преподаватель не найден"
// @Router /api/admin/guest-teachers/{id} [patch]
func (h *GuestTeacherHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	var req guestTeacherStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, services.ErrGuestTeacherNotFound) {
			helpers.Error(w, http.StatusNotFound, "Преподаватель не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка обновления преподавателя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления преподавателя")
		return
	}

	helpers.JSON(w, http.StatusOK, "Статус обновлён")
}

// Delete godoc
// @Summary Удаление приглашённого преподавателя
// @Tags admin
// @Security ApiKeyAuth
// @Param id path int true "ID преподавателя"
// @Success 200 {string} string "Преподаватель удалён"
// @Failure 404 {string} string "Преподаватель не найден"
// @Router /api/admin/guest-teachers/{id} [delete]
func (h *GuestTeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Неверный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrGuestTeacherNotFound) {
			helpers.Error(w, http.StatusNotFound, "Преподаватель не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка удаления преподавателя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка удаления преподавателя")
		return
	}

	helpers.JSON(w, http.StatusOK, "Преподаватель удалён")
}
