package handlers

import (
	"coursehub/internal/logger"
	"coursehub/internal/middleware"
	"coursehub/internal/models"
	"coursehub/internal/services"
	helpers "coursehub/internal/utils/helpers"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type ProfileHandler struct {
	authService *services.AuthService
}

func NewProfileHandler(authService *services.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Me godoc
// @Summary Профиль текущего пользователя
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 404 {string} string "Пользователь не найден"
// @Router /api/profile [get]
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			helpers.Error(w, http.StatusNotFound, "Пользователь не найден")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка получения профиля", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения профиля")
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}

// Update godoc
// @Summary Обновление профиля
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body models.UpdateProfileRequest true "Поля для изменения"
// @Success 200 {string} string "Профиль обновлён"
// @Failure 400 {string} string "Невалидный JSON"
// @Router /api/profile [patch]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.authService.UpdateProfile(r.Context(), userID, &req); err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка обновления профиля", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка обновления профиля")
		return
	}

	helpers.JSON(w, http.StatusOK, "Профиль обновлён")
}

// History godoc
// @Summary История изменений профиля
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.UserHistory
// @Router /api/profile/history [get]
func (h *ProfileHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.ContextUserID).(int)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Нет доступа")
		return
	}

	history, err := h.authService.GetUserHistory(r.Context(), userID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения истории", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка получения истории")
		return
	}

	helpers.JSON(w, http.StatusOK, history)
}
