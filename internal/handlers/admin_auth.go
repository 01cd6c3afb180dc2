package handlers

import (
	"coursehub/internal/config"
	"coursehub/internal/logger"
	"coursehub/internal/services"
	helpers "coursehub/internal/utils/helpers"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type AdminAuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validator
}

func NewAdminAuthHandler(authService *services.AuthService, validate *validator.Validator) *AdminAuthHandler {
	return &AdminAuthHandler{authService: authService, validate: validate}
}

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminLoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login godoc
// @Summary Вход администратора
// @Tags admin
// @Accept json
// @Produce json
// @Param input body adminLoginRequest true "Учётные данные администратора"
// @Success 200 {object} adminLoginResponse
// @Failure 401 {string} string "Неверное имя пользователя или пароль"
// @Router /api/admin/login [post]
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, _ := config.LoadConfig()
	ttl, _ := time.ParseDuration(cfg.AdminTokenTTL)

	token, admin, err := h.authService.AdminLogin(r.Context(), req.Username, req.Password, cfg.JWTSecret, ttl)
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) || errors.Is(err, services.ErrWrongPassword) {
			logger.Log.Warn("Неудачный вход администратора", zap.String("username", req.Username))
			helpers.Error(w, http.StatusUnauthorized, "Неверное имя пользователя или пароль")
			return
		}
		logger.Log.Error("Ошибка входа администратора", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка входа")
		return
	}

	logger.Log.Info("Администратор вошёл в систему", zap.String("username", admin.Username))
	helpers.JSON(w, http.StatusOK, adminLoginResponse{
		Token:    token,
		Username: admin.Username,
		Role:     "admin",
	})
}
