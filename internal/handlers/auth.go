package handlers

import (
	"coursehub/internal/config"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"coursehub/internal/services"
	"coursehub/internal/utils"
	helpers "coursehub/internal/utils/helpers"
	"coursehub/internal/validator"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validator
}

func NewAuthHandler(authService *services.AuthService, validate *validator.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signupResponse struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

type needsVerificationResponse struct {
	NeedsVerification bool   `json:"needs_verification"`
	UserID            int    `json:"user_id"`
	Email             string `json:"email"`
	Message           string `json:"message"`
}

type verifyEmailRequest struct {
	UserID int    `json:"user_id" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6"`
}

type resendVerificationRequest struct {
	UserID int `json:"user_id" validate:"required"`
}

// Signup godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signupRequest true "Данные регистрации"
// @Success 201 {object} signupResponse
// @Failure 400 {string} string "Ошибка валидации или почта занята"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Signup", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка регистрации")
		return
	}

	h.queueOTPEmail(user, token)

	helpers.JSON(w, http.StatusCreated, signupResponse{UserID: user.ID, Email: user.Email})
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 400 {object} needsVerificationResponse "Почта не подтверждена"
// @Failure 401 {string} string "Неверная почта или пароль"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, token, err := h.authService.Login(
		r.Context(),
		req.Email,
		req.Password,
		clientIP(r),
		cfg.JWTSecret,
		accessTTL,
		refreshTTL,
	)
	if err != nil {
		if errors.Is(err, services.ErrNeedsVerification) {
			h.queueOTPEmail(user, token)
			helpers.JSON(w, http.StatusBadRequest, needsVerificationResponse{
				NeedsVerification: true,
				UserID:            user.ID,
				Email:             user.Email,
				Message:           "Сначала подтвердите почту. Новый код отправлен на ваш адрес",
			})
			return
		}
		logger.Log.Warn("Ошибка входа пользователя", zap.String("email", req.Email), zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
	})
}

// VerifyEmail godoc
// @Summary Подтверждение почты одноразовым кодом
// @Tags auth
// @Accept json
// @Produce json
// @Param input body verifyEmailRequest true "ID пользователя и код"
// @Success 200 {string} string "Почта подтверждена"
// @Failure 400 {string} string "Неверный или просроченный код"
// @Router /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), req.UserID, req.OTP); err != nil {
		if errors.Is(err, services.ErrCodeInvalid) {
			helpers.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.Error("Ошибка подтверждения почты", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка подтверждения почты")
		return
	}

	logger.Log.Info("Почта подтверждена", zap.Int("user_id", req.UserID))
	helpers.JSON(w, http.StatusOK, "Почта подтверждена")
}

// ResendVerification godoc
// @Summary Повторная отправка кода подтверждения
// @Tags auth
// @Accept json
// @Produce json
// @Param input body resendVerificationRequest true "ID пользователя"
// @Success 200 {string} string "Код отправлен"
// @Failure 404 {string} string "Пользователь не найден"
// @Router /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if err := h.validate.Validate(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authService.ResendVerification(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		helpers.Error(w, http.StatusInternalServerError, "Ошибка перевыпуска кода")
		return
	}

	h.queueOTPEmail(user, token)
	helpers.JSON(w, http.StatusOK, "Код отправлен! Проверьте вашу почту.")
}

// Refresh godoc
// @Summary Обновление access-токена
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Недействительный refresh токен"
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		logger.Log.Warn("Отсутствует refresh token в Refresh")
		helpers.Error(w, http.StatusUnauthorized, "Отсутствует refresh token")
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cfg, _ := config.LoadConfig()
	claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		logger.Log.Warn("Неверный или просроченный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный refresh token")
		return
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	tokenType, _ := claims["token_type"].(string)
	if !ok1 || !ok2 || tokenType != "refresh" {
		logger.Log.Warn("Неверный payload refresh токена", zap.Any("claims", claims))
		helpers.Error(w, http.StatusUnauthorized, "Неверный payload токена")
		return
	}

	isValid, err := h.authService.ValidateRefreshToken(r.Context(), int(userID), tokenString)
	if err != nil || !isValid {
		logger.Log.Warn("Недействительный refresh token", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "Недействительный refresh token")
		return
	}

	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	accessToken, err := utils.GenerateToken(cfg.JWTSecret, int(userID), role, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка генерации токена")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"access_token": accessToken})
}

// Logout godoc
// @Summary Выход (удаление refresh токена)
// @Tags auth
// @Security ApiKeyAuth
// @Success 200 {string} string "Выход выполнен"
// @Failure 401 {string} string "Невалидный токен"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		helpers.Error(w, http.StatusUnauthorized, "Отсутствует refresh token")
		return
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	cfg, _ := config.LoadConfig()
	claims, err := utils.ParseToken(cfg.JWTSecret, tokenString)
	if err != nil {
		helpers.Error(w, http.StatusUnauthorized, "Невалидный refresh token")
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Неверный payload")
		return
	}

	if err := h.authService.Logout(r.Context(), int(userID), tokenString); err != nil {
		logger.Log.Error("Ошибка при удалении токена", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка при удалении токена")
		return
	}

	helpers.JSON(w, http.StatusOK, "Выход выполнен")
}

func (h *AuthHandler) queueOTPEmail(user *models.User, token *models.VerificationToken) {
	cfg, _ := config.LoadConfig()
	ttlMin := 10
	if d, err := time.ParseDuration(cfg.OTPTTLMin + "m"); err == nil {
		ttlMin = int(d.Minutes())
	}

	services.EmailQueue <- services.EmailJob{
		To:      []string{user.Email},
		Subject: "Подтверждение регистрации",
		Body:    helpers.BuildOTPHTML(user.Name, token.Token, ttlMin),
		IsHTML:  true,
	}
}

// clientIP — адрес клиента с учётом прокси.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
