package services

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"coursehub/internal/utils"
	"errors"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken        = errors.New("пользователь с такой почтой уже зарегистрирован")
	ErrUserNotFound      = errors.New("пользователь не найден")
	ErrWrongPassword     = errors.New("неверный пароль")
	ErrNeedsVerification = errors.New("почта не подтверждена")
	ErrAdminNotFound     = errors.New("неверный логин или пароль")
)

type UserRepo interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUserWithToken(ctx context.Context, user *models.User, token *models.VerificationToken) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	SetVerified(ctx context.Context, userID int) error
	UpdateLastLogin(ctx context.Context, userID int, ip string) error
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
	UpdateProfileWithHistory(ctx context.Context, id int, input *models.UpdateProfileRequest) error
	GetUserHistory(ctx context.Context, userID int) ([]*models.UserHistory, error)
}

type AdminUserRepo interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

type AuthService struct {
	repo         UserRepo
	adminRepo    AdminUserRepo
	verification *VerificationService
}

func NewAuthService(repo UserRepo, adminRepo AdminUserRepo, verification *VerificationService) *AuthService {
	return &AuthService{repo: repo, adminRepo: adminRepo, verification: verification}
}

// Signup создаёт неподтверждённого пользователя и код подтверждения в одной
// транзакции. Код возвращается наружу, чтобы хендлер поставил письмо в
// очередь отправки.
func (s *AuthService) Signup(ctx context.Context, name, email, plainPassword string) (*models.User, *models.VerificationToken, error) {
	logger.Log.Info("Регистрация пользователя (service)", zap.String("email", email))

	if exists, err := s.repo.IsEmailTaken(ctx, email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return nil, nil, err
		}
		return nil, nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         "user",
	}

	token, err := s.verification.NewCode(0)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repo.CreateUserWithToken(ctx, user, token); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, nil, err
	}

	logger.Log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", user.ID))
	return user, token, nil
}

// Login проверяет учётные данные. Если почта не подтверждена — выпускает
// свежий код (старые при этом инвалидируются) и возвращает
// ErrNeedsVerification вместе с пользователем и кодом.
func (s *AuthService) Login(
	ctx context.Context,
	email, password, ip, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, *models.User, *models.VerificationToken, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("email", email), zap.Error(err))
		return "", "", nil, nil, ErrUserNotFound
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("email", email))
		return "", "", nil, nil, ErrWrongPassword
	}

	if !user.IsVerified {
		token, issueErr := s.verification.IssueCode(ctx, user.ID)
		if issueErr != nil {
			logger.Log.Error("Ошибка перевыпуска кода при входе", zap.Error(issueErr))
			return "", "", nil, nil, issueErr
		}
		logger.Log.Info("Вход заблокирован до подтверждения почты", zap.Int("user_id", user.ID))
		return "", "", user, token, ErrNeedsVerification
	}

	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", nil, nil, err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", nil, nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", nil, nil, err
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID, ip); err != nil {
		// не критично для входа
		logger.Log.Warn("Не удалось обновить last_login", zap.Error(err), zap.Int("user_id", user.ID))
	}

	logger.Log.Info("Вход выполнен (service)", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return accessToken, refreshToken, user, nil, nil
}

// AdminLogin — вход в админку по отдельной таблице admin_users. Пароль
// сравнивается только через bcrypt: никаких сравнений открытым текстом
// для привилегированных ролей.
func (s *AuthService) AdminLogin(ctx context.Context, username, password, jwtSecret string, ttl time.Duration) (string, *models.AdminUser, error) {
	logger.Log.Info("Попытка входа администратора (service)", zap.String("username", username))

	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Warn("Администратор не найден (service)", zap.String("username", username))
		return "", nil, ErrAdminNotFound
	}

	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		logger.Log.Warn("Неверный пароль администратора (service)", zap.String("username", username))
		return "", nil, ErrAdminNotFound
	}

	token, err := utils.GenerateAdminToken(jwtSecret, admin.ID, admin.Username, ttl)
	if err != nil {
		logger.Log.Error("Ошибка генерации admin-токена", zap.Error(err))
		return "", nil, err
	}

	logger.Log.Info("Вход администратора выполнен (service)", zap.String("username", username))
	return token, admin, nil
}

// VerifyEmail подтверждает почту по одноразовому коду.
func (s *AuthService) VerifyEmail(ctx context.Context, userID int, code string) error {
	return s.verification.ConfirmCode(ctx, userID, code)
}

// ResendVerification перевыпускает код; предыдущие коды пользователя
// перестают действовать.
func (s *AuthService) ResendVerification(ctx context.Context, userID int) (*models.User, *models.VerificationToken, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}

	token, err := s.verification.IssueCode(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (service)", zap.Int("user_id", userID))
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID int, token string) error {
	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, token)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Пользователь не найден по ID (service)", zap.Int("user_id", id), zap.Error(err))
	}
	return user, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, id int, input *models.UpdateProfileRequest) error {
	logger.Log.Info("Обновление профиля (service)", zap.Int("user_id", id))
	if err := s.repo.UpdateProfileWithHistory(ctx, id, input); err != nil {
		logger.Log.Error("Ошибка при обновлении профиля (service)", zap.Error(err), zap.Int("user_id", id))
		return err
	}
	return nil
}

func (s *AuthService) GetUserHistory(ctx context.Context, userID int) ([]*models.UserHistory, error) {
	return s.repo.GetUserHistory(ctx, userID)
}
