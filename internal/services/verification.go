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
	ErrCodeInvalid = errors.New("неверный или просроченный код подтверждения")
)

type VerificationTokenRepo interface {
	SaveToken(ctx context.Context, token *models.VerificationToken) error
	GetValidToken(ctx context.Context, userID int, token string) (*models.VerificationToken, error)
	DeleteToken(ctx context.Context, id int) error
}

type VerifiedUserRepo interface {
	SetVerified(ctx context.Context, userID int) error
}

// VerificationService выдаёт и проверяет одноразовые коды подтверждения
// почты. Код шестизначный, живёт ttl, при перевыпуске старые коды
// пользователя удаляются.
type VerificationService struct {
	repo     VerificationTokenRepo
	userRepo VerifiedUserRepo
	ttl      time.Duration
}

func NewVerificationService(repo VerificationTokenRepo, userRepo VerifiedUserRepo, ttl time.Duration) *VerificationService {
	return &VerificationService{repo: repo, userRepo: userRepo, ttl: ttl}
}

func (s *VerificationService) IssueCode(ctx context.Context, userID int) (*models.VerificationToken, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		logger.Log.Error("Ошибка генерации кода подтверждения", zap.Error(err))
		return nil, err
	}

	t := &models.VerificationToken{
		UserID:    userID,
		Token:     code,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.SaveToken(ctx, t); err != nil {
		logger.Log.Error("Ошибка сохранения кода подтверждения", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}
	return t, nil
}

// NewCode только генерирует структуру кода без сохранения — для вставки
// в одну транзакцию с созданием пользователя.
func (s *VerificationService) NewCode(userID int) (*models.VerificationToken, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, err
	}
	return &models.VerificationToken{
		UserID:    userID,
		Token:     code,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// ConfirmCode принимает код один раз: после успешной проверки запись
// удаляется, пользователь помечается подтверждённым.
func (s *VerificationService) ConfirmCode(ctx context.Context, userID int, code string) error {
	t, err := s.repo.GetValidToken(ctx, userID, code)
	if err != nil {
		logger.Log.Warn("Код подтверждения не найден или просрочен", zap.Int("user_id", userID))
		return ErrCodeInvalid
	}

	if err := s.userRepo.SetVerified(ctx, t.UserID); err != nil {
		return err
	}
	if err := s.repo.DeleteToken(ctx, t.ID); err != nil {
		return err
	}
	return nil
}
