package repository

import (
	"context"
	"coursehub/internal/logger"
	"coursehub/internal/models"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUserWithToken вставляет пользователя и его код подтверждения
// в одной транзакции: либо появляются оба, либо ни одного.
func (r *UserRepository) CreateUserWithToken(ctx context.Context, user *models.User, token *models.VerificationToken) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("email", user.Email))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO users (name, email, mobile, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		user.Name, user.Email, user.Mobile, user.PasswordHash, user.Role,
	).Scan(&user.ID)
	if err != nil {
		logger.Log.Error("Ошибка вставки пользователя (repo)", zap.Error(err))
		return err
	}

	token.UserID = user.ID
	_, err = tx.Exec(ctx, `
		INSERT INTO verification_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		token.UserID, token.Token, token.ExpiresAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка вставки кода подтверждения (repo)", zap.Error(err))
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)", zap.String("email", email))
	query := `SELECT id, name, email, mobile, password_hash, role, is_verified, is_active, last_login, created_at, updated_at
	FROM users
	WHERE email = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.Int("user_id", id))
	query := `SELECT id, name, email, mobile, password_hash, role, is_verified, is_active, last_login, created_at, updated_at
	FROM users
	WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Mobile,
		&user.PasswordHash,
		&user.Role,
		&user.IsVerified,
		&user.IsActive,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по ID (repo)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, userID int) error {
	logger.Log.Info("Подтверждение почты (repo)", zap.Int("user_id", userID))
	_, err := r.db.Exec(ctx, `UPDATE users SET is_verified = true, updated_at = now() WHERE id = $1`, userID)
	if err != nil {
		logger.Log.Error("Ошибка подтверждения почты (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int, ip string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = now(), last_login_ip = $1 WHERE id = $2`, ip, userID)
	return err
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.Int("user_id", userID))
	query := `INSERT INTO refresh_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (repo)", zap.Int("user_id", userID))
	query := `SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, token).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки refresh токена (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Удаление refresh токена (repo)", zap.Int("user_id", userID))
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}

// UpdateProfileWithHistory обновляет профиль и пишет запись в user_history
// в одной транзакции (так делал и исходный бэкенд).
func (r *UserRepository) UpdateProfileWithHistory(ctx context.Context, id int, input *models.UpdateProfileRequest) error {
	logger.Log.Info("Обновление профиля (repo)", zap.Int("user_id", id))

	query := `UPDATE users SET`
	var args []interface{}
	argNum := 1

	if input.Name != nil {
		query += fmt.Sprintf(" name = $%d,", argNum)
		args = append(args, *input.Name)
		argNum++
	}
	if input.Mobile != nil {
		query += fmt.Sprintf(" mobile = $%d,", argNum)
		args = append(args, *input.Mobile)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления профиля (repo)", zap.Int("user_id", id))
		return nil // ничего не обновляем
	}

	query += fmt.Sprintf(" updated_at = now() WHERE id = $%d", argNum)
	args = append(args, id)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		logger.Log.Error("Ошибка обновления профиля (repo)", zap.Error(err), zap.Int("user_id", id))
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_history (user_id, name, mobile, action_type)
		SELECT id, name, mobile, 'UPDATE' FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка записи истории профиля (repo)", zap.Error(err), zap.Int("user_id", id))
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetUserHistory(ctx context.Context, userID int) ([]*models.UserHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, mobile, action_type, created_at
		FROM user_history
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*models.UserHistory
	for rows.Next() {
		var h models.UserHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Mobile, &h.ActionType, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

func (r *UserRepository) GetStripeAccountID(ctx context.Context, userID int) (string, error) {
	var accountID *string
	err := r.db.QueryRow(ctx, `SELECT stripe_account_id FROM users WHERE id = $1`, userID).Scan(&accountID)
	if err != nil {
		return "", err
	}
	if accountID == nil {
		return "", nil
	}
	return *accountID, nil
}
