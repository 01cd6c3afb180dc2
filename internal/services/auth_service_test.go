package services

import (
	"context"
	"coursehub/internal/models"
	"coursehub/internal/utils"
	"errors"
	"testing"
	"time"
)

// Мок-репозитории (заглушки)
type mockUserRepo struct {
	users  map[int]*models.User
	nextID int

	savedRefresh map[int]string
	lastLoginIP  string
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:        make(map[int]*models.User),
		nextID:       1,
		savedRefresh: make(map[int]string),
	}
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUserWithToken(_ context.Context, user *models.User, token *models.VerificationToken) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	token.UserID = user.ID
	return nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) SetVerified(_ context.Context, userID int) error {
	if u, ok := m.users[userID]; ok {
		u.IsVerified = true
	}
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, userID int, ip string) error {
	m.lastLoginIP = ip
	return nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	m.savedRefresh[userID] = token
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return m.savedRefresh[userID] == token, nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	delete(m.savedRefresh, userID)
	return nil
}

func (m *mockUserRepo) UpdateProfileWithHistory(_ context.Context, id int, input *models.UpdateProfileRequest) error {
	return nil
}

func (m *mockUserRepo) GetUserHistory(_ context.Context, userID int) ([]*models.UserHistory, error) {
	return nil, nil
}

type mockAdminRepo struct {
	admins map[string]*models.AdminUser
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	a, ok := m.admins[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

type mockTokenRepo struct {
	tokens []*models.VerificationToken
	nextID int
}

func (m *mockTokenRepo) SaveToken(_ context.Context, token *models.VerificationToken) error {
	// старые коды пользователя удаляются при перевыпуске
	kept := m.tokens[:0]
	for _, t := range m.tokens {
		if t.UserID != token.UserID {
			kept = append(kept, t)
		}
	}
	m.tokens = kept
	m.nextID++
	token.ID = m.nextID
	m.tokens = append(m.tokens, token)
	return nil
}

func (m *mockTokenRepo) GetValidToken(_ context.Context, userID int, token string) (*models.VerificationToken, error) {
	for _, t := range m.tokens {
		if t.UserID == userID && t.Token == token && t.ExpiresAt.After(time.Now()) {
			return t, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockTokenRepo) DeleteToken(_ context.Context, id int) error {
	kept := m.tokens[:0]
	for _, t := range m.tokens {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.tokens = kept
	return nil
}

func newTestAuthService(userRepo *mockUserRepo, adminRepo *mockAdminRepo, tokenRepo *mockTokenRepo) *AuthService {
	verification := NewVerificationService(tokenRepo, userRepo, 10*time.Minute)
	return NewAuthService(userRepo, adminRepo, verification)
}

func TestSignup(t *testing.T) {
	repo := newMockUserRepo()
	service := newTestAuthService(repo, &mockAdminRepo{}, &mockTokenRepo{})

	user, token, err := service.Signup(context.Background(), "Тест", "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret123" {
		t.Fatal("пароль не захеширован")
	}
	if user.IsVerified {
		t.Fatal("новый пользователь не должен быть подтверждён")
	}
	if len(token.Token) != 6 {
		t.Fatalf("ожидался шестизначный код, получено %q", token.Token)
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	repo := newMockUserRepo()
	service := newTestAuthService(repo, &mockAdminRepo{}, &mockTokenRepo{})

	if _, _, err := service.Signup(context.Background(), "Первый", "dup@example.com", "secret123"); err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	_, _, err := service.Signup(context.Background(), "Второй", "dup@example.com", "secret456")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("ожидалась ErrEmailTaken, получено %v", err)
	}
}

func TestLogin_NeedsVerification(t *testing.T) {
	repo := newMockUserRepo()
	tokenRepo := &mockTokenRepo{}
	service := newTestAuthService(repo, &mockAdminRepo{}, tokenRepo)

	_, firstToken, err := service.Signup(context.Background(), "Тест", "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}
	if err := tokenRepo.SaveToken(context.Background(), firstToken); err != nil {
		t.Fatal(err)
	}

	_, _, user, newToken, err := service.Login(
		context.Background(), "test@example.com", "secret123", "127.0.0.1",
		"test-secret", time.Minute, time.Hour,
	)
	if !errors.Is(err, ErrNeedsVerification) {
		t.Fatalf("ожидалась ErrNeedsVerification, получено %v", err)
	}
	if user == nil || newToken == nil {
		t.Fatal("при неподтверждённой почте должны вернуться пользователь и свежий код")
	}
	// старый код инвалидирован перевыпуском, действует только новый
	if _, err := tokenRepo.GetValidToken(context.Background(), user.ID, firstToken.Token); err == nil {
		t.Fatal("старый код должен быть инвалидирован")
	}
	if _, err := tokenRepo.GetValidToken(context.Background(), user.ID, newToken.Token); err != nil {
		t.Fatal("новый код должен быть действителен")
	}
}

func TestLogin_AfterVerification(t *testing.T) {
	repo := newMockUserRepo()
	tokenRepo := &mockTokenRepo{}
	service := newTestAuthService(repo, &mockAdminRepo{}, tokenRepo)

	user, token, err := service.Signup(context.Background(), "Тест", "test@example.com", "secret123")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}
	if err := tokenRepo.SaveToken(context.Background(), token); err != nil {
		t.Fatal(err)
	}

	if err := service.VerifyEmail(context.Background(), user.ID, token.Token); err != nil {
		t.Fatalf("ошибка подтверждения почты: %v", err)
	}

	access, refresh, loggedIn, _, err := service.Login(
		context.Background(), "test@example.com", "secret123", "10.0.0.1",
		"test-secret", time.Minute, time.Hour,
	)
	if err != nil {
		t.Fatalf("ошибка входа: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не выданы")
	}
	if repo.savedRefresh[loggedIn.ID] != refresh {
		t.Fatal("refresh-токен не сохранён")
	}
	if repo.lastLoginIP != "10.0.0.1" {
		t.Fatal("last_login не обновлён")
	}

	claims, err := utils.ParseToken("test-secret", access)
	if err != nil {
		t.Fatalf("невалидный access-токен: %v", err)
	}
	if claims["role"] != "user" || claims["token_type"] != "access" {
		t.Fatalf("неверные claims: %v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	service := newTestAuthService(repo, &mockAdminRepo{}, &mockTokenRepo{})

	if _, _, err := service.Signup(context.Background(), "Тест", "test@example.com", "secret123"); err != nil {
		t.Fatal(err)
	}

	_, _, _, _, err := service.Login(
		context.Background(), "test@example.com", "wrong", "127.0.0.1",
		"test-secret", time.Minute, time.Hour,
	)
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("ожидалась ErrWrongPassword, получено %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	hash, err := utils.HashPassword("admin-pass")
	if err != nil {
		t.Fatal(err)
	}
	adminRepo := &mockAdminRepo{admins: map[string]*models.AdminUser{
		"root": {ID: 1, Username: "root", PasswordHash: hash},
	}}
	service := newTestAuthService(newMockUserRepo(), adminRepo, &mockTokenRepo{})

	token, admin, err := service.AdminLogin(context.Background(), "root", "admin-pass", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("ошибка входа администратора: %v", err)
	}
	if admin.Username != "root" || token == "" {
		t.Fatal("администратор не авторизован")
	}

	claims, err := utils.ParseToken("test-secret", token)
	if err != nil {
		t.Fatal(err)
	}
	if claims["role"] != "admin" {
		t.Fatalf("ожидалась роль admin, получено %v", claims["role"])
	}

	if _, _, err := service.AdminLogin(context.Background(), "root", "wrong", "test-secret", time.Hour); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("ожидалась ErrAdminNotFound, получено %v", err)
	}
}
