package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitcoach/internal/config"
	"fitcoach/internal/models"
	"fitcoach/internal/repository"
	"fitcoach/internal/utils"
)

// Мок-репозиторий (заглушка) с теми же слотовыми правилами, что и БД:
// запись refresh гасит reset, ротация и сброс пароля — условные.
type mockUserRepo struct {
	nextID   int
	users    map[int]*models.User
	lastUser *models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*models.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.RefreshToken = token
	u.ResetToken = ""
	return nil
}

func (m *mockUserRepo) RotateRefreshToken(_ context.Context, userID int, oldToken, newToken string) error {
	u, ok := m.users[userID]
	if !ok || u.RefreshToken != oldToken {
		return repository.ErrTokenMismatch
	}
	u.RefreshToken = newToken
	u.ResetToken = ""
	return nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	u, ok := m.users[userID]
	if !ok || u.RefreshToken != token {
		return repository.ErrTokenMismatch
	}
	u.RefreshToken = ""
	return nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, userID int, token string) error {
	u, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken = token
	return nil
}

func (m *mockUserRepo) ResetPasswordByToken(_ context.Context, token, passwordHash string) error {
	for _, u := range m.users {
		if u.ResetToken != "" && u.ResetToken == token {
			u.PasswordHash = passwordHash
			u.ResetToken = ""
			return nil
		}
	}
	return repository.ErrTokenMismatch
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTResetSecret:   "reset-secret",
		AccessTokenTTL:   10 * time.Minute,
		RefreshTokenTTL:  24 * time.Hour,
		ResetTokenTTL:    20 * time.Minute,
		FrontendURL:      "http://localhost:3000",
	}
}

func TestSignUp(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	user, access, refresh, err := service.SignUp(context.Background(), "Test@Example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if repo.lastUser.PasswordHash == "secret1" {
		t.Fatal("пароль сохранён открытым текстом")
	}
	if user.Email != "test@example.com" {
		t.Fatalf("email не нормализован: %q", user.Email)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
	if repo.lastUser.RefreshToken != refresh {
		t.Fatal("refresh-токен не записан в слот")
	}
}

func TestSignUp_EmailTaken(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	if _, _, _, err := service.SignUp(context.Background(), "test@example.com", "secret1"); err != nil {
		t.Fatalf("ошибка первой регистрации: %v", err)
	}

	_, _, _, err := service.SignUp(context.Background(), "TEST@example.com", "another")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("ожидалась ErrEmailTaken, получено: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	// создаём пользователя вручную
	hashed, _ := utils.HashPassword("secret1")
	_ = repo.CreateUser(context.Background(), &models.User{
		Email:        "test@example.com",
		PasswordHash: hashed,
	})

	user, access, refresh, err := service.Login(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
	if user.RefreshToken != refresh {
		t.Fatal("слот refresh-токена не обновлён при входе")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	hashed, _ := utils.HashPassword("secret1")
	_ = repo.CreateUser(context.Background(), &models.User{
		Email:        "test@example.com",
		PasswordHash: hashed,
	})

	_, _, _, err := service.Login(context.Background(), "test@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials, получено: %v", err)
	}

	_, _, _, err = service.Login(context.Background(), "unknown@example.com", "secret1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидалась ErrInvalidCredentials для неизвестной почты, получено: %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	_, _, oldRefresh, err := service.SignUp(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	user, access, newRefresh, err := service.Refresh(context.Background(), oldRefresh)
	if err != nil {
		t.Fatalf("ошибка обмена токена: %v", err)
	}
	if access == "" || newRefresh == "" {
		t.Fatal("новая пара токенов не сгенерирована")
	}
	if newRefresh == oldRefresh {
		t.Fatal("ротация выдала тот же самый refresh-токен")
	}
	if repo.users[user.ID].RefreshToken != newRefresh {
		t.Fatal("слот не перезаписан новым токеном")
	}

	// Старый токен подписан верно, но в слоте уже лежит другой.
	_, _, _, err = service.Refresh(context.Background(), oldRefresh)
	if !errors.Is(err, ErrRefreshMismatch) {
		t.Fatalf("ожидалась ErrRefreshMismatch по старому токену, получено: %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	_, _, _, err := service.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("ожидалась ErrInvalidRefreshToken, получено: %v", err)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	_, access, _, err := service.SignUp(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	// Access-токен подписан другим секретом и обмену не подлежит.
	_, _, _, err = service.Refresh(context.Background(), access)
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("ожидалась ErrInvalidRefreshToken для access-токена, получено: %v", err)
	}
}

func TestLogout(t *testing.T) {
	repo := newMockUserRepo()
	service := NewAuthService(repo, testConfig())

	user, _, refresh, err := service.SignUp(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if err := service.Logout(context.Background(), refresh); err != nil {
		t.Fatalf("ошибка выхода: %v", err)
	}
	if repo.users[user.ID].RefreshToken != "" {
		t.Fatal("слот refresh-токена не очищен при выходе")
	}

	// Погашенный токен больше не обменивается.
	_, _, _, err = service.Refresh(context.Background(), refresh)
	if !errors.Is(err, ErrRefreshMismatch) {
		t.Fatalf("ожидалась ErrRefreshMismatch после выхода, получено: %v", err)
	}
}
