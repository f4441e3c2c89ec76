package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitcoach/internal/models"
	"fitcoach/internal/utils"
)

func TestRequestReset_UnknownEmail(t *testing.T) {
	repo := newMockUserRepo()
	service := NewPasswordService(repo, testConfig())

	_, err := service.RequestReset(context.Background(), "unknown@example.com")
	if !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("ожидалась ErrEmailNotFound, получено: %v", err)
	}
	if len(EmailQueue) != 0 {
		t.Fatal("письмо поставлено в очередь для несуществующей почты")
	}
}

func TestRequestReset_Success(t *testing.T) {
	repo := newMockUserRepo()
	cfg := testConfig()
	service := NewPasswordService(repo, cfg)

	hashed, _ := utils.HashPassword("secret1")
	_ = repo.CreateUser(context.Background(), &models.User{
		Email:        "test@example.com",
		PasswordHash: hashed,
	})

	token, err := service.RequestReset(context.Background(), "Test@Example.com")
	if err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	if token == "" {
		t.Fatal("reset-токен не выдан")
	}
	if repo.lastUser.ResetToken != token {
		t.Fatal("reset-токен не записан в слот")
	}

	if _, err := utils.ParseToken(token, cfg.JWTResetSecret); err != nil {
		t.Fatalf("выданный токен не проходит проверку: %v", err)
	}

	select {
	case job := <-EmailQueue:
		if len(job.To) != 1 || job.To[0] != "test@example.com" {
			t.Fatalf("письмо адресовано не туда: %v", job.To)
		}
		if !job.IsHTML || !strings.Contains(job.Body, token) {
			t.Fatal("в письме нет ссылки с токеном")
		}
	default:
		t.Fatal("письмо не поставлено в очередь")
	}
}

func TestRequestReset_KeepsRefreshSlot(t *testing.T) {
	repo := newMockUserRepo()
	authService := NewAuthService(repo, testConfig())
	passwordService := NewPasswordService(repo, testConfig())

	user, _, refresh, err := authService.SignUp(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if _, err := passwordService.RequestReset(context.Background(), "test@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	<-EmailQueue

	// Запрос сброса активную сессию не гасит.
	if repo.users[user.ID].RefreshToken != refresh {
		t.Fatal("запрос сброса затёр слот refresh-токена")
	}
}

func TestPerformReset_ShortPassword(t *testing.T) {
	repo := newMockUserRepo()
	service := NewPasswordService(repo, testConfig())

	err := service.PerformReset(context.Background(), "whatever", "short")
	if !errors.Is(err, ErrPasswordShort) {
		t.Fatalf("ожидалась ErrPasswordShort, получено: %v", err)
	}
}

func TestPerformReset_GarbageToken(t *testing.T) {
	repo := newMockUserRepo()
	service := NewPasswordService(repo, testConfig())

	err := service.PerformReset(context.Background(), "not-a-jwt", "newsecret")
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("ожидалась ErrInvalidResetToken, получено: %v", err)
	}
}

func TestPerformReset_SingleUse(t *testing.T) {
	repo := newMockUserRepo()
	service := NewPasswordService(repo, testConfig())

	hashed, _ := utils.HashPassword("secret1")
	_ = repo.CreateUser(context.Background(), &models.User{
		Email:        "test@example.com",
		PasswordHash: hashed,
	})

	token, err := service.RequestReset(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	<-EmailQueue

	if err := service.PerformReset(context.Background(), token, "newsecret"); err != nil {
		t.Fatalf("ошибка сброса пароля: %v", err)
	}
	if !utils.CheckPasswordHash("newsecret", repo.lastUser.PasswordHash) {
		t.Fatal("новый пароль не сохранён")
	}
	if repo.lastUser.ResetToken != "" {
		t.Fatal("reset-токен не погашен после использования")
	}

	// Токен одноразовый: повторный сброс не проходит.
	err = service.PerformReset(context.Background(), token, "anothersecret")
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("ожидалась ErrInvalidResetToken при повторном использовании, получено: %v", err)
	}
}

func TestLogin_ClearsResetToken(t *testing.T) {
	repo := newMockUserRepo()
	authService := NewAuthService(repo, testConfig())
	passwordService := NewPasswordService(repo, testConfig())

	user, _, _, err := authService.SignUp(context.Background(), "test@example.com", "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	token, err := passwordService.RequestReset(context.Background(), "test@example.com")
	if err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	<-EmailQueue

	// Успешный вход делает выданный reset-токен недействительным.
	if _, _, _, err := authService.Login(context.Background(), "test@example.com", "secret1"); err != nil {
		t.Fatalf("ошибка входа: %v", err)
	}
	if repo.users[user.ID].ResetToken != "" {
		t.Fatal("вход не погасил reset-токен")
	}
	if err := passwordService.PerformReset(context.Background(), token, "newsecret"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("ожидалась ErrInvalidResetToken после входа, получено: %v", err)
	}
}
