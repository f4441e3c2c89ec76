package services

import (
	"context"
	"errors"
	"strings"

	"fitcoach/internal/config"
	"fitcoach/internal/logger"
	"fitcoach/internal/models"
	"fitcoach/internal/repository"
	"fitcoach/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrInvalidRefreshToken — токен не прошёл проверку подписи/срока.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrRefreshMismatch — токен подписан верно, но в слоте лежит другой:
	// выдан до ротации либо аккаунт изменён. Требуется повторный вход.
	ErrRefreshMismatch = errors.New("refresh token does not match stored token")
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	RotateRefreshToken(ctx context.Context, userID int, oldToken, newToken string) error
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
	SetResetToken(ctx context.Context, userID int, token string) error
	ResetPasswordByToken(ctx context.Context, token, passwordHash string) error
}

type AuthService struct {
	repo UserRepo
	cfg  *config.Config
}

func NewAuthService(repo UserRepo, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

// SignUp создаёт пользователя и сразу выдаёт пару токенов.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Регистрация пользователя (service)", zap.String("email", email))

	if exists, err := s.repo.IsEmailTaken(ctx, email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return nil, "", "", err
		}
		return nil, "", "", ErrEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, "", "", err
	}

	user := &models.User{Email: email, PasswordHash: hashed}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	logger.Log.Info("Пользователь зарегистрирован (service)", zap.Int("user_id", user.ID))
	return user, access, refresh, nil
}

// Login проверяет пароль и выдаёт новую пару токенов.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Попытка входа (service)", zap.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("email", email), zap.Error(err))
		return nil, "", "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("email", email))
		return nil, "", "", ErrInvalidCredentials
	}

	access, refresh, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, "", "", err
	}

	logger.Log.Info("Вход выполнен (service)", zap.Int("user_id", user.ID))
	return user, access, refresh, nil
}

// Refresh — обмен refresh-токена на новую пару: verify → match → rotate.
// Сравнение строгое, посимвольное; запись в слот условная, поэтому из
// двух одновременных запросов с одним токеном пройдёт ровно один.
func (s *AuthService) Refresh(ctx context.Context, presented string) (*models.User, string, string, error) {
	userID, err := utils.ParseToken(presented, s.cfg.JWTRefreshSecret)
	if err != nil {
		logger.Log.Warn("Refresh токен не прошёл проверку (service)", zap.Error(err))
		return nil, "", "", ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Log.Warn("Пользователь не найден при refresh (service)", zap.Int("user_id", userID), zap.Error(err))
		return nil, "", "", ErrInvalidRefreshToken
	}

	if user.RefreshToken != presented {
		logger.Log.Warn("Refresh токен не совпал со слотом (service)", zap.Int("user_id", userID))
		return nil, "", "", ErrRefreshMismatch
	}

	access, err := utils.GenerateToken(s.cfg.JWTAccessSecret, user.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return nil, "", "", err
	}
	refresh, err := utils.GenerateToken(s.cfg.JWTRefreshSecret, user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return nil, "", "", err
	}

	if err := s.repo.RotateRefreshToken(ctx, user.ID, presented, refresh); err != nil {
		if errors.Is(err, repository.ErrTokenMismatch) {
			return nil, "", "", ErrRefreshMismatch
		}
		logger.Log.Error("Ошибка ротации refresh-токена", zap.Error(err))
		return nil, "", "", err
	}

	logger.Log.Info("Токены обновлены (service)", zap.Int("user_id", user.ID))
	return user, access, refresh, nil
}

// Logout гасит слот refresh-токена, если предъявлен актуальный токен.
func (s *AuthService) Logout(ctx context.Context, presented string) error {
	userID, err := utils.ParseToken(presented, s.cfg.JWTRefreshSecret)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, presented)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Пользователь не найден по ID (service)", zap.Int("user_id", id), zap.Error(err))
	}
	return user, err
}

// issueTokens выдаёт пару и перезаписывает слот refresh-токена
// (reset-токен при этом гасится).
func (s *AuthService) issueTokens(ctx context.Context, userID int) (string, string, error) {
	access, err := utils.GenerateToken(s.cfg.JWTAccessSecret, userID, s.cfg.AccessTokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", err
	}

	refresh, err := utils.GenerateToken(s.cfg.JWTRefreshSecret, userID, s.cfg.RefreshTokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", err
	}

	if err := s.repo.SaveRefreshToken(ctx, userID, refresh); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", err
	}

	return access, refresh, nil
}
