package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitcoach/internal/config"
	"fitcoach/internal/logger"
	"fitcoach/internal/repository"
	"fitcoach/internal/utils"
	"fitcoach/internal/utils/helpers"

	"go.uber.org/zap"
)

var (
	// ErrEmailNotFound — штатный (не системный) отрицательный исход
	// запроса сброса: такой почты в базе нет.
	ErrEmailNotFound = errors.New("email does not exist")
	ErrPasswordShort = errors.New("minimum password length is 6 characters")
	// ErrInvalidResetToken — токен не прошёл проверку либо уже использован.
	ErrInvalidResetToken = errors.New("incorrect token sent - authorization error")
)

type PasswordService struct {
	repo UserRepo
	cfg  *config.Config
}

func NewPasswordService(repo UserRepo, cfg *config.Config) *PasswordService {
	return &PasswordService{repo: repo, cfg: cfg}
}

// RequestReset выдаёт одноразовый reset-токен, кладёт его в слот аккаунта
// и ставит письмо со ссылкой в очередь. Токен возвращается вызывающему —
// он входит в тело успешного ответа ручки.
func (s *PasswordService) RequestReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Запрос на сброс пароля (service)", zap.String("email", email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Почта не найдена при запросе сброса (service)", zap.String("email", email))
		return "", ErrEmailNotFound
	}

	token, err := utils.GenerateToken(s.cfg.JWTResetSecret, user.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации reset-токена", zap.Error(err), zap.Int("user_id", user.ID))
		return "", err
	}

	// Выдача reset-токена refresh-слот не трогает.
	if err := s.repo.SetResetToken(ctx, user.ID, token); err != nil {
		logger.Log.Error("Ошибка сохранения reset-токена", zap.Error(err), zap.Int("user_id", user.ID))
		return "", err
	}

	resetLink := fmt.Sprintf("%s/resetpassword/%s", strings.TrimRight(s.cfg.FrontendURL, "/"), token)
	EmailQueue <- EmailJob{
		To:      []string{user.Email},
		Subject: "Reset Password",
		Body:    helpers.BuildResetPasswordHTML(resetLink),
		IsHTML:  true,
	}

	logger.Log.Info("Письмо со ссылкой на сброс пароля поставлено на отправку",
		zap.Int("user_id", user.ID),
		zap.String("email", email),
	)
	return token, nil
}

// PerformReset подтверждает токен и устанавливает новый пароль.
// Хеш и очистка слота идут одним условным обновлением по предъявленному
// токену, поэтому использованный токен повторно не сработает.
func (s *PasswordService) PerformReset(ctx context.Context, token, newPassword string) error {
	logger.Log.Info("Попытка сброса пароля по токену (service)")

	if len(newPassword) < 6 {
		logger.Log.Warn("Слишком короткий новый пароль")
		return ErrPasswordShort
	}

	if _, err := utils.ParseToken(token, s.cfg.JWTResetSecret); err != nil {
		logger.Log.Warn("Неверный или просроченный reset-токен", zap.Error(err))
		return ErrInvalidResetToken
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования нового пароля", zap.Error(err))
		return err
	}

	if err := s.repo.ResetPasswordByToken(ctx, token, hashed); err != nil {
		if errors.Is(err, repository.ErrTokenMismatch) {
			return ErrInvalidResetToken
		}
		logger.Log.Error("Ошибка обновления пароля", zap.Error(err))
		return err
	}

	logger.Log.Info("Пароль успешно сброшен")
	return nil
}
