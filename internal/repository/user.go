package repository

import (
	"context"
	"errors"

	"fitcoach/internal/logger"
	"fitcoach/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenMismatch — в слоте лежит не тот токен, что предъявлен
	// (ротация уже прошла, либо токен уже использован).
	ErrTokenMismatch = errors.New("stored token mismatch")
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("email", user.Email))
	query := `
	INSERT INTO users (email, password_hash)
	VALUES ($1, $2)
	RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
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
	query := `
	SELECT id, email, password_hash, refresh_token, reset_token, created_at, updated_at
	FROM users
	WHERE email = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.ResetToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по email (repo)", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по ID (repo)", zap.Int("user_id", id))
	query := `
	SELECT id, email, password_hash, refresh_token, reset_token, created_at, updated_at
	FROM users
	WHERE id = $1`

	var u models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.ResetToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения пользователя по ID (repo)", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// SaveRefreshToken перезаписывает единственный слот refresh-токена.
// Выдача refresh-токена одновременно гасит reset-токен.
func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Сохранение refresh токена (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET refresh_token = $1, reset_token = '', updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, token, userID)
	if err != nil {
		logger.Log.Error("Ошибка сохранения refresh токена (repo)", zap.Error(err))
	}
	return err
}

// RotateRefreshToken — атомарная ротация: новый токен записывается только
// если в слоте всё ещё лежит предъявленный. Из двух одновременных refresh
// с одним токеном выигрывает ровно один.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, userID int, oldToken, newToken string) error {
	logger.Log.Debug("Ротация refresh токена (repo)", zap.Int("user_id", userID))
	query := `
	UPDATE users
	SET refresh_token = $1, reset_token = '', updated_at = now()
	WHERE id = $2 AND refresh_token = $3`
	tag, err := r.db.Exec(ctx, query, newToken, userID, oldToken)
	if err != nil {
		logger.Log.Error("Ошибка ротации refresh токена (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenMismatch
	}
	return nil
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Удаление refresh токена (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET refresh_token = '', updated_at = now() WHERE id = $1 AND refresh_token = $2`
	_, err := r.db.Exec(ctx, query, userID, token)
	if err != nil {
		logger.Log.Error("Ошибка удаления refresh токена (repo)", zap.Error(err))
	}
	return err
}

// SetResetToken пишет reset-токен в его слот. Refresh-токен при этом
// не трогаем: проверяющая сторона читает только свой слот, устаревшее
// значение в соседнем остаётся инертным.
func (r *UserRepository) SetResetToken(ctx context.Context, userID int, token string) error {
	logger.Log.Debug("Сохранение reset токена (repo)", zap.Int("user_id", userID))
	query := `UPDATE users SET reset_token = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, token, userID)
	if err != nil {
		logger.Log.Error("Ошибка сохранения reset токена (repo)", zap.Error(err))
	}
	return err
}

// ResetPasswordByToken одним запросом ставит новый хеш и гасит слот,
// сверяясь с предъявленным токеном: использованный токен (слот пуст)
// повторно не сработает.
func (r *UserRepository) ResetPasswordByToken(ctx context.Context, token, passwordHash string) error {
	logger.Log.Debug("Сброс пароля по токену (repo)")
	query := `
	UPDATE users
	SET password_hash = $1, reset_token = '', updated_at = now()
	WHERE reset_token = $2 AND reset_token <> ''`
	tag, err := r.db.Exec(ctx, query, passwordHash, token)
	if err != nil {
		logger.Log.Error("Ошибка сброса пароля (repo)", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenMismatch
	}
	return nil
}
