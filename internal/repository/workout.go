package repository

import (
	"context"
	"encoding/json"
	"errors"

	"fitcoach/internal/logger"
	"fitcoach/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var ErrPlanNotFound = errors.New("workout plan not found")

type WorkoutRepository struct {
	db *pgxpool.Pool
}

func NewWorkoutRepository(db *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) CreateUserDetails(ctx context.Context, d *models.UserDetails) error {
	logger.Log.Info("Сохранение анкеты (repo)", zap.Int("user_id", d.UserID))
	query := `
	INSERT INTO user_details (user_id, age, gender, weight, height, injuries, training_level, training_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		d.UserID,
		d.Age,
		d.Gender,
		d.Weight,
		d.Height,
		d.Injuries,
		d.TrainingLevel,
		d.TrainingType,
	).Scan(&d.ID, &d.CreatedAt)
}

// CreateWorkoutPlan сохраняет недельный план; тело плана уходит в jsonb.
func (r *WorkoutRepository) CreateWorkoutPlan(ctx context.Context, p *models.WorkoutPlan) error {
	logger.Log.Info("Сохранение плана тренировок (repo)", zap.Int("user_id", p.UserID))
	plans, err := json.Marshal(p.Plans)
	if err != nil {
		return err
	}
	query := `
	INSERT INTO workout_plans (user_id, user_detail_id, plans)
	VALUES ($1, $2, $3)
	RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, p.UserID, p.UserDetailID, plans).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *WorkoutRepository) GetPlanByUserID(ctx context.Context, userID int) (*models.WorkoutPlan, error) {
	logger.Log.Debug("Получение плана тренировок (repo)", zap.Int("user_id", userID))
	query := `
	SELECT id, user_id, user_detail_id, plans, created_at, updated_at
	FROM workout_plans
	WHERE user_id = $1`

	var (
		p    models.WorkoutPlan
		blob []byte
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.UserDetailID,
		&blob,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		logger.Log.Error("Ошибка получения плана (repo)", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := json.Unmarshal(blob, &p.Plans); err != nil {
		logger.Log.Error("Ошибка разбора плана из jsonb (repo)", zap.Int("user_id", userID), zap.Error(err))
		return nil, err
	}
	return &p, nil
}
