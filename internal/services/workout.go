package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fitcoach/internal/logger"
	"fitcoach/internal/models"
	"fitcoach/internal/repository"

	"go.uber.org/zap"
)

var ErrNoWorkoutFound = errors.New("no workout found")

type WorkoutRepo interface {
	CreateUserDetails(ctx context.Context, d *models.UserDetails) error
	CreateWorkoutPlan(ctx context.Context, p *models.WorkoutPlan) error
	GetPlanByUserID(ctx context.Context, userID int) (*models.WorkoutPlan, error)
}

type PlanGenerator interface {
	CreateChatCompletion(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type WorkoutService struct {
	repo WorkoutRepo
	ai   PlanGenerator
}

func NewWorkoutService(repo WorkoutRepo, ai PlanGenerator) *WorkoutService {
	return &WorkoutService{repo: repo, ai: ai}
}

// CreatePlan сохраняет анкету и строит недельный план через модель.
// Если план у пользователя уже есть — возвращается существующий,
// повторный вызов модели не делается.
func (s *WorkoutService) CreatePlan(ctx context.Context, details *models.UserDetails) (*models.WorkoutPlan, error) {
	logger.Log.Info("Генерация плана тренировок (service)", zap.Int("user_id", details.UserID))

	if err := s.repo.CreateUserDetails(ctx, details); err != nil {
		logger.Log.Error("Ошибка сохранения анкеты", zap.Error(err), zap.Int("user_id", details.UserID))
		return nil, err
	}

	existing, err := s.repo.GetPlanByUserID(ctx, details.UserID)
	if err == nil {
		logger.Log.Info("План уже существует, возвращаем его", zap.Int("user_id", details.UserID))
		return existing, nil
	}
	if !errors.Is(err, repository.ErrPlanNotFound) {
		return nil, err
	}

	raw, err := s.ai.CreateChatCompletion(ctx, buildWorkoutPrompt(details), 3000)
	if err != nil {
		logger.Log.Error("Ошибка запроса к модели", zap.Error(err), zap.Int("user_id", details.UserID))
		return nil, err
	}

	plans, err := ParsePlans(raw)
	if err != nil {
		logger.Log.Error("Модель вернула неразборный план", zap.Error(err), zap.Int("user_id", details.UserID))
		return nil, err
	}

	plan := &models.WorkoutPlan{
		UserID:       details.UserID,
		UserDetailID: details.ID,
		Plans:        plans,
	}
	if err := s.repo.CreateWorkoutPlan(ctx, plan); err != nil {
		logger.Log.Error("Ошибка сохранения плана", zap.Error(err), zap.Int("user_id", details.UserID))
		return nil, err
	}

	logger.Log.Info("План тренировок создан (service)", zap.Int("user_id", details.UserID), zap.Int("days", len(plans)))
	return plan, nil
}

func (s *WorkoutService) GetPlan(ctx context.Context, userID int) (*models.WorkoutPlan, error) {
	plan, err := s.repo.GetPlanByUserID(ctx, userID)
	if errors.Is(err, repository.ErrPlanNotFound) {
		return nil, ErrNoWorkoutFound
	}
	return plan, err
}

// GetSuggestions — свободный вопрос тренеру-модели, ответ отдаётся как текст.
func (s *WorkoutService) GetSuggestions(ctx context.Context, prompt string) (string, error) {
	logger.Log.Info("Запрос рекомендаций (service)")
	return s.ai.CreateChatCompletion(ctx, prompt, 4000)
}

// ParsePlans срезает markdown-ограждения вокруг JSON и разбирает массив дней.
func ParsePlans(raw string) ([]models.DayPlan, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var plans []models.DayPlan
	if err := json.Unmarshal([]byte(cleaned), &plans); err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, errors.New("empty workout plan")
	}
	return plans, nil
}

func buildWorkoutPrompt(d *models.UserDetails) string {
	injuries := d.Injuries
	if injuries == "" {
		injuries = "None"
	}
	level := d.TrainingLevel
	if level == "" {
		level = "None"
	}
	goal := d.TrainingType
	if goal == "" {
		goal = "None"
	}

	return fmt.Sprintf(`You are a personalized gym trainer AI designed to create personalized workout plans tailored to the user's body features and preferences. Based on the following user information, generate a detailed workout plan in JSON format with structured responses and an analysis of whether the workout plan fulfills the user's goals, along with reasons.

User Details:
- Age: %d
- Gender: %s
- Height: %.0f in cm
- Weight: %.0f in kg

- Injuries: %s

Additional Information Needed:
- Gym experience Level: %s
- User's goal : %s

Please include the following sections in the JSON output:

1. **data**: A JSON array of objects for 6 days of the week with training on a single body part per day. Body parts will be Chest, Back, Biceps, Triceps, Shoulders and Legs. Ideally a body part should not be trained more than twice in a week and only one body part should be trained per day.
For a particular day, there should be at least 3 exercises per body part.

Instructions:
- Ensure that the workout plan aligns with the user's goal (e.g., weight loss, muscle gain).
- Ensure that your model should not suggest exercises for sunday.
- Ensure that your model does not return anything after array of object.

Format the output in JSON as follows (strictly follow the json format, please do not add any other information):

[
	{
		"day": "Monday",
		"bodyPart": "Chest",
		"exercises": [
			{
				"name": "Bench Press",
				"sets": 4,
				"reps": 8,
				"bodyPart": "Chest",
				"description": "Focus on pushing the barbell off your chest to strengthen your chest, shoulders, and triceps."
			}
		]
	}
]`, d.Age, d.Gender, d.Height, d.Weight, injuries, level, goal)
}
