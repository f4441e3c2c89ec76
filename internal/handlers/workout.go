package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fitcoach/internal/logger"
	"fitcoach/internal/middleware"
	"fitcoach/internal/models"
	"fitcoach/internal/services"
	helpers "fitcoach/internal/utils/helpers"

	"go.uber.org/zap"
)

type WorkoutHandler struct {
	svc *services.WorkoutService
}

func NewWorkoutHandler(svc *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{svc: svc}
}

type createWorkoutRequest struct {
	Age           int     `json:"age" validate:"required,gt=0"`
	Gender        string  `json:"gender" validate:"required"`
	Weight        float64 `json:"weight" validate:"required,gt=0"`
	Height        float64 `json:"height" validate:"required,gt=0"`
	Injuries      string  `json:"injuries"`
	TrainingLevel string  `json:"trainingLevel" validate:"required"`
	TrainingType  string  `json:"trainingType"`
}

// Create godoc
// @Summary Сгенерировать план тренировок по анкете
// @Description Сохраняет анкету и строит недельный план через AI. Если план уже есть — возвращает его.
// @Tags workout
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createWorkoutRequest true "Анкета"
// @Success 200 {object} models.WorkoutPlan
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/workouts [post]
func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, "unauthorized")
		return
	}

	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON в Create workout", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Невалидный JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		log.Warn("Невалидная анкета", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Either Age/Gender/Weight/Height/TrainingLevel is empty")
		return
	}

	details := &models.UserDetails{
		UserID:        userID,
		Age:           req.Age,
		Gender:        req.Gender,
		Weight:        req.Weight,
		Height:        req.Height,
		Injuries:      req.Injuries,
		TrainingLevel: req.TrainingLevel,
		TrainingType:  req.TrainingType,
	}

	plan, err := h.svc.CreatePlan(r.Context(), details)
	if err != nil {
		log.Error("Ошибка генерации плана", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, helpers.CodeInternal, "Не удалось сгенерировать план")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{"workouts": plan})
}

// GetPlans godoc
// @Summary Получить сохранённый план тренировок
// @Tags workout
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.WorkoutPlan
// @Failure 404 {object} helpers.Response
// @Router /api/workouts [get]
func (h *WorkoutHandler) GetPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, "unauthorized")
		return
	}

	plan, err := h.svc.GetPlan(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNoWorkoutFound) {
			helpers.Error(w, http.StatusNotFound, helpers.CodeNotFound, "No workout found")
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка получения плана", zap.Error(err), zap.Int("user_id", userID))
		helpers.Error(w, http.StatusInternalServerError, helpers.CodeInternal, "Не удалось получить план")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]interface{}{"workouts": plan})
}

type suggestionsRequest struct {
	Prompt string `json:"prompt"`
}

// Suggestions godoc
// @Summary Свободный вопрос AI-тренеру
// @Tags workout
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body suggestionsRequest true "Промпт"
// @Success 200 {object} map[string]string
// @Failure 400 {object} helpers.Response
// @Router /api/workouts/suggestions [post]
func (h *WorkoutHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Prompt is mandatory!")
		return
	}

	answer, err := h.svc.GetSuggestions(r.Context(), req.Prompt)
	if err != nil {
		log.Error("Ошибка запроса рекомендаций", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, helpers.CodeInternal, "No response found")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"suggestions": answer})
}
