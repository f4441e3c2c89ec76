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

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	User         models.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// SignUp godoc
// @Summary Регистрация нового пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signUpRequest true "Email и пароль"
// @Success 200 {object} authResponse
// @Failure 400 {object} helpers.Response
// @Router /api/register [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в SignUp", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Невалидный JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка валидации в SignUp", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, validationMessage(err))
		return
	}

	user, access, refresh, err := h.authService.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			helpers.Error(w, http.StatusBadRequest, helpers.CodeConflict, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка регистрации пользователя", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, helpers.CodeInternal, "Не удалось зарегистрировать пользователя")
		return
	}

	helpers.JSON(w, http.StatusOK, authResponse{
		User:         user.Public(),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Login godoc
// @Summary Вход по email и паролю
// @Tags auth
// @Accept json
// @Produce json
// @Param input body signUpRequest true "Email и пароль"
// @Success 200 {object} authResponse
// @Failure 401 {object} helpers.Response
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Невалидный JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, validationMessage(err))
		return
	}

	user, access, refresh, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка входа", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, services.ErrInvalidCredentials.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, authResponse{
		User:         user.Public(),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Refresh godoc
// @Summary Обмен refresh-токена на новую пару токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh токен"
// @Success 200 {object} authResponse
// @Failure 401 {object} helpers.Response
// @Router /api/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		logger.WithCtx(r.Context()).Warn("Отсутствует refresh token в Refresh")
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Refresh token is missing")
		return
	}

	user, access, refresh, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRefreshToken), errors.Is(err, services.ErrRefreshMismatch):
			logger.WithCtx(r.Context()).Warn("Недействительный refresh token", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка обновления токенов", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, helpers.CodeInternal, "Не удалось обновить токены")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, authResponse{
		User:         user.Public(),
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// Logout godoc
// @Summary Выход (очистка слота refresh-токена)
// @Tags auth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh токен"
// @Success 200 {object} map[string]string
// @Failure 401 {object} helpers.Response
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Refresh token is missing")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный refresh token при выходе", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, "Невалидный refresh token")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Profile godoc
// @Summary Профиль текущего пользователя
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.PublicUser
// @Failure 401 {object} helpers.Response
// @Router /api/profile [get]
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, "unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		helpers.Error(w, http.StatusNotFound, helpers.CodeNotFound, "Пользователь не найден")
		return
	}

	helpers.JSON(w, http.StatusOK, user.Public())
}

// validationMessage переводит первую ошибку валидатора в сообщение ответа.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid payload"
	}
	fe := verrs[0]
	switch {
	case fe.Field() == "Email":
		return "Either email is not valid"
	case fe.Field() == "Password" && fe.Tag() == "min":
		return "Password must be at least 6 characters"
	default:
		return "All fields are mandatory!"
	}
}
