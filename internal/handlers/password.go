package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fitcoach/internal/logger"
	"fitcoach/internal/services"
	helpers "fitcoach/internal/utils/helpers"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

type forgotReq struct {
	Email string `json:"email" validate:"required,email"`
}

type forgotResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Forgot godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет письмо со ссылкой для сброса пароля. Токен также возвращается в теле ответа.
// @Tags password
// @Accept json
// @Produce json
// @Param input body forgotReq true "Email пользователя"
// @Success 200 {object} forgotResp
// @Failure 400 {object} helpers.Response
// @Router /api/password/forgot [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req forgotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		log.Warn("Невалидный payload в Forgot")
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Email is mandatory!")
		return
	}

	if err := validate.Struct(req); err != nil {
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "Email is not valid")
		return
	}

	token, err := h.svc.RequestReset(r.Context(), req.Email)
	if err != nil {
		// Отсутствие почты — штатный отрицательный исход, не системный сбой.
		if errors.Is(err, services.ErrEmailNotFound) {
			helpers.Error(w, http.StatusBadRequest, helpers.CodeNotFound, "Email Does not exist")
			return
		}
		log.Error("Сбой при запросе восстановления пароля", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, helpers.CodeInternal, "Password reset failed, try again")
		return
	}

	log.Info("Запрошено восстановление пароля")
	helpers.JSON(w, http.StatusOK, forgotResp{
		Message: "Please check your registered Email ID",
		Token:   token,
	})
}

type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Reset godoc
// @Summary Сброс пароля по токену
// @Description Устанавливает новый пароль по токену из письма. Токен одноразовый.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetReq true "Токен и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/password/reset [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.NewPassword) == "" {
		log.Warn("Невалидный payload в Reset")
		helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, "All fields are mandatory!")
		return
	}

	if err := h.svc.PerformReset(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrPasswordShort):
			log.Warn("Слишком короткий пароль в Reset")
			helpers.Error(w, http.StatusBadRequest, helpers.CodeValidation, err.Error())
		case errors.Is(err, services.ErrInvalidResetToken):
			log.Warn("Не удалось сбросить пароль по токену", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, helpers.CodeAuth, err.Error())
		default:
			// Внутренние детали клиенту не отдаём.
			log.Error("Сбой при сбросе пароля", zap.Error(err))
			helpers.Error(w, http.StatusBadRequest, helpers.CodeInternal, "Password update failed, try again!")
		}
		return
	}

	log.Info("Пароль успешно сброшен")
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
