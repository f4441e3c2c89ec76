package middleware

import (
	"context"
	"net/http"
	"strings"

	"fitcoach/internal/config"
	"fitcoach/internal/logger"
	"fitcoach/internal/utils"

	"go.uber.org/zap"
)

type ContextKey string

const ContextUserID ContextKey = "user_id"

// JWTAuth проверяет access-токен и кладёт user_id в контекст.
// Секрет берётся из переданного на старте конфига.
func JWTAuth(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			userID, err := utils.ParseToken(tokenString, cfg.JWTAccessSecret)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен",
					zap.Error(err))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextUserID, userID)

			logger.WithCtx(ctx).Debug("JWTAuth: токен валиден", zap.Int("user_id", userID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext достаёт user_id, положенный JWTAuth.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ContextUserID).(int)
	return id, ok
}
