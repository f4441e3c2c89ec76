package middleware

import (
	"context"
	"net/http"

	"fitcoach/internal/logger"

	"github.com/google/uuid"
)

// RequestID присваивает каждому запросу идентификатор (или берёт из заголовка).
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), logger.ContextRequestID, rid)
		w.Header().Set("X-Request-ID", rid)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
