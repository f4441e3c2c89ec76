package routes

import (
	"net/http"

	"fitcoach/internal/config"
	"fitcoach/internal/handlers"
	"fitcoach/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	workoutHandler *handlers.WorkoutHandler,
) {
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/register", authHandler.SignUp).Methods("POST")
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	api.HandleFunc("/password/forgot", passwordHandler.Forgot).Methods("POST")
	api.HandleFunc("/password/reset", passwordHandler.Reset).Methods("POST")

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(cfg))

	protected.HandleFunc("/profile", authHandler.Profile).Methods("GET")

	workouts := protected.PathPrefix("/workouts").Subrouter()
	workouts.HandleFunc("", workoutHandler.Create).Methods("POST")
	workouts.HandleFunc("", workoutHandler.GetPlans).Methods("GET")
	workouts.HandleFunc("/suggestions", workoutHandler.Suggestions).Methods("POST")
}
