package app

import (
	"context"

	"fitcoach/internal/config"
	"fitcoach/internal/db"
	"fitcoach/internal/handlers"
	"fitcoach/internal/repository"
	"fitcoach/internal/routes"
	"fitcoach/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(context.Background(), cfg.GetDSN()); err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	workoutRepo := repository.NewWorkoutRepository(conn)

	// Сервисы
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo, cfg)
	passwordService := services.NewPasswordService(userRepo, cfg)
	openaiService := services.NewOpenAIService(cfg.OpenAIKey, cfg.OpenAIModel)
	workoutService := services.NewWorkoutService(workoutRepo, openaiService)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(passwordService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)

	// Воркеры отправки писем
	for i := 0; i < 3; i++ {
		go services.StartEmailWorker(emailService)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg, authHandler, passwordHandler, workoutHandler)

	return router, nil
}
