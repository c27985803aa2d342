package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"eduvibe-backend/config"
	"eduvibe-backend/controllers/authentication"
	"eduvibe-backend/controllers/bookings"
	"eduvibe-backend/controllers/httpCors"
	"eduvibe-backend/controllers/mentors"
	"eduvibe-backend/controllers/recommendations"
	"eduvibe-backend/controllers/students"
	"eduvibe-backend/controllers/users"
	bookingModels "eduvibe-backend/models/bookings"
	"eduvibe-backend/models/profiles"
	userModels "eduvibe-backend/models/users"
	"eduvibe-backend/services/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer logger.Sync()

	// Инициализируем базу данных
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Ошибка инициализации базы данных", zap.Error(err))
	}

	// Выполняем миграцию базы данных
	err = db.AutoMigrate(
		&userModels.User{},
		&profiles.Student{},
		&profiles.StudentSkill{},
		&profiles.Mentor{},
		&bookingModels.Booking{},
	)
	if err != nil {
		logger.Fatal("Ошибка миграции базы данных", zap.Error(err))
	}

	recService := recommend.NewService(db, logger, cfg)

	authHandler := authentication.NewHandler(db, cfg, logger)
	googleHandler := authentication.NewGoogleHandler(db, cfg, logger)
	userHandler := users.NewHandler(db, cfg, logger)
	studentHandler := students.NewHandler(db, cfg, logger)
	mentorHandler := mentors.NewHandler(db, cfg, logger, recService)
	recHandler := recommendations.NewHandler(db, cfg, logger, recService)
	bookingHandler := bookings.NewHandler(db, cfg, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/register", authHandler.Register)
	mux.HandleFunc("/login", authHandler.Login)
	mux.HandleFunc("/change-password", authHandler.ChangePassword)
	mux.HandleFunc("/login/google", googleHandler.Login)
	mux.HandleFunc("/callback/google", googleHandler.Callback)

	mux.HandleFunc("/users/me", userHandler.Me)
	mux.HandleFunc("/users/", userHandler.Public)

	mux.HandleFunc("/students/profile", studentHandler.Profile)
	mux.HandleFunc("/students/", bookingHandler.StudentBookings)

	mux.HandleFunc("/mentors/profile", mentorHandler.Profile)
	mux.HandleFunc("/mentors/search", mentorHandler.Search)
	mux.HandleFunc("/mentors/recommended", recHandler.Recommended)
	mux.HandleFunc("/mentors/recommended/search", recHandler.RecommendedSearch)
	mux.HandleFunc("/mentors/", mentorHandler.ByID)

	mux.HandleFunc("/bookings", bookingHandler.Create)
	mux.HandleFunc("/bookings/", bookingHandler.ByID)
	mux.HandleFunc("/sessions/", bookingHandler.UpdateSessionStatus)

	handler := httpCors.CorsSettings(cfg.Environment).Handler(mux)

	// Запускаем сервер
	logger.Info("Сервер запущен", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}
