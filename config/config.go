package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config собирается один раз при старте процесса и передаётся
// во все обработчики и сервисы явно.
type Config struct {
	Port        string
	Environment string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret     []byte
	SessionSecret []byte

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	Recommendations RecommendationConfig
}

// RecommendationConfig — лимиты движка рекомендаций и поиска.
type RecommendationConfig struct {
	DefaultLimit       int
	MaxLimit           int
	SearchPageSize     int
	SimilarStudentsCap int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		SessionSecret: []byte(getEnv("SESSION_SECRET", "something-very-secret")),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		Recommendations: RecommendationConfig{
			DefaultLimit:       getEnvInt("RECOMMENDATIONS_DEFAULT_LIMIT", 10),
			MaxLimit:           getEnvInt("RECOMMENDATIONS_MAX_LIMIT", 50),
			SearchPageSize:     getEnvInt("SEARCH_PAGE_SIZE", 12),
			SimilarStudentsCap: getEnvInt("SIMILAR_STUDENTS_CAP", 50),
		},
	}

	// Проверяем обязательные поля
	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required but not set")
	}
	if len(cfg.JWTSecret) == 0 {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		log.Println("JWT_SECRET is not set, using insecure development default")
		cfg.JWTSecret = []byte("dev-secret-key")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
