package httpCors

import (
	"github.com/rs/cors"
)

func CorsSettings(environment string) *cors.Cors {
	c := cors.New(cors.Options{
		AllowedMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedOrigins:     []string{"*"}, // Установите конкретные домены, если нужно ограничить доступ
		AllowCredentials:   true,
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		OptionsPassthrough: true,
		ExposedHeaders:     []string{"Authorization"},
		Debug:              environment == "development",
	})
	return c
}
