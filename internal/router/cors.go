package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seddikfer4/Mcdial/internal/config"
)

// CorsMiddleware builds the CORS layer from startup configuration. The
// allowed origin is a single configured frontend; credentials stay enabled
// so the session cookie crosses origins.
func CorsMiddleware(cfg config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigin,
		AllowMethods:     cfg.CORSMethods,
		AllowHeaders:     cfg.CORSHeaders,
		AllowCredentials: cfg.CORSCredentials,
	})
}
