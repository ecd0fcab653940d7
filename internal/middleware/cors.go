package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORSConfig restricts cross-origin access to the configured origins.
// Wildcard origins are never used; credentials stay disabled.
func CORSConfig(allowedOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length,X-Request-ID",
		MaxAge:           3600,
	})
}
