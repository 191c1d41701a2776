package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"setcheck_backend/internals/configs"
)

// CorsMiddleware allows the origins listed in CORS_ALLOW_ORIGINS.
func CorsMiddleware() fiber.Handler {
	return cors.New(corsConfig(configs.CorsAllowOrigins))
}

// corsConfig falls back to the default origin on a blank value. Credentials
// are only allowed for an explicit origin list.
func corsConfig(origins string) cors.Config {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		origins = configs.DefaultCorsAllowOrigins
	}
	wildcard := false
	for _, o := range strings.Split(origins, ",") {
		if strings.TrimSpace(o) == "*" {
			wildcard = true
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: !wildcard,
	}
}
