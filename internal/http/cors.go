package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware builds the CORS middleware for storefront frontends calling the
// API from the browser. It returns nil when CORS is disabled or no usable origin is
// configured.
//
// allowOriginsStr is a comma-separated list of http(s) origins. A "*" entry allows every
// origin and switches credentials off, since browsers reject that combination.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	origins, rejected := parseOrigins(allowOriginsStr)
	for _, origin := range rejected {
		logger.Warn("ignoring CORS origin without http or https scheme", slog.String("origin", origin))
	}
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins configured - CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		// Retry-After tells a throttled checkout when to come back.
		ExposeHeaders: []string{
			"X-Request-Id",
			"Retry-After",
		},
		MaxAge: 12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}

	logger.Info("CORS enabled",
		slog.Any("origins", origins),
		slog.Bool("credentials", config.AllowCredentials))

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and a trailing
// slash. Entries that are neither "*" nor an http(s) origin come back as rejected.
func parseOrigins(originsStr string) (origins, rejected []string) {
	for _, part := range strings.Split(originsStr, ",") {
		origin := strings.TrimSuffix(strings.TrimSpace(part), "/")
		switch {
		case origin == "":
		case origin == "*", strings.HasPrefix(origin, "https://"), strings.HasPrefix(origin, "http://"):
			origins = append(origins, origin)
		default:
			rejected = append(rejected, origin)
		}
	}
	return origins, rejected
}
