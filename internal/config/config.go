// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs session, verification, and reset tokens. Required.
	JWTSecret string

	// GeoapifyAPIKey authenticates route-planner requests. Required.
	GeoapifyAPIKey string

	// GeoapifyURL is the route-planner endpoint.
	// Defaults to the public Geoapify v1 endpoint.
	GeoapifyURL string

	// MapboxToken authenticates place-search requests. Required.
	MapboxToken string

	// MapboxURL is the forward-geocoding endpoint.
	// Defaults to the public Mapbox v6 endpoint.
	MapboxURL string

	// RedisURL enables the place-search cache when set. Optional;
	// empty disables caching.
	RedisURL string

	// SMTPAddr is the host:port of the mail relay. Optional; empty routes
	// mail to the log instead.
	SMTPAddr string

	// SMTPFrom is the sender address for outgoing mail.
	// Defaults to "noreply@joyroute.app".
	SMTPFrom string

	// RouteMode is the travel mode sent to the route planner.
	// Defaults to "drive".
	RouteMode string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		GeoapifyURL: getEnv("GEOAPIFY_URL", "https://api.geoapify.com/v1/routeplanner"),
		MapboxURL:   getEnv("MAPBOX_URL", "https://api.mapbox.com/search/geocode/v6/forward"),
		RedisURL:    os.Getenv("REDIS_URL"),
		SMTPAddr:    os.Getenv("SMTP_ADDR"),
		SMTPFrom:    getEnv("SMTP_FROM", "noreply@joyroute.app"),
		RouteMode:   getEnv("ROUTE_MODE", "drive"),
	}

	var missing []string
	for _, v := range []struct {
		name string
		dst  *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"GEOAPIFY_API_KEY", &cfg.GeoapifyAPIKey},
		{"MAPBOX_TOKEN", &cfg.MapboxToken},
	} {
		*v.dst = os.Getenv(v.name)
		if *v.dst == "" {
			missing = append(missing, v.name)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
