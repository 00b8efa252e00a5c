package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort string
	ServerEnv  string
	ServerHost string // Swagger host

	// Database
	DatabaseURL string

	// JWT
	JWTSecretKey              string
	JWTAccessTokenExpireMin   int
	JWTRefreshTokenExpireDays int

	// Mapbox (search geocoding)
	MapboxAccessToken string

	// Cache admin
	CacheAdminSecret string

	// Optional cron spec for background cache prewarm, e.g. "@every 8m".
	// Empty disables the warmer.
	CacheWarmSchedule string

	// Upstream datasets (SF open-data defaults, overridable per deployment)
	CrimeAPIURL   string
	ServiceAPIURL string
	FireAPIURL    string
	TransitAPIURL string

	// OpenTelemetry
	OTelEndpoint string
}

func Load() *Config {
	return &Config{
		// Server
		ServerPort: getEnvWithFallback("SERVER_PORT", "PORT", "3000"),
		ServerEnv:  getEnv("SERVER_ENV", "development"),
		ServerHost: getEnv("SERVER_HOST", "localhost:3000"),

		// Database - DATABASE_URL wins, else assembled from POSTGRES_* parts
		DatabaseURL: getDatabaseURL(),

		// JWT
		JWTSecretKey:              getEnv("JWT_SECRET_KEY", ""),
		JWTAccessTokenExpireMin:   getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 60),
		JWTRefreshTokenExpireDays: getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7),

		// Mapbox
		MapboxAccessToken: getEnvWithFallback("MAPBOX_ACCESS_TOKEN", "NEXT_PUBLIC_MAPBOX_ACCESS_TOKEN", ""),

		// Cache admin
		CacheAdminSecret:  getEnv("CACHE_ADMIN_SECRET", ""),
		CacheWarmSchedule: getEnv("CACHE_WARM_SCHEDULE", ""),

		// Upstream datasets
		CrimeAPIURL:   getEnv("CRIME_API_URL", "https://data.sfgov.org/resource/wg3w-h783.json?$limit=100"),
		ServiceAPIURL: getEnv("SERVICE_API_URL", "https://data.sfgov.org/resource/vw6y-z8j6.json?$limit=200"),
		FireAPIURL:    getEnv("FIRE_API_URL", "https://data.sfgov.org/resource/wr8u-xric.json?$limit=200"),
		TransitAPIURL: getEnv("TRANSIT_API_URL", "https://retro.umoiq.com/service/publicJSONFeed?command=vehicleLocations&a=sf-muni&t=0"),

		// OpenTelemetry
		OTelEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvWithFallback tries primary key first, then fallback key
func getEnvWithFallback(primary, fallback, defaultValue string) string {
	if value, exists := os.LookupEnv(primary); exists && value != "" {
		return value
	}
	if value, exists := os.LookupEnv(fallback); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDatabaseURL returns DATABASE_URL or builds it from individual env vars
func getDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := getEnv("POSTGRES_PASSWORD", "")
	dbname := getEnv("POSTGRES_DB", "civiclens")
	sslmode := getEnv("POSTGRES_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode)
}
