package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port  string
	Debug bool

	// DatabaseURL is a Postgres DSN. Either set directly or assembled from
	// DB_HOST / DB_PORT / DB_NAME / DB_USER / DB_PASSWORD.
	DatabaseURL string

	// HTTPTimeout bounds every outbound upstream call.
	HTTPTimeout time.Duration

	// Open-Meteo endpoints. Keyless; overridable for local stubs.
	WeatherBaseURL   string
	GeocodingBaseURL string

	// GoogleAPIKey enables the postal-code geocoding fallback and the maps
	// embed URL. Optional: absence disables both, never core lookup.
	GoogleAPIKey string

	// YouTubeAPIKey enables video enrichment. Optional.
	YouTubeAPIKey  string
	YouTubeBaseURL string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "3001")
	cfg.Debug = getenvBool("DEBUG", false)

	cfg.DatabaseURL = databaseURL()

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.WeatherBaseURL = getenvDefault("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.GeocodingBaseURL = getenvDefault("OPEN_METEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search")

	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	cfg.YouTubeBaseURL = getenvDefault("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3/search")

	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to assembling a DSN from
// the individual DB_* variables the original deployment used.
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getenvDefault("DB_HOST", "localhost")
	port := getenvDefault("DB_PORT", "5432")
	name := getenvDefault("DB_NAME", "weather_watch")
	user := getenvDefault("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, name)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
