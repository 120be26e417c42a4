package config

import (
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Session SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

// BackendConfig points at the hosted backend-as-a-service. URL and AnonKey are
// mandatory; the application refuses to start without them. ServiceKey unlocks
// the admin auth surface, DatabaseDSN switches the table adapter to a direct
// Postgres connection.
type BackendConfig struct {
	URL            string
	AnonKey        string
	ServiceKey     string
	DatabaseDSN    string
	StorageBucket  string
	RequestTimeout time.Duration
	ProbeTimeout   time.Duration
}

type SessionConfig struct {
	CookieName       string
	TTL              time.Duration
	BootstrapTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/augmind.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Backend: BackendConfig{
			URL:            getEnv("BACKEND_URL", ""),
			AnonKey:        getEnv("BACKEND_ANON_KEY", ""),
			ServiceKey:     getEnv("BACKEND_SERVICE_KEY", ""),
			DatabaseDSN:    getEnv("DB_CONNECTION_STRING", ""),
			StorageBucket:  getEnv("STORAGE_BUCKET", "documents"),
			RequestTimeout: getEnvAsDuration("BACKEND_REQUEST_TIMEOUT", 10*time.Second),
			ProbeTimeout:   getEnvAsDuration("BACKEND_PROBE_TIMEOUT", 3*time.Second),
		},
		Session: SessionConfig{
			CookieName:       getEnv("SESSION_COOKIE_NAME", "augmind_session"),
			TTL:              getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			BootstrapTimeout: getEnvAsDuration("SESSION_BOOTSTRAP_TIMEOUT", 10*time.Second),
		},
	}
}

// MustValidate enforces the fatal startup contract: a missing or malformed
// backend endpoint is a configuration error, not something to degrade around.
func (c *Config) MustValidate() {
	if c.Backend.URL == "" || c.Backend.AnonKey == "" {
		log.Fatal("Missing backend environment variables: BACKEND_URL and BACKEND_ANON_KEY are required")
	}
	if _, err := url.ParseRequestURI(c.Backend.URL); err != nil {
		log.Fatalf("Invalid BACKEND_URL format: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
