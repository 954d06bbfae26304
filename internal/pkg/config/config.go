package config

import (
	"os"
	"strconv"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// Configured reports whether the remote backend settings are complete enough
// to attempt a connection. When false the service runs on local storage only.
func (p PostgresConfig) Configured() bool {
	return p.Host != "" && p.Username != "" && p.Password != "" && p.DB != ""
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	ServerPort  string
	MetricsPort string
	PprofPort   string
	DataDir     string
	JWTSecret   string
	Postgres    PostgresConfig
	Gemini      GeminiConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		PprofPort:   getEnvOrDefault("PPROF_PORT", "6060"),
		DataDir:     getEnvOrDefault("DATA_DIR", "./data"),
		JWTSecret:   getEnvOrDefault("JWT_SECRET_KEY", ""),
		Postgres: PostgresConfig{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			DB:       getEnvOrDefault("POSTGRES_DB", "travel_planner"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
			MaxConns: int32(getEnvIntOrDefault("POSTGRES_MAX_CONNS", 30)),
			MinConns: int32(getEnvIntOrDefault("POSTGRES_MIN_CONNS", 5)),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		},
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
