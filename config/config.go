package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	BackendBaseURL     string
	SubmitPath         string
	SuccessRoute       string
	MaxFileSize        int64
	MaxImagePixels     int64
	MaxMultipartMemory int64
	BackendTimeout     time.Duration
	AllowedOrigins     []string
	LogLevel           string
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set
// in the environment win.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		BackendBaseURL:     strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:5000"), "/"),
		SubmitPath:         getEnv("SUBMIT_PATH", "/candidate/submit"),
		SuccessRoute:       getEnv("SUCCESS_ROUTE", "/success-page"),
		MaxFileSize:        getEnvInt64("MAX_FILE_SIZE", 10*1024*1024), // 10 MB
		MaxImagePixels:     getEnvInt64("MAX_IMAGE_PIXELS", 40_000_000),
		MaxMultipartMemory: 32 << 20,
		BackendTimeout:     getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		AllowedOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
