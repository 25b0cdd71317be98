package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// classifier gateway (best-effort; empty URL disables the call)
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// duplicate detection
	DuplicateRadiusM float64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:          getEnv("DB_SOURCE", "civicfix.db"),
		Port:              getEnv("PORT", "8000"),
		JWTSecret:         getEnv("JWT_SECRET", "changeme"),
		JWTTTL:            time.Duration(24) * time.Hour,
		ClassifierURL:     getEnv("CLASSIFIER_URL", "http://localhost:5000"),
		ClassifierTimeout: time.Duration(getEnvInt("CLASSIFIER_TIMEOUT_SEC", 20)) * time.Second,
		DuplicateRadiusM:  float64(getEnvInt("DUPLICATE_RADIUS_M", 500)),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
