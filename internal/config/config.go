package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	JWTTTLHours int
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	RedisAddr     string // Empty keeps revoked sessions in memory
	RedisPassword string
	RedisDB       int

	CORSOrigins    string
	DigestSchedule string // Cron expression for the weekly report digest

	// Legacy behaviour: department-scoped checks pass when the record has no department
	AllowMissingDepartment bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		JWTSecret:              getEnv("JWT_SECRET", "secret"),
		JWTTTLHours:            getEnvInt("JWT_TTL_HOURS", 12),
		MongoURI:               getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:                 getEnv("DB_NAME", "fitstaff"),
		SkipAuth:               getEnvBool("SKIP_AUTH", false),
		Environment:            getEnv("ENVIRONMENT", "development"),
		AppId:                  getEnv("APP_ID", "go-fitstaff"),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		CORSOrigins:            getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
		DigestSchedule:         getEnv("DIGEST_SCHEDULE", "0 9 * * 1"),
		AllowMissingDepartment: getEnvBool("ACCESS_ALLOW_MISSING_DEPARTMENT", false),
	}, nil
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	i, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Invalid integer for %s, using %d", key, fallback)
		return fallback
	}
	return i
}
