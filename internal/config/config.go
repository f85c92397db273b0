package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Chart rendering
	ChartWidth  int
	ChartHeight int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "tradefolio"),
		DBPassword: getEnv("DB_PASSWORD", "tradefolio"),
		DBName:     getEnv("DB_NAME", "tradefolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Chart rendering
		ChartWidth:  getEnvInt("CHART_WIDTH", 900),
		ChartHeight: getEnvInt("CHART_HEIGHT", 500),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
