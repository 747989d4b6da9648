package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	// Storage configuration
	DataDir string

	// Localization configuration
	Language        string
	TranslationsDir string

	// Credential hashing
	BcryptCost int

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	// A missing .env file is fine, the environment still wins.
	_ = godotenv.Load()

	return &Config{
		// Storage
		DataDir: getEnv("TICKETHUB_DATA_DIR", defaultDataDir()),

		// Localization
		Language:        getEnv("TICKETHUB_LANGUAGE", "pt"),
		TranslationsDir: getEnv("TICKETHUB_TRANSLATIONS_DIR", "translations"),

		// Hashing
		BcryptCost: getEnvAsInt("TICKETHUB_BCRYPT_COST", bcrypt.DefaultCost),

		// Monitoring
		EnableMetrics: getEnvAsBool("TICKETHUB_ENABLE_METRICS", true),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("TicketHub", "Data")
	}
	return filepath.Join(home, "TicketHub", "Data")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
