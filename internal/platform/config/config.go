package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/armonia-music/pos-backend/internal/platform/logger"
)

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	// Backend selects the persistent store adapter: "memory", "file" or "redis".
	Backend   string
	FileDir   string
	RedisAddr string
	RedisDB   int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	MaxAttempts   int
	BlockDuration time.Duration
}

// LoadDotEnv loads a .env file if one is present. Missing files are not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err == nil {
		logger.Info("Loaded configuration from .env file")
	}
}

func LoadServerConfig(defaultPort string) ServerConfig {
	return ServerConfig{Port: ":" + GetEnv("SERVER_PORT", defaultPort)}
}

func LoadStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:   GetEnv("STORAGE_BACKEND", "file"),
		FileDir:   GetEnv("STORAGE_FILE_DIR", "./data"),
		RedisAddr: GetEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisDB:   GetEnvAsInt("REDIS_DB", 0),
	}
}

func LoadAuthConfig() AuthConfig {
	secret := GetEnv("JWT_SECRET_KEY", "")
	if secret == "" {
		logger.Warn("JWT_SECRET_KEY not set, using default insecure key")
		secret = "armonia-pos-dev-secret"
	}
	return AuthConfig{
		JWTSecret:     secret,
		TokenTTL:      time.Duration(GetEnvAsInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		MaxAttempts:   GetEnvAsInt("LOGIN_MAX_ATTEMPTS", 3),
		BlockDuration: time.Duration(GetEnvAsInt("LOGIN_BLOCK_MINUTES", 15)) * time.Minute,
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvAsInt(key string, fallback int) int {
	strValue := GetEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
