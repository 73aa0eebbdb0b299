package config

import (
	"os"
	"strconv"

	"mod-translator/internal/store"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	StoreDriver     string
	SQLitePath      string
	DatabaseURL     string
	WorkerCount     int
	GameVersion     string
	FallbackModID   string
	DefaultLanguage string
	DirPageSize     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		StoreDriver:     getEnv("MODTRANS_STORE", store.DriverSQLite),
		SQLitePath:      getEnv("MODTRANS_SQLITE_PATH", "modtrans.db"),
		DatabaseURL:     getEnv("DATABASE_URL", "postgres://localhost:5432/modtrans?sslmode=disable"),
		WorkerCount:     getEnvInt("WORKER_COUNT", 8),
		GameVersion:     getEnv("GAME_VERSION", "@latest"),
		FallbackModID:   getEnv("FALLBACK_MOD_ID", "default"),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "English"),
		DirPageSize:     getEnvInt("DIR_PAGE_SIZE", 100),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Int("fallback", fallback).Msg("Invalid integer in environment, using fallback")
		return fallback
	}
	return n
}
