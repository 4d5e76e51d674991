package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	RoundsPerGame   int
	GridSize        int
	VirusDelayMinMs int
	VirusDelayMaxMs int
	ClickTimeoutMs  int
	FinalizeDelayMs int
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RoundsPerGame:   getEnvInt("ROUNDS_PER_GAME", 10),
		GridSize:        getEnvInt("GRID_SIZE", 10),
		VirusDelayMinMs: getEnvInt("VIRUS_DELAY_MIN_MS", 1500),
		VirusDelayMaxMs: getEnvInt("VIRUS_DELAY_MAX_MS", 10000),
		ClickTimeoutMs:  getEnvInt("CLICK_TIMEOUT_MS", 30000),
		FinalizeDelayMs: getEnvInt("FINALIZE_DELAY_MS", 2000),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
