package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env                string        // dev, prod
	HTTPPort           string        // default 8080
	DatasetPath        string        // optional JSON dataset; built-in demo data when empty
	BookingHorizonDays int           // how far ahead availability may be queried
	SlotTickMinutes    int           // discrete slot size windows expand into
	ShutdownTimeout    time.Duration // graceful shutdown timeout
	WorkerInterval     time.Duration // how often the completion worker runs
	WorkerAPIBaseURL   string        // API the completion worker talks to
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatasetPath:        os.Getenv("DATASET_PATH"),
		BookingHorizonDays: getInt("BOOKING_HORIZON_DAYS", 30),
		SlotTickMinutes:    getInt("SLOT_TICK_MINUTES", 30),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		WorkerInterval:     getDuration("WORKER_INTERVAL", time.Minute),
		WorkerAPIBaseURL:   getEnv("WORKER_API_BASE_URL", "http://localhost:8080"),
	}

	if cfg.BookingHorizonDays <= 0 {
		return Config{}, fmt.Errorf("BOOKING_HORIZON_DAYS must be > 0")
	}
	if cfg.SlotTickMinutes <= 0 || cfg.SlotTickMinutes > 24*60 {
		return Config{}, fmt.Errorf("SLOT_TICK_MINUTES must be between 1 and 1440")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		fmt.Fprintf(os.Stderr, "invalid integer for %s=%q, using default %d\n", key, v, def)
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
