package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds environment-driven settings for the signal tracker.
type Config struct {
	Port string

	// Database
	DBPath string

	// Price feed
	GoldAPIURL    string
	GoldAPIKey    string
	Symbol        string
	PriceCacheTTL time.Duration

	// Refresh
	RefreshInterval time.Duration

	// Auth
	JWTSecret string
}

// fileOverlay is the optional YAML config file shape. File values fill in
// settings left at their defaults; explicit env vars always win.
type fileOverlay struct {
	Port            string  `yaml:"port"`
	DBPath          string  `yaml:"db_path"`
	GoldAPIURL      string  `yaml:"gold_api_url"`
	Symbol          string  `yaml:"symbol"`
	PriceCacheSec   float64 `yaml:"price_cache_seconds"`
	RefreshEverySec float64 `yaml:"refresh_interval_seconds"`
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBPath:          getEnv("DB_PATH", "./data/signals.db"),
		GoldAPIURL:      getEnv("GOLD_API_URL", "https://www.goldapi.io/api/XAU/USD"),
		GoldAPIKey:      os.Getenv("GOLD_API_KEY"),
		Symbol:          getEnv("SYMBOL", "XAUUSD"),
		PriceCacheTTL:   time.Duration(getEnvFloat("PRICE_CACHE_SECONDS", 25) * float64(time.Second)),
		RefreshInterval: time.Duration(getEnvFloat("REFRESH_INTERVAL_SECONDS", 30) * float64(time.Second)),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f fileOverlay
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if f.Port != "" && os.Getenv("PORT") == "" {
		c.Port = f.Port
	}
	if f.DBPath != "" && os.Getenv("DB_PATH") == "" {
		c.DBPath = f.DBPath
	}
	if f.GoldAPIURL != "" && os.Getenv("GOLD_API_URL") == "" {
		c.GoldAPIURL = f.GoldAPIURL
	}
	if f.Symbol != "" && os.Getenv("SYMBOL") == "" {
		c.Symbol = f.Symbol
	}
	if f.PriceCacheSec > 0 && os.Getenv("PRICE_CACHE_SECONDS") == "" {
		c.PriceCacheTTL = time.Duration(f.PriceCacheSec * float64(time.Second))
	}
	if f.RefreshEverySec > 0 && os.Getenv("REFRESH_INTERVAL_SECONDS") == "" {
		c.RefreshInterval = time.Duration(f.RefreshEverySec * float64(time.Second))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
