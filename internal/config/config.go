package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort             = "8080"
	defaultAccessExpiresIn  = "15m"
	defaultRefreshExpiresIn = "7d"
	defaultAccessSecret     = "change-me-access-secret"
	defaultRefreshSecret    = "change-me-refresh-secret"
)

// Config is built once at startup and passed by reference into the
// services that need it. Nothing reads the environment after Load.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	BcryptCost int

	AccessTokenSecret     string
	RefreshTokenSecret    string
	AccessTokenExpiresIn  string
	RefreshTokenExpiresIn string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:                strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", "dev"))),
		Port:                  getEnv("PORT", defaultPort),
		DatabaseURL:           getEnv("DATABASE_URL", "circles.db"),
		AccessTokenSecret:     strings.TrimSpace(getEnv("JWT_ACCESS_SECRET", defaultAccessSecret)),
		RefreshTokenSecret:    strings.TrimSpace(getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret)),
		AccessTokenExpiresIn:  strings.TrimSpace(getEnv("JWT_ACCESS_EXPIRES_IN", defaultAccessExpiresIn)),
		RefreshTokenExpiresIn: strings.TrimSpace(getEnv("JWT_REFRESH_EXPIRES_IN", defaultRefreshExpiresIn)),
	}

	cost, err := parseIntEnv("SALT", bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = cost

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.AccessTokenExpiresIn == "" || cfg.RefreshTokenExpiresIn == "" {
		return fmt.Errorf("token expiry durations must not be empty")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("SALT must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return fmt.Errorf("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.AccessTokenSecret, defaultAccessSecret) {
			return fmt.Errorf("in prod/release JWT_ACCESS_SECRET must be set and not default")
		}
		if isEmptyOrDefault(cfg.RefreshTokenSecret, defaultRefreshSecret) {
			return fmt.Errorf("in prod/release JWT_REFRESH_SECRET must be set and not default")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseIntEnv(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, raw, err)
	}
	return v, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
