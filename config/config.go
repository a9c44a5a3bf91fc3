// Package config loads the process configuration and owns the database
// handle construction.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Defaults applied when the environment leaves a knob unset.
const (
	DefaultPort          = "8080"
	DefaultTokenTTLHours = 24
	DefaultDBMinConns    = 2
	DefaultDBMaxConns    = 10
	DefaultMaxUploadMB   = 50
)

// InspectorAccount is one login the intake app accepts: a display name and
// its access code. The code may be a bcrypt hash (recognized by its $2
// prefix) or a plain shared secret.
type InspectorAccount struct {
	Name string
	Code string
}

// Config is the full runtime configuration, resolved once at startup and
// passed down explicitly.
type Config struct {
	Port  string
	DBDSN string

	DBMinConns int
	DBMaxConns int

	// TokenTTL is the signing window stamped into token_expira_em.
	TokenTTL time.Duration

	UploadDir    string
	SignatureDir string
	BackupDir    string

	// SavePolicy selects best_effort or atomic for the multi-step save.
	SavePolicy string

	MaxUploadBytes int64

	JWTSecret  string
	Inspectors []InspectorAccount

	UseGCS    bool
	GCSBucket string
}

// Load reads .env when present and resolves the configuration from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.S().Info("no .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:           envOr("PORT", DefaultPort),
		DBDSN:          buildDSN(),
		DBMinConns:     envInt("DB_MIN_CONN", DefaultDBMinConns),
		DBMaxConns:     envInt("DB_MAX_CONN", DefaultDBMaxConns),
		TokenTTL:       time.Duration(envInt("TOKEN_EXPIRATION_HOURS", DefaultTokenTTLHours)) * time.Hour,
		UploadDir:      envOr("UPLOAD_DIR", "uploads"),
		SignatureDir:   envOr("SIGNATURE_DIR", "assinaturas"),
		BackupDir:      envOr("BACKUP_DIR", "backups"),
		SavePolicy:     envOr("SAVE_POLICY", "best_effort"),
		MaxUploadBytes: int64(envInt("MAX_UPLOAD_MB", DefaultMaxUploadMB)) << 20,
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Inspectors:     parseInspectors(os.Getenv("INSPECTOR_CODES")),
		UseGCS:         strings.EqualFold(os.Getenv("USE_GCS"), "true"),
		GCSBucket:      os.Getenv("GCS_BUCKET"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("database configuration missing: set DB_DSN or DB_HOST/DB_USER/DB_PASSWORD/DB_NAME")
	}
	if cfg.UseGCS && cfg.GCSBucket == "" {
		return nil, fmt.Errorf("USE_GCS is set but GCS_BUCKET is empty")
	}
	return cfg, nil
}

// buildDSN prefers a full DB_DSN and otherwise assembles one from the
// discrete DB_* variables.
func buildDSN() string {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		name,
		envOr("DB_SSLMODE", "disable"),
	)
}

// parseInspectors reads "code:Name,code2:Name 2" into accounts. Entries
// without a colon are skipped.
func parseInspectors(raw string) []InspectorAccount {
	var accounts []InspectorAccount
	for _, entry := range strings.Split(raw, ",") {
		code, name, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || code == "" || name == "" {
			continue
		}
		accounts = append(accounts, InspectorAccount{Name: strings.TrimSpace(name), Code: code})
	}
	return accounts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		zap.S().Warnw("ignoring non-numeric env value", "key", key, "value", raw)
		return fallback
	}
	return n
}
