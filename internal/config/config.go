package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Mode string

const defaultSecret = "supersecret-dev-key"

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver         string
	DBDSN            string
	DBConnectRetries int

	BlobBasePath   string // uploaded audio/images live under here
	MaxUploadBytes int64

	AuthHMACSecret string
	TokenTTL       time.Duration

	EnableRegistration bool

	AdminUser     string
	AdminPassword string // plaintext, hashed once at provisioning time

	CORSOrigins []string

	// Stale result report; zero disables the job.
	StaleReportEvery time.Duration
	StaleAfter       time.Duration
}

// FromEnv reads configuration from the process environment. A .env file in
// the working directory is loaded first if present; real env vars win.
func FromEnv() Config {
	_ = godotenv.Load()

	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	defOrigins := "http://localhost:3000"
	if mode == ModeOnline {
		defOrigins = "https://mock.mindengage.ai"
	}
	return Config{
		Mode:               mode,
		HTTPAddr:           envOr("HTTP_ADDR", ":8080"),
		PublicURL:          strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/"),
		DBDriver:           envOr("DB_DRIVER", "sqlite"),
		DBDSN:              envOr("DB_DSN", ""),
		DBConnectRetries:   envInt("DB_CONNECT_RETRIES", 5),
		BlobBasePath:       envOr("BLOB_BASE_PATH", "./data/uploads"),
		MaxUploadBytes:     int64(envInt("MAX_UPLOAD_BYTES", 50<<20)),
		AuthHMACSecret:     envOr("AUTH_HMAC_SECRET", defaultSecret),
		TokenTTL:           envDuration("TOKEN_TTL", 8*time.Hour),
		EnableRegistration: envBool("ENABLE_REGISTRATION", true),
		AdminUser:          envOr("ADMIN_USER", "admin1"),
		AdminPassword:      envOr("ADMIN_PASSWORD", "admin1"),
		CORSOrigins:        csvOr("CORS_ORIGINS", defOrigins),
		StaleReportEvery:   envDuration("STALE_REPORT_EVERY", 0),
		StaleAfter:         envDuration("STALE_AFTER", 24*time.Hour),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil {
		return v
	}
	return def
}

// envDuration accepts Go durations ("90m") or bare seconds ("3600").
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Insecure reports whether the config still carries the built-in dev secret.
func (c Config) Insecure() bool {
	return c.AuthHMACSecret == defaultSecret
}
