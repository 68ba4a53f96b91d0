package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"MODE", "HTTP_ADDR", "DB_DRIVER", "AUTH_HMAC_SECRET", "TOKEN_TTL",
		"CORS_ORIGINS", "STALE_REPORT_EVERY", "ENABLE_REGISTRATION", "PUBLIC_URL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Mode != ModeOffline || c.HTTPAddr != ":8080" || c.DBDriver != "sqlite" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.TokenTTL != 8*time.Hour || c.StaleReportEvery != 0 || !c.EnableRegistration {
		t.Fatalf("defaults = %+v", c)
	}
	if !c.Insecure() {
		t.Fatal("built-in secret should be reported as insecure")
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "3600")
	t.Setenv("STALE_REPORT_EVERY", "15m")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("ENABLE_REGISTRATION", "no")
	t.Setenv("PUBLIC_URL", "https://mock.example/")

	c := FromEnv()
	if c.Insecure() || c.TokenTTL != time.Hour || c.StaleReportEvery != 15*time.Minute || c.EnableRegistration {
		t.Fatalf("config = %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", c.CORSOrigins)
	}
	if c.PublicURL != "https://mock.example" {
		t.Fatalf("public url = %q", c.PublicURL)
	}
}
