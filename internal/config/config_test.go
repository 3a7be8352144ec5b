package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.CalendarTimezone != "Europe/Madrid" {
		t.Errorf("expected default timezone Europe/Madrid, got %s", cfg.CalendarTimezone)
	}
	if cfg.DefaultCountryCode != "34" {
		t.Errorf("expected default country code 34, got %s", cfg.DefaultCountryCode)
	}
	if cfg.MinPhoneDigits != 9 {
		t.Errorf("expected min phone digits 9, got %d", cfg.MinPhoneDigits)
	}
	if cfg.NotifyTimeout != 10*time.Second {
		t.Errorf("expected notify timeout 10s, got %s", cfg.NotifyTimeout)
	}
	if cfg.InteractionWindow != 24*time.Hour {
		t.Errorf("expected interaction window 24h, got %s", cfg.InteractionWindow)
	}
	if cfg.EmailProvider != "sendgrid" {
		t.Errorf("expected default email provider sendgrid, got %s", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_COUNTRY_CODE", "44")
	t.Setenv("MIN_PHONE_DIGITS", "10")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("EMAIL_PROVIDER", "SES")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://studio.example.com, http://localhost:3000")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.DefaultCountryCode != "44" {
		t.Errorf("expected country code 44, got %s", cfg.DefaultCountryCode)
	}
	if cfg.MinPhoneDigits != 10 {
		t.Errorf("expected min phone digits 10, got %d", cfg.MinPhoneDigits)
	}
	if cfg.NotifyTimeout != 3*time.Second {
		t.Errorf("expected notify timeout 3s, got %s", cfg.NotifyTimeout)
	}
	if cfg.EmailProvider != "ses" {
		t.Errorf("expected email provider normalized to ses, got %s", cfg.EmailProvider)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://studio.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
}
