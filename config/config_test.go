package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ACCESS_EXPIRES_IN", "REFRESH_EXPIRY_MULTIPLIER", "BCRYPT_COST", "MAIL_TRANSPORT", "PASSWORD_MIN_LENGTH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 30, cfg.RefreshMultiplier)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 6, cfg.PasswordMinLength)
	assert.Equal(t, "queue", cfg.MailTransport)
	assert.Equal(t, "verification", cfg.VerificationPurpose)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ACCESS_EXPIRES_IN", "15m")
	t.Setenv("REFRESH_EXPIRY_MULTIPLIER", "4")
	t.Setenv("MAIL_TRANSPORT", "Direct")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 4, cfg.RefreshMultiplier)
	assert.Equal(t, "direct", cfg.MailTransport)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "5432", DBName: "vital", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/vital?sslmode=disable", cfg.PostgresDSN())
	assert.False(t, cfg.MailgunConfigured())
}
