package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
		assert.Equal(t, 168*time.Hour, cfg.JWTRefreshExpiry)
		assert.Equal(t, "https://api.spotify.com/v1/", cfg.SpotifyAPIBaseURL)
		assert.Equal(t, 10.0, cfg.SpotifyRequestsPerSecond)
		assert.Equal(t, 5, cfg.SpotifyRequestBurst)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, http.SameSiteStrictMode, cfg.SameSite())
		assert.Equal(t, 10*time.Minute, cfg.OAuthStateTTL)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("env overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("PORT", "9090")
		t.Setenv("JWT_ACCESS_EXPIRY", "5m")
		t.Setenv("COOKIE_SECURE", "false")
		t.Setenv("COOKIE_SAMESITE", "Lax")
		t.Setenv("SPOTIFY_REQUESTS_PER_SECOND", "2.5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 5*time.Minute, cfg.JWTAccessExpiry)
		assert.False(t, cfg.CookieSecure)
		assert.Equal(t, http.SameSiteLaxMode, cfg.SameSite())
		assert.Equal(t, 2.5, cfg.SpotifyRequestsPerSecond)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SPOTIFY_CLIENT_ID")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("short secret allowed only in development", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_SECRET", "short")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("APP_ENV", "development")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("bad samesite", func(t *testing.T) {
		setRequired(t)
		t.Setenv("COOKIE_SAMESITE", "sometimes")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestAllowsOrigin(t *testing.T) {
	t.Run("defaults to the frontend origin", func(t *testing.T) {
		cfg := &Config{FrontendRedirectURI: "https://app.noshuff.example/auth/callback"}

		assert.True(t, cfg.AllowsOrigin("https://app.noshuff.example"))
		assert.True(t, cfg.AllowsOrigin("HTTPS://App.Noshuff.Example"))
		assert.False(t, cfg.AllowsOrigin("https://evil.example"))
		assert.False(t, cfg.AllowsOrigin("http://app.noshuff.example"))
		assert.False(t, cfg.AllowsOrigin("https://app.noshuff.example:8443"))
		assert.False(t, cfg.AllowsOrigin(""))
		assert.False(t, cfg.AllowsOrigin("null"))
	})

	t.Run("explicit list from env", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, http://localhost:5173")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, []string{"https://a.example", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
		assert.True(t, cfg.AllowsOrigin("https://a.example"))
		assert.True(t, cfg.AllowsOrigin("http://localhost:5173"))
		assert.False(t, cfg.AllowsOrigin("http://localhost:3000"), "list replaces the frontend default")
	})
}
