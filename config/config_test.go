package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://example.com/api/report", cfg.GovernmentEndpoint)
	assert.Equal(t, "users.json", cfg.UsersFile)
	assert.Equal(t, "nominatim", cfg.Geocoder)
	assert.Equal(t, "keyword", cfg.Classifier)
	assert.Equal(t, []string{"flood", "water", "flooding", "danger", "submerged"}, cfg.RedKeywords)
	assert.NotEmpty(t, cfg.SessionSecret, "an ephemeral session secret should be generated")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("GEOCODER", "google")
	t.Setenv("RED_KEYWORDS", " flash flood , levee ")
	t.Setenv("SESSION_MAX_AGE_HOURS", "2")
	t.Setenv("SESSION_SECRET", "fixed")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "google", cfg.Geocoder)
	assert.Equal(t, []string{"flash flood", "levee"}, cfg.RedKeywords)
	assert.Equal(t, "fixed", cfg.SessionSecret)
	assert.Equal(t, "2h0m0s", cfg.SessionMaxAge.String())
}

func TestGetintRejectsGarbage(t *testing.T) {
	t.Setenv("LOG_MAX_SIZE", "fifty")
	assert.Equal(t, 50, getint("LOG_MAX_SIZE", 50))

	t.Setenv("LOG_MAX_SIZE", "128")
	assert.Equal(t, 128, getint("LOG_MAX_SIZE", 50))
}

func TestRandomHexLength(t *testing.T) {
	s := randomHex(32)
	require.Len(t, s, 32)
	assert.NotEqual(t, s, randomHex(32))
}
