package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	t.Setenv("CONTACT_FORM_URL", "https://formspree.io/f/test")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "8080", s.Server.Port)
	assert.Equal(t, "gitprofile.yaml", s.Server.ConfigPath)
	assert.Equal(t, RelayForm, s.Contact.Relay)
	assert.Equal(t, 5*time.Second, s.Contact.ResetAfter)
	assert.Equal(t, "https://api.github.com", s.GitHub.APIURL)
	assert.Equal(t, "smtp.gmail.com", s.Contact.SMTP.Host)
	assert.False(t, s.IsRelease())
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CONTACT_RELAY", "SMTP")
	t.Setenv("SMTP_USER", "me@example.com")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("TO_EMAIL", "inbox@example.com")
	t.Setenv("GITHUB_API_URL", "http://localhost:1234/")
	t.Setenv("PROFILE_TTL", "1m")
	t.Setenv("CONTACT_RATE_BURST", "not-a-number")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, "9000", s.Server.Port)
	assert.True(t, s.IsRelease())
	assert.Equal(t, RelaySMTP, s.Contact.Relay)
	assert.Equal(t, "http://localhost:1234", s.GitHub.APIURL)
	assert.Equal(t, time.Minute, s.GitHub.ProfileTTL)
	assert.Equal(t, 3, s.Contact.RateBurst, "unparsable values fall back to the default")
}

func TestLoadSettings_Validation(t *testing.T) {
	t.Run("form relay needs url", func(t *testing.T) {
		t.Setenv("CONTACT_FORM_URL", "")
		_, err := LoadSettings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CONTACT_FORM_URL")
	})

	t.Run("smtp relay needs credentials", func(t *testing.T) {
		t.Setenv("CONTACT_RELAY", "smtp")
		_, err := LoadSettings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SMTP_USER and SMTP_PASS")
		assert.Contains(t, err.Error(), "TO_EMAIL")
	})

	t.Run("unknown relay", func(t *testing.T) {
		t.Setenv("CONTACT_RELAY", "pigeon")
		_, err := LoadSettings()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CONTACT_RELAY")
	})
}
