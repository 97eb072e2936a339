package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("MAILBOX_CAPACITY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, DefaultMailboxCapacity, cfg.MailboxCapacity)
}

func TestLoadConfig_ParsesValues(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("MAILBOX_CAPACITY", "32")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 32, cfg.MailboxCapacity)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	t.Run("non-numeric port", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("privileged port", func(t *testing.T) {
		t.Setenv("PORT", "80")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("zero mailbox capacity", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("MAILBOX_CAPACITY", "0")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
