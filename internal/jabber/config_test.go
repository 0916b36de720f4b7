package jabber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsMissingFields(t *testing.T) {
	// Arrange
	cfg := Config{CredentialsFile: "/etc/bot/credentials"} //nolint:exhaustruct

	// Act
	err := applyDefaults(&cfg)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Jabber.Server)
	assert.Equal(t, 5222, cfg.Jabber.Port)
	assert.Equal(t, "groupchat-relay-bot", cfg.Jabber.Resource)
	assert.Equal(t, int64(10), cfg.Jabber.ConnectionTimeoutS)
	assert.Equal(t, int64(3), cfg.Jabber.ReconnectDelayS)
	assert.Equal(t, "groupchat-relay-bot.state.yaml", cfg.StateFile)
	assert.Equal(t, int64(10), cfg.SaveIntervalS)
	assert.Equal(t, int64(1000), cfg.BatchIntervalMs)
	assert.Equal(t, "/", cfg.CSign)
	assert.Equal(t, "info", cfg.Loglevel)
}

func TestApplyDefaultsRejectsNonSlashCSign(t *testing.T) {
	// Arrange
	cfg := Config{CredentialsFile: "/etc/bot/credentials", CSign: "!"} //nolint:exhaustruct

	// Act
	err := applyDefaults(&cfg)

	// Assert
	assert.Error(t, err)
}

func TestApplyDefaultsRequiresCredentialsFile(t *testing.T) {
	// Arrange
	cfg := Config{} //nolint:exhaustruct

	// Act
	err := applyDefaults(&cfg)

	// Assert
	assert.Error(t, err)
}

func TestSSLPortDefaultsWithoutStartTLS(t *testing.T) {
	// Arrange
	cfg := Config{CredentialsFile: "/etc/bot/credentials"} //nolint:exhaustruct
	cfg.Jabber.Ssl = true

	// Act
	err := applyDefaults(&cfg)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 5223, cfg.Jabber.Port)
}
