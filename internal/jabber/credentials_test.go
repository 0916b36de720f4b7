package jabber

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCredentialsParsesJidAndPassword(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials")
	assert.NoError(t, os.WriteFile(path, []byte("foo@example.com secret\n"), 0o600))

	b := Bot{C: Config{CredentialsFile: path}} //nolint:exhaustruct

	// Act
	err := b.ReadCredentials()

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "foo@example.com", b.Credentials.JID)
	assert.Equal(t, "secret", b.Credentials.Password)
}

func TestReadCredentialsRejectsMalformedLine(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials")
	assert.NoError(t, os.WriteFile(path, []byte("not-enough-fields\n"), 0o600))

	b := Bot{C: Config{CredentialsFile: path}} //nolint:exhaustruct

	// Act
	err := b.ReadCredentials()

	// Assert
	assert.Error(t, err)
}
