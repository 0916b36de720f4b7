package jabber

import (
	"fmt"
	"os"
	"strings"
)

// ReadCredentials reads the single-line "jid password" credentials file
// named by the bot config.
func (b *Bot) ReadCredentials() error {
	path := expandHome(b.C.CredentialsFile)

	buf, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("unable to read credentials file %s: %w", path, err)
	}

	line := strings.TrimSpace(string(buf))

	fields := strings.Fields(line)

	if len(fields) != 2 {
		return fmt.Errorf("credentials file %s must contain exactly \"jid password\"", path)
	}

	b.Credentials = Credentials{JID: fields[0], Password: fields[1]}

	return nil
}
