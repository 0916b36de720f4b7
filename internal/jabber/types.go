// Package jabber adapts an XMPP session (github.com/eleksir/go-xmpp) to the
// transport-agnostic relay.Client and relay.Roster interfaces, and carries
// the process bootstrap: config, credentials, signal handling and the
// per-attempt Connect that the reconnect loop in cmd/groupchat-relay-bot
// calls.
package jabber

import (
	"os"

	"github.com/eleksir/go-xmpp"
	"gopkg.in/tomb.v2"

	"groupchat-relay-bot/internal/relay"
)

// Config is the bot's runtime configuration, read from an hjson file. It
// carries everything the relay core leaves as caller-supplied constants.
type Config struct {
	Jabber struct {
		Server                       string `json:"server,omitempty"`
		Port                         int    `json:"port,omitempty"`
		Ssl                          bool   `json:"ssl,omitempty"`
		StartTLS                     bool   `json:"starttls,omitempty"`
		SslVerify                    bool   `json:"ssl_verify,omitempty"`
		InsecureAllowUnencryptedAuth bool   `json:"insecureallowunencryptedauth,omitempty"`
		Resource                     string `json:"resource,omitempty"`
		ConnectionTimeoutS           int64  `json:"connection_timeout_s,omitempty"`
		ReconnectDelayS              int64  `json:"reconnect_delay_s,omitempty"`
	} `json:"jabber,omitempty"`

	CredentialsFile     string `json:"credentials_file,omitempty"`
	StateFile           string `json:"state_file,omitempty"`
	SaveIntervalS       int64  `json:"save_interval_s,omitempty"`
	BatchIntervalMs     int64  `json:"batch_interval_ms,omitempty"`
	UseSeparateMessages bool   `json:"use_separate_messages,omitempty"`
	CSign               string `json:"csign,omitempty"`
	Loglevel            string `json:"loglevel,omitempty"`
	Log                 string `json:"log,omitempty"`
}

// Credentials holds the bare jid+password pair read from the credentials
// file.
type Credentials struct {
	JID      string
	Password string
}

// Bot ties together the parsed config, the live xmpp session and the
// core relay engine for the duration of one connection attempt.
type Bot struct {
	C           Config
	Credentials Credentials
	Options     *xmpp.Options
	Talk        *xmpp.Client

	Engine    *relay.ChatEngine
	Batcher   *relay.OutboundBatcher
	Persister *relay.StatePersister
	Log       relay.Logger

	GTomb   tomb.Tomb
	SigChan chan os.Signal
}
