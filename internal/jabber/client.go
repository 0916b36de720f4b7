package jabber

import (
	"github.com/eleksir/go-xmpp"

	"groupchat-relay-bot/internal/relay"
)

// clientAdapter satisfies relay.Client over a live *xmpp.Client. The core
// engine never imports github.com/eleksir/go-xmpp directly.
type clientAdapter struct {
	talk *xmpp.Client
	log  relay.Logger

	messageCallback func(relay.Message)
}

func newClientAdapter(talk *xmpp.Client, log relay.Logger) *clientAdapter {
	return &clientAdapter{talk: talk, log: log}
}

// Send emits a one-to-one chat stanza.
func (c *clientAdapter) Send(to, body string) error {
	_, err := c.talk.Send(xmpp.Chat{ //nolint:exhaustruct
		Remote: to,
		Type:   "chat",
		Text:   body,
	})

	return err
}

func (c *clientAdapter) RegisterMessageCallback(fn func(relay.Message)) {
	c.messageCallback = fn
}

// RegisterPresenceCallback exists to satisfy relay.Client; the core never
// inspects presence, so the adapter keeps no state for it.
func (c *clientAdapter) RegisterPresenceCallback(func(relay.Presence)) {}

// dispatchChat is called by the recv loop for every xmpp.Chat stanza. It
// filters to one-to-one chat and drops error-type stanzas.
func (c *clientAdapter) dispatchChat(v xmpp.Chat) {
	if c.messageCallback == nil {
		return
	}

	if v.Type == "error" {
		return
	}

	if v.Type != "" && v.Type != "chat" {
		return
	}

	c.messageCallback(relay.Message{
		Type: v.Type,
		From: v.Remote,
		Body: v.Text,
	})
}
