package jabber

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/eleksir/go-xmpp"
	log "github.com/sirupsen/logrus"

	"groupchat-relay-bot/internal/relay"
)

// Connect dials the configured XMPP server and wires the relay engine,
// batcher and persister to the freshly-connected session. It is called
// once per reconnect attempt from cmd/groupchat-relay-bot/main.go.
func (b *Bot) Connect() error {
	b.Options = &xmpp.Options{ //nolint:exhaustruct
		Host:     fmt.Sprintf("%s:%d", b.C.Jabber.Server, b.C.Jabber.Port),
		User:     b.Credentials.JID,
		Password: b.Credentials.Password,
		Resource: b.C.Jabber.Resource,
		NoTLS:    !b.C.Jabber.Ssl,
		StartTLS: b.C.Jabber.StartTLS,
		TLSConfig: &tls.Config{ //nolint:exhaustruct
			ServerName:         b.C.Jabber.Server,
			InsecureSkipVerify: !b.C.Jabber.SslVerify, //nolint:gosec
		},
		InsecureAllowUnencryptedAuth: b.C.Jabber.InsecureAllowUnencryptedAuth,
		Session:                      false,
		Status:                       "chat",
		DialTimeout:                  time.Duration(b.C.Jabber.ConnectionTimeoutS) * time.Second,
	}

	talk, err := b.Options.NewClient()

	if err != nil {
		return fmt.Errorf("unable to connect to jabber server: %w", err)
	}

	b.Talk = talk

	client := newClientAdapter(talk, b.Log)
	roster := newRosterAdapter(talk, b.Log)

	batcher := relay.NewOutboundBatcher(client, b.Log, relay.BatcherConfig{
		Interval:            time.Duration(b.C.BatchIntervalMs) * time.Millisecond,
		UseSeparateMessages: b.C.UseSeparateMessages,
	})

	engine := relay.NewChatEngine(client, roster, batcher, b.Log)

	if data, err := loadStateFile(b.C.StateFile); err != nil {
		log.Warnf("no usable state file at %s: %s, starting empty", b.C.StateFile, err)
	} else if !engine.Deserialize(data) {
		return fmt.Errorf("state file %s failed to parse, refusing to start", b.C.StateFile)
	}

	persister := relay.NewStatePersister(engine, b.Log, b.C.StateFile,
		time.Duration(b.C.SaveIntervalS)*time.Second)

	b.Batcher = batcher
	b.Engine = engine
	b.Persister = persister

	go persister.Run()

	b.GTomb.Go(func() error { return b.recvLoop(client, roster) })

	return nil
}

// recvLoop pumps stanzas off the wire and hands them to the matching
// adapter.
func (b *Bot) recvLoop(client *clientAdapter, roster *rosterAdapter) error {
	for {
		select {
		case <-b.GTomb.Dying():
			return nil
		default:
		}

		event, err := b.Talk.Recv()

		if err != nil {
			log.Errorf("Unable to get events from server: %s", err)

			switch {
			case errors.Is(err, io.EOF):
				return fmt.Errorf("tcp stream closed while reading, err=%w", err)
			case errors.Is(err, net.ErrClosed):
				return fmt.Errorf("unable to read closed socket, err=%w", err)
			default:
				return fmt.Errorf("error during parsing received message, err=%w", err)
			}
		}

		switch v := event.(type) {
		case xmpp.Chat:
			client.dispatchChat(v)
		case xmpp.Presence:
			roster.dispatchPresence(v)
		default:
			log.Debug(spew.Sdump(event))
		}
	}
}
