package relay_test

import (
	"sync"

	"groupchat-relay-bot/internal/relay"
)

// recordingClient is a fake relay.Client that records every sent message
// instead of talking to a real transport, in the style of
// mama165-chat-lab's RecordingSink.
type recordingClient struct {
	mu   sync.Mutex
	sent map[string][]string

	messageCallback  func(relay.Message)
	presenceCallback func(relay.Presence)
}

func newRecordingClient() *recordingClient {
	return &recordingClient{sent: make(map[string][]string)}
}

func (c *recordingClient) Send(to, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent[to] = append(c.sent[to], body)

	return nil
}

func (c *recordingClient) RegisterMessageCallback(fn func(relay.Message)) {
	c.messageCallback = fn
}

func (c *recordingClient) RegisterPresenceCallback(fn func(relay.Presence)) {
	c.presenceCallback = fn
}

func (c *recordingClient) linesTo(jid string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.sent[jid]))
	copy(out, c.sent[jid])

	return out
}

// recordingRoster is a fake relay.Roster that records accepted
// subscriptions.
type recordingRoster struct {
	mu       sync.Mutex
	accepted []string

	subscriptionCallback func(relay.Presence)
}

func newRecordingRoster() *recordingRoster {
	return &recordingRoster{}
}

func (r *recordingRoster) RegisterSubscriptionRequestCallback(fn func(relay.Presence)) {
	r.subscriptionCallback = fn
}

func (r *recordingRoster) AcceptSubscription(jid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accepted = append(r.accepted, jid)

	return nil
}

// nullLogger discards everything; tests assert on observable behavior,
// not log output.
type nullLogger struct{}

func (nullLogger) Debugf(string, ...interface{}) {}
func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Warnf(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}

// newTestEngine wires an engine with a zero-interval batcher and a mock
// Client/Roster pair, matching the end-to-end test scenarios below.
// UseSeparateMessages is set so that the assertions below can check each
// reply/broadcast line individually rather than reassembling them out of a
// newline-joined stanza.
func newTestEngine() (*relay.ChatEngine, *recordingClient, *recordingRoster, *relay.OutboundBatcher) {
	client := newRecordingClient()
	roster := newRecordingRoster()
	batcher := relay.NewOutboundBatcher(client, nullLogger{}, relay.BatcherConfig{UseSeparateMessages: true})
	engine := relay.NewChatEngine(client, roster, batcher, nullLogger{})

	return engine, client, roster, batcher
}
