// Package relay implements the in-process group-chat engine: membership,
// channels, command dispatch, outbound batching and state persistence. It
// knows nothing about XMPP; it is wired to a transport by an adapter that
// implements Client and Roster.
package relay

import "sync"

// Message is the abstract inbound stanza the engine consumes. It carries
// just enough of an XMPP <message/> to drive the engine: the type
// attribute, the (possibly resource-qualified) sender and the body.
type Message struct {
	Type string
	From string
	Body string
}

// Presence is the abstract inbound subscription-request stanza.
type Presence struct {
	From string
}

// Client is the injected outbound transport. The engine never talks XMPP
// directly; it calls Send and registers callbacks that the adapter invokes
// as stanzas arrive on the wire.
type Client interface {
	Send(to, body string) error
	RegisterMessageCallback(func(Message))
	RegisterPresenceCallback(func(Presence))
}

// Roster is the injected subscription manager.
type Roster interface {
	RegisterSubscriptionRequestCallback(func(Presence))
	AcceptSubscription(jid string) error
}

// Logger is the leveled sink every component logs through. *logrus.Logger
// and *logrus.Entry both satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Sink is what User and Channel operations enqueue outbound lines through.
// *OutboundBatcher satisfies it.
type Sink interface {
	Enqueue(jid, text string)
}

// User is a chat identity known to the engine.
type User struct {
	JID         string
	Nick        string
	Channel     *Channel
	WelcomeSent bool
}

// Channel is a named chat room. Membership is flat.
type Channel struct {
	Name     string
	Password string
	Users    map[string]*User // keyed by jid
	Scores   map[string]int
}

// ChatEngine owns the users and channels maps, the state mutex and the
// version counter. Every mutation that changes a serializable field must
// run inside mu and call incVersionLocked before releasing it.
type ChatEngine struct {
	mu          sync.Mutex
	versionCond *sync.Cond

	users    map[string]*User
	channels map[string]*Channel

	currentVersion uint64
	savedVersion   uint64

	client  Client
	roster  Roster
	batcher *OutboundBatcher
	log     Logger

	dispatcher *CommandDispatcher

	// pending buffers Enqueue calls made while mu is held, so they can be
	// flushed to the batcher after mu is released. See (*ChatEngine).Enqueue.
	pending []pendingMessage
}

type pendingMessage struct {
	jid  string
	text string
}

// Enqueue implements Sink. Command handlers and Channel/User methods take
// the engine itself as their Sink while mu is held; this buffers the line
// instead of calling the batcher directly, so the batcher's mutex is never
// acquired while mu is held. The caller is responsible for draining pending
// and handing it to the batcher after releasing mu.
func (e *ChatEngine) Enqueue(jid, text string) {
	e.pending = append(e.pending, pendingMessage{jid: jid, text: text})
}

// NewChatEngine wires an engine to its transport and to an already-running
// OutboundBatcher (NewOutboundBatcher starts the batcher's worker). The
// caller must separately construct and start a StatePersister if
// persistence is wanted.
func NewChatEngine(client Client, roster Roster, batcher *OutboundBatcher, log Logger) *ChatEngine {
	e := &ChatEngine{
		users:      make(map[string]*User),
		channels:   make(map[string]*Channel),
		client:     client,
		roster:     roster,
		batcher:    batcher,
		log:        log,
		dispatcher: NewCommandDispatcher(),
	}
	e.versionCond = sync.NewCond(&e.mu)

	client.RegisterMessageCallback(e.HandleMessage)
	roster.RegisterSubscriptionRequestCallback(e.HandleSubscriptionRequest)

	return e
}
