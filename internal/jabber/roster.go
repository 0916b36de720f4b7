package jabber

import (
	"github.com/eleksir/go-xmpp"

	"groupchat-relay-bot/internal/relay"
)

// rosterAdapter satisfies relay.Roster over a live *xmpp.Client, using
// go-xmpp's presence-subscription primitives.
type rosterAdapter struct {
	talk *xmpp.Client
	log  relay.Logger

	subscriptionCallback func(relay.Presence)
}

func newRosterAdapter(talk *xmpp.Client, log relay.Logger) *rosterAdapter {
	return &rosterAdapter{talk: talk, log: log}
}

func (r *rosterAdapter) RegisterSubscriptionRequestCallback(fn func(relay.Presence)) {
	r.subscriptionCallback = fn
}

// AcceptSubscription approves a pending presence subscription request.
func (r *rosterAdapter) AcceptSubscription(jid string) error {
	return r.talk.ApproveSubscription(jid)
}

// dispatchPresence is called by the recv loop for every xmpp.Presence
// stanza. Only "subscribe" requests reach the core's
// HandleSubscriptionRequest.
func (r *rosterAdapter) dispatchPresence(v xmpp.Presence) {
	if v.Type != "subscribe" {
		return
	}

	if r.subscriptionCallback == nil {
		return
	}

	r.subscriptionCallback(relay.Presence{From: v.From})
}
