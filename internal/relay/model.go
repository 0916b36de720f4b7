package relay

import (
	"fmt"
	"math/rand"
	"regexp"
)

// nickRe is the nick grammar.
var nickRe = regexp.MustCompile(`^[-_.a-zA-Z0-9]+$`)

// ValidNick reports whether proposed satisfies the nick grammar.
func ValidNick(proposed string) bool {
	return proposed != "" && nickRe.MatchString(proposed)
}

// ChangeNick validates proposed against the nick grammar and mutates u in
// place on success. Uniqueness against other users is the caller's
// responsibility (it must hold the engine's state mutex to check it).
func (u *User) ChangeNick(proposed string) bool {
	if !ValidNick(proposed) {
		return false
	}

	u.Nick = proposed

	return true
}

var welcomeLines = []string{
	"Welcome! I relay one-to-one messages into shared channels.",
	"Send */join #somechannel* to get started, or */help* for the full command list.",
}

// SendWelcome enqueues the two-line first-contact greeting and marks it
// sent.
func (u *User) SendWelcome(sink Sink) {
	for _, line := range welcomeLines {
		sink.Enqueue(u.JID, line)
	}

	u.WelcomeSent = true
}

// NewChannel constructs an empty channel with the given password (empty
// string means no password).
func NewChannel(name, password string) *Channel {
	return &Channel{
		Name:     name,
		Password: password,
		Users:    make(map[string]*User),
		Scores:   make(map[string]int),
	}
}

// AddUser is an idempotent set-insert.
func (c *Channel) AddUser(u *User) {
	c.Users[u.JID] = u
}

// RemoveUser is an idempotent set-delete.
func (c *Channel) RemoveUser(u *User) {
	delete(c.Users, u.JID)
}

// RepeatMessage enqueues "*{senderNick}*: {body}" to every member except
// sender, preserving membership-set order for that recipient's queue.
func (c *Channel) RepeatMessage(sink Sink, sender *User, body string) {
	line := fmt.Sprintf("*%s*: %s", sender.Nick, body)

	for jid := range c.Users {
		if jid == sender.JID {
			continue
		}

		sink.Enqueue(jid, line)
	}
}

// BroadcastMessage enqueues text to every member, including the actor.
func (c *Channel) BroadcastMessage(sink Sink, text string) {
	for jid := range c.Users {
		sink.Enqueue(jid, text)
	}
}

var hooray = []string{"Hooray!", "Yay!"}
var ouch = []string{"Ouch!", "Zing!"}

func randomOf(list []string) string {
	return list[rand.Intn(len(list))] //nolint:gosec
}

// IncrementScore bumps scores[item] by one (creating it at zero if absent)
// and broadcasts the result.
func (c *Channel) IncrementScore(sink Sink, item, note string) {
	c.Scores[item]++
	c.broadcastScoreChange(sink, randomOf(hooray), item, note)
}

// DecrementScore drops scores[item] by one (creating it at zero if absent)
// and broadcasts the result.
func (c *Channel) DecrementScore(sink Sink, item, note string) {
	c.Scores[item]--
	c.broadcastScoreChange(sink, randomOf(ouch), item, note)
}

func (c *Channel) broadcastScoreChange(sink Sink, exclamation, item, note string) {
	text := fmt.Sprintf("_%s %s -> %d", exclamation, item, c.Scores[item])

	if note != "" {
		text += fmt.Sprintf(" (%s)", note)
	}

	text += "_"

	c.BroadcastMessage(sink, text)
}
