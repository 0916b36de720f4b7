package relay

import (
	"fmt"
	"sort"
	"strings"
)

// incVersionLocked bumps the version counter and wakes the persister. mu
// must already be held.
func (e *ChatEngine) incVersionLocked() {
	e.currentVersion++
	e.versionCond.Broadcast()
}

// getUserLocked looks up (or, if create is true, creates) the User for
// jid. mu must already be held. Creation bumps the version.
func (e *ChatEngine) getUserLocked(jid string, create bool) (*User, bool) {
	if u, ok := e.users[jid]; ok {
		return u, true
	}

	if !create {
		return nil, false
	}

	u := &User{JID: jid, Nick: e.inventNickLocked(jid)}
	e.users[jid] = u
	e.incVersionLocked()

	return u, true
}

// GetUser looks up (or creates) the User for jid, taking the state mutex.
func (e *ChatEngine) GetUser(jid string, create bool) (*User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.getUserLocked(jid, create)
}

// getChannelLocked looks up (or, if create is true, creates) the Channel
// named name. mu must already be held. Creation bumps the version.
func (e *ChatEngine) getChannelLocked(name string, create bool, password string) (*Channel, bool) {
	if c, ok := e.channels[name]; ok {
		return c, true
	}

	if !create {
		return nil, false
	}

	c := NewChannel(name, password)
	e.channels[name] = c
	e.incVersionLocked()

	return c, true
}

// GetChannel looks up (or creates) the Channel named name, taking the
// state mutex.
func (e *ChatEngine) GetChannel(name string, create bool) (*Channel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.getChannelLocked(name, create, "")
}

// getUserWithNickLocked scans users for one with the given nick. mu must
// already be held.
func (e *ChatEngine) getUserWithNickLocked(nick string) (*User, bool) {
	for _, u := range e.users {
		if u.Nick == nick {
			return u, true
		}
	}

	return nil, false
}

// GetUserWithNick scans users for one with the given nick, taking the
// state mutex.
func (e *ChatEngine) GetUserWithNick(nick string) (*User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.getUserWithNickLocked(nick)
}

// deleteChannelLocked removes a channel if (and only if) it has no
// members. mu must already be held. No-op, not an error, if the channel
// still has members or does not exist.
func (e *ChatEngine) deleteChannelLocked(name string) {
	c, ok := e.channels[name]

	if !ok || len(c.Users) > 0 {
		return
	}

	delete(e.channels, name)
	e.incVersionLocked()
}

// DeleteChannel removes a channel if it has no members, taking the state
// mutex.
func (e *ChatEngine) DeleteChannel(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deleteChannelLocked(name)
}

// inventNickLocked derives an initial nick for jid from its localpart. mu
// must already be held.
func (e *ChatEngine) inventNickLocked(jid string) string {
	localpart := jid

	if at := strings.IndexByte(jid, '@'); at >= 0 {
		localpart = jid[:at]
	}

	candidate := localpart

	if !ValidNick(candidate) {
		candidate = jid
	}

	if !ValidNick(candidate) {
		return jid
	}

	if _, taken := e.getUserWithNickLocked(candidate); !taken {
		return candidate
	}

	for n := 2; n <= 100; n++ {
		attempt := fmt.Sprintf("%s%d", candidate, n)

		if _, taken := e.getUserWithNickLocked(attempt); !taken {
			return attempt
		}
	}

	return jid
}

// normalizeJID strips the /resource suffix from a full JID.
func normalizeJID(jid string) string {
	if slash := strings.IndexByte(jid, '/'); slash >= 0 {
		return jid[:slash]
	}

	return jid
}

// moveUserToChannelLocked is the single primitive that keeps
// User.Channel and Channel.Users symmetric. Passing nil for c parts the
// user from whatever channel it was in (garbage-collecting it if it is
// now empty). mu must already be held.
func (e *ChatEngine) moveUserToChannelLocked(u *User, c *Channel) {
	if u.Channel != nil {
		old := u.Channel
		old.RemoveUser(u)
		u.Channel = nil

		if len(old.Users) == 0 {
			e.deleteChannelLocked(old.Name)
		}
	}

	if c != nil {
		c.AddUser(u)
		u.Channel = c
	}

	e.incVersionLocked()
}

// reply buffers a single line to u, wrapped in the italic convention. mu
// must already be held; see (*ChatEngine).Enqueue.
func (e *ChatEngine) reply(u *User, text string) {
	e.Enqueue(u.JID, "_"+text+"_")
}

// replyRaw buffers a line to u verbatim (used for multi-line replies that
// are not wrapped in the italic convention). mu must already be held; see
// (*ChatEngine).Enqueue.
func (e *ChatEngine) replyRaw(u *User, text string) {
	e.Enqueue(u.JID, text)
}

// HandleSubscriptionRequest unconditionally accepts every subscription
// request; the core performs no access control.
func (e *ChatEngine) HandleSubscriptionRequest(p Presence) {
	if err := e.roster.AcceptSubscription(p.From); err != nil {
		e.log.Warnf("unable to accept subscription from %s: %s", p.From, err)
	}
}

// HandleMessage is the entry point for every inbound chat stanza. Lookup,
// dispatch and every mutation they trigger happen in a single critical
// section under the state mutex; replies and broadcasts are buffered into
// e.pending rather than sent, so the batcher's mutex is never nested inside
// the state mutex. The buffered lines are flushed to the batcher only after
// mu is released.
func (e *ChatEngine) HandleMessage(msg Message) {
	if msg.Type == "error" || msg.Body == "" {
		return
	}

	from := normalizeJID(msg.From)

	e.mu.Lock()

	user, _ := e.getUserLocked(from, true)

	body := msg.Body

	switch {
	case strings.HasPrefix(body, "/"):
		e.dispatcher.Dispatch(e, user, body)

	case user.Channel != nil:
		ch := user.Channel
		ch.RepeatMessage(e, user, body)
		e.dispatcher.RunLineHandlers(e, user, body)

	case !user.WelcomeSent:
		// welcomeSent is not a serialized field, so this does not bump
		// the version counter (only jid/nick/channel are persisted).
		user.SendWelcome(e)

	default:
		e.reply(user, "You need to join a channel first.")
	}

	pending := e.pending
	e.pending = nil

	e.mu.Unlock()

	for _, m := range pending {
		e.batcher.Enqueue(m.jid, m.text)
	}
}

// Version returns the current and saved version counters. It is meant for
// tests and the persister; it takes the state mutex.
func (e *ChatEngine) Version() (current, saved uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.currentVersion, e.savedVersion
}

// sortedChannelNames returns channel names in sorted order, used by
// Serialize for deterministic output.
func (e *ChatEngine) sortedChannelNames() []string {
	names := make([]string, 0, len(e.channels))

	for name := range e.channels {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// sortedUserJIDs returns user jids in sorted order, used by Serialize for
// deterministic output.
func (e *ChatEngine) sortedUserJIDs() []string {
	jids := make([]string, 0, len(e.users))

	for jid := range e.users {
		jids = append(jids, jid)
	}

	sort.Strings(jids)

	return jids
}
