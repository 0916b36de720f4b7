package relay

// snapshotDoc is the top-level shape of the persisted state file
// format: an ordered sequence of channels and an ordered sequence
// of users. YAML tags give it a human-readable mapping/sequence form.
type snapshotDoc struct {
	Channels []channelDoc `yaml:"channels"`
	Users    []userDoc    `yaml:"users"`
}

type channelDoc struct {
	Name     string         `yaml:"name"`
	Password string         `yaml:"password,omitempty"`
	Scores   map[string]int `yaml:"scores,omitempty"`
}

type userDoc struct {
	JID         string `yaml:"jid"`
	Nick        string `yaml:"nick"`
	ChannelName string `yaml:"channel_name,omitempty"`
}

// serializeLocked produces a snapshot document from the current model. mu
// must already be held. Zero-valued scores are elided.
func (e *ChatEngine) serializeLocked() snapshotDoc {
	doc := snapshotDoc{
		Channels: make([]channelDoc, 0, len(e.channels)),
		Users:    make([]userDoc, 0, len(e.users)),
	}

	for _, name := range e.sortedChannelNames() {
		c := e.channels[name]

		scores := make(map[string]int)

		for item, score := range c.Scores {
			if score != 0 {
				scores[item] = score
			}
		}

		doc.Channels = append(doc.Channels, channelDoc{
			Name:     c.Name,
			Password: c.Password,
			Scores:   scores,
		})
	}

	for _, jid := range e.sortedUserJIDs() {
		u := e.users[jid]

		channelName := ""
		if u.Channel != nil {
			channelName = u.Channel.Name
		}

		doc.Users = append(doc.Users, userDoc{
			JID:         u.JID,
			Nick:        u.Nick,
			ChannelName: channelName,
		})
	}

	return doc
}

// applyLocked replaces the engine's users/channels with the contents of
// doc. mu must already be held. It returns false if doc violates nick
// uniqueness — a colliding snapshot is rejected outright instead of
// being silently repaired.
func (e *ChatEngine) applyLocked(doc snapshotDoc) bool {
	seenNicks := make(map[string]string) // nick -> jid
	ok := true

	for _, ud := range doc.Users {
		if prior, dup := seenNicks[ud.Nick]; dup {
			e.log.Errorf("state snapshot has duplicate nick %q for %s and %s, refusing to load", ud.Nick, prior, ud.JID)

			ok = false

			continue
		}

		seenNicks[ud.Nick] = ud.JID
	}

	if !ok {
		return false
	}

	channels := make(map[string]*Channel, len(doc.Channels))

	for _, cd := range doc.Channels {
		channels[cd.Name] = &Channel{
			Name:     cd.Name,
			Password: cd.Password,
			Users:    make(map[string]*User),
			Scores:   cloneScores(cd.Scores),
		}
	}

	users := make(map[string]*User, len(doc.Users))

	for _, ud := range doc.Users {
		u := &User{JID: ud.JID, Nick: ud.Nick}
		users[u.JID] = u

		if ud.ChannelName == "" {
			continue
		}

		c, exists := channels[ud.ChannelName]

		if !exists {
			e.log.Warnf("user %s references unknown channel %q, dropping membership", ud.JID, ud.ChannelName)

			continue
		}

		c.AddUser(u)
		u.Channel = c
	}

	for name, c := range channels {
		if len(c.Users) == 0 {
			delete(channels, name)
		}
	}

	e.users = users
	e.channels = channels

	return true
}

func cloneScores(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))

	for k, v := range in {
		out[k] = v
	}

	return out
}
