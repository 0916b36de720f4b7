package relay

import (
	"fmt"
	"sort"
)

func pluralize(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}

	return fmt.Sprintf("%d %ss", n, singular)
}

func registerCommands(d *CommandDispatcher) {
	d.register(commandDescriptor{
		name: "alias", minArgs: 1, maxArgs: 1,
		usage: "name", desc: "change your nick",
		action: cmdAlias,
	})
	d.register(commandDescriptor{
		name: "help", minArgs: 0, maxArgs: 0,
		usage: "", desc: "list available commands",
		action: cmdHelp,
	})
	d.register(commandDescriptor{
		name: "join", minArgs: 1, maxArgs: 2,
		usage: "name [password]", desc: "join (creating if needed) a channel",
		action: cmdJoin,
	})
	d.register(commandDescriptor{
		name: "list", minArgs: 0, maxArgs: 0,
		usage: "", desc: "list members of your current channel",
		action: cmdList,
	})
	d.register(commandDescriptor{
		name: "me", minArgs: 1, maxArgs: -1,
		usage: "text", desc: "send an action message to your channel",
		action: cmdMe,
	})
	d.register(commandDescriptor{
		name: "part", minArgs: 0, maxArgs: 0,
		usage: "", desc: "leave your current channel",
		action: cmdPart,
	})
	d.register(commandDescriptor{
		name: "reset", minArgs: 1, maxArgs: 2,
		usage: "thing [reason]", desc: "reset a score to zero",
		action: cmdReset,
	})
	d.register(commandDescriptor{
		name: "scores", minArgs: 0, maxArgs: 0,
		usage: "", desc: "list scores for your current channel",
		action: cmdScores,
	})
}

func cmdAlias(e *ChatEngine, u *User, _ string, args []string) {
	proposed := args[0]

	if proposed == u.Nick {
		e.reply(u, fmt.Sprintf("You are already known as *%s*.", u.Nick))

		return
	}

	if !ValidNick(proposed) {
		e.reply(u, fmt.Sprintf(`"%s" is not a valid nick.`, proposed))

		return
	}

	if other, taken := e.getUserWithNickLocked(proposed); taken {
		e.reply(u, fmt.Sprintf(`Alias "%s" already in use by %s.`, proposed, other.JID))

		return
	}

	oldNick := u.Nick
	u.ChangeNick(proposed)
	e.incVersionLocked()

	if u.Channel != nil {
		u.Channel.BroadcastMessage(e, fmt.Sprintf(
			"_*%s* <%s> is now known as *%s*._", oldNick, u.JID, proposed,
		))
	}
}

func cmdHelp(e *ChatEngine, u *User, _ string, _ []string) {
	for _, line := range e.dispatcher.helpLines() {
		e.replyRaw(u, line)
	}
}

func cmdJoin(e *ChatEngine, u *User, _ string, args []string) {
	name := args[0]

	password := ""
	if len(args) > 1 {
		password = args[1]
	}

	ch, existed := e.getChannelLocked(name, false, "")

	if !existed {
		ch, _ = e.getChannelLocked(name, true, password)
		e.reply(u, fmt.Sprintf(`Created "%s".`, name))
	}

	if ch.Password != "" && ch.Password != password {
		e.reply(u, fmt.Sprintf(`Incorrect or missing password for "%s".`, name))

		return
	}

	if u.Channel == ch {
		e.reply(u, fmt.Sprintf(`Already a member of "%s".`, name))

		return
	}

	if u.Channel != nil {
		partUser(e, u)
	}

	ch.BroadcastMessage(e, fmt.Sprintf(
		`_*%s* <%s> has joined "%s"._`, u.Nick, u.JID, name,
	))

	e.moveUserToChannelLocked(u, ch)

	e.reply(u, fmt.Sprintf(`Joined "%s" with %s total.`, name, pluralize(len(ch.Users), "user")))
}

func cmdList(e *ChatEngine, u *User, _ string, _ []string) {
	if u.Channel == nil {
		e.reply(u, "You need to join a channel first.")

		return
	}

	ch := u.Channel

	nicks := make([]string, 0, len(ch.Users))
	byNick := make(map[string]*User, len(ch.Users))

	for _, member := range ch.Users {
		nicks = append(nicks, member.Nick)
		byNick[member.Nick] = member
	}

	sort.Strings(nicks)

	e.replyRaw(u, fmt.Sprintf(`%s in "%s":`, pluralize(len(nicks), "user"), ch.Name))

	for _, nick := range nicks {
		e.replyRaw(u, fmt.Sprintf("*%s* <%s>", nick, byNick[nick].JID))
	}
}

func cmdMe(e *ChatEngine, u *User, tail string, _ []string) {
	if u.Channel == nil {
		e.reply(u, "You need to join a channel first.")

		return
	}

	if tail == "" {
		e.reply(u, "Usage: /me text")

		return
	}

	u.Channel.BroadcastMessage(e, fmt.Sprintf("_* %s %s_", u.Nick, tail))
}

// partUser implements /part's mutation and messaging. It is factored out
// so /join can invoke the same semantics before moving a user into a new
// channel (if already in another channel, /part semantics run first).
func partUser(e *ChatEngine, u *User) {
	ch := u.Channel
	name := ch.Name

	e.reply(u, fmt.Sprintf(`Left "%s".`, name))

	e.moveUserToChannelLocked(u, nil)

	if _, stillExists := e.channels[name]; stillExists {
		ch.BroadcastMessage(e, fmt.Sprintf(
			`_*%s* <%s> has left "%s"._`, u.Nick, u.JID, name,
		))
	}
}

func cmdPart(e *ChatEngine, u *User, _ string, _ []string) {
	if u.Channel == nil {
		e.reply(u, "You need to join a channel first.")

		return
	}

	partUser(e, u)
}

func cmdReset(e *ChatEngine, u *User, _ string, args []string) {
	if u.Channel == nil {
		e.reply(u, "You need to join a channel first.")

		return
	}

	thing := args[0]

	reason := ""
	if len(args) > 1 {
		reason = args[1]
	}

	ch := u.Channel

	score, present := ch.Scores[thing]

	if !present {
		e.reply(u, fmt.Sprintf(`"%s" has no score to reset.`, thing))

		return
	}

	if score == 0 {
		e.reply(u, fmt.Sprintf(`"%s"'s score is already 0.`, thing))

		return
	}

	ch.Scores[thing] = 0
	e.incVersionLocked()

	text := fmt.Sprintf("_*%s* reset %s's score to 0", u.Nick, thing)
	if reason != "" {
		text += fmt.Sprintf(" (%s)", reason)
	}

	text += "._"

	ch.BroadcastMessage(e, text)
}

func cmdScores(e *ChatEngine, u *User, _ string, _ []string) {
	if u.Channel == nil {
		e.reply(u, "You need to join a channel first.")

		return
	}

	ch := u.Channel

	items := make([]string, 0, len(ch.Scores))

	for item := range ch.Scores {
		items = append(items, item)
	}

	sort.Strings(items)

	e.replyRaw(u, fmt.Sprintf(`Scores for "%s":`, ch.Name))

	for _, item := range items {
		e.replyRaw(u, fmt.Sprintf("*%s*: %d", item, ch.Scores[item]))
	}
}
