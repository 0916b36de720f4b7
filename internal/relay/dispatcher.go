package relay

import (
	"encoding/csv"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// commandLineRe implements the command grammar:
// ^/([a-z]+)(?:$|\s+(.*))
var commandLineRe = regexp.MustCompile(`^/([a-z]+)(?:$|\s+(.*))`)

// CommandFunc implements one slash command. It runs with the engine's
// state mutex already held; it is responsible for producing its own
// replies and broadcasts.
type CommandFunc func(e *ChatEngine, u *User, tail string, args []string)

type commandDescriptor struct {
	name    string
	minArgs int
	maxArgs int // -1 means unlimited
	usage   string
	desc    string
	action  CommandFunc
}

// LineHandlerFunc inspects a raw channel message after it has been
// repeated to the channel and may act on it (e.g. score tracking).
type LineHandlerFunc func(e *ChatEngine, u *User, body string)

type lineHandler struct {
	re      *regexp.Regexp
	handler LineHandlerFunc
}

// CommandDispatcher parses message bodies and routes them to a registered
// command or to the registered LineHandlers.
type CommandDispatcher struct {
	commands     map[string]commandDescriptor
	lineHandlers []lineHandler
}

// NewCommandDispatcher builds a dispatcher with the full command table
// and the two built-in line handlers registered.
func NewCommandDispatcher() *CommandDispatcher {
	d := &CommandDispatcher{
		commands: make(map[string]commandDescriptor),
	}

	registerCommands(d)
	registerLineHandlers(d)

	return d
}

func (d *CommandDispatcher) register(desc commandDescriptor) {
	d.commands[desc.name] = desc
}

// Dispatch parses body as a command and runs it. u.JID is used to route
// replies. The caller must already hold the engine's state mutex.
func (d *CommandDispatcher) Dispatch(e *ChatEngine, u *User, body string) {
	m := commandLineRe.FindStringSubmatch(body)

	if m == nil {
		e.reply(u, "Unparsable command; try */help*.")

		return
	}

	name, tail := m[1], strings.TrimSpace(m[2])

	desc, ok := d.commands[name]

	if !ok {
		e.reply(u, fmt.Sprintf(`Unknown command "%s"; try */help*.`, name))

		return
	}

	args := splitArgs(tail)

	if len(args) < desc.minArgs || (desc.maxArgs >= 0 && len(args) > desc.maxArgs) {
		if desc.usage == "" {
			e.reply(u, fmt.Sprintf("Usage: /%s", desc.name))
		} else {
			e.reply(u, fmt.Sprintf("Usage: /%s %s", desc.name, desc.usage))
		}

		return
	}

	desc.action(e, u, tail, args)
}

// RunLineHandlers runs every registered LineHandler against body. The
// caller must already hold the engine's state mutex.
func (d *CommandDispatcher) RunLineHandlers(e *ChatEngine, u *User, body string) {
	for _, lh := range d.lineHandlers {
		if lh.re.MatchString(body) {
			lh.handler(e, u, body)
		}
	}
}

// helpLines returns one formatted line per registered command, sorted by
// name, for /help.
func (d *CommandDispatcher) helpLines() []string {
	names := make([]string, 0, len(d.commands))

	for name := range d.commands {
		names = append(names, name)
	}

	sort.Strings(names)

	lines := make([]string, 0, len(names))

	for _, name := range names {
		desc := d.commands[name]

		if desc.usage == "" {
			lines = append(lines, fmt.Sprintf("*/%s* - %s", desc.name, desc.desc))
		} else {
			lines = append(lines, fmt.Sprintf("*/%s %s* - %s", desc.name, desc.usage, desc.desc))
		}
	}

	return lines
}

// splitArgs splits tail on spaces with double-quote grouping, using
// CSV-with-space-delimiter semantics (the standard idiomatic way to get
// shell-like quoted grouping without a bespoke parser). LazyQuotes is set,
// so a stray or unclosed quote is read leniently rather than rejected; a
// plain whitespace split is used only if the CSV read returns an error.
func splitArgs(tail string) []string {
	if tail == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(tail))
	r.Comma = ' '
	r.LazyQuotes = true

	fields, err := r.Read()

	if err != nil {
		return strings.Fields(tail)
	}

	out := make([]string, 0, len(fields))

	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}
