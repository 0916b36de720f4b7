package relay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnparsableCommandReply(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/")

	assert.Contains(t, client.linesTo("foo@example.com"), "_Unparsable command; try */help*._")
}

func TestUnknownCommandReply(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/frobnicate")

	assert.Contains(t, client.linesTo("foo@example.com"), `_Unknown command "frobnicate"; try */help*._`)
}

func TestHelpListsEveryCommandSorted(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/help")

	lines := client.linesTo("foo@example.com")

	assert.Contains(t, lines, "*/alias name* - change your nick")
	assert.Contains(t, lines, "*/help* - list available commands")

	aliasIdx, helpIdx := -1, -1

	for i, l := range lines {
		if l == "*/alias name* - change your nick" {
			aliasIdx = i
		}

		if l == "*/help* - list available commands" {
			helpIdx = i
		}
	}

	assert.True(t, aliasIdx >= 0 && helpIdx >= 0 && aliasIdx < helpIdx, "help output should be sorted by name")
}

func TestMeRequiresChannelAndText(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/me waves")
	assert.Contains(t, client.linesTo("foo@example.com"), "_You need to join a channel first._")

	deliver(engine, batcher, "foo@example.com", "/join #nerds")
	deliver(engine, batcher, "foo@example.com", "/me")
	assert.Contains(t, client.linesTo("foo@example.com"), "_Usage: /me text_")

	deliver(engine, batcher, "foo@example.com", "/me waves")
	assert.Contains(t, client.linesTo("foo@example.com"), "_* foo waves_")
}

func TestListShowsMembersSortedByNick(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/join #nerds")
	deliver(engine, batcher, "bar@example.com", "/join #nerds")
	deliver(engine, batcher, "foo@example.com", "/alias zed")

	// Act
	deliver(engine, batcher, "foo@example.com", "/list")

	// Assert
	lines := client.linesTo("foo@example.com")

	assert.Contains(t, lines, `2 users in "#nerds":`)
	assert.Contains(t, lines, "*bar* <bar@example.com>")
	assert.Contains(t, lines, "*zed* <foo@example.com>")

	barIdx, zedIdx := -1, -1

	for i, l := range lines {
		if l == "*bar* <bar@example.com>" {
			barIdx = i
		}

		if l == "*zed* <foo@example.com>" {
			zedIdx = i
		}
	}

	assert.True(t, barIdx >= 0 && zedIdx >= 0 && barIdx < zedIdx, "/list output should be sorted by nick")
}

func TestListRequiresChannel(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	// Act
	deliver(engine, batcher, "foo@example.com", "/list")

	// Assert
	assert.Contains(t, client.linesTo("foo@example.com"), "_You need to join a channel first._")
}

func TestResetScoreEdgeCases(t *testing.T) {
	// Arrange
	engine, client, _, batcher := newTestEngine()

	deliver(engine, batcher, "foo@example.com", "/join #nerds")

	deliver(engine, batcher, "foo@example.com", "/reset coffee")
	assert.Contains(t, client.linesTo("foo@example.com"), `_"coffee" has no score to reset._`)

	deliver(engine, batcher, "foo@example.com", "coffee++")
	deliver(engine, batcher, "foo@example.com", `/reset coffee "tidy up"`)
	assert.Contains(t, client.linesTo("foo@example.com"), "_*foo* reset coffee's score to 0 (tidy up)._")

	deliver(engine, batcher, "foo@example.com", "/reset coffee")
	assert.Contains(t, client.linesTo("foo@example.com"), `_"coffee"'s score is already 0._`)
}
