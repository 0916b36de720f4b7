package relay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"groupchat-relay-bot/internal/relay"
)

func TestBatcherDeliversFIFOPerRecipient(t *testing.T) {
	// Arrange
	client := newRecordingClient()
	batcher := relay.NewOutboundBatcher(client, nullLogger{}, relay.BatcherConfig{})

	// Act
	batcher.Enqueue("foo@example.com", "one")
	batcher.Enqueue("foo@example.com", "two")
	batcher.Enqueue("foo@example.com", "three")
	batcher.WaitUntilDrained()

	// Assert: default mode merges into a single newline-joined stanza.
	lines := client.linesTo("foo@example.com")
	assert.Equal(t, []string{"one\ntwo\nthree"}, lines)
}

func TestBatcherSeparateMessagesMode(t *testing.T) {
	// Arrange
	client := newRecordingClient()
	batcher := relay.NewOutboundBatcher(client, nullLogger{}, relay.BatcherConfig{UseSeparateMessages: true})

	// Act
	batcher.Enqueue("foo@example.com", "one")
	batcher.Enqueue("foo@example.com", "two")
	batcher.WaitUntilDrained()

	// Assert
	assert.Equal(t, []string{"one", "two"}, client.linesTo("foo@example.com"))
}

func TestBatcherSkipsEmptyRecipientLists(t *testing.T) {
	// Arrange
	client := newRecordingClient()
	batcher := relay.NewOutboundBatcher(client, nullLogger{}, relay.BatcherConfig{})

	// Act: nothing enqueued, just drain.
	batcher.WaitUntilDrained()

	// Assert
	assert.Empty(t, client.linesTo("foo@example.com"))
}
