package relay

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BatcherConfig controls OutboundBatcher pacing.
type BatcherConfig struct {
	// Interval is the minimum gap between flush bursts.
	Interval time.Duration
	// UseSeparateMessages, when true, sends one stanza per queued line
	// instead of concatenating them with newlines into a single stanza.
	UseSeparateMessages bool
}

// OutboundBatcher coalesces pending per-recipient lines and paces sends
// against Interval.
type OutboundBatcher struct {
	client Client
	log    Logger
	cfg    BatcherConfig

	mu       sync.Mutex
	cond     *sync.Cond
	queued   map[string][]string
	lastSend time.Time
	busy     bool
}

// NewOutboundBatcher constructs and starts the batcher's background
// worker.
func NewOutboundBatcher(client Client, log Logger, cfg BatcherConfig) *OutboundBatcher {
	b := &OutboundBatcher{
		client: client,
		log:    log,
		cfg:    cfg,
		queued: make(map[string][]string),
	}
	b.cond = sync.NewCond(&b.mu)

	go b.run()

	return b
}

// Enqueue appends text to jid's pending line queue. Non-blocking.
func (b *OutboundBatcher) Enqueue(jid, text string) {
	b.mu.Lock()
	b.queued[jid] = append(b.queued[jid], text)
	b.cond.Broadcast()
	b.mu.Unlock()
}

// WaitUntilDrained blocks until no message is queued and no flush is in
// flight. It exists for tests.
func (b *OutboundBatcher) WaitUntilDrained() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.queued) > 0 || b.busy {
		b.cond.Wait()
	}
}

func (b *OutboundBatcher) run() {
	for {
		b.mu.Lock()
		for len(b.queued) == 0 {
			b.cond.Wait()
		}
		b.mu.Unlock()

		b.mu.Lock()
		sleep := b.cfg.Interval - time.Since(b.lastSend)
		b.mu.Unlock()

		if sleep > 0 {
			time.Sleep(sleep)
		}

		b.mu.Lock()
		snapshot := b.queued
		b.queued = make(map[string][]string)
		b.busy = true
		b.mu.Unlock()

		flushID := uuid.New().String()
		b.log.Debugf("flush %s: sending to %d recipients", flushID, len(snapshot))

		for jid, lines := range snapshot {
			if len(lines) == 0 {
				continue
			}

			b.send(jid, lines)
		}

		b.mu.Lock()
		b.lastSend = time.Now()
		b.busy = false
		b.cond.Broadcast()
		b.mu.Unlock()
	}
}

func (b *OutboundBatcher) send(jid string, lines []string) {
	if b.cfg.UseSeparateMessages {
		for _, line := range lines {
			if err := b.client.Send(jid, line); err != nil {
				b.log.Errorf("unable to send message to %s: %s", jid, err)
			}
		}

		return
	}

	if err := b.client.Send(jid, strings.Join(lines, "\n")); err != nil {
		b.log.Errorf("unable to send message to %s: %s", jid, err)
	}
}
