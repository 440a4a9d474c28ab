// Package radio keeps the rolling chatter log shown alongside the map.
package radio

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridfall/outbreak/internal/model"
)

const (
	// MaxMessages is the number of lines retained; older lines fall off.
	MaxMessages = 50
	// dedupeWindow suppresses an identical sender+text repeat inside it.
	dedupeWindow = 2 * time.Second
)

// Log is a bounded, deduplicating message log. Safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	messages []model.RadioMessage
	total    int // messages ever kept, monotonic until Reset
	now      func() time.Time
}

// NewLog creates an empty radio log.
func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append adds a message and reports whether it was kept. A message with the
// same sender and text as one logged inside the dedupe window is dropped.
// senderID may be empty when the line has no entity behind it.
func (l *Log) Append(sender, senderID, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for i := len(l.messages) - 1; i >= 0; i-- {
		m := l.messages[i]
		if now.Sub(m.Timestamp) > dedupeWindow {
			break
		}
		if m.Sender == sender && m.Text == text {
			return false
		}
	}

	l.messages = append(l.messages, model.RadioMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		SenderID:  senderID,
		Text:      text,
		Timestamp: now,
	})
	l.total++
	if len(l.messages) > MaxMessages {
		l.messages = l.messages[len(l.messages)-MaxMessages:]
	}
	return true
}

// Since returns the messages kept after the given cursor plus the new
// cursor. A stale or future cursor returns the whole retained log.
func (l *Log) Since(cursor int) ([]model.RadioMessage, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	first := l.total - len(l.messages)
	if cursor < first || cursor > l.total {
		cursor = first
	}
	out := make([]model.RadioMessage, l.total-cursor)
	copy(out, l.messages[cursor-first:])
	return out, l.total
}

// Messages returns a copy of the log, oldest first.
func (l *Log) Messages() []model.RadioMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.RadioMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Reset clears the log for a new run.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
	l.total = 0
}
