// Package reactions contains the emoji selection buffer that batches picker
// reactions into a single request.
package reactions

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Sender delivers one batched reaction request.
type Sender interface {
	SendReactions(ctx context.Context, entity string, emojis []string) error
}

// SelectionBuffer collects emoji selected while a reaction picker is open.
// Closing the picker flushes the whole ordered list as one request and clears
// the buffer whether or not the request succeeds; there is no retry queue.
// Single-tap likes bypass the buffer entirely.
type SelectionBuffer struct {
	mu sync.Mutex

	entity string
	emojis []string

	sender Sender
}

func NewSelectionBuffer(entity string, sender Sender) *SelectionBuffer {
	return &SelectionBuffer{
		entity: entity,
		emojis: make([]string, 0),
		sender: sender,
	}
}

// Add appends an emoji to the buffer. Nothing is sent.
func (b *SelectionBuffer) Add(emoji string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.emojis = append(b.emojis, emoji)
}

// Len returns the number of buffered emoji.
func (b *SelectionBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.emojis)
}

// FlushOnClose sends the buffered emoji as one batched request when the
// picker interaction ends. An empty buffer sends nothing.
func (b *SelectionBuffer) FlushOnClose(ctx context.Context) error {
	b.mu.Lock()

	if len(b.emojis) == 0 {
		b.mu.Unlock()
		return nil
	}

	emojis := b.emojis
	b.emojis = make([]string, 0)

	b.mu.Unlock()

	err := b.sender.SendReactions(ctx, b.entity, emojis)
	if err != nil {
		return errors.Wrap(err, "flush reactions failed")
	}

	return nil
}

// Discard clears the buffer without sending, for when the target entity is
// deleted mid-interaction.
func (b *SelectionBuffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.emojis = make([]string, 0)
}
