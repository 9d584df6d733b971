// Package playback contains the timed state machine that drives story
// autoplay.
package playback

import (
	"sync"
	"time"
)

// DefaultTickInterval is the frame cadence of the progress clock.
const DefaultTickInterval = 16 * time.Millisecond

// Ticker invokes a callback at a fixed cadence until stopped.
type Ticker struct {
	interval time.Duration

	stop chan struct{}
	once sync.Once
}

func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &Ticker{
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run starts invoking f on the ticker goroutine. It returns immediately.
func (t *Ticker) Run(f func()) {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				f()
			}
		}
	}()
}

// Stop halts the ticker. Safe to call more than once.
func (t *Ticker) Stop() {
	t.once.Do(func() {
		close(t.stop)
	})
}
