package playback

import (
	"sync"
	"time"
)

type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateTransitioning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateTransitioning:
		return "transitioning"
	}

	return "unknown"
}

// DefaultItemDuration is the fixed display time per item, regardless of kind.
const DefaultItemDuration = 5 * time.Second

// Session is the per-viewing playback state machine. Progress for the current
// item is derived from a virtual start time, so pausing and resuming shifts
// the anchor instead of accumulating elapsed time. All operations are
// serialized on one mutex; hooks are called with it held and must not call
// back into the session.
type Session struct {
	mu sync.Mutex

	now      func() time.Time
	duration time.Duration

	state        State
	groupIndex   int
	itemIndex    int
	items        int
	progress     float64
	virtualStart time.Time

	// generation increases on every open and close, so deferred work can
	// detect that the session it belongs to is gone.
	generation uint64

	onGroupAdvance func(current int) (next, items int, ok bool)
	onGroupRetreat func(current int) (prev, items int, ok bool)
	onItem         func(group, item int)
	onClose        func()
}

func NewSession(duration time.Duration) *Session {
	if duration <= 0 {
		duration = DefaultItemDuration
	}

	return &Session{
		now:      time.Now,
		duration: duration,
		state:    StateIdle,
	}
}

// SetNow overrides the clock, for tests.
func (s *Session) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

// OnGroupAdvance supplies the next group index and its item count when
// playback runs past the last item of the current group. Returning ok=false
// closes the session. Hooks receive the current group index, run with the
// session lock held, and must not call back into the session.
func (s *Session) OnGroupAdvance(f func(current int) (int, int, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onGroupAdvance = f
}

// OnGroupRetreat supplies the previous group's item count when retreating
// from the first item. Returning ok=false restarts the current item instead.
func (s *Session) OnGroupRetreat(f func(current int) (int, int, bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onGroupRetreat = f
}

// OnItem is fired whenever the current group/item position changes.
func (s *Session) OnItem(f func(group, item int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onItem = f
}

// OnClose is fired once when the session returns to idle.
func (s *Session) OnClose(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onClose = f
}

// Open starts playback at the first item of the given group.
func (s *Session) Open(group, items int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items <= 0 {
		return
	}

	s.generation++
	s.state = StatePlaying
	s.groupIndex = group
	s.itemIndex = 0
	s.items = items
	s.anchor()
	s.fireItem()
}

// Tick drives progress. Called every frame while the session is live. When
// an item completes the session passes through a non-interactive transition
// and advances exactly once.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StatePlaying:
		elapsed := s.now().Sub(s.virtualStart)

		progress := float64(elapsed) / float64(s.duration)
		if progress >= 1 {
			s.progress = 1
			s.state = StateTransitioning
			return
		}

		s.progress = progress
	case StateTransitioning:
		s.advance()
	}
}

// Pause freezes progress without resetting it.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying {
		return
	}

	elapsed := s.now().Sub(s.virtualStart)

	progress := float64(elapsed) / float64(s.duration)
	if progress > 1 {
		progress = 1
	}

	s.progress = progress
	s.state = StatePaused
}

// Resume continues from the paused position by shifting the virtual start so
// the same visual point maps to now.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return
	}

	s.virtualStart = s.now().Add(-time.Duration(s.progress * float64(s.duration)))
	s.state = StatePlaying
}

// Advance skips to the next item, or to the next group at the last item.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying && s.state != StatePaused {
		return
	}

	s.advance()
}

// Retreat moves to the previous item, or to the previous group at the first
// item. Without a previous group the current item restarts.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlaying && s.state != StatePaused {
		return
	}

	if s.itemIndex > 0 {
		s.itemIndex--
		s.restart()
		s.fireItem()
		return
	}

	if s.onGroupRetreat != nil {
		prev, items, ok := s.onGroupRetreat(s.groupIndex)
		if ok && items > 0 {
			s.groupIndex = prev
			s.items = items
			s.itemIndex = items - 1
			s.restart()
			s.fireItem()
			return
		}
	}

	s.restart()
}

// ClampItems reacts to the current group shrinking underneath the session.
// The index is clamped into bounds; an empty group closes the session.
func (s *Session) ClampItems(items int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return
	}

	if items <= 0 {
		s.close()
		return
	}

	s.items = items

	if s.itemIndex >= items {
		s.itemIndex = items - 1
		s.restart()
		s.fireItem()
	}
}

// Close dismisses the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return
	}

	s.close()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.progress
}

func (s *Session) GroupIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.groupIndex
}

func (s *Session) ItemIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.itemIndex
}

// Generation identifies the current open/close cycle.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generation
}

func (s *Session) advance() {
	if s.itemIndex+1 < s.items {
		s.itemIndex++
		s.restart()
		s.fireItem()
		return
	}

	if s.onGroupAdvance != nil {
		next, items, ok := s.onGroupAdvance(s.groupIndex)
		if ok && items > 0 {
			s.groupIndex = next
			s.items = items
			s.itemIndex = 0
			s.restart()
			s.fireItem()
			return
		}
	}

	s.close()
}

func (s *Session) restart() {
	s.anchor()
	s.state = StatePlaying
}

func (s *Session) anchor() {
	s.progress = 0
	s.virtualStart = s.now()
}

func (s *Session) fireItem() {
	if s.onItem == nil {
		return
	}

	s.onItem(s.groupIndex, s.itemIndex)
}

func (s *Session) close() {
	s.state = StateIdle
	s.generation++

	if s.onClose != nil {
		s.onClose()
	}
}
