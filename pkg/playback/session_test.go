package playback_test

import (
	"math"
	"testing"
	"time"

	"github.com/kennedyongogo/tuvibe/pkg/playback"
)

type clock struct {
	now time.Time
}

func (c *clock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newSession(t *testing.T) (*playback.Session, *clock) {
	t.Helper()

	c := &clock{now: time.Unix(1600000000, 0)}

	s := playback.NewSession(5 * time.Second)
	s.SetNow(func() time.Time { return c.now })

	return s, c
}

func TestSession_PauseResumeKeepsProgress(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 3)

	c.advance(2 * time.Second)
	s.Tick()

	before := s.Progress()
	if math.Abs(before-0.4) > 1e-9 {
		t.Fatalf("unexpected progress %f", before)
	}

	s.Pause()

	// a long pause must not count as elapsed time
	c.advance(10 * time.Second)
	s.Resume()
	s.Tick()

	after := s.Progress()
	if math.Abs(after-before) > 1e-9 {
		t.Fatalf("progress jumped across pause: before %f after %f", before, after)
	}

	if s.State() != playback.StatePlaying {
		t.Fatalf("unexpected state %s", s.State())
	}
}

func TestSession_RepeatedPauseResume(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 1)

	for i := 0; i < 5; i++ {
		c.advance(500 * time.Millisecond)
		s.Tick()

		before := s.Progress()

		s.Pause()
		c.advance(3 * time.Second)
		s.Resume()
		s.Tick()

		if math.Abs(s.Progress()-before) > 1e-9 {
			t.Fatalf("round %d: progress jumped from %f to %f", i, before, s.Progress())
		}
	}
}

func TestSession_CompletionAdvancesOnce(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 3)

	c.advance(5 * time.Second)
	s.Tick()

	if s.State() != playback.StateTransitioning {
		t.Fatalf("expected transitioning, got %s", s.State())
	}

	if s.Progress() != 1 {
		t.Fatalf("expected progress 1, got %f", s.Progress())
	}

	s.Tick()

	if s.ItemIndex() != 1 {
		t.Fatalf("expected item 1, got %d", s.ItemIndex())
	}

	if s.Progress() != 0 {
		t.Fatalf("expected progress reset, got %f", s.Progress())
	}

	// further ticks without elapsed time must not advance again
	s.Tick()
	s.Tick()

	if s.ItemIndex() != 1 {
		t.Fatalf("advanced more than once, item %d", s.ItemIndex())
	}
}

func TestSession_AutoplayThroughGroup(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 3)

	closed := false
	s.OnClose(func() { closed = true })

	for item := 0; item < 3; item++ {
		if s.ItemIndex() != item {
			t.Fatalf("expected item %d, got %d", item, s.ItemIndex())
		}

		for s.State() == playback.StatePlaying {
			c.advance(16 * time.Millisecond)
			s.Tick()
		}

		s.Tick()
	}

	if !closed {
		t.Fatal("session should close after the last item")
	}

	if s.State() != playback.StateIdle {
		t.Fatalf("unexpected state %s", s.State())
	}
}

func TestSession_GroupAdvance(t *testing.T) {
	s, c := newSession(t)

	s.OnGroupAdvance(func(current int) (int, int, bool) { return current + 1, 2, true })
	s.Open(0, 1)

	c.advance(5 * time.Second)
	s.Tick()
	s.Tick()

	if s.GroupIndex() != 1 || s.ItemIndex() != 0 {
		t.Fatalf("expected group 1 item 0, got %d/%d", s.GroupIndex(), s.ItemIndex())
	}
}

func TestSession_ProgressNonDecreasingWhilePlaying(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 1)

	last := 0.0
	for i := 0; i < 100; i++ {
		c.advance(16 * time.Millisecond)
		s.Tick()

		if s.State() != playback.StatePlaying {
			break
		}

		if s.Progress() < last {
			t.Fatalf("progress decreased from %f to %f", last, s.Progress())
		}

		last = s.Progress()
	}
}

func TestSession_RetreatWithinGroup(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 3)

	c.advance(5 * time.Second)
	s.Tick()
	s.Tick()

	s.Retreat()

	if s.ItemIndex() != 0 {
		t.Fatalf("expected item 0, got %d", s.ItemIndex())
	}

	if s.Progress() != 0 {
		t.Fatalf("expected progress reset, got %f", s.Progress())
	}
}

func TestSession_RetreatAtFirstItem(t *testing.T) {
	var tests = []struct {
		name      string
		retreat   func(int) (int, int, bool)
		wantGroup int
		wantItem  int
	}{
		{
			"previous group exists",
			func(current int) (int, int, bool) { return current - 1, 2, true },
			0,
			1,
		},
		{
			"no previous group restarts item",
			nil,
			1,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newSession(t)

			if tt.retreat != nil {
				s.OnGroupRetreat(tt.retreat)
			}

			s.Open(1, 3)

			c.advance(2 * time.Second)
			s.Tick()
			s.Retreat()

			if s.GroupIndex() != tt.wantGroup || s.ItemIndex() != tt.wantItem {
				t.Fatalf("expected %d/%d, got %d/%d", tt.wantGroup, tt.wantItem, s.GroupIndex(), s.ItemIndex())
			}

			if s.Progress() != 0 {
				t.Fatalf("expected progress reset, got %f", s.Progress())
			}
		})
	}
}

func TestSession_ClampItems(t *testing.T) {
	s, c := newSession(t)
	s.Open(0, 3)

	// advance to the last item
	for i := 0; i < 2; i++ {
		c.advance(5 * time.Second)
		s.Tick()
		s.Tick()
	}

	if s.ItemIndex() != 2 {
		t.Fatalf("expected item 2, got %d", s.ItemIndex())
	}

	s.ClampItems(2)

	if s.ItemIndex() != 1 {
		t.Fatalf("expected clamp to item 1, got %d", s.ItemIndex())
	}

	closed := false
	s.OnClose(func() { closed = true })

	s.ClampItems(0)

	if !closed || s.State() != playback.StateIdle {
		t.Fatal("empty group should close the session")
	}
}

func TestSession_OperationsIgnoredWhenIdle(t *testing.T) {
	s, _ := newSession(t)

	s.Tick()
	s.Pause()
	s.Resume()
	s.Advance()
	s.Retreat()

	if s.State() != playback.StateIdle {
		t.Fatalf("unexpected state %s", s.State())
	}
}

func TestSession_GenerationChangesOnClose(t *testing.T) {
	s, _ := newSession(t)

	s.Open(0, 1)
	gen := s.Generation()

	s.Close()

	if s.Generation() == gen {
		t.Fatal("generation should change on close")
	}
}
