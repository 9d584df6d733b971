package stories

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kennedyongogo/tuvibe/pkg/conf"
	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/playback"
)

var (
	// ErrEmptyGroup is returned when a viewer is opened on a group with no
	// stories.
	ErrEmptyGroup = errors.New("story group is empty")
)

// API is the backend contract the viewer calls while playing.
type API interface {
	Groups(ctx context.Context) ([]*StoryGroup, error)
	MarkViewed(ctx context.Context, story string) error
}

// Viewer binds a playback session to a set of story groups. Group indices
// refer to positions in the groups slice; emptied groups stay in place so
// indices remain stable, and navigation skips them.
type Viewer struct {
	mu     sync.Mutex
	groups []*StoryGroup

	// stories indexes every story in the groups, sharing pointers, so the
	// merge engine and the viewer see the same structs. Reads go through
	// its snapshot accessors.
	stories *feed.Collection

	session *playback.Session
	ticker  *playback.Ticker
	tick    time.Duration
	api     API

	closed int32
}

func NewViewer(groups []*StoryGroup, api API, c conf.PlaybackConf) *Viewer {
	tick := time.Duration(c.TickMillis) * time.Millisecond

	v := &Viewer{
		groups:  groups,
		stories: Collection(groups),
		session: playback.NewSession(time.Duration(c.ItemMillis) * time.Millisecond),
		ticker:  playback.NewTicker(tick),
		tick:    tick,
		api:     api,
	}

	v.session.OnGroupAdvance(v.nextGroup)
	v.session.OnGroupRetreat(v.prevGroup)
	v.session.OnItem(func(group, item int) {
		go v.markViewed(group, item)
	})
	v.session.OnClose(func() {
		atomic.StoreInt32(&v.closed, 1)

		v.mu.Lock()
		ticker := v.ticker
		v.mu.Unlock()

		ticker.Stop()
	})

	return v
}

// Stories exposes the viewer's collection, for attaching to a merge engine.
func (v *Viewer) Stories() *feed.Collection {
	return v.stories
}

// Open starts playback at the first story of the given group. Opening an
// already-dismissed viewer starts it again; each open runs a fresh tick
// clock, so at most one is ever live.
func (v *Viewer) Open(group int) error {
	v.mu.Lock()

	items := 0
	if group >= 0 && group < len(v.groups) {
		items = len(v.groups[group].Stories)
	}

	if items == 0 {
		v.mu.Unlock()
		return ErrEmptyGroup
	}

	v.ticker.Stop()
	v.ticker = playback.NewTicker(v.tick)
	ticker := v.ticker

	atomic.StoreInt32(&v.closed, 0)
	v.mu.Unlock()

	v.session.Open(group, items)
	ticker.Run(v.session.Tick)

	return nil
}

func (v *Viewer) Pause() {
	v.session.Pause()
}

func (v *Viewer) Resume() {
	v.session.Resume()
}

func (v *Viewer) Next() {
	v.session.Advance()
}

func (v *Viewer) Previous() {
	v.session.Retreat()
}

// Close dismisses the viewer and stops the frame clock.
func (v *Viewer) Close() {
	v.session.Close()
	atomic.StoreInt32(&v.closed, 1)

	v.mu.Lock()
	ticker := v.ticker
	v.mu.Unlock()

	ticker.Stop()
}

func (v *Viewer) Progress() float64 {
	return v.session.Progress()
}

func (v *Viewer) State() playback.State {
	return v.session.State()
}

// Current returns a copy of the story being played, taken under the
// collection lock so concurrent merges never show through it.
func (v *Viewer) Current() (*Story, bool) {
	group := v.session.GroupIndex()
	item := v.session.ItemIndex()

	v.mu.Lock()

	if group < 0 || group >= len(v.groups) {
		v.mu.Unlock()
		return nil, false
	}

	stories := v.groups[group].Stories
	if item < 0 || item >= len(stories) {
		v.mu.Unlock()
		return nil, false
	}

	id := stories[item].ID
	v.mu.Unlock()

	entity, ok := v.stories.Snapshot(id)
	if !ok {
		return nil, false
	}

	story, ok := entity.(*Story)
	return story, ok
}

// RemoveStory reacts to a story being deleted remotely while viewing. The
// session index is clamped into bounds; if the current group empties, the
// session closes.
func (v *Viewer) RemoveStory(id string) {
	v.mu.Lock()

	found := -1
	remaining := 0

	for gi, group := range v.groups {
		for si, story := range group.Stories {
			if story.ID != id {
				continue
			}

			group.Stories = append(group.Stories[:si], group.Stories[si+1:]...)
			found = gi
			remaining = len(group.Stories)
			break
		}

		if found >= 0 {
			break
		}
	}

	v.mu.Unlock()

	if found < 0 {
		return
	}

	v.stories.Remove(id)

	if found == v.session.GroupIndex() {
		v.session.ClampItems(remaining)
	}
}

// Collection builds a feed collection over every story in the groups, sharing
// pointers so merged updates are visible to the viewer.
func Collection(groups []*StoryGroup) *feed.Collection {
	collection := feed.NewCollection()

	for _, group := range groups {
		for _, story := range group.Stories {
			collection.Insert(story)
		}
	}

	return collection
}

func (v *Viewer) nextGroup(current int) (int, int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := current + 1; i < len(v.groups); i++ {
		if len(v.groups[i].Stories) > 0 {
			return i, len(v.groups[i].Stories), true
		}
	}

	return 0, 0, false
}

func (v *Viewer) prevGroup(current int) (int, int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := current - 1; i >= 0; i-- {
		if len(v.groups[i].Stories) > 0 {
			return i, len(v.groups[i].Stories), true
		}
	}

	return 0, 0, false
}

// markViewed reports a story view. The call is fire and forget: a response
// arriving after the session moved on or closed is discarded.
func (v *Viewer) markViewed(group, item int) {
	if atomic.LoadInt32(&v.closed) == 1 {
		return
	}

	v.mu.Lock()

	if group < 0 || group >= len(v.groups) {
		v.mu.Unlock()
		return
	}

	stories := v.groups[group].Stories
	if item < 0 || item >= len(stories) {
		v.mu.Unlock()
		return
	}

	id := stories[item].ID
	v.mu.Unlock()

	generation := v.session.Generation()

	err := v.api.MarkViewed(context.Background(), id)
	if err == nil {
		return
	}

	if atomic.LoadInt32(&v.closed) == 1 || v.session.Generation() != generation {
		return
	}

	log.Printf("markViewed err: %v", err)
}
