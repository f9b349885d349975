package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/honeydo/internal/filter"
	"github.com/tgienger/honeydo/internal/models"
)

type fakeSource struct {
	mu         sync.Mutex
	tasks      []models.Task
	categories []models.Category
	tags       []models.Tag
	fetches    int
	onFetch    func(ctx context.Context) // runs mid-fetch, outside f.mu
}

func (f *fakeSource) Tasks(ctx context.Context) []models.Task {
	f.mu.Lock()
	f.fetches++
	tasks := append([]models.Task(nil), f.tasks...)
	hook := f.onFetch
	f.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	return tasks
}

func (f *fakeSource) Categories(context.Context) []models.Category { return f.categories }
func (f *fakeSource) Tags(context.Context) []models.Tag { return f.tags }

// manualScheduler holds scheduled runs until fire is called
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduledRun
}

type scheduledRun struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (m *manualScheduler) schedule(d time.Duration, f func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := &scheduledRun{delay: d, f: f}
	m.pending = append(m.pending, run)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		was := !run.stopped
		run.stopped = true
		return was
	}
}

// fire runs every pending callback. With includeStopped it also runs the
// ones that were stopped, as a timer that already fired would.
func (m *manualScheduler) fire(includeStopped bool) int {
	m.mu.Lock()
	runs := m.pending
	m.pending = nil
	m.mu.Unlock()

	fired := 0
	for _, r := range runs {
		if r.stopped && !includeStopped {
			continue
		}
		r.f()
		fired++
	}
	return fired
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func setupSearcher(t *testing.T) (*Searcher, *fakeSource, *manualScheduler, *recorder) {
	t.Helper()
	sink := kitchenSink()
	fence := *models.NewTask("Paint fence", "", 3, testNow.Add(-2*time.Hour))
	abc := *models.NewTask("abc shelf", "", 2, testNow.Add(-3*time.Hour))
	source := &fakeSource{
		tasks:      []models.Task{sink, fence, abc},
		categories: []models.Category{{ID: uuid.New(), Name: "Kitchen", Icon: "🍳"}},
	}
	sched := &manualScheduler{}
	rec := &recorder{}
	s := New(source, newMemSettings(),
		WithScheduler(sched.schedule),
		WithClock(func() time.Time { return testNow }),
		WithLogger(quietLogger()),
		OnUpdate(rec.record),
	)
	return s, source, sched, rec
}

func TestSearcher_DebounceKeepsOnlyLatest(t *testing.T) {
	s, source, sched, rec := setupSearcher(t)

	s.SetQuery("a")
	s.SetQuery("ab")
	s.SetQuery("abc")
	assert.Equal(t, StateDebouncing, s.Snapshot().State)

	// even if the superseded timers fire, only "abc" publishes
	assert.Equal(t, 3, sched.fire(true))

	snaps := rec.all()
	require.Len(t, snaps, 1)
	assert.Equal(t, "abc", snaps[0].Query)
	assert.Equal(t, StateReady, snaps[0].State)
	require.Len(t, snaps[0].Results, 1)
	assert.Equal(t, "abc shelf", snaps[0].Results[0].Task.Title)
	assert.Equal(t, 1, source.fetches, "stale runs stop before fetching")
}

func TestSearcher_SupersededDuringFetchNeverPublishes(t *testing.T) {
	s, source, sched, rec := setupSearcher(t)

	var sinkCtx context.Context
	source.onFetch = func(ctx context.Context) {
		source.onFetch = nil
		sinkCtx = ctx
		// the user keeps typing while the "sink" run is fetching
		s.SetQuery("fence")
	}

	s.SetQuery("sink")
	require.Equal(t, 1, sched.fire(false))

	require.NotNil(t, sinkCtx)
	assert.ErrorIs(t, sinkCtx.Err(), context.Canceled)
	assert.Empty(t, rec.all(), "the superseded run must not publish")
	assert.Equal(t, StateDebouncing, s.Snapshot().State)
	assert.Equal(t, "fence", s.Snapshot().Query)

	require.Equal(t, 1, sched.fire(false))
	snaps := rec.all()
	require.Len(t, snaps, 1)
	assert.Equal(t, "fence", snaps[0].Query)
	require.Len(t, snaps[0].Results, 1)
	assert.Equal(t, "Paint fence", snaps[0].Results[0].Task.Title)
	assert.Equal(t, 2, source.fetches)
}

func TestSearcher_SchedulesWithDebounce(t *testing.T) {
	sched := &manualScheduler{}
	s := New(&fakeSource{}, nil, WithScheduler(sched.schedule), WithDebounce(50*time.Millisecond), WithLogger(quietLogger()))
	s.SetQuery("x")
	require.Len(t, sched.pending, 1)
	assert.Equal(t, 50*time.Millisecond, sched.pending[0].delay)

	s2 := New(&fakeSource{}, nil, WithScheduler(sched.schedule), WithLogger(quietLogger()))
	s2.SetQuery("y")
	assert.Equal(t, DefaultDebounce, sched.pending[1].delay)
}

func TestSearcher_ResultsAndSuggestions(t *testing.T) {
	s, _, sched, rec := setupSearcher(t)

	s.SetQuery("  Kitchen ")
	sched.fire(false)

	snap := s.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "Fix Kitchen Sink", snap.Results[0].Task.Title)
	assert.Equal(t, []string{"Kitchen", "Fix Kitchen Sink"}, suggestionTexts(snap.Suggestions))
	assert.Len(t, rec.all(), 1)
}

func TestSearcher_BlankQueryGoesIdle(t *testing.T) {
	s, source, sched, rec := setupSearcher(t)

	s.SetQuery("sink")
	sched.fire(false)
	require.Len(t, s.Snapshot().Results, 1)

	s.SetQuery("   ")
	snap := s.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.Results)
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, 0, sched.fire(false))

	s.SetQuery("fence")
	s.Clear()
	assert.Equal(t, StateIdle, s.Snapshot().State)
	sched.fire(true)
	assert.Len(t, rec.all(), 1)
	assert.Equal(t, 1, source.fetches)
}

func TestSearcher_CriteriaRerun(t *testing.T) {
	s, _, sched, _ := setupSearcher(t)

	s.SetQuery("e")
	sched.fire(false)
	assert.Len(t, s.Snapshot().Results, 3)

	c := filter.Default()
	c.MinPriority = 4
	s.SetCriteria(c)
	assert.Equal(t, StateDebouncing, s.Snapshot().State)
	sched.fire(false)
	snap := s.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, 4, snap.Criteria.MinPriority)

	// the searcher keeps its own copy of the criteria
	c.MinPriority = 1
	assert.Equal(t, 4, s.Snapshot().Criteria.MinPriority)

	s.ResetFilters()
	sched.fire(false)
	assert.Len(t, s.Snapshot().Results, 3)
	assert.False(t, s.Snapshot().Criteria.HasActive())
}

func TestSearcher_ApplyQuickFilter(t *testing.T) {
	s, _, sched, _ := setupSearcher(t)

	s.ApplyQuickFilter(filter.QuickOverdue)
	snap := s.Snapshot()
	assert.Equal(t, "Overdue", snap.Query)
	assert.Equal(t, filter.QuickOverdue, snap.Criteria.Quick)
	sched.fire(false)
	assert.Empty(t, s.Snapshot().Results)
}

func TestSearcher_WeekStartSurvivesReset(t *testing.T) {
	s := New(&fakeSource{}, nil, WithWeekStart(time.Monday), WithLogger(quietLogger()))
	assert.Equal(t, time.Monday, s.Snapshot().Criteria.WeekStart)
	s.ResetFilters()
	assert.Equal(t, time.Monday, s.Snapshot().Criteria.WeekStart)
}

func TestSearcher_CommitRecordsRecent(t *testing.T) {
	settings := newMemSettings()
	s := New(&fakeSource{}, settings, WithScheduler((&manualScheduler{}).schedule), WithLogger(quietLogger()))
	s.SetQuery(" sink ")
	s.Commit()
	s.SetQuery("")
	s.Commit()
	assert.Equal(t, []string{"sink"}, s.Recent().List())
	assert.Equal(t, []string{"sink"}, settings.lists[RecentSearchesKey])
}

func TestSearcher_RealTimer(t *testing.T) {
	updates := make(chan Snapshot, 4)
	source := &fakeSource{tasks: []models.Task{kitchenSink()}}
	s := New(source, nil,
		WithDebounce(10*time.Millisecond),
		WithLogger(quietLogger()),
		OnUpdate(func(snap Snapshot) { updates <- snap }),
	)

	s.SetQuery("wrench")
	select {
	case snap := <-updates:
		assert.Equal(t, "wrench", snap.Query)
		assert.Len(t, snap.Results, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("search never completed")
	}
}
