package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tgienger/honeydo/internal/filter"
	"github.com/tgienger/honeydo/internal/models"
)

// DefaultDebounce is how long the query must stay unchanged before a search runs
const DefaultDebounce = 300 * time.Millisecond

// TaskSource supplies the data a search runs over. *repository.Manager
// satisfies it.
type TaskSource interface {
	Tasks(ctx context.Context) []models.Task
	Categories(ctx context.Context) []models.Category
	Tags(ctx context.Context) []models.Tag
}

// State is where the searcher is in its query lifecycle
type State int

const (
	StateIdle State = iota
	StateDebouncing
	StateSearching
	StateReady
)

func (s State) String() string {
	switch s {
	case StateDebouncing:
		return "debouncing"
	case StateSearching:
		return "searching"
	case StateReady:
		return "ready"
	}
	return "idle"
}

// Snapshot is a consistent copy of the searcher's state
type Snapshot struct {
	Query       string
	State       State
	Results     []Result
	Suggestions []Suggestion
	Criteria    filter.Criteria
	Generation  uint64
}

// Scheduler runs f once after d and returns a function that stops it.
// time.AfterFunc is the production scheduler; tests substitute a manual one.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func timerScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Searcher runs debounced searches. Every SetQuery starts a new generation;
// a run publishes only if its generation is still current when it finishes,
// so a superseded query can never overwrite newer results.
type Searcher struct {
	source   TaskSource
	recent   *Recent
	logger   *slog.Logger
	now      func() time.Time
	debounce time.Duration
	schedule Scheduler
	onUpdate func(Snapshot)

	mu          sync.Mutex
	query       string
	criteria    filter.Criteria
	state       State
	results     []Result
	suggestions []Suggestion
	gen         uint64
	cancel      context.CancelFunc
	stop        func() bool
}

// Option configures a Searcher
type Option func(*Searcher)

func WithDebounce(d time.Duration) Option {
	return func(s *Searcher) { s.debounce = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Searcher) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) { s.logger = l }
}

func WithScheduler(fn Scheduler) Option {
	return func(s *Searcher) { s.schedule = fn }
}

// WithWeekStart sets the first day of the week for week-based filters
func WithWeekStart(d time.Weekday) Option {
	return func(s *Searcher) { s.criteria.WeekStart = d }
}

// OnUpdate registers fn to receive a snapshot each time a search completes.
// fn runs on the scheduler's goroutine without the searcher's lock held.
func OnUpdate(fn func(Snapshot)) Option {
	return func(s *Searcher) { s.onUpdate = fn }
}

// New creates a Searcher. settings may be nil, in which case recent
// searches are kept in memory only.
func New(source TaskSource, settings Settings, opts ...Option) *Searcher {
	s := &Searcher{
		source:   source,
		logger:   slog.Default(),
		now:      time.Now,
		debounce: DefaultDebounce,
		schedule: timerScheduler,
		criteria: filter.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recent = NewRecent(settings, s.logger)
	return s
}

// Recent returns the recent search history
func (s *Searcher) Recent() *Recent { return s.recent }

// SetQuery replaces the query. A blank query cancels any pending search and
// returns to idle; anything else restarts the debounce timer.
func (s *Searcher) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = text
	s.restartLocked()
}

// SetCriteria replaces the filter criteria and re-runs the current query
func (s *Searcher) SetCriteria(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = c.Clone()
	s.restartLocked()
}

// ApplyQuickFilter selects a quick filter and puts its label in the query
func (s *Searcher) ApplyQuickFilter(q filter.QuickFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Quick = q
	s.query = q.Label()
	s.restartLocked()
}

// ResetFilters restores the default criteria, keeping the week start
func (s *Searcher) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	weekStart := s.criteria.WeekStart
	s.criteria = filter.Default()
	s.criteria.WeekStart = weekStart
	s.restartLocked()
}

// Clear empties the query and cancels any pending search
func (s *Searcher) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = ""
	s.restartLocked()
}

// Commit records the current query in the recent searches
func (s *Searcher) Commit() {
	s.mu.Lock()
	q := s.query
	s.mu.Unlock()
	s.recent.Add(q)
}

func (s *Searcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Searcher) snapshotLocked() Snapshot {
	return Snapshot{
		Query:       s.query,
		State:       s.state,
		Results:     append([]Result(nil), s.results...),
		Suggestions: append([]Suggestion(nil), s.suggestions...),
		Criteria:    s.criteria.Clone(),
		Generation:  s.gen,
	}
}

// restartLocked supersedes whatever is pending and, for a non-blank query,
// schedules a new run. Callers hold s.mu.
func (s *Searcher) restartLocked() {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}

	if strings.TrimSpace(s.query) == "" {
		s.state = StateIdle
		s.results = nil
		s.suggestions = nil
		return
	}

	gen := s.gen
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = StateDebouncing
	s.stop = s.schedule(s.debounce, func() { s.run(ctx, gen) })
}

func (s *Searcher) current(ctx context.Context, gen uint64) bool {
	return ctx.Err() == nil && gen == s.gen
}

func (s *Searcher) run(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if !s.current(ctx, gen) {
		s.mu.Unlock()
		return
	}
	s.state = StateSearching
	query := s.query
	criteria := s.criteria.Clone()
	s.mu.Unlock()

	now := s.now()
	tasks := s.source.Tasks(ctx)
	results := Rank(tasks, query, criteria, now)
	suggestions := Suggest(query, s.source.Categories(ctx), s.source.Tags(ctx), tasks)

	s.mu.Lock()
	if !s.current(ctx, gen) {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search", "query", query, "generation", gen)
		return
	}
	s.state = StateReady
	s.results = results
	s.suggestions = suggestions
	s.cancel()
	s.cancel = nil
	s.stop = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("search complete", "query", query, "results", len(results))
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}
