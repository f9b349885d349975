package search

import (
	"log/slog"
	"strings"
	"sync"
)

const (
	// RecentSearchesKey is the settings key holding the recent search list
	RecentSearchesKey = "HoneyDo_RecentSearches"
	MaxRecentSearches = 10
)

// Settings is the key-value store the recent list is persisted to
type Settings interface {
	GetStringList(key string) ([]string, error)
	SetStringList(key string, list []string) error
}

// Recent is a most-recently-used list of search terms, newest first
type Recent struct {
	mu       sync.Mutex
	settings Settings
	logger   *slog.Logger
	items    []string
}

// NewRecent loads the saved list. A load failure is logged and leaves the list empty.
func NewRecent(settings Settings, logger *slog.Logger) *Recent {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recent{settings: settings, logger: logger}
	if settings == nil {
		return r
	}
	items, err := settings.GetStringList(RecentSearchesKey)
	if err != nil {
		logger.Error("load recent searches", "err", err)
		return r
	}
	r.items = trimRecent(items)
	return r
}

// Add moves term to the front of the list, dropping the oldest entry past
// MaxRecentSearches. Blank terms are ignored.
func (r *Recent) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]string, 0, len(r.items)+1)
	items = append(items, term)
	for _, it := range r.items {
		if it != term {
			items = append(items, it)
		}
	}
	r.items = trimRecent(items)
	r.save()
}

func (r *Recent) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
	r.save()
}

// List returns a copy of the list, newest first
func (r *Recent) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

// save persists the list; callers hold r.mu
func (r *Recent) save() {
	if r.settings == nil {
		return
	}
	if err := r.settings.SetStringList(RecentSearchesKey, r.items); err != nil {
		r.logger.Error("save recent searches", "err", err)
	}
}

func trimRecent(items []string) []string {
	if len(items) > MaxRecentSearches {
		items = items[:MaxRecentSearches]
	}
	return items
}
