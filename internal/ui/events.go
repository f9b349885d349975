package ui

import (
	"github.com/tgienger/honeydo/internal/search"
)

// Events carries search snapshots and store failures from background
// goroutines into the bubbletea loop. Publishers never block: a newer
// snapshot replaces one the UI has not picked up yet, and errors past the
// buffer are dropped.
type Events struct {
	snapshots chan search.Snapshot
	errors    chan error
}

func NewEvents() *Events {
	return &Events{
		snapshots: make(chan search.Snapshot, 1),
		errors:    make(chan error, 8),
	}
}

// PublishSnapshot is suitable for search.OnUpdate
func (e *Events) PublishSnapshot(s search.Snapshot) {
	for {
		select {
		case e.snapshots <- s:
			return
		default:
		}
		select {
		case old := <-e.snapshots:
			if old.Generation > s.Generation {
				s = old
			}
		default:
		}
	}
}

// PublishError is suitable for repository.OnStoreError
func (e *Events) PublishError(err error) {
	select {
	case e.errors <- err:
	default:
	}
}

func (e *Events) Snapshots() <-chan search.Snapshot { return e.snapshots }

func (e *Events) Errors() <-chan error { return e.errors }
