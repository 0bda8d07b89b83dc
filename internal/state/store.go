package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/todoable/internal/todoable"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Lists               []todoable.List
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Find returns the list with the given id.
func (s Snapshot) Find(id string) (todoable.List, bool) {
	for _, l := range s.Lists {
		if l.ID == id {
			return l, true
		}
	}
	return todoable.List{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored lists. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(lists []todoable.List, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Lists = cloneLists(lists)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lists = cloneLists(s.snapshot.Lists)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneLists(lists []todoable.List) []todoable.List {
	if len(lists) == 0 {
		return nil
	}
	dup := make([]todoable.List, len(lists))
	for i, l := range lists {
		dup[i] = l
		if l.Items != nil {
			dup[i].Items = append([]todoable.ListItem(nil), l.Items...)
		}
	}
	return dup
}
