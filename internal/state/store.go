package state

import (
	"sync"
	"time"

	"github.com/five82/portal/internal/catalog"
	"github.com/five82/portal/internal/query"
)

// Phase is the lifecycle of a view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// ListSnapshot is what the list view renders.
type ListSnapshot struct {
	Phase   Phase
	Params  query.Params
	Address string
	// Page holds the post-processed results and their pagination info.
	Page                catalog.Page
	Err                 error
	Seq                 uint64
	ConsecutiveFailures int
	UpdatedAt           time.Time
}

// IsEmpty reports a successful fetch with nothing to show.
func (s ListSnapshot) IsEmpty() bool {
	return s.Phase == Ready && len(s.Page.Results) == 0
}

// DetailSnapshot is what the detail view renders.
type DetailSnapshot struct {
	Phase     Phase
	Input     string
	ID        int
	Resource  catalog.Resource
	Err       error
	Seq       uint64
	UpdatedAt time.Time
}

// Snapshot bundles both views.
type Snapshot struct {
	List          ListSnapshot
	Detail        DetailSnapshot
	ListVersion   uint64
	DetailVersion uint64
}

// Store holds the last published state of each view. Publishers hand over
// ownership of what they publish; readers get deep copies.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// PublishList replaces the list view state. Failures are counted until the
// next successful publish.
func (s *Store) PublishList(list ListSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch list.Phase {
	case Failed:
		list.ConsecutiveFailures = s.snapshot.List.ConsecutiveFailures + 1
	case Ready:
		list.ConsecutiveFailures = 0
	default:
		list.ConsecutiveFailures = s.snapshot.List.ConsecutiveFailures
	}
	if list.UpdatedAt.IsZero() {
		list.UpdatedAt = time.Now()
	}
	s.snapshot.List = list
	s.snapshot.ListVersion++
}

// PublishDetail replaces the detail view state.
func (s *Store) PublishDetail(detail DetailSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if detail.UpdatedAt.IsZero() {
		detail.UpdatedAt = time.Now()
	}
	s.snapshot.Detail = detail
	s.snapshot.DetailVersion++
}

// List returns a copy of the list view state.
func (s *Store) List() ListSnapshot {
	return s.Snapshot().List
}

// Detail returns a copy of the detail view state.
func (s *Store) Detail() DetailSnapshot {
	return s.Snapshot().Detail
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.List.Page = s.snapshot.List.Page.Clone()
	snap.Detail.Resource = s.snapshot.Detail.Resource.Clone()
	return snap
}
