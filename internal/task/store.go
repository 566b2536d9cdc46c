package task

import (
	"fmt"
	"sync"
)

// FetchStatus tracks the lifecycle of the initial bulk fetch.
type FetchStatus int

const (
	StatusIdle FetchStatus = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

// String returns the status name used in views and logs.
func (s FetchStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store maintains an eventually-consistent mirror of the server's task
// collection. Each mutating operation round-trips to the server and commits
// the response into the mirror in a single step; a failed operation leaves
// the mirror untouched. Overlapping calls are not de-duplicated, the last
// write to the mirror wins.
type Store struct {
	svc Service

	mu      sync.Mutex
	mirror  []Task
	status  FetchStatus
	lastErr string
}

// NewStore creates a store backed by the given remote service.
func NewStore(svc Service) *Store {
	return &Store{svc: svc}
}

// Status returns the fetch status.
func (s *Store) Status() FetchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the error message recorded by the most recent failed
// fetch, or "" after a successful one.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Tasks returns a copy of the mirrored collection in its current order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.mirror))
	copy(out, s.mirror)
	return out
}

// Get returns the mirrored entry with the given id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.mirror {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// EnsureFetched runs FetchAll the first time a view mounts while the store
// is still idle. Later mounts rely on the per-operation mirror updates and
// do not re-fetch.
func (s *Store) EnsureFetched() error {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.FetchAll()
}

// FetchAll replaces the whole mirror with the server's current set. On
// failure the previous mirror is kept and the error message recorded.
func (s *Store) FetchAll() error {
	s.mu.Lock()
	s.status = StatusLoading
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusFailed
		s.lastErr = err.Error()
		return fmt.Errorf("fetch tasks: %w", err)
	}
	s.mirror = tasks
	s.status = StatusSucceeded
	s.lastErr = ""
	return nil
}

// Create sends the form to the server and appends the returned task, with
// its server-assigned id, to the mirror.
func (s *Store) Create(form FormData) (Task, error) {
	created, err := s.svc.CreateTask(form)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	s.mu.Lock()
	s.mirror = append(s.mirror, created)
	s.mu.Unlock()
	return created, nil
}

// Update replaces the mirrored entry whose id matches with the
// server-returned task, in place, without reordering the rest.
func (s *Store) Update(id string, form FormData) (Task, error) {
	updated, err := s.svc.UpdateTask(id, form)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	s.mu.Lock()
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			s.mirror[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the mirrored entry with the given id once the server
// confirms the deletion.
func (s *Store) Delete(id string) error {
	if err := s.svc.DeleteTask(id); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.mu.Lock()
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			s.mirror = append(s.mirror[:i], s.mirror[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ToggleCompletion flips is_completed on the local entry after the server
// acknowledges the toggle. Two toggles in sequence return the entry to its
// original state.
func (s *Store) ToggleCompletion(id string) (Task, error) {
	if _, err := s.svc.MarkComplete(id); err != nil {
		return Task{}, fmt.Errorf("toggle task: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			s.mirror[i].IsCompleted = !s.mirror[i].IsCompleted
			return s.mirror[i], nil
		}
	}
	return Task{}, fmt.Errorf("toggle task: no mirrored entry for id %s", id)
}
