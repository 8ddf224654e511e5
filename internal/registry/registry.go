// Package registry holds the list of registered database connections and the
// current selection.
//
// Fetch responses carry a monotonic sequence number: a list that was
// requested before the last applied one is discarded, so a slow response can
// never overwrite fresher state.
package registry

import (
	"context"
	"sync"

	"querypulse/internal/domain"
)

// API is the slice of the backend the registry needs.
type API interface {
	ListDatabases(ctx context.Context) ([]domain.Connection, error)
	CreateDatabase(ctx context.Context, nc domain.NewConnection) (domain.Connection, error)
	DeleteDatabase(ctx context.Context, id string) error
}

// Store is the connection-registry container.
type Store struct {
	mu  sync.Mutex
	api API

	conns    []domain.Connection
	selected string

	issuedSeq  uint64
	appliedSeq uint64
}

// NewStore creates an empty registry.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// Fetch replaces the whole list with the backend's view. The lock is not
// held across the network call; ordering is enforced by sequence number
// instead.
func (s *Store) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	conns, err := s.api.ListDatabases(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		// A newer fetch already landed; this response is stale.
		return nil
	}
	s.appliedSeq = seq
	s.conns = conns
	s.reconcileSelectionLocked()
	return nil
}

// Add registers a connection and prepends it to the list once the backend
// acknowledges. Nothing changes locally on failure.
func (s *Store) Add(ctx context.Context, nc domain.NewConnection) (domain.Connection, error) {
	created, err := s.api.CreateDatabase(ctx, nc)
	if err != nil {
		return domain.Connection{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns = append([]domain.Connection{created}, s.conns...)
	if s.selected == "" {
		s.selected = created.ID
	}
	return created, nil
}

// Delete removes a connection after the backend acknowledges. Deleting the
// selected connection moves the selection to the first remaining one.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteDatabase(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.conns[:0]
	for _, c := range s.conns {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.conns = kept
	if s.selected == id {
		s.selected = ""
	}
	s.reconcileSelectionLocked()
	return nil
}

// Select picks a connection by ID. Unknown IDs are ignored.
func (s *Store) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if c.ID == id {
			s.selected = id
			return
		}
	}
}

// Selected returns the selected connection, if any.
func (s *Store) Selected() (domain.Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if c.ID == s.selected {
			return c, true
		}
	}
	return domain.Connection{}, false
}

// Connections returns a copy of the current list.
func (s *Store) Connections() []domain.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Connection, len(s.conns))
	copy(out, s.conns)
	return out
}

// Get returns one connection by ID.
func (s *Store) Get(id string) (domain.Connection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Connection{}, false
}

// reconcileSelectionLocked keeps the selection pointing at a live connection,
// defaulting to the first one.
func (s *Store) reconcileSelectionLocked() {
	if s.selected != "" {
		for _, c := range s.conns {
			if c.ID == s.selected {
				return
			}
		}
		s.selected = ""
	}
	if len(s.conns) > 0 {
		s.selected = s.conns[0].ID
	}
}
