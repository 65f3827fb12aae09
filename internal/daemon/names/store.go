// Package names remembers the names users gave to workspaces by hand.
package names

import (
	"strings"
	"sync"

	"github.com/i3-app-list/i3-app-list/internal/models"
)

// Store maps workspace identities to custom names. Entries live in memory
// only and are lost when the process exits.
type Store struct {
	mu    sync.Mutex
	names map[models.WorkspaceID]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{names: make(map[models.WorkspaceID]string)}
}

// Get returns the custom name of a workspace.
func (s *Store) Get(id models.WorkspaceID) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	return name, ok
}

// Set stores name, trimmed of surrounding whitespace. A name that is
// empty after trimming removes the entry.
func (s *Store) Set(id models.WorkspaceID, name string) {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		delete(s.names, id)
		return
	}
	s.names[id] = name
}

// GarbageCollect removes every entry whose identity is not in live and
// returns how many were removed.
func (s *Store) GarbageCollect(live []models.WorkspaceID) int {
	keep := make(map[models.WorkspaceID]struct{}, len(live))
	for _, id := range live {
		keep[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id := range s.names {
		if _, ok := keep[id]; !ok {
			delete(s.names, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}
