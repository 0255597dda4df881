// internal/rag/registry.go
package rag

import (
	"strings"
	"sync"
)

// RepositoryKey identifies one repository's index within one session.
type RepositoryKey string

// KeyFor derives the registry key for a repository name within a session.
// Two ingests of the same repository name in one session collide and the
// later one wins.
func KeyFor(sessionID, repoName string) RepositoryKey {
	return RepositoryKey(sessionID + "-" + repoName)
}

type entry struct {
	index  *VectorIndex
	chunks []Chunk
}

// Registry is the process-wide mapping from repository keys to their built
// index and chunk list. Entries are created only by a successful build and
// replaced whole, so a concurrent reader observes either the old pair or the
// new pair, never a mix. Independent sessions share one Registry; their keys
// are session-qualified and never collide.
type Registry struct {
	mu      sync.RWMutex
	entries map[RepositoryKey]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[RepositoryKey]entry)}
}

// Put inserts or overwrites the entry for key. An overwrite substitutes the
// whole pair; in-flight queries holding the previous index still complete
// against that snapshot.
func (r *Registry) Put(key RepositoryKey, index *VectorIndex, chunks []Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{index: index, chunks: chunks}
}

// Get returns the index and chunks registered for key, or ErrNotIndexed when
// no build has registered the key.
func (r *Registry) Get(key RepositoryKey) (*VectorIndex, []Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, nil, ErrNotIndexed
	}
	return e.index, e.chunks, nil
}

// ClearSession drops every entry belonging to sessionID. Entries of other
// sessions are untouched.
func (r *Registry) ClearSession(sessionID string) {
	prefix := sessionID + "-"
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		if strings.HasPrefix(string(key), prefix) {
			delete(r.entries, key)
		}
	}
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
