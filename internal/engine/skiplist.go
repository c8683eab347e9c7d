package engine

import "sync"

// SkipList accumulates skipped identifiers. It is safe for concurrent use.
type SkipList struct {
	mu  sync.Mutex
	ids []string
}

// Add appends id.
func (s *SkipList) Add(id string) {
	s.mu.Lock()
	s.ids = append(s.ids, id)
	s.mu.Unlock()
}

// IDs returns a copy of the identifiers in the order they were added.
func (s *SkipList) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of skipped identifiers.
func (s *SkipList) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
