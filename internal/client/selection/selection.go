// Package selection holds the set of file identifiers that scope the next
// chat message. The set is owned by the hosting workspace and shared by
// reference: the roster mutates it, the conversation reads it at send time.
package selection

import "sync"

// Set is an insertion-ordered set of file identifiers, safe for concurrent use.
// The zero value is an empty set ready to use.
type Set struct {
	mu    sync.RWMutex
	order []int64
	index map[int64]struct{}
}

func New(ids ...int64) *Set {
	s := &Set{}
	s.Replace(ids)
	return s
}

func (s *Set) addLocked(id int64) {
	if s.index == nil {
		s.index = make(map[int64]struct{})
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *Set) removeLocked(id int64) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds id when absent and removes it when present. It reports whether
// id is selected afterwards.
func (s *Set) Toggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeLocked(id) {
		return false
	}
	s.addLocked(id)
	return true
}

func (s *Set) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(id)
}

// Remove drops id and reports whether it was selected.
func (s *Set) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// Replace discards the current contents and selects ids in the given order.
func (s *Set) Replace(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.index = nil
	for _, id := range ids {
		s.addLocked(id)
	}
}

func (s *Set) Clear() {
	s.Replace(nil)
}

func (s *Set) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// ContainsAll reports whether every id is selected. It is true for an
// empty ids.
func (s *Set) ContainsAll(ids []int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		if _, ok := s.index[id]; !ok {
			return false
		}
	}
	return true
}

// IDs returns a copy of the selected identifiers in insertion order.
func (s *Set) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
