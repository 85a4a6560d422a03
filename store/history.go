package store

// Undo reverts the most recent change, notifying watchers as if it were a
// normal write, and pushes it onto the redo stack (spec.md §4.5 "History").
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	ch := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.data[ch.Key] = ch.Old
	s.redo = append(s.redo, ch)
	s.mu.Unlock()

	s.invalidateComputeds(ch.Key)
	s.notify([]Change{{Key: ch.Key, Old: ch.New, New: ch.Old, Timestamp: ch.Timestamp}})
	return true
}

// Redo re-applies the most recently undone change.
func (s *Store) Redo() bool {
	s.mu.Lock()
	if len(s.redo) == 0 {
		s.mu.Unlock()
		return false
	}
	ch := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.data[ch.Key] = ch.New
	s.history = append(s.history, ch)
	s.mu.Unlock()

	s.invalidateComputeds(ch.Key)
	s.notify([]Change{ch})
	return true
}

// Reset rewinds the store to the snapshot captured at construction.
func (s *Store) Reset() {
	s.mu.Lock()
	restored := make(map[string]any, len(s.initial))
	var changes []Change
	for k, v := range s.initial {
		restored[k] = v
	}
	for k, old := range s.data {
		if nv, ok := restored[k]; !ok || !s.equal(old, nv) {
			changes = append(changes, Change{Key: k, Old: old, New: restored[k]})
		}
	}
	s.data = restored
	s.history = nil
	s.redo = nil
	s.mu.Unlock()

	for _, ch := range changes {
		s.invalidateComputeds(ch.Key)
	}
	if len(changes) > 0 {
		s.notify(changes)
	}
}
