package notes

import "sync"

// Observer is called after every dispatch with the applied action and the
// resulting state.
type Observer func(a Action, next State)

// Store owns the aggregate state. Dispatch calls are serialized so the
// reducer only ever has one writer; readers get immutable snapshots.
type Store struct {
	mu        sync.Mutex
	reducer   *Reducer
	state     State
	observers []Observer
}

// NewStore creates a store holding initial.
func NewStore(reducer *Reducer, initial State) *Store {
	if reducer == nil {
		reducer = NewReducer(nil)
	}
	return &Store{reducer: reducer, state: initial}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers an observer for subsequent dispatches.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Dispatch reduces a into the current state, notifies observers and returns
// the new snapshot. Observers run while the store is locked, so they see
// dispatches in order and must not dispatch themselves. A nil action is
// ignored.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a == nil {
		return s.state
	}

	s.state = s.reducer.Reduce(s.state, a)
	for _, o := range s.observers {
		o(a, s.state)
	}
	return s.state
}
