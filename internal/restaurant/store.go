package restaurant

import "time"

// Store hands out the loaded restaurant state together with the wall clock
// in the restaurant's time zone.
type Store struct {
	state State
	loc   *time.Location
	clock func() time.Time
}

func NewStore(state State, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{state: state, loc: loc, clock: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// State returns a copy of the state; callers must not mutate nested slices.
func (s *Store) State() State {
	return s.state
}

// Now returns the current time in the restaurant's location.
func (s *Store) Now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Store) Availability() Availability {
	return Evaluate(s.state, s.Now())
}
