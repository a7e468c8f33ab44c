package identity

import "sync"

// State holds the current identity of one session and notifies subscribers
// on every change. A nil value means signed out.
type State struct {
	mu      sync.Mutex
	current *Identity
	subs    map[int]chan *Identity
	nextID  int
}

// NewState creates a signed-out state
func NewState() *State {
	return &State{subs: make(map[int]chan *Identity)}
}

// Current returns the current identity or nil
func (s *State) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SignIn sets the current identity and notifies subscribers
func (s *State) SignIn(id Identity) {
	s.set(&id)
}

// SignOut clears the current identity and notifies subscribers
func (s *State) SignOut() {
	s.set(nil)
}

// Subscribe returns a channel that first yields the current value and then
// every change. Slow subscribers only see the latest value. The returned
// func cancels the subscription and closes the channel.
func (s *State) Subscribe() (<-chan *Identity, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan *Identity, 1)
	ch <- s.current
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *State) set(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = id
	for _, ch := range s.subs {
		// Replace any value the subscriber has not consumed yet.
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
}
