package signal

import (
	"sync"
	"sync/atomic"
)

// Token identifies one subscription to a Signal. Tokens are never reused for
// the lifetime of the signal that issued them.
type Token uint64

type slot[T any] struct {
	token Token
	fn    func(T)
	alive atomic.Bool
}

// Signal is a typed multi-subscriber notification channel.
// The zero value is ready to use. All methods are safe for concurrent use.
type Signal[T any] struct {
	mu    sync.Mutex
	slots []*slot[T]
	last  Token
}

// New returns an empty signal.
func New[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Connect registers fn and returns the token used to disconnect it.
// It panics with ErrNilCallback if fn is nil.
func (s *Signal[T]) Connect(fn func(T)) Token {
	if s == nil {
		panic(ErrNilSignal)
	}
	if fn == nil {
		panic(ErrNilCallback)
	}

	sl := &slot[T]{fn: fn}
	sl.alive.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	sl.token = s.last
	// Appending never touches the elements an in-flight Emit is iterating,
	// it only reads the prefix it captured.
	s.slots = append(s.slots, sl)
	return sl.token
}

// Disconnect removes the subscriber registered under token.
// It reports whether a subscriber was removed; unknown or already removed
// tokens are a no-op.
func (s *Signal[T]) Disconnect(token Token) bool {
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sl := range s.slots {
		if sl.token != token {
			continue
		}
		sl.alive.Store(false)

		// Copy-on-write: passes that already captured the old slice keep
		// iterating it undisturbed.
		slots := make([]*slot[T], 0, len(s.slots)-1)
		slots = append(slots, s.slots[:i]...)
		s.slots = append(slots, s.slots[i+1:]...)
		return true
	}
	return false
}

// DisconnectAll removes every subscriber.
func (s *Signal[T]) DisconnectAll() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sl := range s.slots {
		sl.alive.Store(false)
	}
	s.slots = nil
}

// Emit calls every connected subscriber with v in connection order and
// returns the number of subscribers called.
//
// The subscriber set is captured when the pass starts. Subscribers
// disconnected before the pass reaches them are skipped; subscribers
// connected during the pass are not called until the next one.
func (s *Signal[T]) Emit(v T) int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	slots := s.slots
	s.mu.Unlock()

	called := 0
	for _, sl := range slots {
		if !sl.alive.Load() {
			continue
		}
		sl.fn(v)
		called++
	}
	return called
}

// Len returns the number of connected subscribers.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
