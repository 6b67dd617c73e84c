package signal

import (
	"context"
	"sync"
)

// pipe forwards emitted values to a buffered channel without ever blocking
// the emitter. The mutex orders sends against close.
type pipe[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

func (p *pipe[T]) send(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.ch <- v:
	default:
		// Slow consumer: drop rather than stall the emitting goroutine.
	}
}

func (p *pipe[T]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.ch)
	}
}

// Channel subscribes to s and delivers every emitted value on the returned
// channel. Values are dropped while the buffer is full. The subscription ends
// and the channel is closed when ctx is done; with a context that is never
// done the subscription lives as long as the signal.
//
// A minimum buffer size of 1 is enforced.
func Channel[T any](ctx context.Context, s *Signal[T], size int) <-chan T {
	p := &pipe[T]{ch: make(chan T, max(size, 1))}
	conn := s.Bind(p.send)

	if ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			_ = conn.Close()
			p.close()
		}()
	}

	return p.ch
}
