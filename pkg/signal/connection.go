package signal

import (
	"context"
	"sync"
)

// Connection is a handle to one subscription. Closing it disconnects the
// callback exactly once; later calls to Close are no-ops.
//
// A Connection is the owner-side half of a subscription: the object whose
// callback is registered keeps the handle and closes it when it goes away.
type Connection struct {
	token      Token
	disconnect func(Token) bool
	once       sync.Once
	done       chan struct{}
}

// Bind connects fn and returns a handle that disconnects it on Close.
// It panics with ErrNilCallback if fn is nil.
func (s *Signal[T]) Bind(fn func(T)) *Connection {
	if s == nil {
		panic(ErrNilSignal)
	}
	return &Connection{
		token:      s.Connect(fn),
		disconnect: s.Disconnect,
		done:       make(chan struct{}),
	}
}

// BindContext works like Bind, and also closes the connection when ctx is done.
func (s *Signal[T]) BindContext(ctx context.Context, fn func(T)) *Connection {
	conn := s.Bind(fn)

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.Close()
			case <-conn.done:
			}
		}()
	}

	return conn
}

// Token returns the token of the underlying subscription.
func (c *Connection) Token() Token {
	if c == nil {
		return 0
	}
	return c.token
}

// Connected reports whether Close has not been called yet.
func (c *Connection) Connected() bool {
	if c == nil {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// Done returns a channel that is closed once the connection is closed.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Close disconnects the callback. It is idempotent, safe for concurrent use
// and safe to call from inside the callback itself. It always returns nil;
// the error result lets a Connection be used as an io.Closer.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	c.once.Do(func() {
		c.disconnect(c.token)
		close(c.done)
	})
	return nil
}
