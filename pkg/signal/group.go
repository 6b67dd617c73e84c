package signal

import "sync"

// Group owns a set of connections and closes them together.
// The zero value is ready to use.
type Group struct {
	mu     sync.Mutex
	conns  []*Connection
	closed bool
}

// Add takes ownership of conns. Connections added to a closed group are
// closed immediately.
func (g *Group) Add(conns ...*Connection) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
		return
	}
	g.conns = append(g.conns, conns...)
	g.mu.Unlock()
}

// Len returns the number of connections owned by the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

// Close closes every owned connection. It is safe to call more than once.
func (g *Group) Close() error {
	g.mu.Lock()
	conns := g.conns
	g.conns = nil
	g.closed = true
	g.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	return nil
}
