// Package signal provides a typed, synchronous publish/subscribe primitive
// with lifetime-safe connections.
//
// A Signal[T] keeps its subscribers in connection order. Emit invokes every
// subscriber that is connected when the pass starts and returns how many were
// called. Subscribers may connect, disconnect themselves or disconnect their
// siblings from inside a callback; a subscriber removed before the pass reaches
// it is skipped, and one added during a pass is first called on the next one.
//
// Basic usage:
//
//	clicked := signal.New[int]()
//
//	token := clicked.Connect(func(button int) {
//		fmt.Println("clicked", button)
//	})
//	defer clicked.Disconnect(token)
//
//	n := clicked.Emit(1) // n == 1
//
// Signals carry one payload value. Use a struct for several arguments and
// Signal[struct{}] for notifications without arguments.
//
// # Connections
//
// Bind returns a *Connection handle that disconnects exactly once when closed.
// A short-lived object holding the handle can subscribe to a long-lived
// emitter without leaving a dangling callback behind:
//
//	conn := device.Changed.Bind(controller.onChange)
//	defer conn.Close()
//
// BindContext ties the connection to a context, and Group closes a set of
// connections together. Once Disconnect or Close returns, no emission that
// starts afterwards calls the callback. An emission already running on another
// goroutine may still be finishing its call.
//
// # Concurrency
//
// The subscriber list is guarded by a mutex and replaced copy-on-write on
// removal, so emission never holds the lock while callbacks run. One goroutine
// may emit while others connect, disconnect or close handles. Channel bridges
// a signal to a buffered channel when the consumer lives on another goroutine.
package signal
