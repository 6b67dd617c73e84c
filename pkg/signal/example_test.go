package signal_test

import (
	"fmt"

	"github.com/dmitrymomot/tickstate/pkg/signal"
)

func Example() {
	pressed := signal.New[string]()

	pressed.Connect(func(key string) { fmt.Println("first:", key) })
	conn := pressed.Bind(func(key string) { fmt.Println("second:", key) })

	n := pressed.Emit("space")
	fmt.Println("called", n)

	_ = conn.Close()
	n = pressed.Emit("enter")
	fmt.Println("called", n)

	// Output:
	// first: space
	// second: space
	// called 2
	// first: enter
	// called 1
}
