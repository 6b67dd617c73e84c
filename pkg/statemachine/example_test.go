package statemachine_test

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

func ExampleMachine() {
	ctx := context.Background()

	m := statemachine.NewBuilder("closed").
		Named("door").
		State("closed").
		OnExit(func(context.Context) error {
			fmt.Println("unlocking")
			return nil
		}).
		State("open").
		OnEnter(func(context.Context) error {
			fmt.Println("opening")
			return nil
		}).
		OnProcess(func(context.Context) error {
			fmt.Println("letting people through")
			return nil
		}).
		MustBuild()

	m.QueueState("open")
	_ = m.Process(ctx)
	fmt.Println(m.Current())

	// Output:
	// unlocking
	// opening
	// letting people through
	// open
}
