package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

func TestBuilder(t *testing.T) {
	t.Parallel()

	t.Run("builds machine with handlers", func(t *testing.T) {
		t.Parallel()
		rec := &recorder{}
		m, err := statemachine.NewBuilder(idle).
			Named("builder").
			WithProcessErrorPolicy(statemachine.PoisonOnAnyError).
			State(idle).
			OnExit(rec.handler("exit idle")).
			State(walking).
			OnEnter(rec.handler("enter walking")).
			OnProcess(rec.handler("process walking")).
			Build()
		require.NoError(t, err)
		assert.Equal(t, "builder", m.Name())

		m.QueueState(walking)
		require.NoError(t, m.Process(context.Background()))
		assert.Equal(t, []string{"exit idle", "enter walking", "process walking"}, rec.all())
	})

	t.Run("handler without state fails", func(t *testing.T) {
		t.Parallel()
		_, err := statemachine.NewBuilder(idle).
			OnEnter(func(context.Context) error { return nil }).
			Build()
		assert.ErrorIs(t, err, statemachine.ErrNoStateSelected)
	})

	t.Run("duplicate handler fails", func(t *testing.T) {
		t.Parallel()
		noop := func(context.Context) error { return nil }
		b := statemachine.NewBuilder(idle).State(idle).OnProcess(noop).OnProcess(noop)

		_, err := b.Build()
		assert.ErrorIs(t, err, statemachine.ErrHandlerExists)
		assert.Panics(t, func() { b.MustBuild() })
	})
}
