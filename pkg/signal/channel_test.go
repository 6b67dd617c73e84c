package signal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/signal"
)

func TestChannel(t *testing.T) {
	t.Parallel()

	t.Run("delivers emitted values", func(t *testing.T) {
		t.Parallel()
		s := signal.New[string]()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := signal.Channel(ctx, s, 4)
		assert.Equal(t, 1, s.Emit("hello"))

		select {
		case v := <-ch:
			assert.Equal(t, "hello", v)
		case <-time.After(time.Second):
			t.Fatal("value not delivered")
		}
	})

	t.Run("drops values when the buffer is full", func(t *testing.T) {
		t.Parallel()
		s := signal.New[int]()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := signal.Channel(ctx, s, 1)
		for i := range 5 {
			s.Emit(i)
		}

		assert.Equal(t, 0, <-ch)
		select {
		case v := <-ch:
			t.Fatalf("unexpected buffered value %d", v)
		default:
		}
	})

	t.Run("closes when the context is done", func(t *testing.T) {
		t.Parallel()
		s := signal.New[int]()
		ctx, cancel := context.WithCancel(context.Background())

		ch := signal.Channel(ctx, s, 1)
		require.Equal(t, 1, s.Len())
		cancel()

		select {
		case _, ok := <-ch:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel not closed after cancel")
		}
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, 0, s.Emit(1))
	})
}
