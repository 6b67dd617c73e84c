package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestMachine(t *testing.T) {
	attr := logger.Machine("door")
	require.Equal(t, "machine", attr.Key)
	assert.Equal(t, "door", attr.Value.String())

	assert.True(t, logger.Machine("").Equal(slog.Attr{}))
}

func TestState(t *testing.T) {
	type phase int
	attr := logger.State(phase(2))
	require.Equal(t, "state", attr.Key)
	assert.Equal(t, "2", attr.Value.String())
}

func TestTransition(t *testing.T) {
	attr := logger.Transition("idle", "walking")
	require.Equal(t, "transition", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "idle", g[0].Value.String())
	assert.Equal(t, "walking", g[1].Value.String())
}

func TestTick(t *testing.T) {
	attr := logger.Tick(7)
	require.Equal(t, "tick", attr.Key)
	assert.Equal(t, uint64(7), attr.Value.Uint64())
}

func TestRunID(t *testing.T) {
	attr := logger.RunID("abc")
	require.Equal(t, "run_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())

	assert.True(t, logger.RunID(nil).Equal(slog.Attr{}))
}
