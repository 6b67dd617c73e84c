package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "tickstate version dev\n", out)
}

func TestValidateCmd(t *testing.T) {
	out, err := execute(t, "validate", "testdata/door.yaml")
	require.NoError(t, err)
	assert.Equal(t, "scenario \"door\" is valid: 3 states, 1 scheduled changes\n", out)

	_, err = execute(t, "validate", "testdata/missing.yaml")
	assert.Error(t, err)

	_, err = execute(t, "validate")
	assert.Error(t, err)
}

func TestRunCmd(t *testing.T) {
	t.Run("stops at tick limit", func(t *testing.T) {
		out, err := execute(t, "run", "testdata/door.yaml", "--ticks", "4", "--interval", "1ms")
		require.NoError(t, err)
		assert.Contains(t, out, "tick 3: closed -> open\n")
		assert.Contains(t, out, "door finished in state open after 4 ticks (1 transitions)")
	})

	t.Run("stops when the machine is poisoned", func(t *testing.T) {
		out, err := execute(t, "run", "testdata/door.yaml", "--interval", "1ms", "--log-level", "debug")
		require.NoError(t, err)
		assert.Contains(t, out, "tick 6: open -> closed\n")
		assert.Contains(t, out, "tick 8: closed -> open\n")
		assert.Contains(t, out, "door poisoned after 9 ticks")
		assert.Contains(t, out, "hinge snapped")
	})

	t.Run("records snapshots in redis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		_, err := execute(t, "run", "testdata/door.yaml", "--ticks", "3", "--interval", "1ms",
			"--redis-url", "redis://"+mr.Addr()+"/0")
		require.NoError(t, err)

		keys := mr.Keys()
		assert.Contains(t, keys, "tickstate:snapshot:door")
	})

	t.Run("rejects bad log level", func(t *testing.T) {
		_, err := execute(t, "run", "testdata/door.yaml", "--log-level", "loud")
		assert.Error(t, err)
	})

	t.Run("rejects bad log format", func(t *testing.T) {
		_, err := execute(t, "run", "testdata/door.yaml", "--log-format", "xml")
		assert.Error(t, err)
	})

	t.Run("reads env files", func(t *testing.T) {
		t.Setenv("TICKSTATE_TICKS", "0")
		t.Setenv("TICKSTATE_TICK_INTERVAL", "16ms")

		envFile := filepath.Join(t.TempDir(), "tickstate.env")
		require.NoError(t, os.WriteFile(envFile, []byte("TICKSTATE_TICKS=2\nTICKSTATE_TICK_INTERVAL=1ms\n"), 0o600))

		out, err := execute(t, "run", "testdata/door.yaml", "--env-file", envFile)
		require.NoError(t, err)
		assert.Contains(t, out, "door finished in state closed after 2 ticks (0 transitions)")

		_, err = execute(t, "run", "testdata/door.yaml", "--env-file", filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid scenario", func(t *testing.T) {
		_, err := execute(t, "run", "testdata/missing.yaml", "--ticks", "1")
		assert.Error(t, err)
	})
}
