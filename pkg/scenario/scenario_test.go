package scenario_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tickstate/pkg/scenario"
	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()

	s, err := scenario.LoadFile("testdata/door.yaml")
	require.NoError(t, err)

	assert.Equal(t, "door", s.Name)
	assert.Equal(t, "closed", s.Initial)
	assert.Equal(t, uint64(12), s.Ticks)
	assert.Equal(t, []string{"closed", "jammed", "open"}, s.StateNames())
	require.Len(t, s.Schedule, 1)
	assert.Equal(t, scenario.Change{Tick: 9, Queue: "jammed"}, s.Schedule[0])

	_, err = scenario.LoadFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "empty document",
			doc:  "",
			want: scenario.ErrEmptyDocument,
		},
		{
			name: "unknown field",
			doc:  "name: x\ninitial: a\nstates: {a: {}}\ncolour: red\n",
			want: scenario.ErrInvalidDocument,
		},
		{
			name: "missing name",
			doc:  "initial: a\nstates: {a: {}}\n",
			want: scenario.ErrMissingField,
		},
		{
			name: "undeclared initial",
			doc:  "name: x\ninitial: b\nstates: {a: {}}\n",
			want: scenario.ErrUnknownState,
		},
		{
			name: "unknown kind",
			doc:  "name: x\ninitial: a\nstates:\n  a:\n    enter: [{kind: dance}]\n",
			want: scenario.ErrUnknownKind,
		},
		{
			name: "queue to unknown state",
			doc:  "name: x\ninitial: a\nstates:\n  a:\n    process: [{kind: queue, params: {state: z}}]\n",
			want: scenario.ErrUnknownState,
		},
		{
			name: "unknown param",
			doc:  "name: x\ninitial: a\nstates:\n  a:\n    enter: [{kind: log, params: {msg: hi}}]\n",
			want: scenario.ErrInvalidParams,
		},
		{
			name: "bad log level",
			doc:  "name: x\ninitial: a\nstates:\n  a:\n    enter: [{kind: log, params: {message: hi, level: loud}}]\n",
			want: scenario.ErrInvalidParams,
		},
		{
			name: "schedule to unknown state",
			doc:  "name: x\ninitial: a\nstates: {a: {}}\nschedule: [{tick: 1, queue: z}]\n",
			want: scenario.ErrUnknownState,
		},
		{
			name: "schedule at tick zero",
			doc:  "name: x\ninitial: a\nstates: {a: {}}\nschedule: [{tick: 0, queue: a}]\n",
			want: scenario.ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := scenario.Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_WeakParams(t *testing.T) {
	t.Parallel()

	s, err := scenario.Parse([]byte("name: x\ninitial: a\nstates:\n  a:\n    process: [{kind: queue, params: {state: a, after: '2'}}]\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", s.States["a"].Process[0].Params["after"])
}

func TestCompile_Door(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := scenario.LoadFile("testdata/door.yaml")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m, schedule, err := scenario.Compile(s, log)
	require.NoError(t, err)
	assert.Equal(t, "door", m.Name())
	assert.Equal(t, 1, schedule.Len())

	d := scenario.NewDriver(m, schedule)

	var states []string
	var lastErr error
	for range 9 {
		lastErr = d.Process(ctx)
		if lastErr != nil {
			break
		}
		states = append(states, m.State())
	}

	// closed for two ticks, open for three, closed again until the schedule
	// jams the door on tick 9.
	assert.Equal(t, []string{"closed", "closed", "open", "open", "open", "closed", "closed", "open"}, states)
	require.Error(t, lastErr)
	assert.True(t, statemachine.IsTransitionError(lastErr))
	assert.Contains(t, lastErr.Error(), "hinge snapped")
	assert.True(t, m.Poisoned())
	assert.Equal(t, uint64(9), d.Tick())

	assert.Contains(t, buf.String(), "door opened")
	assert.Contains(t, buf.String(), "machine=door")
}

func TestCompile_Panic(t *testing.T) {
	t.Parallel()

	s, err := scenario.Parse([]byte("name: x\ninitial: a\nstates:\n  a:\n    process: [{kind: panic, params: {message: nope}}]\n"))
	require.NoError(t, err)

	m, _, err := scenario.Compile(s, nil)
	require.NoError(t, err)

	err = m.Process(context.Background())
	assert.True(t, statemachine.IsPanicError(err))
	assert.False(t, m.Poisoned())
}

func TestCompile_PoisonOnAnyError(t *testing.T) {
	t.Parallel()

	s, err := scenario.Parse([]byte("name: x\ninitial: a\nstates:\n  a:\n    process: [{kind: fail}]\n"))
	require.NoError(t, err)

	m, _, err := scenario.Compile(s, nil,
		statemachine.WithProcessErrorPolicy[string](statemachine.PoisonOnAnyError))
	require.NoError(t, err)

	err = m.Process(context.Background())
	assert.ErrorContains(t, err, "scripted failure")
	assert.True(t, m.Poisoned())
}

type queueRecorder struct {
	queued []string
}

func (q *queueRecorder) QueueState(s string) {
	q.queued = append(q.queued, s)
}

func TestSchedule_Apply(t *testing.T) {
	t.Parallel()

	s := scenario.NewSchedule([]scenario.Change{
		{Tick: 2, Queue: "b"},
		{Tick: 2, Queue: "c"},
		{Tick: 5, Queue: "a"},
	})
	assert.Equal(t, 3, s.Len())

	q := &queueRecorder{}
	assert.Zero(t, s.Apply(1, q))
	assert.Equal(t, 2, s.Apply(2, q))
	assert.Equal(t, []string{"b", "c"}, q.queued)

	var nilSchedule *scenario.Schedule
	assert.Zero(t, nilSchedule.Apply(2, q))
	assert.Zero(t, nilSchedule.Len())
}
