package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/mapstructure"

	"github.com/dmitrymomot/tickstate/pkg/logger"
	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

// Compile builds a machine whose handlers run the scenario's actions, and the
// schedule of externally queued changes. s must be valid.
func Compile(s *Scenario, log *slog.Logger, opts ...statemachine.Option[string]) (*statemachine.Machine[string], *Schedule, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	base := []statemachine.Option[string]{
		statemachine.WithName[string](s.Name),
		statemachine.WithLogger[string](log),
	}
	m, err := statemachine.New(s.Initial, append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range s.StateNames() {
		spec := s.States[name]
		c := &compiledState{machine: m, scenario: s.Name, state: name, log: log}

		enter, err := c.compile(spec.Enter, false)
		if err != nil {
			return nil, nil, err
		}
		process, err := c.compile(spec.Process, true)
		if err != nil {
			return nil, nil, err
		}
		exit, err := c.compile(spec.Exit, false)
		if err != nil {
			return nil, nil, err
		}

		if err := m.OnEnter(name, c.enter(enter)); err != nil {
			return nil, nil, err
		}
		if err := m.OnProcess(name, c.process(process)); err != nil {
			return nil, nil, err
		}
		if len(exit) > 0 {
			if err := m.OnExit(name, run(exit)); err != nil {
				return nil, nil, err
			}
		}
	}

	return m, NewSchedule(s.Schedule), nil
}

type step func(ctx context.Context) error

// compiledState holds the per-state tick counter used by delayed queue actions.
type compiledState struct {
	machine  *statemachine.Machine[string]
	scenario string
	state    string
	log      *slog.Logger
	ticks    int
}

func (c *compiledState) enter(steps []step) statemachine.Handler {
	return func(ctx context.Context) error {
		c.ticks = 0
		return run(steps)(ctx)
	}
}

func (c *compiledState) process(steps []step) statemachine.Handler {
	return func(ctx context.Context) error {
		c.ticks++
		return run(steps)(ctx)
	}
}

func run(steps []step) statemachine.Handler {
	return func(ctx context.Context) error {
		for _, st := range steps {
			if err := st(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func (c *compiledState) compile(actions []Action, inProcess bool) ([]step, error) {
	steps := make([]step, 0, len(actions))
	for _, a := range actions {
		st, err := c.step(a, inProcess)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", c.state, err)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

func (c *compiledState) step(a Action, inProcess bool) (step, error) {
	switch a.Kind {
	case KindLog:
		var p LogParams
		if err := decodeParams(a.Params, &p); err != nil {
			return nil, err
		}
		level := slog.LevelInfo
		if p.Level != "" {
			l, err := logger.ParseLevel(p.Level)
			if err != nil {
				return nil, errors.Join(ErrInvalidParams, err)
			}
			level = l
		}
		return func(ctx context.Context) error {
			c.log.Log(ctx, level, p.Message,
				logger.Machine(c.scenario),
				logger.State(c.state),
			)
			return nil
		}, nil

	case KindFail:
		var p FailParams
		if err := decodeParams(a.Params, &p); err != nil {
			return nil, err
		}
		msg := p.Message
		if msg == "" {
			msg = "scripted failure"
		}
		return func(context.Context) error {
			return errors.New(msg)
		}, nil

	case KindPanic:
		var p FailParams
		if err := decodeParams(a.Params, &p); err != nil {
			return nil, err
		}
		return func(context.Context) error {
			panic(p.Message)
		}, nil

	case KindQueue:
		var p QueueParams
		if err := decodeParams(a.Params, &p); err != nil {
			return nil, err
		}
		return func(context.Context) error {
			if !inProcess || c.ticks >= p.After {
				c.machine.QueueState(p.State)
			}
			return nil
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
}

func decodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}
