package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/tickstate/pkg/logger"
)

// Action kinds.
const (
	KindLog   = "log"
	KindFail  = "fail"
	KindQueue = "queue"
	KindPanic = "panic"
)

// Scenario describes a string-state machine and a script that drives it.
type Scenario struct {
	Name     string               `yaml:"name"`
	Initial  string               `yaml:"initial"`
	Ticks    uint64               `yaml:"ticks"`
	States   map[string]StateSpec `yaml:"states"`
	Schedule []Change             `yaml:"schedule"`
}

// StateSpec lists the actions run by each handler of a state, in order.
type StateSpec struct {
	Enter   []Action `yaml:"enter"`
	Process []Action `yaml:"process"`
	Exit    []Action `yaml:"exit"`
}

type slotActions struct {
	name    string
	actions []Action
}

func (spec StateSpec) slots() []slotActions {
	return []slotActions{
		{name: "enter", actions: spec.Enter},
		{name: "process", actions: spec.Process},
		{name: "exit", actions: spec.Exit},
	}
}

// Action is one step of a handler. Params are decoded according to Kind.
type Action struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
}

// Change queues a state before the given tick is processed. Ticks count from 1.
type Change struct {
	Tick  uint64 `yaml:"tick"`
	Queue string `yaml:"queue"`
}

// LogParams are the params of a log action.
type LogParams struct {
	Message string `mapstructure:"message"`
	Level   string `mapstructure:"level"`
}

// FailParams are the params of a fail or panic action.
type FailParams struct {
	Message string `mapstructure:"message"`
}

// QueueParams are the params of a queue action. In a process handler After is
// the number of ticks spent in the state before the change is queued.
type QueueParams struct {
	State string `mapstructure:"state"`
	After int    `mapstructure:"after"`
}

// Parse decodes and validates a YAML scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, errors.Join(ErrInvalidDocument, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// StateNames returns the declared states, sorted.
func (s *Scenario) StateNames() []string {
	names := make([]string, 0, len(s.States))
	for name := range s.States {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports every problem found in s, joined.
func (s *Scenario) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, fmt.Errorf("%w: name", ErrMissingField))
	}
	if s.Initial == "" {
		errs = append(errs, fmt.Errorf("%w: initial", ErrMissingField))
	} else if _, ok := s.States[s.Initial]; !ok {
		errs = append(errs, fmt.Errorf("%w: initial state %q is not declared", ErrUnknownState, s.Initial))
	}

	for _, name := range s.StateNames() {
		spec := s.States[name]
		for _, slot := range spec.slots() {
			for i, a := range slot.actions {
				if err := s.validateAction(a); err != nil {
					errs = append(errs, fmt.Errorf("states.%s.%s[%d]: %w", name, slot.name, i, err))
				}
			}
		}
	}

	for i, c := range s.Schedule {
		if c.Tick == 0 {
			errs = append(errs, fmt.Errorf("schedule[%d]: %w: tick (ticks count from 1)", i, ErrMissingField))
		}
		if _, ok := s.States[c.Queue]; !ok {
			errs = append(errs, fmt.Errorf("schedule[%d]: %w: %q", i, ErrUnknownState, c.Queue))
		}
	}

	return errors.Join(errs...)
}

func (s *Scenario) validateAction(a Action) error {
	switch a.Kind {
	case KindLog:
		var p LogParams
		if err := decodeParams(a.Params, &p); err != nil {
			return err
		}
		if p.Level != "" {
			if _, err := logger.ParseLevel(p.Level); err != nil {
				return errors.Join(ErrInvalidParams, err)
			}
		}
		return nil
	case KindFail, KindPanic:
		var p FailParams
		return decodeParams(a.Params, &p)
	case KindQueue:
		var p QueueParams
		if err := decodeParams(a.Params, &p); err != nil {
			return err
		}
		if _, ok := s.States[p.State]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownState, p.State)
		}
		if p.After < 0 {
			return fmt.Errorf("%w: after must not be negative", ErrInvalidParams)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
}
