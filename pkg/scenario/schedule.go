package scenario

import (
	"context"

	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

// Queuer is anything a state can be queued on.
type Queuer interface {
	QueueState(s string)
}

// Schedule holds state changes keyed by the tick they are applied before.
type Schedule struct {
	byTick map[uint64][]string
}

// NewSchedule indexes changes by tick, keeping declaration order per tick.
func NewSchedule(changes []Change) *Schedule {
	s := &Schedule{byTick: make(map[uint64][]string, len(changes))}
	for _, c := range changes {
		s.byTick[c.Tick] = append(s.byTick[c.Tick], c.Queue)
	}
	return s
}

// Len returns the number of scheduled changes.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, states := range s.byTick {
		n += len(states)
	}
	return n
}

// Apply queues every change scheduled for tick on q and returns how many were
// applied. Several changes on the same tick overwrite each other, so the last
// one declared wins.
func (s *Schedule) Apply(tick uint64, q Queuer) int {
	if s == nil {
		return 0
	}
	states := s.byTick[tick]
	for _, st := range states {
		q.QueueState(st)
	}
	return len(states)
}

// Driver couples a compiled machine with its schedule so a loop can drive
// both. It implements loop.Processor and loop.Snapshotter.
type Driver struct {
	*statemachine.Machine[string]
	schedule *Schedule
	tick     uint64
}

// NewDriver returns a Driver for m and schedule.
func NewDriver(m *statemachine.Machine[string], schedule *Schedule) *Driver {
	return &Driver{Machine: m, schedule: schedule}
}

// Process applies the changes scheduled for the next tick and then processes
// the machine.
func (d *Driver) Process(ctx context.Context) error {
	d.tick++
	d.schedule.Apply(d.tick, d.Machine)
	return d.Machine.Process(ctx)
}

// Tick returns the number of ticks processed by the driver.
func (d *Driver) Tick() uint64 {
	return d.tick
}
