// Package loop drives named state machines at a fixed tick rate.
//
// A Loop holds machines in registration order and calls Process on each of
// them once per tick. Failures are collected into a Report and emitted on the
// Failures signal; machines that end up poisoned are discarded. When a
// snapshot store is configured, every machine is recorded after it runs.
//
// Tick can be called directly by a host that owns its own frame loop. Start,
// Stop and Run drive ticks from a background goroutine instead:
//
//	l := loop.New(loop.WithInterval(16 * time.Millisecond))
//	_ = l.Add("door", machine)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(l.Run(ctx))
//	_ = g.Wait()
package loop
