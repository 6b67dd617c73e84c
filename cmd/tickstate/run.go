package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/tickstate/pkg/introspect"
	"github.com/dmitrymomot/tickstate/pkg/logger"
	"github.com/dmitrymomot/tickstate/pkg/loop"
	"github.com/dmitrymomot/tickstate/pkg/metrics"
	"github.com/dmitrymomot/tickstate/pkg/redis"
	"github.com/dmitrymomot/tickstate/pkg/scenario"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
	"github.com/dmitrymomot/tickstate/pkg/statemachine"
)

type runOptions struct {
	ticks          uint64
	interval       time.Duration
	listen         string
	redisURL       string
	keepPoisoned   bool
	poisonOnAnyErr bool
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a scenario on the tick loop",
		Long: `Compiles the scenario into a state machine and drives it until the tick
limit is reached, the machine is poisoned or the process is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("interval") {
				opts.interval = a.cfg.TickInterval
			}
			if !flags.Changed("listen") {
				opts.listen = a.cfg.Listen
			}
			if !flags.Changed("redis-url") && a.cfg.RedisEnabled {
				opts.redisURL = a.cfg.Redis.ConnectionURL
			}
			if !flags.Changed("ticks") {
				opts.ticks = a.cfg.Ticks
			}
			return runScenario(cmd.Context(), a, args[0], opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&opts.ticks, "ticks", 0, "stop after this many ticks; 0 uses the scenario value (env TICKSTATE_TICKS)")
	flags.DurationVar(&opts.interval, "interval", loop.DefaultInterval, "time between ticks (env TICKSTATE_TICK_INTERVAL)")
	flags.StringVar(&opts.listen, "listen", "", "serve health, metrics and snapshots on this address (env TICKSTATE_LISTEN)")
	flags.StringVar(&opts.redisURL, "redis-url", "", "store snapshots in Redis instead of memory")
	flags.BoolVar(&opts.keepPoisoned, "keep-poisoned", false, "keep ticking a poisoned machine instead of discarding it")
	flags.BoolVar(&opts.poisonOnAnyErr, "poison-on-any-error", false, "poison the machine when a process handler fails")

	return cmd
}

func runScenario(ctx context.Context, a *app, path string, opts *runOptions, out io.Writer) error {
	log := a.logger

	s, err := scenario.LoadFile(path)
	if err != nil {
		return err
	}

	var machineOpts []statemachine.Option[string]
	if opts.poisonOnAnyErr {
		machineOpts = append(machineOpts, statemachine.WithProcessErrorPolicy[string](statemachine.PoisonOnAnyError))
	}
	m, schedule, err := scenario.Compile(s, log, machineOpts...)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, a, opts.redisURL)
	if err != nil {
		return err
	}
	defer store.close()

	ticks := opts.ticks
	if ticks == 0 {
		ticks = s.Ticks
	}

	loopOpts := []loop.Option{
		loop.WithInterval(opts.interval),
		loop.WithLogger(log),
		loop.WithRecorder(store.Store),
		loop.WithTickLimit(ticks),
	}
	if opts.keepPoisoned {
		loopOpts = append(loopOpts, loop.WithKeepPoisoned())
	}
	l := loop.New(loopOpts...)

	driver := scenario.NewDriver(m, schedule)
	if err := l.Add(s.Name, driver); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	mx := metrics.New("tickstate")
	if err := mx.Register(reg); err != nil {
		return err
	}
	observers := metrics.ObserveMachine(mx, m)
	defer observers.Close()
	loopObservers := mx.ObserveLoop(l)
	defer loopObservers.Close()

	transitions := m.Transitions().Bind(func(tr statemachine.Transition[string]) {
		fmt.Fprintf(out, "tick %d: %s -> %s\n", driver.Tick(), tr.From, tr.To)
	})
	defer transitions.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Stop the whole run once nothing is left to drive.
	emptied := l.Ticks().Bind(func(r loop.Report) {
		if len(r.Discarded) > 0 && l.Len() == 0 {
			cancel()
		}
	})
	defer emptied.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return l.Run(gctx)()
	})

	if opts.listen != "" {
		routerOpts := []introspect.RouterOption{
			introspect.WithGatherer(reg),
			introspect.WithRouterLogger(log),
		}
		if store.check != nil {
			routerOpts = append(routerOpts, introspect.WithCheck("redis", store.check))
		}
		router := introspect.NewRouter(store.Store, routerOpts...)
		g.Go(func() error {
			return introspect.Serve(gctx, opts.listen, router, introspect.WithLogger(log))
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	snap := m.Snapshot()
	if snap.Poisoned {
		fmt.Fprintf(out, "%s poisoned after %d ticks: %s\n", s.Name, driver.Tick(), snap.Error)
		return nil
	}
	fmt.Fprintf(out, "%s finished in state %s after %d ticks (%d transitions)\n",
		s.Name, snap.State, driver.Tick(), snap.Transitions)

	log.DebugContext(ctx, "scenario finished", logger.Machine(s.Name), logger.State(snap.State))
	return nil
}

// snapshotStore is the store selected for a run plus its readiness probe.
type snapshotStore struct {
	snapshot.Store
	check introspect.Check
	close func()
}

func openStore(ctx context.Context, a *app, url string) (*snapshotStore, error) {
	if url == "" {
		return &snapshotStore{Store: snapshot.NewMemoryStore(), close: func() {}}, nil
	}

	cfg := a.cfg.Redis
	cfg.ConnectionURL = url
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := redis.NewStore(client,
		redis.WithPrefix(cfg.KeyPrefix),
		redis.WithTTL(cfg.SnapshotTTL),
	)
	return &snapshotStore{
		Store: store,
		check: store.Healthcheck,
		close: func() { _ = client.Close() },
	}, nil
}
