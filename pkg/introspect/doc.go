// Package introspect exposes running state machines over HTTP.
//
// NewRouter builds a chi router that serves health checks, Prometheus
// metrics and the machine snapshots recorded by a loop:
//
//	store := snapshot.NewMemoryStore()
//	l := loop.New(loop.WithRecorder(store))
//
//	h := introspect.NewRouter(store,
//	    introspect.WithGatherer(prometheus.DefaultGatherer),
//	    introspect.WithCheck("redis", redisStore.Healthcheck),
//	)
//	g.Go(func() error { return introspect.Serve(ctx, ":9090", h) })
//
// Server follows the usual graceful shutdown pattern: Run blocks until the
// context is cancelled and then drains in-flight requests.
package introspect
