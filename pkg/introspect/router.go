package introspect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/tickstate/pkg/logger"
	"github.com/dmitrymomot/tickstate/pkg/snapshot"
)

// Check is a readiness probe, for example (*redis.Store).Healthcheck.
type Check func(ctx context.Context) error

type routerConfig struct {
	gatherer prometheus.Gatherer
	checks   map[string]Check
	logger   *slog.Logger
}

// RouterOption configures NewRouter.
type RouterOption func(*routerConfig)

// WithGatherer serves /metrics from g. Without it /metrics is not mounted.
func WithGatherer(g prometheus.Gatherer) RouterOption {
	return func(c *routerConfig) { c.gatherer = g }
}

// WithCheck adds a named readiness check to /healthz.
func WithCheck(name string, check Check) RouterOption {
	return func(c *routerConfig) {
		if name != "" && check != nil {
			c.checks[name] = check
		}
	}
}

func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(c *routerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

type machineList struct {
	Machines []snapshot.Snapshot `json:"machines"`
}

type health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewRouter returns a read-only HTTP API over the snapshots in store:
//
//	GET /healthz          readiness checks
//	GET /metrics          Prometheus exposition (with WithGatherer)
//	GET /machines         every stored snapshot
//	GET /machines/{name}  one snapshot, 404 when missing
func NewRouter(store snapshot.Store, opts ...RouterOption) http.Handler {
	cfg := &routerConfig{
		checks: make(map[string]Check),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &handlers{store: store, checks: cfg.checks, logger: cfg.logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	if cfg.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/machines", func(r chi.Router) {
		r.Get("/", h.listMachines)
		r.Get("/{name}", h.getMachine)
	})

	return r
}

type handlers struct {
	store  snapshot.Store
	checks map[string]Check
	logger *slog.Logger
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	resp := health{Status: "ok"}
	status := http.StatusOK

	for name, check := range h.checks {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(h.checks))
		}
		if err := check(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "readiness check failed",
				logger.Component(name),
				logger.Error(err),
			)
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	h.writeJSON(w, r, status, resp)
}

func (h *handlers) listMachines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	names, err := h.store.List(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := machineList{Machines: make([]snapshot.Snapshot, 0, len(names))}
	for _, name := range names {
		snap, err := h.store.Load(ctx, name)
		if errors.Is(err, snapshot.ErrNotFound) {
			continue
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
		resp.Machines = append(resp.Machines, snap)
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

func (h *handlers) getMachine(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.Load(r.Context(), chi.URLParam(r, "name"))
	if errors.Is(err, snapshot.ErrNotFound) {
		http.Error(w, "machine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, snap)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "snapshot store request failed", logger.Error(err))
	http.Error(w, "snapshot store unavailable", http.StatusInternalServerError)
}

func (h *handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode response", logger.Error(err))
	}
}
