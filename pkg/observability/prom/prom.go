// Package prom implements the observability hooks on a Prometheus registry.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/waypoint/pkg/observability"
)

const namespace = "waypoint"

var (
	_ observability.NavigationHooks = (*Hooks)(nil)
	_ observability.StoreHooks      = (*Hooks)(nil)
)

// Hooks records navigation and store events as Prometheus metrics.
type Hooks struct {
	registry *prometheus.Registry

	dispatches        *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	unhandled         *prometheus.CounterVec
	rehydrations      *prometheus.CounterVec
	transactionErrors prometheus.Counter

	storeLoads  *prometheus.CounterVec
	storeSaves  *prometheus.CounterVec
	storeBytes  *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

// New creates hooks backed by a fresh registry.
func New() *Hooks {
	h := &Hooks{
		registry: prometheus.NewRegistry(),

		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Total number of dispatched actions",
			},
			[]string{"action", "router", "handled"},
		),
		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dispatch_duration_seconds",
				Help:      "Time spent resolving and applying an action",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
			[]string{"action"},
		),
		unhandled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unhandled_actions_total",
				Help:      "Total number of actions no navigator handled",
			},
			[]string{"action"},
		),
		rehydrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rehydrations_total",
				Help:      "Total number of navigators mounted from partial state",
			},
			[]string{"router", "recovered"},
		),
		transactionErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_conflicts_total",
				Help:      "Total number of transactions refused because another was active",
			},
		),

		storeLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "loads_total",
				Help:      "Total number of partial-state loads",
			},
			[]string{"backend", "result"},
		),
		storeSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "saves_total",
				Help:      "Total number of partial-state saves",
			},
			[]string{"backend"},
		),
		storeBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "saved_bytes_total",
				Help:      "Total bytes of partial state written",
			},
			[]string{"backend"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Total number of failed store operations",
			},
			[]string{"backend", "operation"},
		),
	}

	h.registry.MustRegister(
		h.dispatches,
		h.dispatchDuration,
		h.unhandled,
		h.rehydrations,
		h.transactionErrors,
		h.storeLoads,
		h.storeSaves,
		h.storeBytes,
		h.storeErrors,
	)
	return h
}

// Registry returns the underlying registry.
func (h *Hooks) Registry() *prometheus.Registry { return h.registry }

// Handler returns an HTTP handler for the metrics endpoint.
func (h *Hooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Navigation Metrics

// OnDispatch implements observability.NavigationHooks.
func (h *Hooks) OnDispatch(_ context.Context, actionType, routerType string, handled bool, duration time.Duration) {
	h.dispatches.WithLabelValues(actionType, routerType, strconv.FormatBool(handled)).Inc()
	h.dispatchDuration.WithLabelValues(actionType).Observe(duration.Seconds())
}

// OnUnhandled implements observability.NavigationHooks.
func (h *Hooks) OnUnhandled(_ context.Context, actionType string) {
	h.unhandled.WithLabelValues(actionType).Inc()
}

// OnRehydrate implements observability.NavigationHooks.
func (h *Hooks) OnRehydrate(_ context.Context, routerType string, recovered bool) {
	h.rehydrations.WithLabelValues(routerType, strconv.FormatBool(recovered)).Inc()
}

// OnTransactionConflict implements observability.NavigationHooks.
func (h *Hooks) OnTransactionConflict(context.Context) {
	h.transactionErrors.Inc()
}

// Store Metrics

// OnLoad implements observability.StoreHooks.
func (h *Hooks) OnLoad(_ context.Context, backend string, hit bool, err error) {
	result := "miss"
	switch {
	case err != nil:
		result = "error"
		h.storeErrors.WithLabelValues(backend, "load").Inc()
	case hit:
		result = "hit"
	}
	h.storeLoads.WithLabelValues(backend, result).Inc()
}

// OnSave implements observability.StoreHooks.
func (h *Hooks) OnSave(_ context.Context, backend string, size int, err error) {
	if err != nil {
		h.storeErrors.WithLabelValues(backend, "save").Inc()
		return
	}
	h.storeSaves.WithLabelValues(backend).Inc()
	h.storeBytes.WithLabelValues(backend).Add(float64(size))
}
