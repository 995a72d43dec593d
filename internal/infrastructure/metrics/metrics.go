// Package metrics expone los colectores Prometheus del backoffice.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tienda_backoffice"

var (
	// Registry registro propio de la aplicación (no el global).
	Registry = prometheus.NewRegistry()

	loginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Intentos de login por resultado.",
		},
		[]string{"outcome"},
	)

	accountLocks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "account_locks_total",
			Help:      "Cuentas bloqueadas por intentos fallidos.",
		},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Transiciones de estado de pedidos por destino y resultado.",
		},
		[]string{"to", "result"},
	)

	auditEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "events_total",
			Help:      "Eventos de auditoría por acción y resultado de escritura.",
		},
		[]string{"action", "result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Peticiones HTTP atendidas.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		loginAttempts,
		accountLocks,
		orderTransitions,
		auditEvents,
		httpRequests,
		httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler expone el registro en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordLogin cuenta un intento de login (success, invalid_credentials, locked, error).
func RecordLogin(outcome string) {
	loginAttempts.WithLabelValues(outcome).Inc()
}

// RecordAccountLock cuenta un bloqueo recién aplicado.
func RecordAccountLock() {
	accountLocks.Inc()
}

// RecordTransition cuenta una transición (ok, rejected, conflict, error).
func RecordTransition(to, result string) {
	orderTransitions.WithLabelValues(to, result).Inc()
}

// RecordAudit cuenta una escritura de auditoría.
func RecordAudit(action string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	auditEvents.WithLabelValues(action, result).Inc()
}

// ObserveHTTP registra una petición terminada. route es el patrón, no la ruta concreta.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
