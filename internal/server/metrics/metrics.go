// Package metrics exposes the server's Prometheus counters.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gate outcomes.
const (
	GateAllowed      = "allowed"
	GateMissingToken = "missing_token"
	GateInvalidToken = "invalid_token"
)

// Recorder is what the HTTP layer reports to. Collector is the only
// production implementation.
type Recorder interface {
	RecordGate(outcome string)
	RecordAuthAttempt(operation string, ok bool)
	RecordHTTPStatus(statusCode int)
}

type Collector struct {
	gate       *prometheus.CounterVec
	auth       *prometheus.CounterVec
	httpStatus *prometheus.CounterVec
}

// NewCollector creates the counters and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_gate_total",
			Help: "Requests seen by the auth gate, by outcome.",
		}, []string{"outcome"}),
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_auth_attempts_total",
			Help: "Signup, login and refresh attempts, by operation and result.",
		}, []string{"operation", "result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "authkeeper_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(c.gate, c.auth, c.httpStatus)
	return c
}

func (c *Collector) RecordGate(outcome string) {
	c.gate.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordAuthAttempt(operation string, ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	c.auth.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordGate(string)             {}
func (Nop) RecordAuthAttempt(string, bool) {}
func (Nop) RecordHTTPStatus(int)          {}
