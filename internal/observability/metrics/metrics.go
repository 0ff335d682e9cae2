// Package metrics exposes the Prometheus collectors for authentication, sessions and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aula"

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics groups every collector the server registers.
type Metrics struct {
	Auth *Auth
	HTTP *HTTP
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Auth: newAuth(f),
		HTTP: newHTTP(f),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors installed.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
