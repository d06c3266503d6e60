// Package metrics defines the Prometheus instrumentation of the auth
// endpoints, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegisterTotal counts registration attempts by result
	// (success, validation_error, conflict, error).
	RegisterTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_register_total",
		Help: "Registration attempts by result.",
	}, []string{"result"})

	// LoginTotal counts login attempts by result
	// (success, bad_request, invalid_credentials, error).
	LoginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)
