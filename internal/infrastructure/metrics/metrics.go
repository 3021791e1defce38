// Package metrics exposes the service's Prometheus counters and the /metrics handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shiksha"

var (
	SweepRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_runs_total",
		Help:      "Completed sweep runs by kind.",
	}, []string{"kind"})

	InstallmentsOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "installments_marked_overdue_total",
		Help:      "Installments moved to overdue by the overdue sweep.",
	})

	SweepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sweep_loan_failures_total",
		Help:      "Loans the sweep failed to process, by kind.",
	}, []string{"kind"})

	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_verifications_total",
		Help:      "Payment verification attempts by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notifications by kind and result (enqueued, sent, retried, dropped).",
	}, []string{"kind", "result"})

	RealtimeClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_clients",
		Help:      "Connected websocket subscribers.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
