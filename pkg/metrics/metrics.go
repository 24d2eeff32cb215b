// Package metrics exposes Prometheus counters for form submissions and
// outbound email dispatch. Dispatch failures are absorbed at the handler
// boundary, so these counters are the operator's primary signal.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total form submissions persisted, by form",
		},
		[]string{"form"},
	)

	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total failed emails",
		},
	)
)

// Init registers all collectors with the default registry.
func Init() {
	prometheus.MustRegister(SubmissionsTotal, EmailsSent, EmailFailures)
}

// Handler returns the /metrics endpoint handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
