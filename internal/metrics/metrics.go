package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SubmissionsTotal     prometheus.Counter
	BookingsCreated      prometheus.Counter
	ValidationRejections prometheus.Counter
	HoneypotDiscards     prometheus.Counter
	EmailsSent           prometheus.Counter
	EmailFailures        prometheus.Counter
}

// New registers the booking counters with reg, or with the default
// registerer when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SubmissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_submissions_total",
			Help: "Total number of booking form submissions received",
		}),
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_records_created_total",
			Help: "Total number of booking records persisted",
		}),
		ValidationRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_validation_rejections_total",
			Help: "Total number of submissions rejected by validation",
		}),
		HoneypotDiscards: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_honeypot_discards_total",
			Help: "Total number of submissions silently discarded by the honeypot",
		}),
		EmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_emails_sent_total",
			Help: "Total number of notification emails sent",
		}),
		EmailFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_email_failures_total",
			Help: "Total number of notification emails that failed to send",
		}),
	}
}

// NewNop returns metrics backed by a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
