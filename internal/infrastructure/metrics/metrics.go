package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the transfer flow.
type Metrics struct {
	// Flow metrics
	SessionsOpened     prometheus.Counter
	SessionsAbandoned  prometheus.Counter
	PreviewEntries     prometheus.Counter
	SubmissionAttempts *prometheus.CounterVec
	SubmissionDuration prometheus.Histogram
	TransferAmount     prometheus.Histogram

	// Step-up metrics
	OTPCodesSent     prometheus.Counter
	OTPVerifications *prometheus.CounterVec
	OTPExhausted     prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SessionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosend_sessions_opened_total",
			Help: "Total number of transfer sessions opened",
		}),
		SessionsAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosend_sessions_abandoned_total",
			Help: "Total number of transfer sessions abandoned",
		}),
		PreviewEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosend_preview_entries_total",
			Help: "Total number of drafts that passed the validation gate",
		}),
		SubmissionAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosend_submissions_total",
				Help: "Total number of transfer submissions by outcome",
			},
			[]string{"outcome"},
		),
		SubmissionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosend_submission_duration_seconds",
			Help:    "Duration of submission gateway calls",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosend_transfer_amount",
			Help:    "Submitted transfer amounts",
			Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000},
		}),
		OTPCodesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosend_otp_codes_sent_total",
			Help: "Total number of verification codes sent",
		}),
		OTPVerifications: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosend_otp_verifications_total",
				Help: "Total number of verification attempts by outcome",
			},
			[]string{"outcome"},
		),
		OTPExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gosend_otp_exhausted_total",
			Help: "Total number of sessions failed by exhausted verification attempts",
		}),
	}
}
