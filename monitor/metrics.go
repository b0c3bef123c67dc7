package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RequestDuration of the http api by route
var RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "mlm",
	Subsystem: "api",
	Name:      "request_duration_seconds",
	Help:      "Duration of the http requests",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// LedgerOperations counts balance mutations by kind and result
var LedgerOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mlm",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Ledger operations",
}, []string{"kind", "direction", "result"})

// QuizSubmissions counts quiz submissions by outcome
var QuizSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mlm",
	Subsystem: "quiz",
	Name:      "submissions_total",
	Help:      "Quiz submissions",
}, []string{"result"})

// NotificationsSent counts stored notifications by type
var NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mlm",
	Subsystem: "notifications",
	Name:      "sent_total",
	Help:      "Notifications created",
}, []string{"type"})

// CronRuns counts cron executions
var CronRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "mlm",
	Subsystem: "crons",
	Name:      "runs_total",
	Help:      "Cron executions",
}, []string{"cron", "result"})

func init() {
	prometheus.MustRegister(RequestDuration, LedgerOperations, QuizSubmissions, NotificationsSent, CronRuns)
}
