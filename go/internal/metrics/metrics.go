package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_commands_total",
			Help: "Total façade commands processed",
		},
		[]string{"command", "result"}, // result: ok|error
	)

	RunsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "arena_runs_started_total",
			Help: "Total runs started in arena slots",
		},
	)

	ReviewDispositionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arena_review_dispositions_total",
			Help: "Review dispositions applied",
		},
		[]string{"outcome"}, // SUCCESS|FAILURE|CANCELED
	)

	QueueLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_waiting_queue_length",
			Help: "Teams currently in the waiting queue",
		},
	)

	BusySlots = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "arena_busy_slots",
			Help: "Slots currently holding a run",
		},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(RunsStartedTotal)
	prometheus.MustRegister(ReviewDispositionsTotal)
	prometheus.MustRegister(QueueLength)
	prometheus.MustRegister(BusySlots)
}

// ObserveCommand records one command invocation and its result.
func ObserveCommand(command string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CommandsTotal.WithLabelValues(command, result).Inc()
}

func Register(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
