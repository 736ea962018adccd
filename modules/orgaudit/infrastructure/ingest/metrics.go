package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgaudit",
		Subsystem: "ingest",
		Name:      "rows_total",
		Help:      "Total number of employee rows read, broken down by format and result.",
	}, []string{"format", "result"})

	ingestSourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgaudit",
		Subsystem: "ingest",
		Name:      "source_failures_total",
		Help:      "Total number of input sources that could not be read.",
	}, []string{"format"})
)

func recordRow(format Format, accepted bool) {
	result := "skipped"
	if accepted {
		result = "accepted"
	}
	ingestRows.WithLabelValues(string(format), result).Inc()
}

func recordSourceFailure(format Format) {
	ingestSourceFailures.WithLabelValues(string(format)).Inc()
}
