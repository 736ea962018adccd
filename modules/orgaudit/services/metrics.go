package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "orgaudit",
		Subsystem: "report",
		Name:      "entries",
		Help:      "Number of employees listed in the last built report, by section.",
	}, []string{"section"})

	reportUnavailable = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgaudit",
		Subsystem: "report",
		Name:      "unavailable_sections_total",
		Help:      "Total number of report sections that could not be computed, by section.",
	}, []string{"section"})
)

func recordSection(sec Section) {
	if !sec.Available {
		reportUnavailable.WithLabelValues(string(sec.Name)).Inc()
		reportEntries.WithLabelValues(string(sec.Name)).Set(0)
		return
	}
	reportEntries.WithLabelValues(string(sec.Name)).Set(float64(len(sec.Entries)))
}
