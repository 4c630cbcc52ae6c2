/*
 * @module service/etl/metrics
 * @description Prometheus instrumentation for pipeline runs
 * @architecture Observability layer - default registry, scraped via /metrics
 * @stateFlow Pipeline outcome -> counter/histogram updates
 * @rules Metrics are cumulative per process; run status is a label, not a gauge
 * @dependencies github.com/prometheus/client_golang
 * @refs service/etl/pipeline.go, main.go
 */

package etl

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	etlRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "etl_runs_total",
		Help: "Completed ETL runs by terminal status.",
	}, []string{"status"})

	etlRecordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_records_processed_total",
		Help: "Candidate records examined by the validator.",
	})

	etlRecordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_records_failed_total",
		Help: "Candidate records rejected by validation.",
	})

	etlRecordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_records_dropped_total",
		Help: "Raw records dropped before validation (unmapped cost type labels).",
	})

	etlRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "etl_run_duration_seconds",
		Help:    "Wall-clock duration of an ETL run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})
)

func observeRun(outcome *PipelineOutcome) {
	status := "failed"
	if outcome.Success {
		status = "success"
	}
	etlRunsTotal.WithLabelValues(status).Inc()
	etlRecordsProcessed.Add(float64(outcome.RecordsProcessed))
	etlRecordsFailed.Add(float64(outcome.RecordsFailed))
	etlRecordsDropped.Add(float64(outcome.RecordsDropped))
	etlRunDuration.Observe(outcome.DurationSeconds)
}
