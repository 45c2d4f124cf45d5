// Package metrics provides Prometheus collectors describing a classifier run:
// dataset sizes, split sizes, stage latencies and the evaluation results.
//
// The pipeline is a one-shot command, so instead of serving an endpoint the
// collected values can be written to a node_exporter textfile.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a run.
type Metrics struct {
	registry prometheus.Gatherer

	// Data metrics
	RowsLoaded    prometheus.Gauge // Examples read from the dataset
	TrainExamples prometheus.Gauge // Examples in the training split
	TestExamples  prometheus.Gauge // Examples in the test split

	// Stage latencies
	StageDuration *prometheus.HistogramVec // Duration of each pipeline stage

	// Evaluation results
	Correct     prometheus.Gauge // Correct test predictions
	Incorrect   prometheus.Gauge // Incorrect test predictions
	Sensitivity prometheus.Gauge // True positive rate
	Specificity prometheus.Gauge // True negative rate

	// Run outcomes
	RunsTotal     prometheus.Counter // Completed runs
	FailuresTotal *prometheus.CounterVec
}

// New creates metrics on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates metrics on the given registry, which is also used
// when exporting to a textfile.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		RowsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_rows_loaded",
			Help: "Number of examples read from the dataset",
		}),
		TrainExamples: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_train_examples",
			Help: "Number of examples in the training split",
		}),
		TestExamples: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_test_examples",
			Help: "Number of examples in the test split",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopping_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"stage"}),
		Correct: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_predictions_correct",
			Help: "Number of correct predictions on the test split",
		}),
		Incorrect: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_predictions_incorrect",
			Help: "Number of incorrect predictions on the test split",
		}),
		Sensitivity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_sensitivity_ratio",
			Help: "True positive rate on the test split",
		}),
		Specificity: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shopping_specificity_ratio",
			Help: "True negative rate on the test split",
		}),
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "shopping_runs_total",
			Help: "Total number of completed runs",
		}),
		FailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shopping_run_failures_total",
			Help: "Total number of failed runs by stage",
		}, []string{"stage"}),
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// ObserveSplit records dataset and split sizes.
func (m *Metrics) ObserveSplit(rows, train, test int) {
	m.RowsLoaded.Set(float64(rows))
	m.TrainExamples.Set(float64(train))
	m.TestExamples.Set(float64(test))
}

// ObserveResult records the evaluation of a completed run.
func (m *Metrics) ObserveResult(correct, incorrect int, sensitivity, specificity float64) {
	m.Correct.Set(float64(correct))
	m.Incorrect.Set(float64(incorrect))
	m.Sensitivity.Set(sensitivity)
	m.Specificity.Set(specificity)
	m.RunsTotal.Inc()
}

// FailureInc counts a run that failed in the given stage.
func (m *Metrics) FailureInc(stage string) {
	m.FailuresTotal.WithLabelValues(stage).Inc()
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
