// Package pipeline runs one evaluation of the purchase classifier: load the
// sessions, split them, fit a nearest-neighbour model on the training part
// and score its predictions on the test part.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"shopping/internal/cfg"
	"shopping/internal/dataset"
	"shopping/internal/evaluation"
	"shopping/internal/knn"
	"shopping/internal/metrics"
	"shopping/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Stage names used for metrics and error messages.
const (
	StageLoad     = "load"
	StageSplit    = "split"
	StageTrain    = "train"
	StagePredict  = "predict"
	StageEvaluate = "evaluate"
	StageRecord   = "record"
)

// Result is a completed run.
type Result struct {
	ID     uuid.UUID
	Seed   int64
	Train  int
	Test   int
	Report evaluation.Report
}

type options struct {
	fetcher    *dataset.Fetcher
	metrics    *metrics.Metrics
	store      *storage.Store
	classifier knn.Classifier
}

// Option customises a run.
type Option func(*options)

// WithFetcher sets the HTTP client used for remote sources.
func WithFetcher(f *dataset.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithMetrics records the run on m instead of a private set of collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStore records the run in s. It takes precedence over the data path
// in the settings, and the caller keeps ownership of s.
func WithStore(s *storage.Store) Option {
	return func(o *options) { o.store = s }
}

// WithClassifier replaces the classifier built from the settings.
func WithClassifier(c knn.Classifier) Option {
	return func(o *options) { o.classifier = c }
}

// Run evaluates the classifier on the dataset at source, a file path or an
// http(s) URL. A report is returned only if every stage succeeds.
func Run(ctx context.Context, source string, settings cfg.Settings, opts ...Option) (*Result, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = metrics.New()
	}
	if o.fetcher == nil {
		o.fetcher = dataset.NewFetcher(settings.FetchTimeout)
	}
	if settings.MetricsFile != "" {
		defer func() {
			if err := o.metrics.WriteTextfile(settings.MetricsFile); err != nil {
				log.Warn().Err(err).Str("file", settings.MetricsFile).Msg("Failed to write metrics")
			}
		}()
	}

	result, err := run(ctx, source, settings, &o)
	if err != nil {
		return nil, err
	}

	if err := record(source, settings, &o, result); err != nil {
		o.metrics.FailureInc(StageRecord)
		return nil, fmt.Errorf("%s: %w", StageRecord, err)
	}

	return result, nil
}

func run(ctx context.Context, source string, settings cfg.Settings, o *options) (*Result, error) {
	m := o.metrics
	fail := func(stage string, err error) (*Result, error) {
		m.FailureInc(stage)
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	timed := func(stage string, start time.Time) {
		m.ObserveStage(stage, time.Since(start).Seconds())
	}

	start := time.Now()
	ds, err := dataset.LoadSource(ctx, o.fetcher, source)
	if err != nil {
		return fail(StageLoad, err)
	}
	timed(StageLoad, start)

	if err := ctx.Err(); err != nil {
		return fail(StageSplit, err)
	}
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	start = time.Now()
	train, test, err := splitter(settings, seed).Split(ds)
	if err != nil {
		return fail(StageSplit, err)
	}
	timed(StageSplit, start)
	m.ObserveSplit(ds.Len(), train.Len(), test.Len())

	log.Info().
		Str("source", source).
		Int("rows", ds.Len()).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Int64("seed", seed).
		Bool("stratified", settings.Stratified).
		Msg("Dataset split")

	if err := ctx.Err(); err != nil {
		return fail(StageTrain, err)
	}
	model := o.classifier
	if model == nil {
		model, err = newClassifier(settings)
		if err != nil {
			return fail(StageTrain, err)
		}
	}
	start = time.Now()
	if err := model.Fit(train.Features(), train.Labels); err != nil {
		return fail(StageTrain, err)
	}
	timed(StageTrain, start)

	if err := ctx.Err(); err != nil {
		return fail(StagePredict, err)
	}
	start = time.Now()
	predictions, err := model.Predict(test.Features())
	if err != nil {
		return fail(StagePredict, err)
	}
	timed(StagePredict, start)

	start = time.Now()
	report, err := evaluation.NewReport(test.Labels, predictions)
	if err != nil {
		return fail(StageEvaluate, err)
	}
	timed(StageEvaluate, start)
	m.ObserveResult(report.Correct, report.Incorrect, report.Sensitivity, report.Specificity)

	log.Info().
		Int("correct", report.Correct).
		Int("incorrect", report.Incorrect).
		Float64("sensitivity", report.Sensitivity).
		Float64("specificity", report.Specificity).
		Msg("Evaluation complete")

	return &Result{
		ID:     uuid.New(),
		Seed:   seed,
		Train:  train.Len(),
		Test:   test.Len(),
		Report: report,
	}, nil
}

func splitter(settings cfg.Settings, seed int64) dataset.Splitter {
	if settings.Stratified {
		return dataset.NewStratifiedSplit(settings.TestSize, seed)
	}
	return dataset.NewRandomSplit(settings.TestSize, seed)
}

func newClassifier(settings cfg.Settings) (*knn.KNN, error) {
	dist, err := knn.DistanceFuncFor(settings.Metric)
	if err != nil {
		return nil, err
	}
	k := settings.Neighbors
	if k == 0 {
		k = 1
	}
	return knn.New(knn.WithK(k), knn.WithDistance(dist))
}

// record appends the run to the history when a store or data path is set.
func record(source string, settings cfg.Settings, o *options, result *Result) error {
	store := o.store
	if store == nil {
		if settings.DataPath == "" {
			return nil
		}
		if err := os.MkdirAll(settings.DataPath, 0o755); err != nil {
			return fmt.Errorf("create data path: %w", err)
		}
		s, err := storage.New(settings.DataPath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	run, err := store.RecordRun(storage.Run{
		ID:          result.ID,
		Source:      source,
		Seed:        result.Seed,
		TestSize:    settings.TestSize,
		Stratified:  settings.Stratified,
		Neighbors:   settings.Neighbors,
		Metric:      settings.Metric,
		Train:       result.Train,
		Test:        result.Test,
		Correct:     result.Report.Correct,
		Incorrect:   result.Report.Incorrect,
		Sensitivity: result.Report.Sensitivity,
		Specificity: result.Report.Specificity,
	})
	if err != nil {
		return err
	}

	log.Debug().Str("run_id", run.ID.String()).Msg("Run recorded")
	return nil
}
