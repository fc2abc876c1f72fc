package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"techkpi/internal/config"
	"techkpi/internal/dataprocessing"
	"techkpi/internal/infrastructure"
	"techkpi/internal/kpi"
	"techkpi/pkg/contracts/domain"
)

// Processing modes
const (
	ModeUpload = "upload"
	ModeDemo   = "demo"
)

// Processing outcomes recorded in metrics
const (
	OutcomeSuccess      = "success"
	OutcomeNoData       = "no_data"
	OutcomeMissingInput = "missing_input"
	OutcomeParseError   = "parse_error"
	OutcomeError        = "error"
)

// ProcessRequest is one processing action
type ProcessRequest struct {
	Range   domain.DateRange
	Demo    bool
	Sources map[domain.TableName]dataprocessing.Source
}

// KPIService runs processing actions and holds the most recent result.
// A new result replaces the previous one; results are never merged.
type KPIService struct {
	loader     *dataprocessing.Loader
	sample     dataprocessing.SampleGenerator
	aggregator *kpi.Aggregator
	metrics    *infrastructure.KPIMetrics
	tracer     trace.Tracer
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.RWMutex
	current *kpi.Result
}

// NewKPIService creates the service from the reports configuration.
// metrics may be nil.
func NewKPIService(cfg config.ReportsConfig, metrics *infrastructure.KPIMetrics, logger *slog.Logger) (*KPIService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	mode, err := kpi.ParseMatchMode(cfg.ServiceMatch)
	if err != nil {
		return nil, err
	}
	sampleStart, err := cfg.SampleStartDate()
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("service", "kpi"))
	logger.Info("KPIService initialized",
		slog.String("service_match", string(mode)),
		slog.Int64("sample_seed", cfg.SampleSeed))

	return &KPIService{
		loader: dataprocessing.NewLoader(logger, cfg.HeaderScanRows),
		sample: dataprocessing.SampleGenerator{Seed: cfg.SampleSeed, Start: sampleStart},
		aggregator: kpi.NewAggregator(logger, kpi.Options{
			MatchMode:  mode,
			Thresholds: kpi.ThresholdsFromConfig(cfg.Thresholds),
		}),
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Process loads the reports (or the demo data), filters them to the range
// and aggregates them. An empty range returns ErrNoData and keeps the
// previous result.
func (s *KPIService) Process(ctx context.Context, req ProcessRequest) (*kpi.Result, error) {
	mode := ModeUpload
	if req.Demo {
		mode = ModeDemo
	}
	req.Range = s.ResolveRange(req.Range)
	ctx = infrastructure.EnsureTraceID(ctx)

	ctx, span := s.tracer.Start(ctx, "kpi.process", trace.WithAttributes(
		attribute.String("kpi.mode", mode),
		attribute.String("kpi.range", req.Range.Label()),
	))
	defer span.End()

	start := time.Now()
	result, err := s.process(ctx, mode, req)
	outcome := outcomeOf(err)
	s.metrics.RecordProcessing(ctx, mode, outcome, time.Since(start))

	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "processing complete",
			slog.String("mode", mode),
			slog.String("range", req.Range.Label()),
			slog.Int("technicians", result.Len()),
			slog.Int("issues", len(result.Issues())),
			slog.Duration("duration", time.Since(start)))
	case errors.Is(err, ErrNoData):
		s.logger.InfoContext(ctx, "no data for range",
			slog.String("mode", mode),
			slog.String("range", req.Range.Label()))
	default:
		infrastructure.RecordError(ctx, err)
		infrastructure.WithError(s.logger, err).WarnContext(ctx, "processing failed",
			slog.String("mode", mode),
			slog.String("outcome", outcome))
	}
	return result, err
}

// ResolveRange returns rng, or the current Monday to Sunday week when rng is zero
func (s *KPIService) ResolveRange(rng domain.DateRange) domain.DateRange {
	if rng.Start.IsZero() && rng.End.IsZero() {
		return domain.CurrentWeek(s.now())
	}
	return rng
}

func (s *KPIService) process(ctx context.Context, mode string, req ProcessRequest) (*kpi.Result, error) {
	var (
		loaded *dataprocessing.LoadResult
		err    error
	)
	if req.Demo {
		loaded = s.sample.Load()
	} else {
		loaded, err = s.loader.Load(ctx, req.Sources)
		if err != nil {
			return nil, err
		}
	}

	for table, n := range loaded.Tables.Counts() {
		s.metrics.RecordRows(ctx, string(table), n, loaded.IssueCount(table))
	}

	filtered, stats := dataprocessing.FilterTables(loaded.Tables, req.Range)
	s.logger.DebugContext(ctx, "tables filtered",
		slog.String("range", req.Range.Label()),
		slog.Any("kept", stats.Kept),
		slog.Any("dropped", stats.Dropped))

	result := s.aggregator.Aggregate(ctx, kpi.Input{
		Tables: filtered,
		Range:  req.Range,
		Issues: loaded.Issues,
		Source: mode,
	})
	if result.Empty() {
		return nil, ErrNoData
	}

	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	s.metrics.RecordTechnicians(ctx, result.Len())
	return result, nil
}

func outcomeOf(err error) string {
	var (
		missing  *dataprocessing.MissingInputError
		parseErr *dataprocessing.ParseError
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNoData):
		return OutcomeNoData
	case errors.As(err, &missing):
		return OutcomeMissingInput
	case errors.As(err, &parseErr):
		return OutcomeParseError
	}
	return OutcomeError
}

// Current returns the most recent result
func (s *KPIService) Current() (*kpi.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, ErrNoResult
	}
	return s.current, nil
}

// HasResult reports whether a result is held
func (s *KPIService) HasResult() bool {
	_, err := s.Current()
	return err == nil
}

// Technician returns one technician's KPIs from the current result
func (s *KPIService) Technician(name string) (kpi.TechnicianKPIs, error) {
	result, err := s.Current()
	if err != nil {
		return kpi.TechnicianKPIs{}, err
	}
	card, ok := result.Technician(name)
	if !ok {
		return kpi.TechnicianKPIs{}, fmt.Errorf("%w: %q", ErrTechnicianNotFound, name)
	}
	return card, nil
}
