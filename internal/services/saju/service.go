package saju

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"saju/internal/domain/chart"
	"saju/internal/metrics"
	"saju/pkg/errors"
	"saju/pkg/logger"
)

// DefaultConcurrency bounds batch fan-out when none is configured
const DefaultConcurrency = 8

// Service wraps the engine with report caching, metrics and logging
type Service struct {
	engine      *Engine
	cache       chart.ReportCache
	concurrency int
	log         *logger.Logger
}

// NewService creates a service. cache may be nil to disable caching.
func NewService(engine *Engine, cache chart.ReportCache, concurrency int, log *logger.Logger) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		engine:      engine,
		cache:       cache,
		concurrency: concurrency,
		log:         log.Named("saju"),
	}
}

// Compute returns the report for one birth, serving it from the cache when
// present. Cache failures are logged and never fail the computation.
func (s *Service) Compute(ctx context.Context, b chart.Birth) (*chart.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		metrics.RecordComputation(0, err)
		return nil, err
	}

	id := s.engine.ReportID(b)
	if cached := s.lookup(ctx, b, id); cached != nil {
		return cached, nil
	}

	start := time.Now()
	report, err := s.engine.ComputeChart(b)
	metrics.RecordComputation(time.Since(start), err)
	if err != nil {
		s.log.Errorw("Chart computation failed",
			"report_id", id,
			"error", err,
		)
		return nil, errors.Wrapf(err, "compute chart %s", id)
	}
	metrics.RecordReport(report)

	s.log.Debugw("Chart computed",
		"report_id", id,
		"day_master", report.Chart.DayMaster,
		"strength", report.Strength.Level,
		"yongshin", report.Yongshin.Primary,
		"decision", report.Yongshin.DecisionType,
		"duration", time.Since(start),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, report); err != nil {
			s.log.Warnw("Failed to cache report",
				"report_id", id,
				"error", err,
			)
		}
	}

	return report, nil
}

// lookup returns the cached report, or nil on a miss or cache failure
func (s *Service) lookup(ctx context.Context, b chart.Birth, id uuid.UUID) *chart.Report {
	if s.cache == nil {
		return nil
	}

	report, err := s.cache.Get(ctx, id)
	switch {
	case err == nil:
		metrics.RecordCacheLookup(metrics.CacheHit)
		s.log.Debugw("Report cache hit", "report_id", id)
		report.Input = b
		return report
	case errors.Is(err, errors.ErrCacheMiss):
		metrics.RecordCacheLookup(metrics.CacheMiss)
	default:
		metrics.RecordCacheLookup(metrics.CacheError)
		s.log.Warnw("Report cache lookup failed",
			"report_id", id,
			"error", err,
		)
	}
	return nil
}

// ComputeBatch computes independent births concurrently, bounded by the
// configured concurrency. Reports keep input order; a failed birth leaves a
// nil entry and its error, tagged with the birth index, is collected into
// the returned MultiError. Cancelling ctx stops outstanding work.
func (s *Service) ComputeBatch(ctx context.Context, births []chart.Birth) ([]*chart.Report, error) {
	metrics.RecordBatch(len(births))
	reports := make([]*chart.Report, len(births))
	failures := make([]error, len(births))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range births {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			report, err := s.Compute(gctx, births[i])
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = errors.Wrapf(err, "birth %d", i)
				return nil
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, errors.Wrap(err, "batch cancelled")
	}

	var errs errors.MultiError
	for _, err := range failures {
		errs.Add(err)
	}

	s.log.Infow("Batch computed",
		"births", len(births),
		"failed", len(errs.Errors),
	)

	return reports, errs.ToError()
}
