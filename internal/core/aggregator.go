package core

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"landprice_service/internal/domain/model"
)

type categoryResolver interface {
	Resolve(ctx context.Context, origin model.LocationPoint, radiusMeters int, category model.AmenityCategory) model.CategoryResult
}

// AggregatorConfig bounds one aggregation run.
type AggregatorConfig struct {
	MaxConcurrency int
	CallTimeout    time.Duration
	Deadline       time.Duration
}

// FeatureAggregator fans out one resolve task per amenity category and merges the results.
type FeatureAggregator struct {
	resolver   categoryResolver
	categories []model.AmenityCategory
	cfg        AggregatorConfig
}

func NewFeatureAggregator(resolver categoryResolver, categories []model.AmenityCategory, cfg AggregatorConfig) *FeatureAggregator {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = len(categories)
	}
	return &FeatureAggregator{
		resolver:   resolver,
		categories: categories,
		cfg:        cfg,
	}
}

// Aggregate returns a record with a count and distance entry for every category.
// It blocks until every task finished. A call that runs out of time degrades the way the
// resolver degrades a failed lookup; a task not started before the deadline reports zeros.
func (a *FeatureAggregator) Aggregate(ctx context.Context, origin model.LocationPoint, radiusMeters int) model.FeatureRecord {
	log := zap.L().With(zap.String("component", "core.aggregator"))
	start := time.Now()

	if a.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Deadline)
		defer cancel()
	}

	// Each task owns its slot; results are read only after Wait.
	results := make([]model.CategoryResult, len(a.categories))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxConcurrency)

	for i, category := range a.categories {
		g.Go(func() error {
			results[i] = model.CategoryResult{Category: category}

			if err := gctx.Err(); err != nil {
				log.Warn("aggregation deadline reached before lookup",
					zap.String("category", category.ID), zap.Error(err))
				return nil
			}

			callCtx := gctx
			if a.cfg.CallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, a.cfg.CallTimeout)
				defer cancel()
			}

			res := a.resolver.Resolve(callCtx, origin, radiusMeters, category)
			res.Category = category
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	record := MergeResults(results)
	log.Info("amenity aggregation complete",
		zap.Int("categories", len(a.categories)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return record
}

// MergeResults folds category results into a feature record. The merge is keyed by the
// category's feature keys, so the input order does not affect the output.
func MergeResults(results []model.CategoryResult) model.FeatureRecord {
	record := make(model.FeatureRecord, 2*len(results))
	for _, r := range results {
		record[r.Category.CountKey] = float64(r.Count)
		record[r.Category.DistanceKey] = r.NearestDistanceMeters
	}
	return record
}
