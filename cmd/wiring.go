package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"landprice_service/internal/artifacts"
	"landprice_service/internal/config"
	"landprice_service/internal/core"
	"landprice_service/internal/domain/model"
	"landprice_service/internal/domain/repository"
	"landprice_service/internal/infrastructure/google"
	"landprice_service/internal/infrastructure/mlclient"
)

// environment holds everything built from config for one process.
type environment struct {
	Artifacts *artifacts.Artifacts
	Predictor *mlclient.HTTPMLClient
	Service   *core.PredictionService
	closers   []func() error
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			zap.L().Warn("close resource", zap.Error(err))
		}
	}
}

func initEnvironment(ctx context.Context, cfg *config.Config) (*environment, error) {
	arts, err := artifacts.Load(cfg.Artifacts)
	if err != nil {
		return nil, err
	}

	env := &environment{Artifacts: arts}

	gc := google.NewClient(cfg.Google.APIKey,
		google.WithBaseURL(cfg.Google.MapsBaseURL),
		google.WithAirQualityBaseURL(cfg.Google.AirQualityBaseURL),
		google.WithRateLimit(cfg.Google.RequestsPerSecond),
		google.WithRetries(cfg.Google.Retries),
		google.WithTimeout(cfg.Google.Timeout),
	)

	places, err := buildPlaceLookup(ctx, cfg, gc, env)
	if err != nil {
		env.Close()
		return nil, err
	}

	var (
		router     model.DistanceRouter
		airQuality model.AirQualitySource
	)
	if cfg.Google.APIKey != "" {
		router = gc
		if cfg.Google.AirQuality {
			airQuality = gc
		}
	} else {
		zap.L().Warn("google.api_key not set: routed distances and air quality default to 0")
	}

	aggregator := core.NewFeatureAggregator(
		core.NewDistanceResolver(places, router),
		arts.Categories(),
		core.AggregatorConfig{
			MaxConcurrency: cfg.Aggregation.MaxConcurrency,
			CallTimeout:    cfg.Aggregation.CallTimeout,
			Deadline:       cfg.Aggregation.Deadline,
		},
	)

	env.Predictor = mlclient.NewHTTPMLClient(
		cfg.Predictor.Endpoint,
		cfg.Predictor.MetadataURL,
		cfg.Predictor.Timeout,
		cfg.Predictor.Retries,
	)

	env.Service = core.NewPredictionService(
		aggregator,
		airQuality,
		env.Predictor,
		core.NewLandTypeEncoder(arts.LandTypes()),
		core.NewTemporalEncoder(arts.Epoch()),
		core.NewFeatureVectorBuilder(arts.Columns()),
		core.Window{Start: cfg.Prediction.WindowStart, End: cfg.Prediction.WindowEnd},
	).WithAirQualityTimeout(cfg.Aggregation.CallTimeout)

	zap.L().Info("environment ready",
		zap.String("places_provider", cfg.Places.Provider),
		zap.Int("categories", len(arts.Categories())),
		zap.Int("columns", len(arts.Columns())),
	)
	return env, nil
}

// buildPlaceLookup selects the configured backend and wraps it in the TTL cache.
func buildPlaceLookup(ctx context.Context, cfg *config.Config, gc *google.Client, env *environment) (model.PlaceLookup, error) {
	var lookup model.PlaceLookup

	switch cfg.Places.Provider {
	case "google":
		lookup = gc
	case "overpass":
		lookup = repository.NewOverpassPlaceLookup(cfg.Overpass.Endpoint, cfg.Overpass.MaxParallel, cfg.Overpass.Timeout)
	case "postgis":
		db, err := repository.OpenPostGIS(ctx, cfg.PostGIS.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.closers = append(env.closers, db.Close)

		pg, err := repository.NewPostGISPlaceLookup(db, cfg.PostGIS.Table)
		if err != nil {
			return nil, err
		}
		lookup = pg
	default:
		return nil, eris.Errorf("unknown places provider %q", cfg.Places.Provider)
	}

	if cfg.Places.CacheTTL > 0 {
		cached := repository.NewCachedPlaceLookup(lookup, cfg.Places.CacheTTL)
		go cached.Run(ctx, cfg.Places.CacheTTL)
		lookup = cached
	}
	return lookup, nil
}

// checkModelSchema compares the artifact columns with the model server's feature names.
func checkModelSchema(ctx context.Context, env *environment) error {
	info, err := env.Predictor.GetModelInfo(ctx)
	if err != nil {
		return eris.Wrap(err, "fetch model metadata")
	}
	return core.CheckModelSchema(env.Artifacts.Columns(), info.FeatureNames)
}
