package core

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"landprice_service/internal/domain/model"
)

type amenityAggregator interface {
	Aggregate(ctx context.Context, origin model.LocationPoint, radiusMeters int) model.FeatureRecord
}

// Window is the inclusive range of year offsets predicted around today.
type Window struct {
	Start int
	End   int
}

// DefaultWindow covers four years back and one year ahead.
var DefaultWindow = Window{Start: -4, End: 1}

// DefaultAirQualityTimeout bounds the air quality lookup unless overridden.
const DefaultAirQualityTimeout = 5 * time.Second

// PredictionService turns one estimate request into a price series over the year window.
type PredictionService struct {
	aggregator amenityAggregator
	airQuality model.AirQualitySource
	predictor  model.Predictor
	landTypes  *LandTypeEncoder
	temporal   *TemporalEncoder
	builder    *FeatureVectorBuilder
	window     Window
	now        func() time.Time

	airQualityTimeout time.Duration
}

// NewPredictionService wires the encoders and clients. airQuality may be nil, in which case
// the air quality feature is always 0.
func NewPredictionService(
	aggregator amenityAggregator,
	airQuality model.AirQualitySource,
	predictor model.Predictor,
	landTypes *LandTypeEncoder,
	temporal *TemporalEncoder,
	builder *FeatureVectorBuilder,
	window Window,
) *PredictionService {
	return &PredictionService{
		aggregator: aggregator,
		airQuality: airQuality,
		predictor:  predictor,
		landTypes:  landTypes,
		temporal:   temporal,
		builder:    builder,
		window:     window,
		now:        time.Now,

		airQualityTimeout: DefaultAirQualityTimeout,
	}
}

// WithClock replaces the wall clock, used to pin "today".
func (s *PredictionService) WithClock(now func() time.Time) *PredictionService {
	s.now = now
	return s
}

// WithAirQualityTimeout bounds the air quality lookup. A lookup still running after d
// contributes 0.
func (s *PredictionService) WithAirQualityTimeout(d time.Duration) *PredictionService {
	if d > 0 {
		s.airQualityTimeout = d
	}
	return s
}

// Estimate validates the request, assembles the features once and predicts every year in the
// window. It fails as a whole: no partial series is returned.
func (s *PredictionService) Estimate(ctx context.Context, req model.EstimateRequest) (*model.PredictionResult, error) {
	origin, err := model.ParseLocation(req.Location)
	if err != nil {
		return nil, &ValidationError{Field: "location", Reason: err.Error(), Err: ErrInvalidLocation}
	}
	if req.RadiusMeters <= 0 {
		return nil, &ValidationError{Field: "radius", Reason: "must be a positive number of meters", Err: ErrInvalidRadius}
	}
	if strings.TrimSpace(req.LandType) == "" {
		return nil, &ValidationError{Field: "landType", Reason: "must not be empty", Err: ErrEmptyLandType}
	}
	if s.predictor == nil {
		return nil, eris.Wrap(ErrPredictorUnavailable, "core: no predictor configured")
	}

	requestID := uuid.NewString()
	log := zap.L().With(
		zap.String("component", "core.prediction"),
		zap.String("request_id", requestID),
		zap.String("location", origin.String()),
	)

	amenities, airQuality := s.collect(ctx, log, origin, req.RadiusMeters)

	today := s.now()
	base, err := s.builder.Build(FeatureInputs{
		Amenities:  amenities,
		LandType:   s.landTypes.Features(s.landTypes.Encode(req.LandType)),
		AirQuality: airQuality,
		Location:   origin,
		Temporal:   s.temporal.Features(today),
	})
	if err != nil {
		log.Error("feature vector does not match model schema", zap.Error(err))
		return nil, err
	}

	result := &model.PredictionResult{
		RequestID: requestID,
		PerYear:   make(map[int]model.YearPrediction, s.window.End-s.window.Start+1),
		Features:  s.builder.Snapshot(base),
	}

	for offset := s.window.Start; offset <= s.window.End; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "core: estimate cancelled")
		}

		date := today.AddDate(offset, 0, 0)
		vec := s.builder.Substitute(base, s.temporal.Features(date))

		p, err := s.predictor.Predict(ctx, vec)
		if err == nil && p == nil {
			err = eris.New("empty prediction")
		}
		if err != nil {
			log.Error("prediction failed", zap.Int("year", date.Year()), zap.Error(err))
			return nil, &PredictorError{Year: date.Year(), Err: err}
		}

		result.PerYear[date.Year()] = model.YearPrediction{
			Year:    date.Year(),
			Price:   p.Price,
			MinNext: p.MinNext,
			MaxNext: p.MaxNext,
		}
		if offset == 0 {
			result.CurrentPrice = p.Price
		}
	}

	log.Info("estimate complete",
		zap.Float64("price", result.CurrentPrice),
		zap.Int("years", len(result.PerYear)),
	)
	return result, nil
}

// collect runs the amenity aggregation and the air quality lookup side by side.
// Neither can fail the request.
func (s *PredictionService) collect(
	ctx context.Context,
	log *zap.Logger,
	origin model.LocationPoint,
	radiusMeters int,
) (model.FeatureRecord, float64) {
	var (
		amenities  model.FeatureRecord
		airQuality float64
	)

	var g errgroup.Group
	g.Go(func() error {
		amenities = s.aggregator.Aggregate(ctx, origin, radiusMeters)
		return nil
	})
	if s.airQuality != nil {
		g.Go(func() error {
			aqCtx, cancel := context.WithTimeout(ctx, s.airQualityTimeout)
			defer cancel()

			v, err := s.airQuality.AirQualityIndex(aqCtx, origin)
			if err != nil {
				log.Warn("air quality lookup failed, using 0", zap.Error(err))
				return nil
			}
			airQuality = v
			return nil
		})
	}
	_ = g.Wait()

	return amenities, airQuality
}
