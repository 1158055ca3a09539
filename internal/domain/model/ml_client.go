package model

import "context"

// Predictor wraps the trained regression model.
type Predictor interface {
	Predict(ctx context.Context, vector FeatureVector) (*Prediction, error)
}

// Prediction is the model output for one temporal context.
type Prediction struct {
	Price   float64 `json:"price"`
	MinNext float64 `json:"min_next"`
	MaxNext float64 `json:"max_next"`
}

// ModelInfo describes the model currently served by the ML service.
type ModelInfo struct {
	Name         string   `json:"name"`
	TrainYear    string   `json:"train_year"`
	FeatureNames []string `json:"feature_names"`
	Metrics      struct {
		MSE  float64 `json:"mse"`
		RMSE float64 `json:"rmse"`
		R2   float64 `json:"r2"`
	} `json:"metrics"`
}
