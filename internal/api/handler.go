// Package api exposes the estimator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"landprice_service/internal/core"
	"landprice_service/internal/domain/model"
)

// Estimator produces a multi-year price estimate for one location.
type Estimator interface {
	Estimate(ctx context.Context, req model.EstimateRequest) (*model.PredictionResult, error)
}

type Handler struct {
	service Estimator
}

func NewHandler(service Estimator) *Handler {
	return &Handler{service: service}
}

// PredictionRequest is the body of POST /predict.
type PredictionRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    int      `json:"radius"`
	LandType  string   `json:"landType"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "Land price estimation service"})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Predict answers with the current price, the feature snapshot under "Obj" and one entry per
// predicted year keyed by the year.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		respondError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}

	loc := model.LocationPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
	result, err := h.service.Estimate(r.Context(), model.EstimateRequest{
		Location:     loc.String(),
		LandType:     req.LandType,
		RadiusMeters: req.Radius,
	})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("estimate failed", zap.String("location", loc.String()), zap.Error(err))
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, buildResponse(result))
}

func buildResponse(result *model.PredictionResult) map[string]any {
	obj := make(map[string]string, len(result.Features))
	for k, v := range result.Features {
		obj[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	resp := map[string]any{
		"price":      result.CurrentPrice,
		"Obj":        obj,
		"request_id": result.RequestID,
	}
	for year, yp := range result.PerYear {
		resp[strconv.Itoa(year)] = yp
	}
	return resp
}

func statusFor(err error) int {
	var (
		validation *core.ValidationError
		schema     *core.SchemaMismatchError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &schema):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrPredictorUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Message: "Error: " + msg})
}
