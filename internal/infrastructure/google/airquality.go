package google

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"

	"landprice_service/internal/domain/model"
)

type airQualityRequest struct {
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

type airQualityResponse struct {
	Indexes []struct {
		Code string  `json:"code"`
		AQI  float64 `json:"aqi"`
	} `json:"indexes"`
}

// AirQualityIndex returns the sum of every index the Air Quality API reports for location.
func (c *Client) AirQualityIndex(ctx context.Context, location model.LocationPoint) (float64, error) {
	var body airQualityRequest
	body.Location.Latitude = location.Latitude
	body.Location.Longitude = location.Longitude

	reqURL := c.airQualityBaseURL + "/currentConditions:lookup?" + url.Values{"key": {c.apiKey}}.Encode()

	var resp airQualityResponse
	if err := c.postJSON(ctx, "/currentConditions:lookup", reqURL, body, &resp); err != nil {
		return 0, eris.Wrap(err, "google: air quality lookup")
	}

	var sum float64
	for _, idx := range resp.Indexes {
		sum += idx.AQI
	}
	return sum, nil
}
