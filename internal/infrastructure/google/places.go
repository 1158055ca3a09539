package google

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"

	"landprice_service/internal/domain/model"
)

type nearbySearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// NearbyPlaces runs a Nearby Search for the category's place type.
func (c *Client) NearbyPlaces(
	ctx context.Context,
	origin model.LocationPoint,
	radiusMeters int,
	category model.AmenityCategory,
) ([]model.Place, error) {
	params := url.Values{
		"location": {origin.String()},
		"radius":   {strconv.Itoa(radiusMeters)},
		"type":     {category.PlaceType},
	}

	var resp nearbySearchResponse
	if err := c.getJSON(ctx, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, eris.Wrapf(err, "google: nearby search %s", category.ID)
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []model.Place{}, nil
	default:
		return nil, eris.Errorf("google: nearby search %s: status %s %s", category.ID, resp.Status, resp.ErrorMessage)
	}

	places := make([]model.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, model.Place{Location: model.LocationPoint{
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
		}})
	}
	return places, nil
}
