package google

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"

	"landprice_service/internal/domain/model"
)

type distanceMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// RouteDistance asks the Distance Matrix for the road distance between two points.
func (c *Client) RouteDistance(ctx context.Context, origin, destination model.LocationPoint) (*model.RouteDistance, error) {
	params := url.Values{
		"origins":      {origin.String()},
		"destinations": {destination.String()},
	}

	var resp distanceMatrixResponse
	if err := c.getJSON(ctx, "/distancematrix/json", params, &resp); err != nil {
		return nil, eris.Wrap(err, "google: distance matrix")
	}
	if resp.Status != "OK" {
		return nil, eris.Errorf("google: distance matrix: status %s %s", resp.Status, resp.ErrorMessage)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, eris.New("google: distance matrix: empty response")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return nil, eris.Errorf("google: distance matrix: element status %s", el.Status)
	}
	return &model.RouteDistance{Text: el.Distance.Text, Value: el.Distance.Value}, nil
}
