package mlclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"

	"landprice_service/internal/domain/model"
)

// GetModelInfo fetches the served model's metadata, including its feature names.
func (c *HTTPMLClient) GetModelInfo(ctx context.Context) (*model.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.metadataURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "mlclient: create metadata request")
	}

	body, err := c.send(req)
	if err != nil {
		return nil, eris.Wrap(err, "mlclient: get metadata")
	}

	var info model.ModelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, eris.Wrap(err, "mlclient: decode metadata")
	}
	return &info, nil
}
