// Package mlclient calls the HTTP model server that hosts the trained regression model.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"landprice_service/internal/domain/model"
	"landprice_service/internal/infrastructure/retry"
)

type HTTPMLClient struct {
	endpoint    string
	metadataURL string
	client      *http.Client
	retries     int
}

// NewHTTPMLClient builds a client for endpoint. An empty metadataURL is derived from the
// endpoint by replacing a trailing /predict with /metadata.
func NewHTTPMLClient(endpoint, metadataURL string, timeout time.Duration, retries int) *HTTPMLClient {
	if metadataURL == "" {
		metadataURL = strings.TrimSuffix(strings.TrimSuffix(endpoint, "/"), "/predict") + "/metadata"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPMLClient{
		endpoint:    endpoint,
		metadataURL: metadataURL,
		client: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
	}
}

type predictRequest struct {
	Instances [][]float64 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

// Predict sends one feature vector and expects [price, min_next, max_next] back.
func (c *HTTPMLClient) Predict(ctx context.Context, vector model.FeatureVector) (*model.Prediction, error) {
	body, err := json.Marshal(predictRequest{Instances: [][]float64{vector}})
	if err != nil {
		return nil, eris.Wrap(err, "mlclient: marshal request")
	}

	respBody, err := retry.DoVal(ctx, retry.Attempts(c.retries, "mlclient.predict"), func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, eris.Wrap(err, "mlclient: create request")
		}
		req.Header.Set("Content-Type", "application/json")
		return c.send(req)
	})
	if err != nil {
		return nil, err
	}

	var resp predictResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, eris.Wrap(err, "mlclient: decode response")
	}
	if len(resp.Predictions) != 1 {
		return nil, eris.Errorf("mlclient: expected 1 prediction, got %d", len(resp.Predictions))
	}
	values := resp.Predictions[0]
	if len(values) != 3 {
		return nil, eris.Errorf("mlclient: expected 3 output values, got %d", len(values))
	}

	return &model.Prediction{
		Price:   values[0],
		MinNext: values[1],
		MaxNext: values[2],
	}, nil
}

func (c *HTTPMLClient) send(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "mlclient: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "mlclient: read response")
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("mlclient: model server returned status %d", resp.StatusCode)
		if retry.IsTransientStatus(resp.StatusCode) {
			return nil, retry.Transient(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}
	return body, nil
}
