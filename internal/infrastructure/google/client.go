// Package google talks to the Google Maps Platform: Places Nearby Search, the Distance Matrix
// and the Air Quality API.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"landprice_service/internal/infrastructure/retry"
)

const (
	defaultMapsBaseURL       = "https://maps.googleapis.com/maps/api"
	defaultAirQualityBaseURL = "https://airquality.googleapis.com/v1"
)

// Client is safe for concurrent use. All requests share one rate limiter.
type Client struct {
	apiKey            string
	mapsBaseURL       string
	airQualityBaseURL string
	http              *http.Client
	limiter           *rate.Limiter
	retries           int
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the Maps API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.mapsBaseURL = u
	}
}

// WithAirQualityBaseURL overrides the Air Quality API base URL.
func WithAirQualityBaseURL(u string) Option {
	return func(c *Client) {
		c.airQualityBaseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outbound requests per second across all endpoints.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:            apiKey,
		mapsBaseURL:       defaultMapsBaseURL,
		airQualityBaseURL: defaultAirQualityBaseURL,
		http:              &http.Client{Timeout: 10 * time.Second},
		limiter:           rate.NewLimiter(rate.Inf, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// getJSON issues a GET against the Maps API and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.mapsBaseURL + path + "?" + params.Encode()

	return c.do(ctx, path, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	}, out)
}

// postJSON POSTs body to an absolute URL and decodes the response into out.
func (c *Client) postJSON(ctx context.Context, operation, reqURL string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "google: marshal request")
	}

	return c.do(ctx, operation, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, out)
}

func (c *Client) do(
	ctx context.Context,
	operation string,
	build func(ctx context.Context) (*http.Request, error),
	out any,
) error {
	body, err := retry.DoVal(ctx, retry.Attempts(c.retries, "google"+operation), func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "google: rate limit")
		}

		req, err := build(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "google: build request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "google: send request")
		}
		defer resp.Body.Close() //nolint:errcheck

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "google: read response")
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := eris.Errorf("google: unexpected status %d: %s", resp.StatusCode, string(respBody))
			if retry.IsTransientStatus(resp.StatusCode) {
				return nil, retry.Transient(statusErr, resp.StatusCode)
			}
			return nil, statusErr
		}
		return respBody, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "google: unmarshal response")
	}
	return nil
}
