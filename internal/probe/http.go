package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/types"
)

// HTTPClient wraps http.Client with the probe's base URL. Responses are
// requested gzip encoded, as the server compresses large datasets.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// getJSON performs a GET and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", ErrRequestFailed, path, resp.StatusCode, body)
	}
	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: decode: %w", ErrRequestFailed, path, err)
	}
	return nil
}

// Health checks that /healthz answers 200.
func (c *HTTPClient) Health(ctx context.Context) error {
	if err := c.getJSON(ctx, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}

// Options fetches the control choices.
func (c *HTTPClient) Options(ctx context.Context) (types.Options, error) {
	var opts types.Options
	err := c.getJSON(ctx, "/api/options", nil, &opts)
	return opts, err
}

// Datasets fetches the three datasets for one request.
func (c *HTTPClient) Datasets(ctx context.Context, r Request) (filter.Result, error) {
	var res filter.Result
	err := c.getJSON(ctx, "/api/datasets", r.Query(), &res)
	return res, err
}

// Query encodes the request as dashboard query parameters.
func (r Request) Query() url.Values {
	q := url.Values{}
	q.Set("season", r.Season)
	q.Set("gender", r.Gender)
	q.Set("year", r.Year)
	q.Set("threshold", strconv.Itoa(r.Threshold))
	for _, m := range r.Medals {
		q.Add("medal", m)
	}
	return q
}
