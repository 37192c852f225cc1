// internal/common/httpclient/client.go

// Package httpclient is the single network primitive for dataset
// acquisition: one outbound request, one hard deadline.
package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sales-assistant/internal/common/errors"
)

type Client struct {
	httpClient *http.Client
}

// New builds a fetcher without a client-level timeout: every call carries
// its own context deadline instead, so one slow dataset never shortens the
// budget of another.
func New() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// FetchJSON performs a GET against url bounded by timeout and returns the
// raw body. The deadline timer is always released; a budget overrun comes
// back as FETCH_TIMEOUT and everything else as FETCH_FAILURE, both carrying
// the dataset name for the diagnostic channel. Callers treat either as
// "dataset unavailable", never as fatal.
func (c *Client) FetchJSON(ctx context.Context, dataset, url string, headers map[string]string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewFetchFailureError(dataset, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewFetchTimeoutError(dataset, err)
		}
		return nil, errors.NewFetchFailureError(dataset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewFetchFailureError(dataset, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewFetchTimeoutError(dataset, err)
		}
		return nil, errors.NewFetchFailureError(dataset, err)
	}

	return body, nil
}
