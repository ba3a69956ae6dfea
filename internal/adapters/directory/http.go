package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// jsonClient performs JSON requests against the directory source
type jsonClient struct {
	httpClient *http.Client
}

func newJSONClient(timeout time.Duration) *jsonClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &jsonClient{httpClient: &http.Client{Timeout: timeout}}
}

func (c *jsonClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *jsonClient) postJSON(ctx context.Context, endpoint string, in interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), nil)
}

func (c *jsonClient) doJSON(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode directory response: %w", err)
	}
	return nil
}
