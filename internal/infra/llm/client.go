package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	defaultHTTPTimeout = 60 * time.Second
)

// newHTTPClient returns the client every adapter uses. The timeout bounds a
// single attempt; the retry policy owns the overall budget.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// postJSON sends payload to url and returns the raw response body.
// A non-2xx status becomes a *StatusError tagged with provider, so the
// retry classifier can read the code. Transport failures are wrapped with
// %w and keep their net.Error identity.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doRequest(client, provider, req)
}

// getJSON issues a GET and returns the raw response body, with the same
// error contract as postJSON.
func getJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", provider, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return doRequest(client, provider, req)
}

func doRequest(client *http.Client, provider string, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", provider, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil, &StatusError{Provider: provider, StatusCode: resp.StatusCode}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", provider, err)
	}
	return data, nil
}
