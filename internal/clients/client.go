package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const HeaderCorrelationID = "X-Correlation-Id"

// TokenSource supplies the bearer token for the current session. An empty
// token means the request goes out unauthenticated.
type TokenSource func() string

// Client is the base HTTP client for the backend storefront API. It owns the
// base URL resolution and request decoration; typed wrappers (StoreClient)
// own the endpoint surface.
type Client struct {
	name    string
	baseURL *url.URL
	http    *http.Client
}

func NewClient(name, baseURL string, httpClient *http.Client) *Client {
	u, err := url.Parse(baseURL)
	if err != nil {
		// Fail fast: config error
		panic(fmt.Sprintf("invalid %s base url %q: %v", name, baseURL, err))
	}
	return &Client{name: name, baseURL: u, http: httpClient}
}

// Do issues a request against the base URL. A non-nil body is sent as JSON.
// Non-2xx responses are returned as *StatusError; transport failures come
// back wrapped. The response body is fully read and the status code is
// returned alongside it (nil body on 204).
func (c *Client) Do(ctx context.Context, method, path, token string, body any) ([]byte, int, error) {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "%s: encode %s %s body", c.name, method, path)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s: build %s %s", c.name, method, path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderCorrelationID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "%s: %s %s", c.name, method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, resp.StatusCode, nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrapf(err, "%s: read %s %s response", c.name, method, path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, newStatusError(resp.StatusCode, payload)
	}

	return payload, resp.StatusCode, nil
}
