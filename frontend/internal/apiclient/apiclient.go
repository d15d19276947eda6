package apiclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/itchan-dev/routelab/frontend/internal/cache"
)

// APIClient handles all communication with the upstream placeholder API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	Cache      *cache.Store
}

// New creates a client for the upstream API. Responses fetched with
// domain.CacheRetain are kept in store.
func New(baseURL string, timeout time.Duration, store *cache.Store) *APIClient {
	if store == nil {
		store = cache.New()
	}
	return &APIClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Cache:   store,
		HttpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// do is the single helper for upstream GET requests.
func (c *APIClient) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}
	return resp, nil
}
