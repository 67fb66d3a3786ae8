package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mhuels/posterforge/pkg/cache"
)

// Sentinel errors for remote fetches.
var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrNetwork covers connection failures, timeouts, and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient returns the standard client used for all outbound
// requests. The timeout bounds a single attempt; retries layer on top.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// Client performs GET requests with response caching and retry. All
// remote API clients embed it.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	headers map[string]string
}

// NewClient creates a Client over the given cache backend. Headers are
// applied to every request; pass nil when none are needed.
func NewClient(c cache.Cache, k cache.Keyer, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		keyer:   k,
		headers: headers,
	}
}

// GetJSON fetches url and decodes the JSON body into v. Responses are
// cached under the namespace with the given TTL; a refresh bypasses the
// cache but still updates it.
func (c *Client) GetJSON(ctx context.Context, namespace, url string, ttl time.Duration, refresh bool, v any) error {
	key := c.keyer.HTTPKey(namespace, url)

	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				return nil
			}
			// Corrupt cached body, refetch.
			_ = c.cache.Delete(ctx, key)
		}
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		var ferr error
		body, ferr = c.fetch(ctx, url)
		return ferr
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	_ = c.cache.Set(ctx, key, body, ttl)
	return nil
}

// GetBytes fetches url and returns the raw body, cached under key with
// the given TTL. Used for binary payloads like cover images, where the
// caller picks the key so art survives URL changes.
func (c *Client) GetBytes(ctx context.Context, key, url string, ttl time.Duration) ([]byte, error) {
	if data, ok, _ := c.cache.Get(ctx, key); ok {
		return data, nil
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		var ferr error
		body, ferr = c.fetch(ctx, url)
		return ferr
	})
	if err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, key, body, ttl)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
