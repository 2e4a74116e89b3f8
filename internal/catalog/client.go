package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"

	"github.com/SamadheeSadeesha/ShopEase/internal/catalog/cache"
)

const DefaultBaseURL = "https://dummyjson.com"

var ErrUpstream = errors.New("catalog upstream unavailable")

// Client fetches products from a dummyjson-style catalog API. All endpoints
// are read-only GETs; responses may be served from an optional cache.
// Concurrent identical requests are collapsed, and a circuit breaker stops
// hammering the upstream while it is failing.
type Client struct {
	baseURL string
	httpc   *http.Client
	cache   cache.ResponseCache
	breaker *gobreaker.CircuitBreaker[[]byte]
	sfg     singleflight.Group
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpc = h }
}

// WithCache enables response caching. Without it every call goes upstream.
func WithCache(rc cache.ResponseCache) ClientOption {
	return func(c *Client) { c.cache = rc }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return c
}

// Products returns one page of the product listing.
func (c *Client) Products(ctx context.Context, limit, skip int) (*ProductPage, error) {
	path := fmt.Sprintf("/products?limit=%d&skip=%d", limit, skip)
	body, err := c.fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// ProductByID returns a single product.
func (c *Client) ProductByID(ctx context.Context, id int64) (*Product, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("/products/%d", id))
	if err != nil {
		return nil, err
	}
	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}
	return &p, nil
}

// Search runs a full-text product search.
func (c *Client) Search(ctx context.Context, query string) (*ProductPage, error) {
	body, err := c.fetch(ctx, "/products/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// Categories lists the category slugs known to the catalog.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	body, err := c.fetch(ctx, "/products/category-list")
	if err != nil {
		return nil, err
	}
	var cats []string
	if err := json.Unmarshal(body, &cats); err != nil {
		return nil, fmt.Errorf("unmarshal categories failed: %w", err)
	}
	return cats, nil
}

// ProductsByCategory returns the products in one category.
func (c *Client) ProductsByCategory(ctx context.Context, category string) (*ProductPage, error) {
	body, err := c.fetch(ctx, "/products/category/"+url.PathEscape(category))
	if err != nil {
		return nil, err
	}
	return decodePage(body)
}

// fetch serves path from cache when possible, otherwise goes upstream through
// the singleflight group and circuit breaker.
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.cache != nil {
		body, err := c.cache.Get(ctx, path)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err) // degrade to upstream
		}
	}

	v, err, _ := c.sfg.Do(path, func() (interface{}, error) {
		return c.breaker.Execute(func() ([]byte, error) {
			return c.get(ctx, path)
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return nil, err
	}
	body := v.([]byte)

	if c.cache != nil {
		if err := c.cache.Set(ctx, path, body, 0); err != nil {
			log.Printf("catalog cache set error: %v", err)
		}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response failed: %w", err)
	}
	return body, nil
}

func decodePage(body []byte) (*ProductPage, error) {
	var page ProductPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("unmarshal product page failed: %w", err)
	}
	return &page, nil
}
