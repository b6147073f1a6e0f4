// Package fetch retrieves image bytes for resolved URLs and keeps recent
// responses in memory so that preloading actually pays off.
//
// Supported schemes are http, https, file and archive (archive:///path/book.zip?entry=p/001.png).
// Concurrent requests for the same URL share a single fetch.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"lightbox/internal/archive"
)

const (
	defaultCacheSize = 64
	defaultTimeout   = 20 * time.Second
	maxBodySize      = 64 << 20
)

var ErrUnsupportedScheme = errors.New("unsupported url scheme")

// Logger is the subset of *log.Logger used for diagnostics.
type Logger interface {
	Printf(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// Options configures a Client.
type Options struct {
	HTTPClient *http.Client  // nil means http.DefaultClient
	CacheSize  int           // number of responses kept in memory
	Timeout    time.Duration // per request
	Logger     Logger
}

// Stats counts client activity.
type Stats struct {
	Requests int64 // calls to Get
	Fetches  int64 // requests that went to the network or disk
	Hits     int64 // requests answered from the cache
	Failures int64
}

// Client fetches and caches URL contents. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   *lru.Cache[string, []byte]
	group   singleflight.Group
	timeout time.Duration
	log     Logger

	requests atomic.Int64
	fetches  atomic.Int64
	hits     atomic.Int64
	failures atomic.Int64
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}

	c := &Client{
		http:    opts.HTTPClient,
		cache:   cache,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.log == nil {
		c.log = discardLogger{}
	}
	return c, nil
}

func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	k.RawFragment = ""
	return k.String()
}

// Get returns the contents of rawURL, from the cache when possible.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	c.requests.Add(1)

	u, err := url.Parse(rawURL)
	if err != nil {
		c.failures.Add(1)
		return nil, fmt.Errorf("parsing %q: %w", rawURL, err)
	}
	key := cacheKey(u)

	if data, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		c.log.Printf("fetch: cache HIT %s", key)
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if data, ok := c.cache.Get(key); ok {
			c.hits.Add(1)
			return data, nil
		}
		c.fetches.Add(1)
		data, err := c.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, data)
		c.log.Printf("fetch: cache MISS %s (%d bytes, cache: %d items)", key, len(data), c.cache.Len())
		return data, nil
	})
	if err != nil {
		c.failures.Add(1)
		return nil, err
	}
	return v.([]byte), nil
}

// Warm fetches rawURL in the background and keeps only the cached copy.
func (c *Client) Warm(rawURL string) {
	go func() {
		if _, err := c.Get(context.Background(), rawURL); err != nil {
			c.log.Printf("fetch: warm %s failed: %v", rawURL, err)
		}
	}()
}

// Cached reports whether rawURL is currently held in the cache.
func (c *Client) Cached(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return c.cache.Contains(cacheKey(u))
}

// Stats returns a snapshot of the client's counters.
func (c *Client) Stats() Stats {
	return Stats{
		Requests: c.requests.Load(),
		Fetches:  c.fetches.Load(),
		Hits:     c.hits.Load(),
		Failures: c.failures.Load(),
	}
}

func (c *Client) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return c.fetchHTTP(ctx, u)
	case "file":
		return readFile(filepath.FromSlash(u.Path))
	case "archive":
		entry := u.Query().Get("entry")
		if entry == "" {
			return nil, fmt.Errorf("archive url %s has no entry", u)
		}
		return archive.ReadEntry(filepath.FromSlash(u.Path), entry)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (c *Client) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return readLimited(resp.Body)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodySize)
	}
	return data, nil
}
