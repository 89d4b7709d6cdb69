package client

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"github.com/rs/zerolog"
	"github.com/syahrullah26/dewaunitedstore/internal/logger"
)

// NewCachingHTTPClient creates an HTTP client with disk-based caching.
// This is used for the public catalog endpoints (products), which honour
// Cache-Control and ETag headers from the backend.
func NewCachingHTTPClient(cacheDir string, timeout time.Duration, log zerolog.Logger) *http.Client {
	var cache httpcache.Cache
	if cacheDir == "" {
		// Use in-memory cache if no cache directory specified
		cache = httpcache.NewMemoryCache()
	} else {
		// Use disk-based cache for persistence across runs
		cache = diskcache.New(cacheDir)
	}

	transport := httpcache.NewTransport(cache)
	transport.Transport = logger.NewRoundTripper(log, http.DefaultTransport)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// NewInMemoryCachingHTTPClient creates an HTTP client with in-memory caching only.
// Suitable for testing or when disk caching is not desired.
func NewInMemoryCachingHTTPClient() *http.Client {
	return &http.Client{
		Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
	}
}

// FromCache reports whether resp was served from the local cache.
func FromCache(resp *http.Response) bool {
	return resp.Header.Get(httpcache.XFromCache) == "1"
}
