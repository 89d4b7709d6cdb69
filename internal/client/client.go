package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/syahrullah26/dewaunitedstore/internal/logger"
)

// DefaultBaseURL is the production storefront API.
const DefaultBaseURL = "https://backend-dewaunited-production.up.railway.app/api/v2"

// Config holds common client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 30 * time.Second,
		Debug:   false,
	}
}

// NewHTTPClient creates the plain client used for authenticated calls.
// Responses are never cached: session and cart reads must hit the backend.
func NewHTTPClient(config Config, log zerolog.Logger) *http.Client {
	return &http.Client{
		Timeout:   config.Timeout,
		Transport: logger.NewRoundTripper(log, http.DefaultTransport),
	}
}
