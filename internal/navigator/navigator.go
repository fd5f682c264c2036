// Package navigator is a client for the remote navigator API: authentication,
// per-user state, recommendations, argumentation and roadmaps.
package navigator

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultUserAgent = "spigell/uni-navigator"
	defaultTimeout   = 10 * time.Second
)

// Options configures a Client.
type Options struct {
	BaseURL   string        `mapstructure:"base-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user-agent"`
}

// Client talks to the navigator API. Methods needing authentication take the
// bearer token explicitly so callers decide which session a request belongs to.
type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

func New(logger *zap.Logger, opts Options) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: opts.Timeout,
		},
		UserAgent: opts.UserAgent,
		BaseURL:   strings.TrimRight(opts.BaseURL, "/"),
	}
}
