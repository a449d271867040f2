package yahoo

import (
	"net/http"
	"time"

	"stockly/internal/logging"
)

const defaultBaseURL = "https://query2.finance.yahoo.com"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client reads statements, quote summaries and price charts from Yahoo Finance.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
	// crumb is required by quoteSummary for most regions; it travels with the
	// matching cookie, which callers add through WithHeader.
	crumb string
	now   func() time.Time
	log   *logging.Logger
}

// ClientOption is a configuration option for the Yahoo client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

func WithCrumb(crumb string) ClientOption {
	return func(c *Client) {
		c.crumb = crumb
	}
}

func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.log = logging.OrSilent(l)
	}
}

// NewClient creates a new Yahoo Finance client.
func NewClient(options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		now:        time.Now,
		log:        logging.NewSilentLogger(),
	}
	// the API rejects requests without a browser-like agent
	client.header.Set("User-Agent", "Mozilla/5.0 (compatible; stockly/1.0)")
	for _, option := range options {
		option(client)
	}
	return client, nil
}

func (c *Client) Name() string { return "yahoo" }
