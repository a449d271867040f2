package fmp

import (
	"net/http"
	"net/url"

	"stockly/internal/logging"
)

const defaultBaseURL = "https://financialmodelingprep.com/api"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=fmp_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the Financial Modeling Prep API.
type Client struct {
	// baseURL is the API root, without the version segment.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query carries the api key.
	query url.Values
	// exchange narrows company search; empty searches every exchange.
	exchange string
	log      *logging.Logger
}

// ClientOption is a configuration option for the FMP client.
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

// WithSearchExchange restricts Search to one exchange.
func WithSearchExchange(exchange string) ClientOption {
	return func(c *Client) {
		c.exchange = exchange
	}
}

func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.log = logging.OrSilent(l)
	}
}

// NewClient creates a new FMP client. The key is sent as the apikey query parameter.
func NewClient(key string, options ...ClientOption) (*Client, error) {
	var client = &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
		exchange:   "NASDAQ",
		log:        logging.NewSilentLogger(),
	}
	if key != "" {
		// https://site.financialmodelingprep.com/developer/docs
		client.query.Set("apikey", key)
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

func (c *Client) Name() string { return "fmp" }
