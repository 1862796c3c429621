// Package alphavantage is a minimal client for the Alpha Vantage GLOBAL_QUOTE API.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
)

const (
	// DefaultBaseURL is the query endpoint of the Alpha Vantage API.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRatePerMinute matches the free tier allowance.
	DefaultRatePerMinute = 5
)

// Client fetches current prices from Alpha Vantage.
//
// Every request passes a local token bucket first so that a burst of cache misses
// does not burn through the API key's allowance.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP timeout of the default client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRatePerMinute sets the local request allowance. The burst equals the
// per-minute allowance.
func WithRatePerMinute(n int) ClientOption {
	return func(c *Client) {
		if n < 1 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithLimiter replaces the local rate limiter.
func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new Alpha Vantage client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/DefaultRatePerMinute), DefaultRatePerMinute),
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchPrice returns the latest price of symbol.
//
// The returned error wraps one of apperrors.ErrRateLimited,
// apperrors.ErrInvalidTicker or apperrors.ErrUpstreamUnavailable.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	quote, err := c.GlobalQuote(ctx, symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ParsePrice(quote)
}

// GlobalQuote performs the GLOBAL_QUOTE request and classifies the response.
func (c *Client) GlobalQuote(ctx context.Context, symbol string) (GlobalQuote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return GlobalQuote{}, fmt.Errorf("%w: local request allowance exhausted: %v", apperrors.ErrRateLimited, err)
	}

	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	response, err := c.query(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return GlobalQuote{}, err
	}

	return classify(symbol, response)
}

// ParsePrice converts the quote's price field into a positive decimal.
func ParsePrice(quote GlobalQuote) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(quote.Price)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: unparsable price %q: %v", apperrors.ErrUpstreamUnavailable, quote.Price, err)
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: non-positive price %s", apperrors.ErrUpstreamUnavailable, price)
	}
	return price, nil
}

func classify(symbol string, response Response) (GlobalQuote, error) {
	switch {
	case response.Note != "":
		return GlobalQuote{}, fmt.Errorf("%w: %s", apperrors.ErrRateLimited, response.Note)
	case response.Information != "":
		return GlobalQuote{}, fmt.Errorf("%w: %s", apperrors.ErrRateLimited, response.Information)
	case response.ErrorMessage != "":
		return GlobalQuote{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, symbol)
	case response.GlobalQuote == nil || response.GlobalQuote.Price == "":
		return GlobalQuote{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, symbol)
	}
	return *response.GlobalQuote, nil
}

// query executes the HTTP request and decodes the JSON body. Transport and decoding
// failures are reported as ErrUpstreamUnavailable; HTTP 429 as ErrRateLimited.
func (c *Client) query(ctx context.Context, reqURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", c.baseURL).
		Int("status", resp.StatusCode).
		Msg("Alpha Vantage request")

	if resp.StatusCode == http.StatusTooManyRequests {
		return Response{}, fmt.Errorf("%w: upstream returned %d", apperrors.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrUpstreamUnavailable, err)
	}

	return response, nil
}
