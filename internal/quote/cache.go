// Package quote caches current market prices in front of a rate-limited upstream.
//
// A cached quote is served for FreshnessWindow after it was observed. After that
// the next lookup fetches a new price and replaces the entry. Entries are never
// swept: memory grows with the number of distinct tickers ever requested, which is
// bounded by the watchlist-sized universe this service tracks.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
)

// FreshnessWindow is how long a fetched quote is served without asking the upstream.
const FreshnessWindow = 15 * time.Minute

// Source fetches the current price of a ticker from the upstream price API.
// Implementations report failures by wrapping apperrors.ErrRateLimited,
// apperrors.ErrInvalidTicker or apperrors.ErrUpstreamUnavailable.
type Source interface {
	FetchPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Quote is an immutable price snapshot. It is stored and returned by value.
type Quote struct {
	Ticker     string          `json:"ticker"`
	Price      decimal.Decimal `json:"price"`
	ObservedAt time.Time       `json:"observedAt"`
}

// FreshAt reports whether the quote may still be served at now.
func (q Quote) FreshAt(now time.Time) bool {
	return !now.After(q.ObservedAt.Add(FreshnessWindow))
}

// Cache is a concurrency-safe ticker → Quote map with lazy expiry.
//
// Two callers missing on the same ticker at the same time may both fetch; the
// last one to store wins. Quotes are idempotent snapshots so this only costs an
// extra upstream call.
type Cache struct {
	source Source
	now    func() time.Time
	log    zerolog.Logger

	mu     sync.RWMutex
	quotes map[string]Quote
}

// Option configures the Cache.
type Option func(*Cache)

// WithClock replaces time.Now, which lets tests move time without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log.With().Str("component", "quote_cache").Logger()
	}
}

// NewCache creates an empty cache in front of source.
func NewCache(source Source, opts ...Option) *Cache {
	c := &Cache{
		source: source,
		now:    time.Now,
		log:    zerolog.Nop(),
		quotes: make(map[string]Quote),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// GetCurrentPrice returns the price of ticker, from the cache when the stored quote
// is fresh, otherwise from exactly one upstream fetch.
//
// A failed fetch never falls back to a stale entry and leaves the stored entry as
// it was. Errors wrap one of apperrors.ErrInvalidTicker, apperrors.ErrRateLimited or
// apperrors.ErrUpstreamUnavailable.
func (c *Cache) GetCurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	q, err := c.Get(ctx, ticker)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return q.Price, nil
}

// Get is GetCurrentPrice returning the whole quote.
func (c *Cache) Get(ctx context.Context, ticker string) (Quote, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Quote{}, fmt.Errorf("%w: ticker is empty", apperrors.ErrInvalidTicker)
	}

	if q, ok := c.Lookup(ticker); ok && q.FreshAt(c.now()) {
		c.log.Debug().Str("ticker", ticker).Msg("Cache hit")
		return q, nil
	}

	price, err := c.source.FetchPrice(ctx, ticker)
	if err != nil {
		err = classify(err)
		if errors.Is(err, apperrors.ErrRateLimited) {
			c.log.Warn().Str("ticker", ticker).Msg("API rate limit reached")
		} else {
			c.log.Error().Err(err).Str("ticker", ticker).Msg("Error fetching stock price")
		}
		return Quote{}, err
	}
	if !price.IsPositive() {
		return Quote{}, fmt.Errorf("%w: non-positive price %s for %s", apperrors.ErrUpstreamUnavailable, price, ticker)
	}

	q := Quote{Ticker: ticker, Price: price, ObservedAt: c.now()}

	c.mu.Lock()
	c.quotes[ticker] = q
	c.mu.Unlock()

	return q, nil
}

// Lookup returns the stored quote for ticker regardless of its age, without
// contacting the upstream.
func (c *Cache) Lookup(ticker string) (Quote, bool) {
	ticker = NormalizeTicker(ticker)

	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.quotes[ticker]
	return q, ok
}

// Len returns the number of tickers held, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// classify makes sure every source failure carries one of the three market data
// categories. Anything unrecognised is an unavailable upstream.
func classify(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrRateLimited),
		errors.Is(err, apperrors.ErrInvalidTicker),
		errors.Is(err, apperrors.ErrUpstreamUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
}
