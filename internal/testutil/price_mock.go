package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
)

// MockPriceSource is a mock implementation of quote.Source for testing.
// It returns predefined prices instead of calling Alpha Vantage and counts every
// fetch so tests can assert on cache hits.
type MockPriceSource struct {
	mu      sync.Mutex
	prices  map[string]decimal.Decimal
	errors  map[string]error
	fetches map[string]int
}

// NewMockPriceSource creates a mock with no known tickers. Unknown tickers fail
// with apperrors.ErrInvalidTicker, as the real upstream does.
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		prices:  make(map[string]decimal.Decimal),
		errors:  make(map[string]error),
		fetches: make(map[string]int),
	}
}

// FetchPrice returns the configured price or error for ticker.
func (m *MockPriceSource) FetchPrice(_ context.Context, ticker string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches[ticker]++

	if err, ok := m.errors[ticker]; ok {
		return decimal.Decimal{}, err
	}
	if price, ok := m.prices[ticker]; ok {
		return price, nil
	}
	return decimal.Decimal{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidTicker, ticker)
}

// WithPrice configures the price returned for ticker and clears any error.
func (m *MockPriceSource) WithPrice(ticker, price string) *MockPriceSource {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prices[ticker] = decimal.RequireFromString(price)
	delete(m.errors, ticker)
	return m
}

// WithPrices configures several prices at once.
func (m *MockPriceSource) WithPrices(prices map[string]string) *MockPriceSource {
	for ticker, price := range prices {
		m.WithPrice(ticker, price)
	}
	return m
}

// WithError configures the mock to fail for ticker.
func (m *MockPriceSource) WithError(ticker string, err error) *MockPriceSource {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors[ticker] = err
	return m
}

// FetchCount returns how many times ticker was fetched.
func (m *MockPriceSource) FetchCount(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches[ticker]
}

// TotalFetches returns the number of fetches across all tickers.
func (m *MockPriceSource) TotalFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.fetches {
		total += n
	}
	return total
}

// Clock is a manually advanced clock for expiry tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
