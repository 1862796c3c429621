package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
)

// TickerLister lists every ticker currently held in any portfolio.
type TickerLister interface {
	DistinctTickers(ctx context.Context) ([]string, error)
}

// PriceWarmer loads a ticker's price into the quote cache.
type PriceWarmer interface {
	GetCurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// QuoteWarmJob refreshes the cached price of every held ticker so that the next
// portfolio view is served from the cache.
//
// Tickers that are still fresh are cache hits and cost no upstream call. A rate limit
// ends the run early; the remaining tickers are picked up by the next run.
type QuoteWarmJob struct {
	tickers TickerLister
	prices  PriceWarmer
	timeout time.Duration
	log     zerolog.Logger
}

// NewQuoteWarmJob creates the job. Each run is bounded by timeout.
func NewQuoteWarmJob(tickers TickerLister, prices PriceWarmer, timeout time.Duration, log zerolog.Logger) *QuoteWarmJob {
	return &QuoteWarmJob{
		tickers: tickers,
		prices:  prices,
		timeout: timeout,
		log:     log.With().Str("job", "quote_warm").Logger(),
	}
}

func (j *QuoteWarmJob) Name() string {
	return "quote_warm"
}

// Run warms every held ticker. It only fails when the held tickers cannot be listed.
func (j *QuoteWarmJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	tickers, err := j.tickers.DistinctTickers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list held tickers: %w", err)
	}

	warmed := 0
	for _, ticker := range tickers {
		_, err := j.prices.GetCurrentPrice(ctx, ticker)
		if errors.Is(err, apperrors.ErrRateLimited) {
			j.log.Warn().
				Str("ticker", ticker).
				Int("warmed", warmed).
				Int("total", len(tickers)).
				Msg("Rate limit reached, stopping quote warm-up")
			return nil
		}
		if err != nil {
			j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to warm quote")
			continue
		}
		warmed++
	}

	j.log.Info().Int("warmed", warmed).Int("total", len(tickers)).Msg("Quote warm-up finished")
	return nil
}
