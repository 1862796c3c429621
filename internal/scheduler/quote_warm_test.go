package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
	"github.com/ndewijer/stock-portfolio-tracker/internal/scheduler"
	"github.com/ndewijer/stock-portfolio-tracker/internal/testutil"
)

type staticTickers struct {
	tickers []string
	err     error
}

func (s staticTickers) DistinctTickers(context.Context) ([]string, error) {
	return s.tickers, s.err
}

func TestQuoteWarmJob_Run(t *testing.T) {
	t.Run("warms every held ticker", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithPrices(map[string]string{"AAPL": "1", "MSFT": "2"})
		cache := quote.NewCache(source)
		job := scheduler.NewQuoteWarmJob(staticTickers{tickers: []string{"AAPL", "MSFT"}}, cache, time.Second, zerolog.Nop())

		require.NoError(t, job.Run())

		assert.Equal(t, 2, cache.Len())
	})

	t.Run("fresh quotes are not fetched again", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithPrice("AAPL", "1")
		cache := quote.NewCache(source)
		job := scheduler.NewQuoteWarmJob(staticTickers{tickers: []string{"AAPL"}}, cache, time.Second, zerolog.Nop())

		require.NoError(t, job.Run())
		require.NoError(t, job.Run())

		assert.Equal(t, 1, source.FetchCount("AAPL"))
	})

	t.Run("rate limit stops the run", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithPrices(map[string]string{"AAPL": "1", "NVDA": "3"}).
			WithError("MSFT", fmt.Errorf("%w: note", apperrors.ErrRateLimited))
		cache := quote.NewCache(source)
		job := scheduler.NewQuoteWarmJob(staticTickers{tickers: []string{"AAPL", "MSFT", "NVDA"}}, cache, time.Second, zerolog.Nop())

		require.NoError(t, job.Run())

		assert.Equal(t, 1, source.FetchCount("MSFT"))
		assert.Equal(t, 0, source.FetchCount("NVDA"))
	})

	t.Run("other failures are skipped", func(t *testing.T) {
		source := testutil.NewMockPriceSource().WithPrice("NVDA", "3")
		cache := quote.NewCache(source)
		job := scheduler.NewQuoteWarmJob(staticTickers{tickers: []string{"GONE", "NVDA"}}, cache, time.Second, zerolog.Nop())

		require.NoError(t, job.Run())

		_, ok := cache.Lookup("NVDA")
		assert.True(t, ok)
	})

	t.Run("listing failure fails the run", func(t *testing.T) {
		cache := quote.NewCache(testutil.NewMockPriceSource())
		job := scheduler.NewQuoteWarmJob(staticTickers{err: errors.New("database is closed")}, cache, time.Second, zerolog.Nop())

		assert.Error(t, job.Run())
		assert.Equal(t, "quote_warm", job.Name())
	})
}

func TestScheduler_AddJob(t *testing.T) {
	job := scheduler.NewQuoteWarmJob(staticTickers{}, quote.NewCache(testutil.NewMockPriceSource()), time.Second, zerolog.Nop())

	t.Run("accepts five field, six field and descriptor schedules", func(t *testing.T) {
		s := scheduler.New(zerolog.Nop())

		require.NoError(t, s.AddJob("*/15 * * * *", job))
		require.NoError(t, s.AddJob("0 30 9 * * MON-FRI", job))
		require.NoError(t, s.AddJob("@every 10m", job))

		assert.Equal(t, 3, s.Len())
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		s := scheduler.New(zerolog.Nop())

		assert.Error(t, s.AddJob("every now and then", job))
		assert.Equal(t, 0, s.Len())
	})

	t.Run("starts and stops", func(t *testing.T) {
		s := scheduler.New(zerolog.Nop())
		require.NoError(t, s.AddJob("@every 1h", job))

		s.Start()
		s.Stop()
	})
}
