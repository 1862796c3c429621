package alphavantage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ndewijer/stock-portfolio-tracker/internal/alphavantage"
	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
)

func newTestClient(t *testing.T, status int, body string) (*alphavantage.Client, func() url.Values) {
	t.Helper()

	var mu sync.Mutex
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		captured = r.URL.Query()
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := alphavantage.NewClient("test-key",
		alphavantage.WithBaseURL(server.URL),
		alphavantage.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
	return client, func() url.Values {
		mu.Lock()
		defer mu.Unlock()
		return captured
	}
}

func TestClient_FetchPrice(t *testing.T) {
	t.Run("parses price from global quote", func(t *testing.T) {
		client, query := newTestClient(t, http.StatusOK,
			`{"Global Quote": {"01. symbol": "AAPL", "05. price": "189.4100", "07. latest trading day": "2024-05-10"}}`)

		price, err := client.FetchPrice(context.Background(), "AAPL")

		require.NoError(t, err)
		assert.Equal(t, "189.41", price.String())
		assert.Equal(t, "GLOBAL_QUOTE", query().Get("function"))
		assert.Equal(t, "AAPL", query().Get("symbol"))
		assert.Equal(t, "test-key", query().Get("apikey"))
	})

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "note means rate limited",
			status:  http.StatusOK,
			body:    `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`,
			wantErr: apperrors.ErrRateLimited,
		},
		{
			name:    "information means rate limited",
			status:  http.StatusOK,
			body:    `{"Information": "You have reached the daily request limit."}`,
			wantErr: apperrors.ErrRateLimited,
		},
		{
			name:    "http 429 means rate limited",
			status:  http.StatusTooManyRequests,
			body:    ``,
			wantErr: apperrors.ErrRateLimited,
		},
		{
			name:    "empty global quote means invalid ticker",
			status:  http.StatusOK,
			body:    `{"Global Quote": {}}`,
			wantErr: apperrors.ErrInvalidTicker,
		},
		{
			name:    "error message means invalid ticker",
			status:  http.StatusOK,
			body:    `{"Error Message": "Invalid API call."}`,
			wantErr: apperrors.ErrInvalidTicker,
		},
		{
			name:    "neither key means invalid ticker",
			status:  http.StatusOK,
			body:    `{}`,
			wantErr: apperrors.ErrInvalidTicker,
		},
		{
			name:    "malformed json is upstream unavailable",
			status:  http.StatusOK,
			body:    `{"Global Quote": `,
			wantErr: apperrors.ErrUpstreamUnavailable,
		},
		{
			name:    "server error is upstream unavailable",
			status:  http.StatusBadGateway,
			body:    `bad gateway`,
			wantErr: apperrors.ErrUpstreamUnavailable,
		},
		{
			name:    "unparsable price is upstream unavailable",
			status:  http.StatusOK,
			body:    `{"Global Quote": {"05. price": "n/a"}}`,
			wantErr: apperrors.ErrUpstreamUnavailable,
		},
		{
			name:    "zero price is upstream unavailable",
			status:  http.StatusOK,
			body:    `{"Global Quote": {"05. price": "0.0000"}}`,
			wantErr: apperrors.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, tt.status, tt.body)

			_, err := client.FetchPrice(context.Background(), "XYZ")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := server.URL
	server.Close()

	client := alphavantage.NewClient("test-key",
		alphavantage.WithBaseURL(closedURL),
		alphavantage.WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)

	_, err := client.FetchPrice(context.Background(), "AAPL")

	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestClient_LocalLimiter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"Global Quote": {"05. price": "10.00"}}`))
	}))
	t.Cleanup(server.Close)

	client := alphavantage.NewClient("test-key",
		alphavantage.WithBaseURL(server.URL),
		alphavantage.WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)),
	)

	_, err := client.FetchPrice(context.Background(), "AAPL")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.FetchPrice(ctx, "AAPL")

	assert.ErrorIs(t, err, apperrors.ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load(), "throttled request must not reach the upstream")
}
