package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/config"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/testutil"
)

func newTestRouter(t *testing.T, source *testutil.MockPriceSource) http.Handler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		StockAPI: config.StockAPIConfig{Timeout: time.Second},
	}

	return NewRouter(Services{
		System:    testutil.NewTestSystemService(t, db),
		User:      testutil.NewTestUserService(t, db),
		Portfolio: testutil.NewTestPortfolioService(t, db, source),
	}, cfg, zerolog.Nop())
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v (%s)", err, w.Body.String())
	}
	return v
}

// TestRouter_PortfolioLifecycle drives the API end to end through the router.
//
// WHY: Handlers are tested in isolation elsewhere. This checks the routes and
// middleware are wired to them as documented.
func TestRouter_PortfolioLifecycle(t *testing.T) {
	source := testutil.NewMockPriceSource().WithPrices(map[string]string{
		"AAPL": "160", "MSFT": "270", "GOOGL": "141.80", "AMZN": "178.30", "META": "502.10",
		"TSLA": "175", "NVDA": "880.40", "JPM": "195.60", "BAC": "35.20", "DIS": "112.90",
	})
	router := newTestRouter(t, source)

	w := do(t, router, http.MethodPost, "/api/users", `{"username":"carol","email":"carol@example.com"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	user := decode[model.User](t, w)

	w = do(t, router, http.MethodPost, "/api/portfolios", fmt.Sprintf(`{"name":"Core","userId":%q,"initialHoldings":0}`, user.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create portfolio: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	portfolio := decode[model.CreatedPortfolio](t, w)
	if len(portfolio.Holdings) != 0 {
		t.Fatalf("Expected no provisioned holdings, got %d", len(portfolio.Holdings))
	}

	w = do(t, router, http.MethodPost, "/api/stocks", fmt.Sprintf(`{"portfolioId":%q,"ticker":"AAPL","quantity":10,"purchasePrice":"150"}`, portfolio.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("add AAPL: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = do(t, router, http.MethodPost, "/api/stocks", fmt.Sprintf(`{"portfolioId":%q,"ticker":"MSFT","quantity":5,"purchasePrice":"300"}`, portfolio.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("add MSFT: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	msft := decode[model.HoldingDetail](t, w)

	w = do(t, router, http.MethodGet, "/api/portfolios/"+portfolio.ID+"/summary", "")
	if w.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	summary := decode[model.PortfolioSummary](t, w)
	if summary.TotalGainLoss.String() != "-50" || summary.WorstPerformingStock != "MSFT (-10.00%)" {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	w = do(t, router, http.MethodPut, "/api/portfolios/"+portfolio.ID+"/holdings/"+msft.ID, `{"quantity":6}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update holding: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodDelete, "/api/stocks/"+msft.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete stock: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/portfolios/user/"+user.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("user portfolios: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	details := decode[[]model.PortfolioDetail](t, w)
	if len(details) != 1 || len(details[0].Holdings) != 1 || details[0].TotalValue.String() != "1600" {
		t.Errorf("Unexpected portfolios: %+v", details)
	}
}

func TestRouter_Routing(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockPriceSource().WithPrice("AAPL", "160"))

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"health", http.MethodGet, "/api/system/health", http.StatusOK},
		{"version", http.MethodGet, "/api/system/version", http.StatusOK},
		{"cache", http.MethodGet, "/api/system/cache", http.StatusOK},
		{"price", http.MethodGet, "/api/stocks/price/aapl", http.StatusOK},
		{"invalid user id", http.MethodGet, "/api/users/not-a-uuid", http.StatusBadRequest},
		{"invalid portfolio id", http.MethodGet, "/api/portfolios/not-a-uuid/summary", http.StatusBadRequest},
		{"invalid holding id", http.MethodDelete, "/api/portfolios/" + testutil.MakeID() + "/holdings/nope", http.StatusBadRequest},
		{"unknown portfolio", http.MethodGet, "/api/portfolios/" + testutil.MakeID(), http.StatusNotFound},
		{"unknown route", http.MethodGet, "/api/nothing", http.StatusNotFound},
		{"wrong method", http.MethodPatch, "/api/stocks/" + testutil.MakeID(), http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, tt.method, tt.path, "")
			if w.Code != tt.status {
				t.Errorf("%s %s: expected %d, got %d: %s", tt.method, tt.path, tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(t, testutil.NewMockPriceSource())

	req := httptest.NewRequest(http.MethodOptions, "/api/system/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Expected allowed origin header, got %q", got)
	}
}
