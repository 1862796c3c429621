package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
)

// DefaultCatalog is the fixed set of instruments a new portfolio is seeded from.
var DefaultCatalog = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA", "JPM", "BAC", "DIS"}

// HoldingCreator persists a new holding. *repository.HoldingRepository implements it.
type HoldingCreator interface {
	InsertHolding(ctx context.Context, h model.Holding) error
}

// Provisioner seeds portfolios with randomly chosen holdings bought at the current price.
type Provisioner struct {
	prices   PriceProvider
	holdings HoldingCreator
	catalog  []string
	now      func() time.Time
	log      zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// ProvisionerOption configures a Provisioner.
type ProvisionerOption func(*Provisioner)

// WithCatalog replaces DefaultCatalog. Tickers are normalized.
func WithCatalog(catalog []string) ProvisionerOption {
	return func(p *Provisioner) {
		p.catalog = make([]string, 0, len(catalog))
		for _, ticker := range catalog {
			p.catalog = append(p.catalog, quote.NormalizeTicker(ticker))
		}
	}
}

// WithRand makes sampling deterministic.
func WithRand(rng *rand.Rand) ProvisionerOption {
	return func(p *Provisioner) {
		p.rng = rng
	}
}

// WithProvisionClock sets the clock used for purchase dates.
func WithProvisionClock(now func() time.Time) ProvisionerOption {
	return func(p *Provisioner) {
		p.now = now
	}
}

// WithProvisionLogger sets a logger.
func WithProvisionLogger(log zerolog.Logger) ProvisionerOption {
	return func(p *Provisioner) {
		p.log = log.With().Str("component", "provisioner").Logger()
	}
}

// NewProvisioner creates a Provisioner over DefaultCatalog.
func NewProvisioner(prices PriceProvider, holdings HoldingCreator, opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		prices:   prices,
		holdings: holdings,
		catalog:  append([]string(nil), DefaultCatalog...),
		now:      time.Now,
		log:      zerolog.Nop(),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// CatalogSize returns the number of instruments available for sampling.
func (p *Provisioner) CatalogSize() int {
	return len(p.catalog)
}

// SampleTickers returns n distinct tickers chosen uniformly from the catalog.
// Asking for more than the catalog holds fails with apperrors.ErrInsufficientCatalog.
func (p *Provisioner) SampleTickers(n int) ([]string, error) {
	if n < 0 || n > len(p.catalog) {
		return nil, fmt.Errorf("%w: requested %d, catalog holds %d", apperrors.ErrInsufficientCatalog, n, len(p.catalog))
	}

	shuffled := append([]string(nil), p.catalog...)

	p.mu.Lock()
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	p.mu.Unlock()

	return shuffled[:n], nil
}

// Provision samples n tickers and adds one holding per ticker to the portfolio.
// See ProvisionTickers for the failure semantics.
func (p *Provisioner) Provision(ctx context.Context, portfolioID string, n int) (model.ProvisionResult, error) {
	tickers, err := p.SampleTickers(n)
	if err != nil {
		return model.ProvisionResult{}, err
	}
	_, result := p.ProvisionTickers(ctx, portfolioID, tickers)
	return result, nil
}

// ProvisionTickers adds one unit-quantity holding per ticker, bought at the current price,
// and returns the holdings it stored.
//
// A ticker whose price cannot be fetched or whose holding cannot be stored is logged
// and skipped. Holdings created before a failure are kept, so the portfolio ends up
// with between zero and len(tickers) holdings.
func (p *Provisioner) ProvisionTickers(ctx context.Context, portfolioID string, tickers []string) ([]model.Holding, model.ProvisionResult) {
	result := model.ProvisionResult{Attempted: len(tickers)}
	holdings := make([]model.Holding, 0, len(tickers))

	for _, ticker := range tickers {
		h, err := p.provisionOne(ctx, portfolioID, ticker)
		if err != nil {
			p.log.Warn().
				Err(err).
				Str("portfolio_id", portfolioID).
				Str("ticker", ticker).
				Msg("Error adding stock to portfolio")
			result.Failed = append(result.Failed, model.TickerFailure{Ticker: ticker, Reason: err.Error()})
			continue
		}
		holdings = append(holdings, h)
		result.Created++
	}

	p.log.Info().
		Str("portfolio_id", portfolioID).
		Int("created", result.Created).
		Int("attempted", result.Attempted).
		Msg("Provisioned portfolio")

	return holdings, result
}

func (p *Provisioner) provisionOne(ctx context.Context, portfolioID, ticker string) (model.Holding, error) {
	price, err := p.prices.GetCurrentPrice(ctx, ticker)
	if err != nil {
		return model.Holding{}, err
	}

	h := model.Holding{
		ID:            uuid.New().String(),
		PortfolioID:   portfolioID,
		Ticker:        ticker,
		StockName:     ticker,
		Quantity:      1,
		PurchasePrice: price,
		PurchaseDate:  p.now().UTC(),
	}
	if err := p.holdings.InsertHolding(ctx, h); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}
