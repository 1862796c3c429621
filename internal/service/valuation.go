package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
)

// PerformanceScale is the number of decimal places a performance percentage is rounded to.
const PerformanceScale = 4

var hundred = decimal.NewFromInt(100)

// PriceProvider returns the current price of a ticker. *quote.Cache implements it.
type PriceProvider interface {
	GetCurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, error)
}

// Valuator values holdings at current market prices and derives portfolio summaries.
//
// Prices for a set of holdings are fetched concurrently, at most workers at a time.
// Every computation after the fetch runs in the order the holdings were given, so the
// result never depends on which fetch finished first.
type Valuator struct {
	prices  PriceProvider
	workers int
}

// NewValuator creates a Valuator. A workers value below 1 fetches one price at a time.
func NewValuator(prices PriceProvider, workers int) *Valuator {
	if workers < 1 {
		workers = 1
	}
	return &Valuator{
		prices:  prices,
		workers: workers,
	}
}

// Performance returns ((current - purchase) / purchase) * 100 rounded half-up to
// PerformanceScale places. A non-positive purchase price is a data integrity failure.
func Performance(current, purchase decimal.Decimal) (decimal.Decimal, error) {
	if !purchase.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: purchase price %s is not positive", apperrors.ErrDataIntegrity, purchase)
	}
	return current.Sub(purchase).Mul(hundred).DivRound(purchase, PerformanceScale), nil
}

// HoldingValue values a single holding.
func (v *Valuator) HoldingValue(ctx context.Context, h model.Holding) (model.HoldingDetail, error) {
	details, _, err := v.ValueHoldings(ctx, []model.Holding{h})
	if err != nil {
		return model.HoldingDetail{}, err
	}
	return details[0], nil
}

// ValueHoldings values every holding and returns the details in input order together
// with their summed value. Any failed price fetch fails the whole call; the error is an
// *apperrors.TickerError wrapping the market data category.
func (v *Valuator) ValueHoldings(ctx context.Context, holdings []model.Holding) ([]model.HoldingDetail, decimal.Decimal, error) {
	if err := checkHoldings(holdings); err != nil {
		return nil, decimal.Decimal{}, err
	}

	prices, err := v.currentPrices(ctx, holdings)
	if err != nil {
		return nil, decimal.Decimal{}, err
	}

	details := make([]model.HoldingDetail, len(holdings))
	total := decimal.Zero
	for i, h := range holdings {
		value := prices[i].Mul(decimal.NewFromInt(int64(h.Quantity)))
		details[i] = model.HoldingDetail{
			Holding:      h,
			CurrentPrice: prices[i],
			TotalValue:   value,
		}
		total = total.Add(value)
	}

	return details, total, nil
}

// PortfolioValue returns the sum of current price times quantity over holdings.
// An empty portfolio is worth zero and makes no upstream calls.
func (v *Valuator) PortfolioValue(ctx context.Context, holdings []model.Holding) (decimal.Decimal, error) {
	_, total, err := v.ValueHoldings(ctx, holdings)
	return total, err
}

// Summarize derives the financial summary of a portfolio from its holdings.
//
// Best and worst performers are the holdings with the strictly highest and lowest
// performance; on a tie the holding that comes first in holdings wins. With no
// holdings every amount is zero, the percentage is absent and no performer is named.
func (v *Valuator) Summarize(ctx context.Context, holdings []model.Holding) (model.PortfolioSummary, error) {
	details, totalValue, err := v.ValueHoldings(ctx, holdings)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	totalCost := decimal.Zero
	for _, h := range holdings {
		totalCost = totalCost.Add(h.Cost())
	}

	summary := model.PortfolioSummary{
		TotalValue:    totalValue,
		TotalCost:     totalCost,
		TotalGainLoss: totalValue.Sub(totalCost),
	}

	if totalCost.IsPositive() {
		pct := summary.TotalGainLoss.Mul(hundred).DivRound(totalCost, PerformanceScale)
		summary.TotalGainLossPercentage = &pct
	}

	if len(details) == 0 {
		return summary, nil
	}

	var best, worst int
	var bestPerf, worstPerf decimal.Decimal
	for i, d := range details {
		perf, err := Performance(d.CurrentPrice, d.PurchasePrice)
		if err != nil {
			return model.PortfolioSummary{}, &apperrors.TickerError{Ticker: d.Ticker, Err: err}
		}
		if i == 0 || perf.GreaterThan(bestPerf) {
			best, bestPerf = i, perf
		}
		if i == 0 || perf.LessThan(worstPerf) {
			worst, worstPerf = i, perf
		}
	}

	summary.BestPerformingStock = performerLabel(details[best].Ticker, bestPerf)
	summary.WorstPerformingStock = performerLabel(details[worst].Ticker, worstPerf)

	return summary, nil
}

// performerLabel renders "TICKER (x.xx%)" with the percentage rounded half-up.
func performerLabel(ticker string, perf decimal.Decimal) string {
	return fmt.Sprintf("%s (%s%%)", ticker, perf.StringFixed(2))
}

// checkHoldings rejects stored holdings that cannot be valued.
func checkHoldings(holdings []model.Holding) error {
	for _, h := range holdings {
		if h.Quantity < 1 {
			return &apperrors.TickerError{
				Ticker: h.Ticker,
				Err:    fmt.Errorf("%w: quantity %d is below 1", apperrors.ErrDataIntegrity, h.Quantity),
			}
		}
		if !h.PurchasePrice.IsPositive() {
			return &apperrors.TickerError{
				Ticker: h.Ticker,
				Err:    fmt.Errorf("%w: purchase price %s is not positive", apperrors.ErrDataIntegrity, h.PurchasePrice),
			}
		}
	}
	return nil
}

// currentPrices fetches one price per holding, bounded by v.workers. The first failure
// cancels the fetches that have not started yet.
func (v *Valuator) currentPrices(ctx context.Context, holdings []model.Holding) ([]decimal.Decimal, error) {
	prices := make([]decimal.Decimal, len(holdings))
	if len(holdings) == 0 {
		return prices, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i, h := range holdings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			price, err := v.prices.GetCurrentPrice(gctx, h.Ticker)
			if err != nil {
				return &apperrors.TickerError{Ticker: quote.NormalizeTicker(h.Ticker), Err: err}
			}
			prices[i] = price
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prices, nil
}
