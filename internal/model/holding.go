package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding represents a position in one instrument within a portfolio.
// StockName defaults to the ticker; there is no company name lookup.
type Holding struct {
	ID            string          `json:"id"`
	PortfolioID   string          `json:"portfolioId"`
	Ticker        string          `json:"ticker"`
	StockName     string          `json:"stockName"`
	Quantity      int             `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	PurchaseDate  time.Time       `json:"purchaseDate"`
}

// Cost returns purchase price times quantity.
func (h Holding) Cost() decimal.Decimal {
	return h.PurchasePrice.Mul(decimal.NewFromInt(int64(h.Quantity)))
}

// HoldingDetail is a holding with its current market valuation.
type HoldingDetail struct {
	Holding
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}
