package request

import "github.com/shopspring/decimal"

// AddStockRequest represents the request body for adding a stock to a portfolio.
// StockName defaults to the ticker when empty.
type AddStockRequest struct {
	PortfolioID   string          `json:"portfolioId" validate:"required,uuid"`
	Ticker        string          `json:"ticker" validate:"required,max=10"`
	StockName     string          `json:"stockName" validate:"max=100"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
}

// UpdateStockRequest represents the request body for updating a holding.
// A nil PurchasePrice or StockName leaves the stored value unchanged.
type UpdateStockRequest struct {
	Quantity      int              `json:"quantity" validate:"required,min=1"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
	StockName     *string          `json:"stockName,omitempty" validate:"omitempty,max=100"`
}
