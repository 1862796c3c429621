package model

import "github.com/shopspring/decimal"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// PortfolioDetail is a portfolio together with its valued holdings.
// TotalValue is the sum of the holdings' current values.
type PortfolioDetail struct {
	Portfolio
	TotalValue decimal.Decimal `json:"totalValue"`
	Holdings   []HoldingDetail `json:"holdings"`
}

// PortfolioSummary is the derived financial summary of a portfolio.
// It is recomputed on every request and never stored.
//
// TotalGainLossPercentage is nil when the cost basis is not positive, and the
// performer labels are empty when the portfolio has no holdings.
type PortfolioSummary struct {
	TotalValue              decimal.Decimal  `json:"totalValue"`
	TotalCost               decimal.Decimal  `json:"totalCost"`
	TotalGainLoss           decimal.Decimal  `json:"totalGainLoss"`
	TotalGainLossPercentage *decimal.Decimal `json:"totalGainLossPercentage,omitempty"`
	BestPerformingStock     string           `json:"bestPerformingStock,omitempty"`
	WorstPerformingStock    string           `json:"worstPerformingStock,omitempty"`
}

// ProvisionResult reports how many random holdings were created for a new portfolio.
type ProvisionResult struct {
	Attempted int             `json:"attempted"`
	Created   int             `json:"created"`
	Failed    []TickerFailure `json:"failed,omitempty"`
}

// TickerFailure records why one instrument could not be provisioned.
type TickerFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// CreatedPortfolio is the result of creating a portfolio: the stored holdings and a
// report of which provisioned instruments could not be added.
type CreatedPortfolio struct {
	Portfolio
	Holdings     []Holding       `json:"holdings"`
	Provisioning ProvisionResult `json:"provisioning"`
}
