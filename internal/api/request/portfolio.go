package request

// CreatePortfolioRequest represents the request body for creating a portfolio.
// InitialHoldings overrides the configured number of randomly provisioned stocks.
type CreatePortfolioRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	UserID          string `json:"userId" validate:"required,uuid"`
	InitialHoldings *int   `json:"initialHoldings,omitempty" validate:"omitempty,min=0"`
}
