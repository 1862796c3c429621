package validation

import (
	"strings"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
)

func ValidateAddStock(req request.AddStockRequest) error {
	errors := validateStruct(req)

	if _, ok := errors["ticker"]; !ok && strings.TrimSpace(req.Ticker) == "" {
		errors["ticker"] = "ticker is required"
	}
	if !req.PurchasePrice.IsPositive() {
		errors["purchasePrice"] = "purchasePrice must be greater than 0"
	}

	return result(errors)
}

// ValidateUpdateStock only checks the purchase price when one is provided.
func ValidateUpdateStock(req request.UpdateStockRequest) error {
	errors := validateStruct(req)

	if req.PurchasePrice != nil && !req.PurchasePrice.IsPositive() {
		errors["purchasePrice"] = "purchasePrice must be greater than 0"
	}

	return result(errors)
}
