package validation

import (
	"strings"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
)

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := validateStruct(req)

	if _, ok := errors["name"]; !ok && strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	}

	return result(errors)
}
