package validation

import (
	"strings"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
)

func ValidateCreateUser(req request.CreateUserRequest) error {
	errors := validateStruct(req)

	if _, ok := errors["username"]; !ok && strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username cannot be blank"
	}

	return result(errors)
}
