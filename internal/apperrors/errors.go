package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrHoldingNotFound indicates that a stock holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("stock holding not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrHoldingNotInPortfolio indicates that a holding was addressed through a
	// portfolio it does not belong to.
	ErrHoldingNotInPortfolio = errors.New("stock holding does not belong to this portfolio")

	// ErrDuplicateUsername indicates that the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail indicates that the email address is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInsufficientCatalog indicates that more instruments were requested than the
	// provisioning catalog holds.
	ErrInsufficientCatalog = errors.New("requested count exceeds available stocks")
)

// Market data errors describe the outcome of an upstream price lookup.
var (
	// ErrInvalidTicker indicates that the upstream source does not know the ticker,
	// or that the ticker is empty.
	ErrInvalidTicker = errors.New("invalid stock ticker")

	// ErrRateLimited indicates that the upstream source (or the local limiter in front
	// of it) refused the request. Stale prices are never served in its place.
	ErrRateLimited = errors.New("API rate limit reached")

	// ErrUpstreamUnavailable covers transport failures and unparsable responses.
	ErrUpstreamUnavailable = errors.New("stock price service unavailable")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataIntegrity indicates a stored value that makes a computation impossible,
	// such as a non-positive purchase price.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// TickerError tags a market data failure with the ticker that caused it.
// errors.Is on a TickerError still matches the wrapped category.
type TickerError struct {
	Ticker string
	Err    error
}

func (e *TickerError) Error() string {
	return e.Ticker + ": " + e.Err.Error()
}

func (e *TickerError) Unwrap() error {
	return e.Err
}
