package testutil

import (
	"database/sql"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
	"github.com/ndewijer/stock-portfolio-tracker/internal/repository"
	"github.com/ndewijer/stock-portfolio-tracker/internal/service"
)

// DefaultProvisionCount is the number of holdings test portfolios are seeded with.
const DefaultProvisionCount = 5

// NewTestPortfolioService wires a PortfolioService over db with prices served by source.
// Provisioning is seeded so the sampled tickers are the same on every run.
func NewTestPortfolioService(t *testing.T, db *sql.DB, source quote.Source) *service.PortfolioService {
	t.Helper()

	cache := quote.NewCache(source)
	holdingRepo := repository.NewHoldingRepository(db)

	provisioner := service.NewProvisioner(cache, holdingRepo,
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		service.WithRand(rand.New(rand.NewPCG(1, 2))),
	)

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		holdingRepo,
		repository.NewUserRepository(db),
		cache,
		service.NewValuator(cache, 4),
		provisioner,
		DefaultProvisionCount,
		zerolog.Nop(),
	)
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()
	return service.NewUserService(repository.NewUserRepository(db), zerolog.Nop())
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, quote.NewCache(NewMockPriceSource()), map[string]bool{"provisioning": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeUsername generates a unique lower-case username for testing.
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomLower(8)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	return randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", length)
}

func randomLower(length int) string {
	return randomFrom("abcdefghijklmnopqrstuvwxyz0123456789", length)
}

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.IntN(len(charset))]
	}
	return string(result)
}
