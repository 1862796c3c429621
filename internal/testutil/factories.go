package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().Build(t, db)
//	user := testutil.NewUser().WithUsername("alice").Build(t, db)
type UserBuilder struct {
	ID       string
	Username string
	Email    string
}

// NewUser creates a UserBuilder with unique defaults.
func NewUser() *UserBuilder {
	name := MakeUsername("user")
	return &UserBuilder{
		ID:       MakeID(),
		Username: name,
		Email:    name + "@example.com",
	}
}

// WithUsername sets a custom username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `INSERT INTO users (id, username, email) VALUES (?, ?, ?)`
	if _, err := db.Exec(query, b.ID, b.Username, b.Email); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{ID: b.ID, Username: b.Username, Email: b.Email}
}

// CreateUser creates a user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio(user.ID).Build(t, db)
//
//	portfolio := testutil.NewPortfolio(user.ID).
//	    WithName("Custom Portfolio").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID     string
	Name   string
	UserID string
}

// NewPortfolio creates a PortfolioBuilder owned by userID.
func NewPortfolio(userID string) *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:     MakeID(),
		Name:   MakePortfolioName("Test Portfolio"),
		UserID: userID,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `INSERT INTO portfolios (id, name, user_id) VALUES (?, ?, ?)`
	if _, err := db.Exec(query, b.ID, b.Name, b.UserID); err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{ID: b.ID, Name: b.Name, UserID: b.UserID}
}

// Convenience functions

// CreatePortfolio creates a user and a portfolio with the given name owned by it.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	user := CreateUser(t, db)
	return NewPortfolio(user.ID).WithName(name).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test stock holdings.
//
// Example usage:
//
//	h := testutil.NewHolding(portfolio.ID, "AAPL").
//	    WithQuantity(10).
//	    WithPurchasePrice("150").
//	    Build(t, db)
type HoldingBuilder struct {
	ID            string
	PortfolioID   string
	Ticker        string
	StockName     string
	Quantity      int
	PurchasePrice decimal.Decimal
	PurchaseDate  time.Time
}

// NewHolding creates a HoldingBuilder for one share of ticker bought at 100.
func NewHolding(portfolioID, ticker string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:            MakeID(),
		PortfolioID:   portfolioID,
		Ticker:        ticker,
		StockName:     ticker,
		Quantity:      1,
		PurchasePrice: decimal.NewFromInt(100),
		PurchaseDate:  time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
	}
}

// WithQuantity sets the number of shares.
func (b *HoldingBuilder) WithQuantity(quantity int) *HoldingBuilder {
	b.Quantity = quantity
	return b
}

// WithPurchasePrice sets the purchase price from a decimal string.
func (b *HoldingBuilder) WithPurchasePrice(price string) *HoldingBuilder {
	b.PurchasePrice = decimal.RequireFromString(price)
	return b
}

// WithStockName sets a display name.
func (b *HoldingBuilder) WithStockName(name string) *HoldingBuilder {
	b.StockName = name
	return b
}

// Build creates the holding in the database and returns it.
// The schema rejects quantities below 1, so invalid holdings cannot be built here.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO stock_holdings (id, portfolio_id, ticker, stock_name, quantity, purchase_price, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		b.ID,
		b.PortfolioID,
		b.Ticker,
		b.StockName,
		b.Quantity,
		b.PurchasePrice.String(),
		b.PurchaseDate.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:            b.ID,
		PortfolioID:   b.PortfolioID,
		Ticker:        b.Ticker,
		StockName:     b.StockName,
		Quantity:      b.Quantity,
		PurchasePrice: b.PurchasePrice,
		PurchaseDate:  b.PurchaseDate,
	}
}
