package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
)

// HoldingRepository provides data access methods for the stock_holdings table.
// Purchase prices are stored as decimal strings so no precision is lost.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

const holdingColumns = `id, portfolio_id, ticker, stock_name, quantity, purchase_price, purchase_date`

// InsertHolding stores a new holding.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h model.Holding) error {
	query := `
		INSERT INTO stock_holdings (` + holdingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		h.Ticker,
		h.StockName,
		h.Quantity,
		h.PurchasePrice.String(),
		formatTime(h.PurchaseDate),
	)
	if err != nil {
		return fmt.Errorf("failed to insert stock holding: %w", err)
	}
	return nil
}

// GetHolding retrieves a holding by ID. Returns apperrors.ErrHoldingNotFound when absent.
func (r *HoldingRepository) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM stock_holdings WHERE id = ?`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, holdingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query stock holding: %w", err)
	}
	return h, nil
}

// GetHoldingsByPortfolioID retrieves all holdings of a portfolio in insertion order.
// Returns an empty slice if the portfolio holds nothing.
func (r *HoldingRepository) GetHoldingsByPortfolioID(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM stock_holdings
		WHERE portfolio_id = ?
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_holdings table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock_holdings table results: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_holdings table: %w", err)
	}

	return holdings, nil
}

// UpdateHolding persists quantity, purchase price and name of an existing holding.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h model.Holding) error {
	query := `
		UPDATE stock_holdings
		SET quantity = ?, purchase_price = ?, stock_name = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, h.Quantity, h.PurchasePrice.String(), h.StockName, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update stock holding: %w", err)
	}
	return requireAffected(result, apperrors.ErrHoldingNotFound)
}

// DeleteHolding removes a holding by ID.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, holdingID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM stock_holdings WHERE id = ?`, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete stock holding: %w", err)
	}
	return requireAffected(result, apperrors.ErrHoldingNotFound)
}

// DistinctTickers returns every ticker held in any portfolio, sorted.
func (r *HoldingRepository) DistinctTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT ticker FROM stock_holdings ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query held tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan held ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating held tickers: %w", err)
	}

	return tickers, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var h model.Holding
	var purchaseDate string

	err := row.Scan(
		&h.ID,
		&h.PortfolioID,
		&h.Ticker,
		&h.StockName,
		&h.Quantity,
		&h.PurchasePrice,
		&purchaseDate,
	)
	if err != nil {
		return model.Holding{}, err
	}

	if h.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
