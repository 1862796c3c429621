package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
)

// PortfolioRepository provides data access methods for the portfolios table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// InsertPortfolio stores a new portfolio. The owning user must exist.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
		INSERT INTO portfolios (id, name, user_id)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.UserID); err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}
	return nil
}

// GetPortfolioOnID retrieves a portfolio by ID.
// Returns apperrors.ErrPortfolioNotFound when no row matches.
func (r *PortfolioRepository) GetPortfolioOnID(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, name, user_id
		FROM portfolios
		WHERE id = ?
	`
	var p model.Portfolio

	err := r.db.QueryRowContext(ctx, query, portfolioID).Scan(&p.ID, &p.Name, &p.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	return p, nil
}

// GetPortfoliosByUserID retrieves all portfolios owned by a user, ordered by name.
// Returns an empty slice if the user owns none.
func (r *PortfolioRepository) GetPortfoliosByUserID(ctx context.Context, userID string) ([]model.Portfolio, error) {
	query := `
		SELECT id, name, user_id
		FROM portfolios
		WHERE user_id = ?
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// PortfolioExists reports whether a portfolio with the given ID exists.
func (r *PortfolioRepository) PortfolioExists(ctx context.Context, portfolioID string) (bool, error) {
	return exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM portfolios WHERE id = ?)`, portfolioID)
}
