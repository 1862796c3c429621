package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
	"github.com/ndewijer/stock-portfolio-tracker/internal/apperrors"
	"github.com/ndewijer/stock-portfolio-tracker/internal/model"
	"github.com/ndewijer/stock-portfolio-tracker/internal/quote"
	"github.com/ndewijer/stock-portfolio-tracker/internal/repository"
)

// PortfolioService handles portfolio and stock holding business logic.
// It coordinates the repositories with the quote cache, the valuator for live
// valuations and the provisioner for seeding new portfolios.
type PortfolioService struct {
	portfolioRepo  *repository.PortfolioRepository
	holdingRepo    *repository.HoldingRepository
	userRepo       *repository.UserRepository
	quotes         *quote.Cache
	valuator       *Valuator
	provisioner    *Provisioner
	provisionCount int
	now            func() time.Time
	log            zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
// provisionCount is the number of random holdings a new portfolio receives unless
// the request asks for a different number.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	userRepo *repository.UserRepository,
	quotes *quote.Cache,
	valuator *Valuator,
	provisioner *Provisioner,
	provisionCount int,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo:  portfolioRepo,
		holdingRepo:    holdingRepo,
		userRepo:       userRepo,
		quotes:         quotes,
		valuator:       valuator,
		provisioner:    provisioner,
		provisionCount: provisionCount,
		now:            time.Now,
		log:            log.With().Str("component", "portfolio_service").Logger(),
	}
}

// CreatePortfolio creates a portfolio for an existing user and seeds it with randomly
// chosen holdings bought at the current market price.
//
// The only provisioning error that fails creation is asking for more instruments than
// the catalog holds, which is detected before anything is written. Per-instrument
// failures are reported in the result's Provisioning field and never roll back the
// portfolio.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, req request.CreatePortfolioRequest) (model.CreatedPortfolio, error) {
	if err := s.requireUser(ctx, req.UserID); err != nil {
		return model.CreatedPortfolio{}, err
	}

	count := s.provisionCount
	if req.InitialHoldings != nil {
		count = *req.InitialHoldings
	}

	tickers, err := s.provisioner.SampleTickers(count)
	if err != nil {
		return model.CreatedPortfolio{}, err
	}

	p := model.Portfolio{
		ID:     uuid.New().String(),
		Name:   strings.TrimSpace(req.Name),
		UserID: req.UserID,
	}
	if err := s.portfolioRepo.InsertPortfolio(ctx, p); err != nil {
		return model.CreatedPortfolio{}, err
	}

	// The portfolio is committed at this point; later failures are reported, not returned.
	holdings, result := s.provisioner.ProvisionTickers(ctx, p.ID, tickers)

	s.log.Info().
		Str("portfolio_id", p.ID).
		Str("user_id", p.UserID).
		Int("holdings", len(holdings)).
		Msg("Created portfolio")

	return model.CreatedPortfolio{
		Portfolio:    p,
		Holdings:     holdings,
		Provisioning: result,
	}, nil
}

// GetPortfolio retrieves a portfolio with every holding valued at the current price.
func (s *PortfolioService) GetPortfolio(ctx context.Context, portfolioID string) (model.PortfolioDetail, error) {
	p, err := s.portfolioRepo.GetPortfolioOnID(ctx, portfolioID)
	if err != nil {
		return model.PortfolioDetail{}, err
	}
	return s.detail(ctx, p)
}

// GetUserPortfolios retrieves all portfolios of a user, each with valued holdings.
// Returns apperrors.ErrUserNotFound if the user does not exist.
func (s *PortfolioService) GetUserPortfolios(ctx context.Context, userID string) ([]model.PortfolioDetail, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	portfolios, err := s.portfolioRepo.GetPortfoliosByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]model.PortfolioDetail, 0, len(portfolios))
	for _, p := range portfolios {
		d, err := s.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

// GetPortfolioSummary computes the financial summary of a portfolio from live prices.
// Nothing is cached at this level; every call recomputes the summary.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context, portfolioID string) (model.PortfolioSummary, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return model.PortfolioSummary{}, err
	}

	holdings, err := s.holdingRepo.GetHoldingsByPortfolioID(ctx, portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	return s.valuator.Summarize(ctx, holdings)
}

// AddStock adds a holding to a portfolio. The ticker is upper-cased and must be known
// to the price source; nothing is stored when the price lookup fails.
func (s *PortfolioService) AddStock(ctx context.Context, req request.AddStockRequest) (model.HoldingDetail, error) {
	if err := s.requirePortfolio(ctx, req.PortfolioID); err != nil {
		return model.HoldingDetail{}, err
	}

	ticker := quote.NormalizeTicker(req.Ticker)
	name := strings.TrimSpace(req.StockName)
	if name == "" {
		name = ticker
	}

	h := model.Holding{
		ID:            uuid.New().String(),
		PortfolioID:   req.PortfolioID,
		Ticker:        ticker,
		StockName:     name,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  s.now(),
	}

	detail, err := s.valuator.HoldingValue(ctx, h)
	if err != nil {
		return model.HoldingDetail{}, err
	}

	if err := s.holdingRepo.InsertHolding(ctx, h); err != nil {
		return model.HoldingDetail{}, err
	}

	s.log.Info().
		Str("portfolio_id", h.PortfolioID).
		Str("holding_id", h.ID).
		Str("ticker", h.Ticker).
		Msg("Added stock to portfolio")

	return detail, nil
}

// UpdateStock changes the quantity, and optionally purchase price and name, of a holding.
func (s *PortfolioService) UpdateStock(ctx context.Context, holdingID string, req request.UpdateStockRequest) (model.HoldingDetail, error) {
	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.HoldingDetail{}, err
	}
	return s.update(ctx, h, req)
}

// UpdatePortfolioHolding is UpdateStock addressed through the owning portfolio.
// Returns apperrors.ErrHoldingNotInPortfolio when the holding belongs elsewhere.
func (s *PortfolioService) UpdatePortfolioHolding(
	ctx context.Context,
	portfolioID, holdingID string,
	req request.UpdateStockRequest,
) (model.HoldingDetail, error) {
	h, err := s.portfolioHolding(ctx, portfolioID, holdingID)
	if err != nil {
		return model.HoldingDetail{}, err
	}
	return s.update(ctx, h, req)
}

// DeleteStock removes a holding.
func (s *PortfolioService) DeleteStock(ctx context.Context, holdingID string) error {
	if err := s.holdingRepo.DeleteHolding(ctx, holdingID); err != nil {
		return err
	}
	s.log.Info().Str("holding_id", holdingID).Msg("Deleted stock holding")
	return nil
}

// DeletePortfolioHolding is DeleteStock addressed through the owning portfolio.
func (s *PortfolioService) DeletePortfolioHolding(ctx context.Context, portfolioID, holdingID string) error {
	if _, err := s.portfolioHolding(ctx, portfolioID, holdingID); err != nil {
		return err
	}
	return s.DeleteStock(ctx, holdingID)
}

// GetCurrentPrice returns the current quote for a ticker through the cache.
func (s *PortfolioService) GetCurrentPrice(ctx context.Context, ticker string) (quote.Quote, error) {
	return s.quotes.Get(ctx, ticker)
}

func (s *PortfolioService) update(ctx context.Context, h model.Holding, req request.UpdateStockRequest) (model.HoldingDetail, error) {
	h.Quantity = req.Quantity
	if req.PurchasePrice != nil {
		h.PurchasePrice = *req.PurchasePrice
	}
	if req.StockName != nil {
		if name := strings.TrimSpace(*req.StockName); name != "" {
			h.StockName = name
		}
	}

	detail, err := s.valuator.HoldingValue(ctx, h)
	if err != nil {
		return model.HoldingDetail{}, err
	}

	if err := s.holdingRepo.UpdateHolding(ctx, h); err != nil {
		return model.HoldingDetail{}, err
	}

	s.log.Info().
		Str("holding_id", h.ID).
		Int("quantity", h.Quantity).
		Msg("Updated stock holding")

	return detail, nil
}

func (s *PortfolioService) detail(ctx context.Context, p model.Portfolio) (model.PortfolioDetail, error) {
	holdings, err := s.holdingRepo.GetHoldingsByPortfolioID(ctx, p.ID)
	if err != nil {
		return model.PortfolioDetail{}, err
	}

	valued, total, err := s.valuator.ValueHoldings(ctx, holdings)
	if err != nil {
		return model.PortfolioDetail{}, err
	}

	return model.PortfolioDetail{
		Portfolio:  p,
		TotalValue: total,
		Holdings:   valued,
	}, nil
}

func (s *PortfolioService) portfolioHolding(ctx context.Context, portfolioID, holdingID string) (model.Holding, error) {
	if err := s.requirePortfolio(ctx, portfolioID); err != nil {
		return model.Holding{}, err
	}

	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.Holding{}, err
	}
	if h.PortfolioID != portfolioID {
		return model.Holding{}, apperrors.ErrHoldingNotInPortfolio
	}
	return h, nil
}

func (s *PortfolioService) requirePortfolio(ctx context.Context, portfolioID string) error {
	ok, err := s.portfolioRepo.PortfolioExists(ctx, portfolioID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

func (s *PortfolioService) requireUser(ctx context.Context, userID string) error {
	ok, err := s.userRepo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}
