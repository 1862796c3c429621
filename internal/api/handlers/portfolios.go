package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
	"github.com/ndewijer/stock-portfolio-tracker/internal/api/response"
	"github.com/ndewijer/stock-portfolio-tracker/internal/service"
	"github.com/ndewijer/stock-portfolio-tracker/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolioService.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// CreatePortfolio handles POST requests to create a portfolio seeded with random stocks.
// Stocks that cannot be priced are skipped and listed under provisioning.failed.
//
// Endpoint: POST /api/portfolios
// Request Body: CreatePortfolioRequest
// Response: 201 Created with CreatedPortfolio
// Error: 400 Bad Request if the body is invalid or initialHoldings exceeds the catalog
// Error: 404 Not Found if the user does not exist
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	created, err := h.portfolioService.CreatePortfolio(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// UserPortfolios handles GET requests for all portfolios of a user.
//
// Endpoint: GET /api/portfolios/user/{uuid}
// Response: 200 OK with array of PortfolioDetail
// Error: 404 Not Found if the user does not exist
// Error: 429/503 if a price cannot be fetched
func (h *PortfolioHandler) UserPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetUserPortfolios(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio handles GET requests for a single portfolio valued at current prices.
//
// Endpoint: GET /api/portfolios/{uuid}
// Response: 200 OK with PortfolioDetail
// Error: 404 Not Found if the portfolio does not exist
// Error: 429/503 if a price cannot be fetched
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// PortfolioSummary handles GET requests for the financial summary of a portfolio.
//
// Endpoint: GET /api/portfolios/{uuid}/summary
// Response: 200 OK with PortfolioSummary
// Error: 404 Not Found if the portfolio does not exist
// Error: 422 Unprocessable Entity if a stored holding cannot be valued
// Error: 429 Too Many Requests if the price API rate limit is reached
// Error: 503 Service Unavailable if the price API cannot be reached
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// UpdateHolding handles PUT requests to update a holding through its portfolio.
//
// Endpoint: PUT /api/portfolios/{uuid}/holdings/{holdingId}
// Request Body: UpdateStockRequest
// Response: 200 OK with HoldingDetail
// Error: 400 Bad Request if the holding belongs to another portfolio
// Error: 404 Not Found if the portfolio or holding does not exist
func (h *PortfolioHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateStockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateStock(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	holding, err := h.portfolioService.UpdatePortfolioHolding(
		r.Context(),
		chi.URLParam(r, "uuid"),
		chi.URLParam(r, "holdingId"),
		req,
	)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding through its portfolio.
//
// Endpoint: DELETE /api/portfolios/{uuid}/holdings/{holdingId}
// Response: 204 No Content
// Error: 400 Bad Request if the holding belongs to another portfolio
// Error: 404 Not Found if the portfolio or holding does not exist
func (h *PortfolioHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	err := h.portfolioService.DeletePortfolioHolding(r.Context(), chi.URLParam(r, "uuid"), chi.URLParam(r, "holdingId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
