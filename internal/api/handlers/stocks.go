package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/stock-portfolio-tracker/internal/api/request"
	"github.com/ndewijer/stock-portfolio-tracker/internal/api/response"
	"github.com/ndewijer/stock-portfolio-tracker/internal/service"
	"github.com/ndewijer/stock-portfolio-tracker/internal/validation"
)

// StockHandler handles HTTP requests for individual stock holdings and prices.
type StockHandler struct {
	portfolioService *service.PortfolioService
}

// NewStockHandler creates a new StockHandler with the provided service dependency.
func NewStockHandler(portfolioService *service.PortfolioService) *StockHandler {
	return &StockHandler{
		portfolioService: portfolioService,
	}
}

// AddStock handles POST requests to add a stock to a portfolio.
//
// Endpoint: POST /api/stocks
// Request Body: AddStockRequest
// Response: 201 Created with HoldingDetail
// Error: 400 Bad Request if the body is invalid or the ticker is unknown
// Error: 404 Not Found if the portfolio does not exist
func (h *StockHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddStockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddStock(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	holding, err := h.portfolioService.AddStock(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, holding)
}

// UpdateStock handles PUT requests to update a holding.
//
// Endpoint: PUT /api/stocks/{uuid}
// Request Body: UpdateStockRequest
// Response: 200 OK with HoldingDetail
// Error: 404 Not Found if the holding does not exist
func (h *StockHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateStockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateStock(req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	holding, err := h.portfolioService.UpdateStock(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, holding)
}

// DeleteStock handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/stocks/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the holding does not exist
func (h *StockHandler) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeleteStock(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CurrentPrice handles GET requests for the current price of a ticker.
//
// Endpoint: GET /api/stocks/price/{ticker}
// Response: 200 OK with Quote
// Error: 400 Bad Request if the ticker is unknown
// Error: 429 Too Many Requests if the price API rate limit is reached
// Error: 503 Service Unavailable if the price API cannot be reached
func (h *StockHandler) CurrentPrice(w http.ResponseWriter, r *http.Request) {
	q, err := h.portfolioService.GetCurrentPrice(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, q)
}
