package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nkoopman/dividend-tracker-backend/internal/api/middleware"
	"github.com/nkoopman/dividend-tracker-backend/internal/api/request"
	"github.com/nkoopman/dividend-tracker-backend/internal/api/response"
	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/model"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
	"github.com/nkoopman/dividend-tracker-backend/internal/validation"
)

// HoldingHandler handles HTTP requests for the owner-scoped portfolio
// endpoints. It serves as the HTTP layer adapter, parsing requests and
// delegating business logic to the holdingService.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// HoldingResponse is the JSON representation of a holding. Monetary values
// are rounded to two decimals here; stored values keep full precision.
type HoldingResponse struct {
	ID              string  `json:"id"`
	Ticker          string  `json:"ticker"`
	Company         string  `json:"company"`
	Shares          int     `json:"shares"`
	CurrentPrice    float64 `json:"current_price"`
	DividendYield   float64 `json:"dividend_yield"`
	TotalValue      float64 `json:"total_value"`
	MonthlyDividend float64 `json:"monthly_dividend"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// RefreshAllResponse is the payload of the bulk refresh endpoint. Every
// holding of the owner appears in Holdings; holdings whose refresh failed
// keep their previous snapshot and are counted under Retained.
type RefreshAllResponse struct {
	Holdings  []HoldingResponse `json:"holdings"`
	Refreshed int               `json:"refreshed"`
	Retained  int               `json:"retained"`
}

func toHoldingResponse(h model.Holding) HoldingResponse {
	return HoldingResponse{
		ID:              h.ID,
		Ticker:          h.Ticker,
		Company:         h.CompanyName,
		Shares:          h.Shares,
		CurrentPrice:    service.Round2(h.CurrentPrice),
		DividendYield:   service.Round2(h.DividendYieldPercent),
		TotalValue:      service.Round2(h.TotalValue),
		MonthlyDividend: service.Round2(h.MonthlyDividend),
		CreatedAt:       h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toHoldingResponses(holdings []model.Holding) []HoldingResponse {
	responses := make([]HoldingResponse, 0, len(holdings))
	for _, h := range holdings {
		responses = append(responses, toHoldingResponse(h))
	}
	return responses
}

// GetHoldings handles GET requests to list the owner's holdings.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of HoldingResponse, ordered by ticker
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(middleware.OwnerID(r))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, toHoldingResponses(holdings))
}

// CreateHolding handles POST requests to create a new holding.
// Validates the request body, then creates the holding with a fully
// populated snapshot fetched from the market data source.
//
// Endpoint: POST /api/portfolio
// Request Body: CreateHoldingRequest (ticker, shares)
// Response: 201 Created with HoldingResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the ticker is unknown to the data source
// Error: 409 Conflict if the owner already holds the ticker
// Error: 502 Bad Gateway if the data source is unavailable
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.holdingService.CreateHolding(r.Context(), middleware.OwnerID(r), req.Ticker, req.Shares)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicateHolding):
			response.RespondError(w, http.StatusConflict, apperrors.ErrDuplicateHolding.Error(), err.Error())
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrUpstreamUnavailable):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrUpstreamUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCreateHolding.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, toHoldingResponse(holding))
}

// UpdateHolding handles PUT requests to change a holding's share count.
// The snapshot is re-derived from fresh market data as part of the edit.
//
// Endpoint: PUT /api/portfolio/{uuid}
// Request Body: UpdateHoldingRequest (shares)
// Response: 200 OK with updated HoldingResponse
// Error: 400 Bad Request if the ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if the holding does not exist for this owner
// Error: 502 Bad Gateway if the data source is unavailable
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holdingID := chi.URLParam(r, "uuid")

	holding, err := h.holdingService.UpdateHolding(r.Context(), middleware.OwnerID(r), holdingID, req.Shares)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrUpstreamUnavailable):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrUpstreamUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateHolding.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, toHoldingResponse(holding))
}

// RefreshHolding handles POST requests to refresh one holding's snapshot.
//
// Endpoint: POST /api/portfolio/{uuid}/refresh
// Response: 200 OK with refreshed HoldingResponse
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the holding does not exist for this owner
// Error: 502 Bad Gateway if the data source is unavailable
func (h *HoldingHandler) RefreshHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	holding, err := h.holdingService.RefreshHolding(r.Context(), middleware.OwnerID(r), holdingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHoldingNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrSymbolNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSymbolNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrUpstreamUnavailable):
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrUpstreamUnavailable.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshHoldings.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, toHoldingResponse(holding))
}

// RefreshAllHoldings handles POST requests to refresh every holding of the
// owner. Failures of individual holdings never fail the batch: those
// holdings are returned with their previous snapshot and counted as
// retained.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with RefreshAllResponse covering all holdings
// Error: 500 Internal Server Error if the holdings cannot be enumerated
func (h *HoldingHandler) RefreshAllHoldings(w http.ResponseWriter, r *http.Request) {
	results, err := h.holdingService.RefreshAllHoldings(r.Context(), middleware.OwnerID(r))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshHoldings.Error(), err.Error())
		return
	}

	resp := RefreshAllResponse{
		Holdings: make([]HoldingResponse, 0, len(results)),
	}
	for _, result := range results {
		resp.Holdings = append(resp.Holdings, toHoldingResponse(result.Holding))
		if result.Refreshed {
			resp.Refreshed++
		} else {
			resp.Retained++
		}
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// DeleteHolding handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the holding does not exist for this owner
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	if err := h.holdingService.DeleteHolding(r.Context(), middleware.OwnerID(r), holdingID); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToDeleteHolding.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
