package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/response"
	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
	"github.com/nkoopman/dividend-tracker-backend/internal/service"
)

// systemRefreshTimeout caps how long one internally triggered system-wide
// refresh may run.
const systemRefreshTimeout = 5 * time.Minute

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService  *service.SystemService
	holdingService *service.HoldingService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService, holdingService *service.HoldingService) *SystemHandler {
	return &SystemHandler{
		systemService:  systemService,
		holdingService: holdingService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}

// VersionInfoResponse represents the version check response containing
// application and database schema version information.
type VersionInfoResponse struct {
	AppVersion string `json:"app_version"`
	DbVersion  int64  `json:"db_version"`
}

// Version handles GET requests to retrieve version information.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfoResponse
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	version, err := h.systemService.CheckVersion()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, VersionInfoResponse{
		AppVersion: version.AppVersion,
		DbVersion:  version.DBVersion,
	})
}

// SystemRefreshResponse reports the outcome of a system-wide refresh.
type SystemRefreshResponse struct {
	Refreshed int `json:"refreshed"`
	Retained  int `json:"retained"`
}

// RefreshAll handles POST requests to refresh every holding across all
// owners. Guarded by the internal API key middleware; meant for operational
// tooling, the cron schedule covers the steady state.
//
// Endpoint: POST /api/system/refresh
// Response: 200 OK with SystemRefreshResponse
// Error: 500 Internal Server Error if the holdings cannot be enumerated
func (h *SystemHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), systemRefreshTimeout)
	defer cancel()

	refreshed, retained, err := h.holdingService.RefreshSystem(ctx)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, SystemRefreshResponse{
		Refreshed: refreshed,
		Retained:  retained,
	})
}
