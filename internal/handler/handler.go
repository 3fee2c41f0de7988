// Package handler provides HTTP request handlers for the REST API.
package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/inventory-api/internal/lifecycle"
	"github.com/vyrodovalexey/inventory-api/internal/model"
)

// Version is the application version.
const Version = "1.0.0"

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status string `json:"status"`
}

// StatusFor maps a lifecycle result to an HTTP status code.
// success is the code used when err is nil.
func StatusFor(err error, success int) int {
	switch lifecycle.OutcomeOf(err) {
	case lifecycle.OutcomeSuccess:
		return success
	case lifecycle.OutcomeInvalidArgument:
		return http.StatusBadRequest
	case lifecycle.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// RegisterRoutes registers the probe routes with the router.
func (h *HealthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.ReadyCheck).Methods(http.MethodGet)
}

// HealthCheck handles GET /health requests.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Version: Version,
	}
	writeBody(w, h.logger, jsonCodec{}, http.StatusOK, model.NewSuccessResponse(response))
}

// ReadyCheck handles GET /ready requests.
func (h *HealthHandler) ReadyCheck(w http.ResponseWriter, _ *http.Request) {
	writeBody(w, h.logger, jsonCodec{}, http.StatusOK, model.NewSuccessResponse(ReadyResponse{Status: "ready"}))
}
