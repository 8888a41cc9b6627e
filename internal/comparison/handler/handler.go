package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/comparison"
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

// ComparisonService is the part of the orchestrator the HTTP layer uses.
type ComparisonService interface {
	Compare(ctx context.Context, fromCurrency, toCurrency string, amount decimal.Decimal) ([]domain.ComparisonResult, error)
	ClearCache(ctx context.Context, fromCurrency, toCurrency string) error
}

// ProviderLister exposes registry entries to the read-only providers
// endpoint.
type ProviderLister interface {
	All() []domain.Provider
}

type Handler struct {
	validator *comparison.RequestValidator
	service   ComparisonService
	providers ProviderLister
}

func NewComparisonHandler(validator *comparison.RequestValidator, service ComparisonService, providers ProviderLister) *Handler {
	return &Handler{validator: validator, service: service, providers: providers}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: errorMsg,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
