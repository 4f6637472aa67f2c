package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coffee-connect/internal/errors"
	"coffee-connect/internal/observability"
	"coffee-connect/internal/services"
)

// APIHandlers is the JSON mirror of the dashboard views. The aggregations
// are deterministic over the static dataset, so responses are cacheable.
type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"total_revenue": h.analytics.TotalRevenue(),
		"by_product":    h.analytics.RevenueByProduct(),
	}

	errors.WriteSuccessWithHeaders(w, data, cacheHeaders)
}

func (h *APIHandlers) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	days, err := daysParam(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, h.analytics.DailyRevenue(days), cacheHeaders)
}

func (h *APIHandlers) HandleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.analytics.RevenueByMonth(), cacheHeaders)
}

func (h *APIHandlers) HandleProductRevenue(w http.ResponseWriter, r *http.Request) {
	// Absent days means all time here, the same default as the dashboard's
	// Product Insights control.
	days, err := daysParam(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	errors.WriteSuccessWithHeaders(w, h.analytics.ProductRevenue(days), cacheHeaders)
}

func (h *APIHandlers) HandleEnquiry(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	erpID := strings.TrimSpace(r.URL.Query().Get("erp"))
	if erpID == "" {
		errors.WriteError(w, h.logger, errors.Validation("erp parameter is required"), requestID)
		return
	}

	summary, found := h.analytics.CustomerPurchases(erpID)
	if !found {
		errors.WriteError(w, h.logger, errors.NotFound(fmt.Sprintf("no purchases found for ERP %s", erpID)), requestID)
		return
	}

	errors.WriteSuccess(w, summary)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

// daysParam parses the days query parameter. A missing parameter is zero,
// which the daily aggregation treats as no selection and the product
// aggregation as the all-time sentinel.
func daysParam(r *http.Request) (int, *errors.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get("days"))
	if raw == "" {
		return 0, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, errors.Validation(fmt.Sprintf("invalid days value %q", raw))
	}
	return days, nil
}
