package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"coffee-connect/internal/models"
	"coffee-connect/internal/services"
	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestAnalytics() *services.Analytics {
	purchases := []models.Purchase{
		{
			Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Product: "Latte",
			Price:   decimal.NewFromInt(150),
			ERP:     "E1",
		},
		{
			Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Product: "Latte",
			Price:   decimal.NewFromInt(200),
			ERP:     "E1",
		},
		{
			Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Product: "Mocha",
			Price:   decimal.NewFromInt(100),
			ERP:     "E2",
		},
	}
	return services.NewAnalytics(services.NewDataset(purchases), testLogger())
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return response
}

func TestAPIHandlers_HandleOverview(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/overview", nil)
	w := httptest.NewRecorder()

	handlers.HandleOverview(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	response := decodeResponse(t, w)
	if success, ok := response["success"].(bool); !ok || !success {
		t.Error("expected success=true in response")
	}

	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object in response")
	}
	if total, ok := data["total_revenue"].(string); !ok || total != "450" {
		t.Errorf("expected total_revenue \"450\", got %v", data["total_revenue"])
	}
	if byProduct, ok := data["by_product"].([]interface{}); !ok || len(byProduct) != 2 {
		t.Errorf("expected 2 product groups, got %v", data["by_product"])
	}
}

func TestAPIHandlers_HandleDailyRevenue(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/daily-revenue?days=1", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailyRevenue(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	data, ok := response["data"].([]interface{})
	if !ok {
		t.Fatalf("expected data array, got %v", response["data"])
	}
	// Window [2024-01-01, 2024-01-02] covers both days.
	if len(data) != 2 {
		t.Errorf("expected 2 day groups, got %d", len(data))
	}
}

func TestAPIHandlers_HandleDailyRevenue_NoSelection(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/daily-revenue", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailyRevenue(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	if data, ok := response["data"].([]interface{}); !ok || len(data) != 0 {
		t.Errorf("expected empty data array, got %v", response["data"])
	}
}

func TestAPIHandlers_HandleDailyRevenue_InvalidDays(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/daily-revenue?days=abc", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailyRevenue(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	if success, ok := response["success"].(bool); !ok || success {
		t.Error("expected success=false in response")
	}
}

func TestAPIHandlers_HandleMonthlyRevenue(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/monthly-revenue", nil)
	w := httptest.NewRecorder()

	handlers.HandleMonthlyRevenue(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	data, ok := response["data"].([]interface{})
	if !ok || len(data) != 1 {
		t.Fatalf("expected 1 month group, got %v", response["data"])
	}
	month := data[0].(map[string]interface{})
	if month["label"] != "2024-01" {
		t.Errorf("expected month label 2024-01, got %v", month["label"])
	}
}

// The absent and zero cases must both mean all time for product revenue.
func TestAPIHandlers_HandleProductRevenue_AllTime(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	for _, target := range []string{"/api/product-revenue", "/api/product-revenue?days=0"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		handlers.HandleProductRevenue(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, w.Code)
		}

		response := decodeResponse(t, w)
		data, ok := response["data"].([]interface{})
		if !ok || len(data) != 2 {
			t.Errorf("%s: expected 2 product groups, got %v", target, response["data"])
		}
	}
}

func TestAPIHandlers_HandleEnquiry_Found(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/enquiry?erp=E1", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected data object in response")
	}
	if data["erp"] != "E1" {
		t.Errorf("expected erp E1, got %v", data["erp"])
	}
	if total, ok := data["total"].(string); !ok || total != "350" {
		t.Errorf("expected total \"350\", got %v", data["total"])
	}
	if byProduct, ok := data["by_product"].([]interface{}); !ok || len(byProduct) != 1 {
		t.Errorf("expected 1 product group, got %v", data["by_product"])
	}
}

func TestAPIHandlers_HandleEnquiry_NotFound(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/enquiry?erp=E3", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	if success, ok := response["success"].(bool); !ok || success {
		t.Error("expected success=false in response")
	}
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("expected error code NOT_FOUND, got %v", errObj["code"])
	}
}

func TestAPIHandlers_HandleEnquiry_MissingID(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/enquiry", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	response := decodeResponse(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected health data in response")
	}
	if status, ok := data["status"].(string); !ok || status != "healthy" {
		t.Errorf("expected status 'healthy', got %v", data["status"])
	}
	if timestamp, ok := data["timestamp"].(string); !ok || timestamp == "" {
		t.Error("expected non-empty timestamp")
	} else if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	response := decodeResponse(t, w)
	data, ok := response["data"].(map[string]interface{})
	if !ok {
		t.Fatal("expected stats data in response")
	}
	if count, ok := data["record_count"].(float64); !ok || count != 3 {
		t.Errorf("expected record_count 3, got %v", data["record_count"])
	}
	if maxDate, ok := data["max_date"].(string); !ok || maxDate != "2024-01-02" {
		t.Errorf("expected max_date 2024-01-02, got %v", data["max_date"])
	}
}

// Every JSON endpoint wraps its payload in the success envelope and caches
// consistently.
func TestAPIHandlers_HeaderConsistency(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	endpoints := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"overview", handlers.HandleOverview},
		{"daily-revenue", handlers.HandleDailyRevenue},
		{"monthly-revenue", handlers.HandleMonthlyRevenue},
		{"product-revenue", handlers.HandleProductRevenue},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			endpoint.handler(w, req)

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content-type 'application/json', got %q", ct)
			}
			if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
				t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
			}

			response := decodeResponse(t, w)
			if success, ok := response["success"].(bool); !ok || !success {
				t.Error("expected success=true in response")
			}
			if _, ok := response["data"]; !ok {
				t.Error("expected data field in response")
			}
		})
	}
}
