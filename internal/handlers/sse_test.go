package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func assertEventStream(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("expected text/event-stream content type, got %q", ct)
	}
}

func TestSSEHandlers_HandleOverview(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/overview", nil)
	w := httptest.NewRecorder()

	handlers.HandleOverview(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	for _, expected := range []string{
		`id="total-revenue"`,
		"450.00 Rs",
		"overviewChart",
		"Latte",
		"Mocha",
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected stream to contain %q", expected)
		}
	}
}

func TestSSEHandlers_HandleDailyRevenue(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/daily-revenue?days=7", nil)
	w := httptest.NewRecorder()

	handlers.HandleDailyRevenue(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	for _, expected := range []string{
		"dailyChart",
		"Daily Revenue for Last 7 Days",
		"2024-01-01",
		"2024-01-02",
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected stream to contain %q", expected)
		}
	}
}

// Without a selected range the handler clears the chart instead of erroring.
func TestSSEHandlers_HandleDailyRevenue_NoSelection(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	for _, target := range []string{"/sse/daily-revenue", "/sse/daily-revenue?days=abc"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		handlers.HandleDailyRevenue(w, req)

		assertEventStream(t, w)
		body := w.Body.String()

		if !strings.Contains(body, "dailyChart") {
			t.Errorf("%s: expected a dailyChart signal patch", target)
		}
		if strings.Contains(body, "Daily Revenue for Last") {
			t.Errorf("%s: expected no chart title without a selection", target)
		}
	}
}

func TestSSEHandlers_HandleMonthlyRevenue(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/monthly-revenue", nil)
	w := httptest.NewRecorder()

	handlers.HandleMonthlyRevenue(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	for _, expected := range []string{"monthlyChart", "Monthly Revenue Trends", "2024-01"} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected stream to contain %q", expected)
		}
	}
}

func TestSSEHandlers_HandleProductShare(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name          string
		target        string
		expectedTitle string
	}{
		{
			name:          "windowed",
			target:        "/sse/product-share?days=365",
			expectedTitle: "Revenue Distribution for Last 365 Days",
		},
		{
			// days=0 is the all-time sentinel, not an empty window.
			name:          "all time sentinel",
			target:        "/sse/product-share?days=0",
			expectedTitle: "Revenue Distribution for Last All Days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			w := httptest.NewRecorder()

			handlers.HandleProductShare(w, req)

			assertEventStream(t, w)
			body := w.Body.String()

			for _, expected := range []string{"productChart", tt.expectedTitle, "Latte", "Mocha"} {
				if !strings.Contains(body, expected) {
					t.Errorf("expected stream to contain %q", expected)
				}
			}
		})
	}
}

func TestSSEHandlers_HandleEnquiry_Found(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/enquiry?erp=E1", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	for _, expected := range []string{
		"Total Purchases for ERP E1: 350.00 Rs",
		"enquiryChart",
		"Purchases for ERP E1",
		"Latte",
	} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected stream to contain %q", expected)
		}
	}
}

func TestSSEHandlers_HandleEnquiry_NotFound(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/enquiry?erp=E3", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	if !strings.Contains(body, "No purchases found for ERP E3.") {
		t.Error("expected not-found notice in stream")
	}
	if strings.Contains(body, "Purchases for ERP E3") {
		t.Error("expected no breakdown chart for an unknown ERP")
	}
}

// An empty identifier is the idle state: the output region is cleared and no
// notice is rendered.
func TestSSEHandlers_HandleEnquiry_EmptyID(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	for _, target := range []string{"/sse/enquiry", "/sse/enquiry?erp=%20%20"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()

		handlers.HandleEnquiry(w, req)

		assertEventStream(t, w)
		body := w.Body.String()

		if !strings.Contains(body, `id="enquiry-output"`) {
			t.Errorf("%s: expected the output region to be patched", target)
		}
		if strings.Contains(body, "No purchases found") {
			t.Errorf("%s: expected no notice for an empty identifier", target)
		}
		if strings.Contains(body, "Total Purchases") {
			t.Errorf("%s: expected no total for an empty identifier", target)
		}
	}
}

// User-provided identifiers are escaped before patching into the page.
func TestSSEHandlers_HandleEnquiry_EscapesID(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/enquiry?erp=%3Cscript%3E", nil)
	w := httptest.NewRecorder()

	handlers.HandleEnquiry(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	if strings.Contains(body, "<script>") {
		t.Error("expected identifier to be HTML-escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped identifier in the notice")
	}
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	handlers := NewSSEHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/sse/refresh-all", nil)
	w := httptest.NewRecorder()

	handlers.HandleRefreshAll(w, req)

	assertEventStream(t, w)
	body := w.Body.String()

	for _, expected := range []string{`id="total-revenue"`, "overviewChart", "monthlyChart"} {
		if !strings.Contains(body, expected) {
			t.Errorf("expected stream to contain %q", expected)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"150", "150.00"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-9876.5", "-9,876.50"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := formatAmount(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("formatAmount(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		query  string
		days   int
		wantOK bool
	}{
		{"days=7", 7, true},
		{"days=0", 0, true}, // present zero is a value, not an absence
		{"days=", 0, false},
		{"", 0, false},
		{"days=abc", 0, false},
		{"days=-3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test?"+tt.query, nil)
			days, ok := dayCount(req)
			if days != tt.days || ok != tt.wantOK {
				t.Errorf("dayCount(%q) = (%d, %v), want (%d, %v)", tt.query, days, ok, tt.days, tt.wantOK)
			}
		})
	}
}
