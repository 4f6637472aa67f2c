package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"coffee-connect/internal/charts"
	"coffee-connect/internal/services"
	"github.com/shopspring/decimal"
	"github.com/starfederation/datastar-go/datastar"
)

var enquiryResultTemplate = template.Must(template.New("enquiryResult").Parse(
	`<div id="enquiry-output"><h4>Total Purchases for ERP {{.ERP}}: {{.Total}} Rs</h4></div>`))

var enquiryNotFoundTemplate = template.Must(template.New("enquiryNotFound").Parse(
	`<div id="enquiry-output"><h4>No purchases found for ERP {{.}}.</h4></div>`))

// SSEHandlers binds each dashboard control to an aggregation call and a chart
// specification. Every request re-runs the aggregation over the immutable
// dataset and patches the rendered artifact in place; no results are cached
// between events.
type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *SSEHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	total := h.analytics.TotalRevenue()
	sse.PatchElements(fmt.Sprintf(`<div id="total-revenue"><h4>%s Rs</h4></div>`, formatAmount(total)))

	if !h.patchChart(sse, "overviewChart", charts.Bar("Revenue by Product", h.analytics.RevenueByProduct())) {
		return
	}

	flush(w)
}

func (h *SSEHandlers) HandleDailyRevenue(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	days, ok := dayCount(r)
	if !ok {
		// No selection: clear the chart rather than erroring.
		h.patchChart(sse, "dailyChart", charts.Spec{Type: charts.TypeLine})
		flush(w)
		return
	}

	spec := charts.Line(
		fmt.Sprintf("Daily Revenue for Last %d Days", days),
		h.analytics.DailyRevenue(days),
	)
	if !h.patchChart(sse, "dailyChart", spec) {
		return
	}

	flush(w)
}

func (h *SSEHandlers) HandleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	spec := charts.Bar("Monthly Revenue Trends", h.analytics.RevenueByMonth())
	if !h.patchChart(sse, "monthlyChart", spec) {
		return
	}

	flush(w)
}

func (h *SSEHandlers) HandleProductShare(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	days, ok := dayCount(r)
	if !ok {
		h.patchChart(sse, "productChart", charts.Spec{Type: charts.TypePie})
		flush(w)
		return
	}

	// days == 0 is "all available days": the whole table, unfiltered.
	rangeLabel := "All"
	if days != 0 {
		rangeLabel = strconv.Itoa(days)
	}
	spec := charts.Pie(
		fmt.Sprintf("Revenue Distribution for Last %s Days", rangeLabel),
		h.analytics.ProductRevenue(days),
	)
	if !h.patchChart(sse, "productChart", spec) {
		return
	}

	flush(w)
}

// HandleEnquiry has three observable outcomes: an empty identifier renders
// nothing, a match renders the total plus the per-product breakdown, and a
// miss renders a not-found notice without a chart.
func (h *SSEHandlers) HandleEnquiry(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	erpID := strings.TrimSpace(r.URL.Query().Get("erp"))
	if erpID == "" {
		sse.PatchElements(`<div id="enquiry-output"></div>`)
		h.patchChart(sse, "enquiryChart", charts.Spec{Type: charts.TypeBar})
		flush(w)
		return
	}

	summary, found := h.analytics.CustomerPurchases(erpID)
	if !found {
		var buf strings.Builder
		if err := enquiryNotFoundTemplate.Execute(&buf, erpID); err != nil {
			h.logger.Error("render enquiry notice", "error", err)
			return
		}
		sse.PatchElements(buf.String())
		h.patchChart(sse, "enquiryChart", charts.Spec{Type: charts.TypeBar})
		flush(w)
		return
	}

	var buf strings.Builder
	err := enquiryResultTemplate.Execute(&buf, struct {
		ERP   string
		Total string
	}{ERP: summary.ERP, Total: formatAmount(summary.Total)})
	if err != nil {
		h.logger.Error("render enquiry result", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	spec := charts.Bar(fmt.Sprintf("Purchases for ERP %s", summary.ERP), summary.ByProduct)
	if !h.patchChart(sse, "enquiryChart", spec) {
		return
	}

	flush(w)
}

// HandleRefreshAll recomputes the unconditioned views in one event stream.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	total := h.analytics.TotalRevenue()
	sse.PatchElements(fmt.Sprintf(`<div id="total-revenue"><h4>%s Rs</h4></div>`, formatAmount(total)))

	signals, err := json.Marshal(map[string]any{
		"overviewChart": charts.Bar("Revenue by Product", h.analytics.RevenueByProduct()),
		"monthlyChart":  charts.Bar("Monthly Revenue Trends", h.analytics.RevenueByMonth()),
	})
	if err != nil {
		h.logger.Error("marshal refresh signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	flush(w)
}

// patchChart pushes one chart spec as a signal patch. Reports false when the
// spec could not be marshaled and the stream should be abandoned.
func (h *SSEHandlers) patchChart(sse *datastar.ServerSentEventGenerator, signal string, spec charts.Spec) bool {
	payload, err := json.Marshal(map[string]any{signal: spec})
	if err != nil {
		h.logger.Error("marshal chart signal", "signal", signal, "error", err)
		return false
	}
	sse.PatchSignals(payload)
	return true
}

// dayCount reads the days query parameter. ok is false when the control has
// no usable selection; a present "0" is a valid value, not an absence.
func dayCount(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("days"))
	if raw == "" {
		return 0, false
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, false
	}
	return days, true
}

// formatAmount renders a sum with thousands separators and two decimals,
// matching the dashboard's display convention. Formatting is a display
// concern only; aggregation results stay exact decimals.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
