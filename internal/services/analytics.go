package services

import (
	"log/slog"
	"slices"
	"strings"

	"coffee-connect/internal/models"
	"github.com/shopspring/decimal"
)

const (
	dayLabel   = "2006-01-02"
	monthLabel = "2006-01"
)

// Analytics computes grouped revenue sums over an immutable Dataset. Every
// query recomputes from the raw table; there is no result caching, so
// repeated calls with the same arguments always agree with the table.
type Analytics struct {
	data   *Dataset
	logger *slog.Logger
}

func NewAnalytics(data *Dataset, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{data: data, logger: logger}
}

// TotalRevenue sums Price over the whole table.
func (a *Analytics) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range a.data.purchases {
		total = total.Add(p.Price)
	}
	return total
}

// RevenueByProduct groups all rows by product and sums Price per group,
// ordered by revenue descending.
func (a *Analytics) RevenueByProduct() []models.GroupRevenue {
	return groupRevenue(a.data.purchases, nil, func(p models.Purchase) string {
		return p.Product
	}, byRevenueDesc)
}

// RevenueByMonth groups all rows by calendar month of the purchase date,
// ordered chronologically.
func (a *Analytics) RevenueByMonth() []models.GroupRevenue {
	return groupRevenue(a.data.purchases, nil, func(p models.Purchase) string {
		return p.Date.Format(monthLabel)
	}, byLabelAsc)
}

// DailyRevenue sums Price per day over the inclusive window
// [maxDate-days, maxDate]. A non-positive day count means "no selection" and
// yields an empty result; a window containing no rows yields an empty result
// as well, which is not an error.
func (a *Analytics) DailyRevenue(days int) []models.GroupRevenue {
	if days <= 0 {
		return []models.GroupRevenue{}
	}
	start, end := a.data.window(days)
	filter := func(p models.Purchase) bool { return inWindow(p.Date, start, end) }
	return groupRevenue(a.data.purchases, filter, func(p models.Purchase) string {
		return p.Date.Format(dayLabel)
	}, byLabelAsc)
}

// ProductRevenue sums Price per product over the inclusive window
// [maxDate-days, maxDate]. days == 0 is the "all available days" sentinel:
// the whole table, no window filtering. Unlike DailyRevenue, zero here never
// means an empty selection.
func (a *Analytics) ProductRevenue(days int) []models.GroupRevenue {
	var filter func(models.Purchase) bool
	if days != 0 {
		start, end := a.data.window(days)
		filter = func(p models.Purchase) bool { return inWindow(p.Date, start, end) }
	}
	return groupRevenue(a.data.purchases, filter, func(p models.Purchase) string {
		return p.Product
	}, byRevenueDesc)
}

// CustomerPurchases returns the revenue total and per-product breakdown for
// one ERP identifier. ok is false when no row matches, which is distinct
// from a matching customer whose total happens to be zero.
func (a *Analytics) CustomerPurchases(erpID string) (models.CustomerSummary, bool) {
	filter := func(p models.Purchase) bool { return p.ERP == erpID }

	matched := false
	total := decimal.Zero
	for _, p := range a.data.purchases {
		if filter(p) {
			matched = true
			total = total.Add(p.Price)
		}
	}
	if !matched {
		return models.CustomerSummary{}, false
	}

	byProduct := groupRevenue(a.data.purchases, filter, func(p models.Purchase) string {
		return p.Product
	}, byRevenueDesc)

	return models.CustomerSummary{
		ERP:       erpID,
		Total:     total,
		ByProduct: byProduct,
	}, true
}

// Stats describes the loaded dataset for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	stats := map[string]any{
		"record_count": a.data.Len(),
		"products":     len(a.RevenueByProduct()),
		"months":       len(a.RevenueByMonth()),
	}
	if !a.data.MaxDate().IsZero() {
		stats["max_date"] = a.data.MaxDate().Format(dayLabel)
	}
	return stats
}

type ordering func(a, b models.GroupRevenue) int

func byRevenueDesc(a, b models.GroupRevenue) int {
	if c := b.Revenue.Cmp(a.Revenue); c != 0 {
		return c
	}
	return strings.Compare(a.Label, b.Label)
}

func byLabelAsc(a, b models.GroupRevenue) int {
	return strings.Compare(a.Label, b.Label)
}

// groupRevenue is the single group-by-sum kernel: optionally filter rows,
// key each remaining row, sum Price per key, and return the groups in a
// deterministic order.
func groupRevenue(purchases []models.Purchase, filter func(models.Purchase) bool,
	key func(models.Purchase) string, order ordering) []models.GroupRevenue {

	groups := make(map[string]decimal.Decimal)
	for _, p := range purchases {
		if filter != nil && !filter(p) {
			continue
		}
		groups[key(p)] = groups[key(p)].Add(p.Price)
	}

	result := make([]models.GroupRevenue, 0, len(groups))
	for label, revenue := range groups {
		result = append(result, models.GroupRevenue{Label: label, Revenue: revenue})
	}
	slices.SortFunc(result, order)
	return result
}
