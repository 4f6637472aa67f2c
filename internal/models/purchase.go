package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is one point-of-sale event from the input spreadsheet.
// ERP is the customer/account identifier, always compared as a string.
type Purchase struct {
	Date    time.Time
	Product string
	Price   decimal.Decimal
	ERP     string
}

// GroupRevenue is one (group-key, sum) pair of an aggregation result.
type GroupRevenue struct {
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
}

// CustomerSummary is the result of an ERP lookup: the scalar total plus the
// per-product breakdown for all purchases made under that identifier.
type CustomerSummary struct {
	ERP       string          `json:"erp"`
	Total     decimal.Decimal `json:"total"`
	ByProduct []GroupRevenue  `json:"by_product"`
}
