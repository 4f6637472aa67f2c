package services

import (
	"time"

	"coffee-connect/internal/models"
)

// Dataset is the immutable purchase table loaded once at startup. All
// aggregations are read-only projections over it, so concurrent use from
// multiple request goroutines needs no locking.
type Dataset struct {
	purchases []models.Purchase
	maxDate   time.Time
}

func NewDataset(purchases []models.Purchase) *Dataset {
	d := &Dataset{purchases: purchases}
	for _, p := range purchases {
		if p.Date.After(d.maxDate) {
			d.maxDate = p.Date
		}
	}
	return d
}

func (d *Dataset) Len() int {
	return len(d.purchases)
}

// MaxDate is the latest purchase date in the table. The zero time for an
// empty dataset.
func (d *Dataset) MaxDate() time.Time {
	return d.maxDate
}

// window returns the inclusive [maxDate-days, maxDate] bounds. The upper
// bound is always the data's own maximum date, never wall-clock now.
func (d *Dataset) window(days int) (start, end time.Time) {
	end = d.maxDate
	start = end.AddDate(0, 0, -days)
	return start, end
}

// inWindow reports whether t falls inside [start, end], both ends inclusive.
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
