package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"coffee-connect/internal/models"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 5000
	maxWorkers = 10
)

// dateLayouts covers ISO dates plus the formats spreadsheet tools emit for
// date-styled cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"01/02/2006",
	"2006/01/02",
}

// columnIndex maps the required header names to their positions in the file.
type columnIndex struct {
	date, product, price, erp int
}

// LoadDataset reads the purchase table from an .xlsx or .csv file into an
// immutable Dataset. The header row must contain the Date, Product, Price and
// ERP columns; any missing column or unparseable row is an error, so the
// process never starts serving a partially loaded table. A file with a valid
// header and no data rows loads an empty dataset.
func LoadDataset(ctx context.Context, path, sheet string) (*Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path, sheet)
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		return nil, fmt.Errorf("unsupported data file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	purchases, err := parseRows(ctx, rows[1:], cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewDataset(purchases), nil
}

func readXLSXRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	return f.GetRows(sheet)
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func resolveColumns(header []string) (columnIndex, error) {
	cols := columnIndex{date: -1, product: -1, price: -1, erp: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "product":
			cols.product = i
		case "price":
			cols.price = i
		case "erp":
			cols.erp = i
		}
	}

	var missing []string
	for name, idx := range map[string]int{
		"Date": cols.date, "Product": cols.product, "Price": cols.price, "ERP": cols.erp,
	} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRows converts data rows to purchases, a batch per worker. Each batch
// writes into its own region of the output slice, so workers never share
// state. Fully empty rows (trailing spreadsheet padding) are dropped; any
// other malformed row fails the whole load.
func parseRows(ctx context.Context, rows [][]string, cols columnIndex) ([]models.Purchase, error) {
	out := make([]*models.Purchase, len(rows))

	var wg errgroup.Group
	wg.SetLimit(maxWorkers)

	for offset := 0; offset < len(rows); offset += batchSize {
		limit := min(offset+batchSize, len(rows))
		wg.Go(func() error {
			for i := offset; i < limit; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if rowEmpty(rows[i]) {
					continue
				}
				p, err := parsePurchase(rows[i], cols)
				if err != nil {
					return fmt.Errorf("row %d: %w", i+2, err)
				}
				out[i] = &p
			}
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	purchases := make([]models.Purchase, 0, len(out))
	for _, p := range out {
		if p != nil {
			purchases = append(purchases, *p)
		}
	}
	return purchases, nil
}

func parsePurchase(row []string, cols columnIndex) (models.Purchase, error) {
	date, err := parseDate(cell(row, cols.date))
	if err != nil {
		return models.Purchase{}, err
	}

	priceText := cell(row, cols.price)
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("invalid price %q", priceText)
	}
	if price.IsNegative() {
		return models.Purchase{}, fmt.Errorf("negative price %q", priceText)
	}

	return models.Purchase{
		Date:    date,
		Product: cell(row, cols.product),
		Price:   price,
		ERP:     cell(row, cols.erp),
	}, nil
}

// parseDate tries the known layouts, then falls back to Excel serial day
// numbers (days since 1899-12-30) for raw-valued date cells.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		days := int(math.Floor(serial))
		return epoch.AddDate(0, 0, days), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// cell returns the trimmed value at idx, tolerating rows that spreadsheet
// readers truncate after the last non-empty cell.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
