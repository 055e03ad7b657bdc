package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"ga4-dashboard/internal/models"
)

const maxParseWorkers = 10

// Expected GA4 export column names. Total revenue is optional; a file
// without it loads with zero revenue everywhere.
const (
	colCountry        = "Country"
	colActiveUsers    = "Active users"
	colNewUsers       = "New users"
	colReturning      = "Returning users"
	colEngaged        = "Engaged sessions"
	colEngagementTime = "Average engagement time per active user"
	colBounceRate     = "Bounce rate"
	colAddToCarts     = "Add to carts"
	colCheckouts      = "Checkouts"
	colPurchases      = "Ecommerce purchases"
	colItems          = "Items purchased"
	colRevenue        = "Total revenue"
)

var requiredColumns = []string{
	colCountry, colActiveUsers, colNewUsers, colReturning, colEngaged,
	colEngagementTime, colBounceRate, colAddToCarts, colCheckouts,
	colPurchases, colItems,
}

// ParseTable reads a GA4 country CSV into an immutable table: revenue text
// cleaned to a number, the six ratio columns derived per row, every metric
// coerced with malformed cells degrading to missing. Only structural
// problems fail the load: unparseable CSV, a missing required column, or a
// duplicate country key.
func ParseTable(ctx context.Context, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	header := make([]string, len(records[0]))
	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		header[i] = name
		index[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing required column: %s", name)
		}
	}
	_, hasRevenue := index[colRevenue]

	dataRows := records[1:]
	rows := make([]models.CountryRecord, len(dataRows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParseWorkers)
	for i, record := range dataRows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rows[i] = parseRow(record, header, index, hasRevenue)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.Country]; dup {
			return nil, fmt.Errorf("duplicate country key: %s", row.Country)
		}
		seen[row.Country] = struct{}{}
	}

	return &models.Table{Rows: rows}, nil
}

func parseRow(record []string, header []string, index map[string]int, hasRevenue bool) models.CountryRecord {
	cell := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := models.CountryRecord{
		Country:           cell(colCountry),
		ActiveUsers:       coerce(cell(colActiveUsers)),
		NewUsers:          coerce(cell(colNewUsers)),
		ReturningUsers:    coerce(cell(colReturning)),
		EngagedSessions:   coerce(cell(colEngaged)),
		AvgEngagementTime: coerce(cell(colEngagementTime)),
		BounceRate:        coerce(cell(colBounceRate)),
		AddToCarts:        coerce(cell(colAddToCarts)),
		Checkouts:         coerce(cell(colCheckouts)),
		Purchases:         coerce(cell(colPurchases)),
		ItemsPurchased:    coerce(cell(colItems)),
	}

	if hasRevenue {
		row.RevenueRaw = cell(colRevenue)
		row.Revenue = cleanRevenue(row.RevenueRaw)
	} else {
		row.Revenue = models.Float(0)
	}

	row.AverageOrderValue = models.Div(row.Revenue, row.Purchases)
	row.RevenuePerActiveUser = models.Div(row.Revenue, row.ActiveUsers)
	row.AddToCartRate = models.Div(row.AddToCarts, row.ActiveUsers)
	row.CheckoutRate = models.Div(row.Checkouts, row.AddToCarts)
	row.PurchaseRate = models.Div(row.Purchases, row.Checkouts)
	row.UnitsPerOrder = models.Div(row.ItemsPurchased, row.Purchases)

	// Columns beyond the expected GA4 set pass through unchanged.
	for i, name := range header {
		if isExpectedColumn(name) || i >= len(record) {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]string)
		}
		row.Extra[name] = record[i]
	}

	return row
}

func isExpectedColumn(name string) bool {
	if name == colRevenue {
		return true
	}
	for _, c := range requiredColumns {
		if c == name {
			return true
		}
	}
	return false
}

// coerce parses a metric cell, degrading malformed values to missing
// rather than failing the load.
func coerce(s string) models.NullFloat {
	if s == "" {
		return models.NullFloat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return models.NullFloat{}
	}
	return models.Float(v)
}

// cleanRevenue strips everything that is not a digit, a dot, or a minus
// from a currency-formatted cell ("$1,234.56" -> 1234.56). An empty
// remainder is missing.
func cleanRevenue(s string) models.NullFloat {
	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' || c == '-' {
			b.WriteRune(c)
		}
	}
	return coerce(b.String())
}
