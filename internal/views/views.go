// Package views builds the dashboard's chart and table specifications from
// a loaded table plus the current selection and top-N parameters. Every
// function is pure: the same table and parameters always produce the same
// views, and nothing here mutates the table.
package views

import (
	"fmt"
	"slices"

	"ga4-dashboard/internal/geo"
	"ga4-dashboard/internal/metrics"
	"ga4-dashboard/internal/models"
)

// Top-N slider bounds, matching the UI control.
const (
	MinTopN     = 3
	MaxTopN     = 30
	DefaultTopN = 10
)

// Params are the two user-controlled inputs. A nil Countries slice means
// all countries.
type Params struct {
	Countries []string `json:"countries"`
	TopN      int      `json:"topN"`
}

// Normalize clamps TopN into its valid range (zero becomes the default)
// and leaves the selection untouched.
func (p Params) Normalize() Params {
	switch {
	case p.TopN == 0:
		p.TopN = DefaultTopN
	case p.TopN < MinTopN:
		p.TopN = MinTopN
	case p.TopN > MaxTopN:
		p.TopN = MaxTopN
	}
	return p
}

// Column names a sortable metric for TopBy.
type Column string

const (
	ColActiveUsers Column = "active_users"
	ColRevenue     Column = "revenue"
)

func columnValue(r models.CountryRecord, col Column) models.NullFloat {
	switch col {
	case ColActiveUsers:
		return r.ActiveUsers
	case ColRevenue:
		return r.Revenue
	default:
		return models.NullFloat{}
	}
}

// FilterBySelection returns the rows whose country is in selected. A nil
// selection keeps everything; an empty one yields an empty table rather
// than an error.
func FilterBySelection(t *models.Table, selected []string) *models.Table {
	if selected == nil {
		return &models.Table{Rows: slices.Clone(t.Rows)}
	}
	keep := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		keep[c] = struct{}{}
	}
	rows := make([]models.CountryRecord, 0, len(selected))
	for _, r := range t.Rows {
		if _, ok := keep[r.Country]; ok {
			rows = append(rows, r)
		}
	}
	return &models.Table{Rows: rows}
}

// TopBy sorts descending by the column (stable, so ties keep their input
// order; missing values sort last) and truncates to the first n rows.
func TopBy(t *models.Table, col Column, n int) *models.Table {
	rows := slices.Clone(t.Rows)
	slices.SortStableFunc(rows, func(a, b models.CountryRecord) int {
		av, bv := columnValue(a, col), columnValue(b, col)
		switch {
		case av.Valid && !bv.Valid:
			return -1
		case !av.Valid && bv.Valid:
			return 1
		case av.Value > bv.Value:
			return -1
		case av.Value < bv.Value:
			return 1
		default:
			return 0
		}
	})
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	return &models.Table{Rows: rows}
}

// Totals is the KPI header aggregate over the current selection. Missing
// cells are skipped, not counted as zero.
type Totals struct {
	ActiveUsers    float64 `json:"active_users"`
	NewUsers       float64 `json:"new_users"`
	ReturningUsers float64 `json:"returning_users"`
	Revenue        float64 `json:"revenue"`
}

func AggregateTotals(t *models.Table) Totals {
	var totals Totals
	for _, r := range t.Rows {
		totals.ActiveUsers += r.ActiveUsers.Or(0)
		totals.NewUsers += r.NewUsers.Or(0)
		totals.ReturningUsers += r.ReturningUsers.Or(0)
		totals.Revenue += r.Revenue.Or(0)
	}
	return totals
}

// FunnelStage is one step of the conversion funnel.
type FunnelStage struct {
	Label string  `json:"label"`
	Count float64 `json:"count"`
}

// FunnelTotals sums the three conversion stages over the selection, in
// fixed order: add to carts, checkouts, purchases.
func FunnelTotals(t *models.Table) [3]FunnelStage {
	stages := [3]FunnelStage{
		{Label: "Add to carts"},
		{Label: "Checkouts"},
		{Label: "Purchases"},
	}
	for _, r := range t.Rows {
		stages[0].Count += r.AddToCarts.Or(0)
		stages[1].Count += r.Checkouts.Or(0)
		stages[2].Count += r.Purchases.Or(0)
	}
	return stages
}

// ShareSegment is one slice of the revenue part-to-whole chart. Missing
// revenue renders as a zero-size segment; an all-zero sum is fine.
type ShareSegment struct {
	Country string  `json:"country"`
	Revenue float64 `json:"revenue"`
}

func RevenueShare(t *models.Table) []ShareSegment {
	segments := make([]ShareSegment, 0, len(t.Rows))
	for _, r := range t.Rows {
		segments = append(segments, ShareSegment{
			Country: r.Country,
			Revenue: r.Revenue.Or(0),
		})
	}
	return segments
}

// Chart specifications consumed by the presentation layer.

type Series struct {
	Name   string             `json:"name"`
	Values []models.NullFloat `json:"values"`
}

type BarChart struct {
	Title  string             `json:"title"`
	Labels []string           `json:"labels"`
	Values []models.NullFloat `json:"values"`
}

type MultiBarChart struct {
	Title  string   `json:"title"`
	Mode   string   `json:"mode"` // "stack" or "group"
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

type ScatterPoint struct {
	Country string           `json:"country"`
	X       models.NullFloat `json:"x"`
	Y       models.NullFloat `json:"y"`
	Size    models.NullFloat `json:"size"`
}

type ScatterChart struct {
	Title  string         `json:"title"`
	XLabel string         `json:"x_label"`
	YLabel string         `json:"y_label"`
	Points []ScatterPoint `json:"points"`
}

type FunnelChart struct {
	Title  string         `json:"title"`
	Stages [3]FunnelStage `json:"stages"`
}

// KPIRow is one line of the funnel-KPI table: raw counts plus the four
// derived rates.
type KPIRow struct {
	Country        string           `json:"country"`
	ActiveUsers    models.NullFloat `json:"active_users"`
	AddToCarts     models.NullFloat `json:"add_to_carts"`
	Checkouts      models.NullFloat `json:"checkouts"`
	Purchases      models.NullFloat `json:"purchases"`
	ItemsPurchased models.NullFloat `json:"items_purchased"`
	AddToCartRate  models.NullFloat `json:"add_to_cart_rate"`
	CheckoutRate   models.NullFloat `json:"checkout_rate"`
	PurchaseRate   models.NullFloat `json:"purchase_rate"`
	UnitsPerOrder  models.NullFloat `json:"units_per_order"`
}

type ChoroplethEntry struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Value   float64 `json:"value"`
}

type ChoroplethChart struct {
	Title   string            `json:"title"`
	Metric  string            `json:"metric"`
	Entries []ChoroplethEntry `json:"entries"`
}

// Summary carries the KPI header totals plus their display strings.
// Formatting happens only here, at the presentation boundary.
type Summary struct {
	Totals             Totals `json:"totals"`
	ActiveUsersText    string `json:"active_users_text"`
	NewUsersText       string `json:"new_users_text"`
	ReturningUsersText string `json:"returning_users_text"`
	RevenueText        string `json:"revenue_text"`
}

// Dashboard is the complete set of view specifications for one render.
type Dashboard struct {
	Summary        Summary         `json:"summary"`
	TopActiveUsers BarChart        `json:"top_active_users"`
	NewVsReturning MultiBarChart   `json:"new_vs_returning"`
	Engagement     ScatterChart    `json:"engagement"`
	Funnel         FunnelChart     `json:"funnel"`
	FunnelKPIs     []KPIRow        `json:"funnel_kpis"`
	TopRevenue     BarChart        `json:"top_revenue"`
	Monetization   MultiBarChart   `json:"monetization"`
	RevenueShare   []ShareSegment  `json:"revenue_share"`
	Choropleth     ChoroplethChart `json:"choropleth"`
}

// BuildDashboard recomputes every view from the table and parameters. It
// is invoked on each parameter change; there is no incremental state.
func BuildDashboard(t *models.Table, p Params) *Dashboard {
	p = p.Normalize()
	filtered := FilterBySelection(t, p.Countries)

	totals := AggregateTotals(filtered)
	topUsers := TopBy(filtered, ColActiveUsers, p.TopN)
	topRevenue := TopBy(filtered, ColRevenue, p.TopN)
	byUsers := TopBy(filtered, ColActiveUsers, len(filtered.Rows))

	d := &Dashboard{
		Summary: Summary{
			Totals:             totals,
			ActiveUsersText:    formatCount(totals.ActiveUsers),
			NewUsersText:       formatCount(totals.NewUsers),
			ReturningUsersText: formatCount(totals.ReturningUsers),
			RevenueText:        formatMoney(totals.Revenue),
		},
		TopActiveUsers: BarChart{
			Title:  fmt.Sprintf("Top %d Countries by Active Users", min(p.TopN, len(topUsers.Rows))),
			Labels: topUsers.Countries(),
		},
		NewVsReturning: MultiBarChart{
			Title:  "New vs Returning (Top Countries)",
			Mode:   "stack",
			Labels: topUsers.Countries(),
			Series: []Series{{Name: "New users"}, {Name: "Returning users"}},
		},
		Engagement: ScatterChart{
			Title:  "Engagement: Bounce Rate vs. Avg Engagement Time",
			XLabel: "Bounce Rate",
			YLabel: "Avg Engagement Time per Active User",
		},
		Funnel: FunnelChart{
			Title:  "Global Funnel (Selected Countries)",
			Stages: FunnelTotals(filtered),
		},
		TopRevenue: BarChart{
			Title:  fmt.Sprintf("Top %d Countries by Revenue", min(p.TopN, len(topRevenue.Rows))),
			Labels: topRevenue.Countries(),
		},
		Monetization: MultiBarChart{
			Title:  "AOV vs Revenue per Active User",
			Mode:   "group",
			Labels: topRevenue.Countries(),
			Series: []Series{{Name: "AOV ($)"}, {Name: "Revenue per Active User ($)"}},
		},
		RevenueShare: RevenueShare(filtered),
		Choropleth: ChoroplethChart{
			Title:  "Active Users by Country",
			Metric: "Active users",
		},
	}

	for _, r := range topUsers.Rows {
		d.TopActiveUsers.Values = append(d.TopActiveUsers.Values, r.ActiveUsers)
		d.NewVsReturning.Series[0].Values = append(d.NewVsReturning.Series[0].Values, r.NewUsers)
		d.NewVsReturning.Series[1].Values = append(d.NewVsReturning.Series[1].Values, r.ReturningUsers)
	}

	for _, r := range filtered.Rows {
		d.Engagement.Points = append(d.Engagement.Points, ScatterPoint{
			Country: r.Country,
			X:       r.BounceRate,
			Y:       r.AvgEngagementTime,
			Size:    r.ActiveUsers,
		})
	}

	for _, r := range byUsers.Rows {
		d.FunnelKPIs = append(d.FunnelKPIs, KPIRow{
			Country:        r.Country,
			ActiveUsers:    r.ActiveUsers,
			AddToCarts:     r.AddToCarts,
			Checkouts:      r.Checkouts,
			Purchases:      r.Purchases,
			ItemsPurchased: r.ItemsPurchased,
			AddToCartRate:  r.AddToCartRate,
			CheckoutRate:   r.CheckoutRate,
			PurchaseRate:   r.PurchaseRate,
			UnitsPerOrder:  r.UnitsPerOrder,
		})
	}

	for _, r := range topRevenue.Rows {
		d.TopRevenue.Values = append(d.TopRevenue.Values, r.Revenue)
		d.Monetization.Series[0].Values = append(d.Monetization.Series[0].Values, r.AverageOrderValue)
		d.Monetization.Series[1].Values = append(d.Monetization.Series[1].Values, r.RevenuePerActiveUser)
	}

	// Countries the gazetteer does not recognize are left off the map.
	for _, r := range filtered.Rows {
		code, ok := geo.ISO3(r.Country)
		if !ok {
			continue
		}
		d.Choropleth.Entries = append(d.Choropleth.Entries, ChoroplethEntry{
			Country: r.Country,
			ISO3:    code,
			Value:   r.ActiveUsers.Or(0),
		})
	}

	metrics.ViewBuildsTotal.Inc()
	return d
}
