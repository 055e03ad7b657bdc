package models

import "strconv"

// NullFloat is a numeric value that may be absent. The zero value is
// missing. Missing is distinct from zero: it marshals as JSON null so the
// chart layer renders a gap instead of a zero bar.
type NullFloat struct {
	Value float64
	Valid bool
}

func Float(v float64) NullFloat {
	return NullFloat{Value: v, Valid: true}
}

func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f.Value, 'f', -1, 64), nil
}

func (f *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = NullFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Or returns the value, or def when missing.
func (f NullFloat) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Div performs guarded division: a zero or missing denominator yields
// missing, never an error or infinity.
func Div(num, den NullFloat) NullFloat {
	if !num.Valid || !den.Valid || den.Value == 0 {
		return NullFloat{}
	}
	return Float(num.Value / den.Value)
}

// CountryRecord is one row of the GA4 country export: the raw metrics plus
// the cleaned revenue and the derived ratio columns. Country is the
// category key and is unique within a loaded table.
type CountryRecord struct {
	Country           string    `json:"country"`
	ActiveUsers       NullFloat `json:"active_users"`
	NewUsers          NullFloat `json:"new_users"`
	ReturningUsers    NullFloat `json:"returning_users"`
	EngagedSessions   NullFloat `json:"engaged_sessions"`
	AvgEngagementTime NullFloat `json:"avg_engagement_time"`
	BounceRate        NullFloat `json:"bounce_rate"`
	AddToCarts        NullFloat `json:"add_to_carts"`
	Checkouts         NullFloat `json:"checkouts"`
	Purchases         NullFloat `json:"purchases"`
	ItemsPurchased    NullFloat `json:"items_purchased"`

	// RevenueRaw keeps the currency-formatted source text, Revenue the
	// cleaned numeric value.
	RevenueRaw string    `json:"revenue_raw"`
	Revenue    NullFloat `json:"revenue"`

	AverageOrderValue    NullFloat `json:"average_order_value"`
	RevenuePerActiveUser NullFloat `json:"revenue_per_active_user"`
	AddToCartRate        NullFloat `json:"add_to_cart_rate"`
	CheckoutRate         NullFloat `json:"checkout_rate"`
	PurchaseRate         NullFloat `json:"purchase_rate"`
	UnitsPerOrder        NullFloat `json:"units_per_order"`

	// Extra holds columns beyond the expected GA4 set, passed through
	// unchanged.
	Extra map[string]string `json:"extra,omitempty"`
}

// Table is the immutable result of one upload. Views are projections over
// it; nothing mutates a Table after load.
type Table struct {
	Rows []CountryRecord `json:"rows"`
}

// Countries returns every category key in row order.
func (t *Table) Countries() []string {
	keys := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		keys = append(keys, r.Country)
	}
	return keys
}
