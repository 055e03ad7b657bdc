package services

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"ga4-dashboard/internal/models"
)

const csvHeader = "Country,Active users,New users,Returning users,Engaged sessions,Average engagement time per active user,Bounce rate,Add to carts,Checkouts,Ecommerce purchases,Items purchased,Total revenue"

func parseCSV(t *testing.T, content string) *models.Table {
	t.Helper()
	table, err := ParseTable(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseTable() failed: %v", err)
	}
	return table
}

func TestParseTable_RevenueCleaning(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      float64
		wantValid bool
	}{
		{"currency formatted", `"$1,234.56"`, 1234.56, true},
		{"plain number", "1000", 1000, true},
		{"negative", `"-$5,000.00"`, -5000, true},
		{"empty", "", 0, false},
		{"symbols only", "$", 0, false},
		{"garbage stripped", "USD 42.50", 42.50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := parseCSV(t, csvHeader+"\nUnited States,100,60,40,80,35.5,0.4,20,10,5,8,"+tt.raw)

			rev := table.Rows[0].Revenue
			if rev.Valid != tt.wantValid {
				t.Fatalf("revenue valid = %v, want %v", rev.Valid, tt.wantValid)
			}
			if rev.Valid && rev.Value != tt.want {
				t.Errorf("revenue = %v, want %v", rev.Value, tt.want)
			}
		})
	}
}

func TestParseTable_GuardedDivision(t *testing.T) {
	table := parseCSV(t, csvHeader+`
United States,100,60,40,80,35.5,0.4,20,10,10,15,"$1,000.00"
France,50,30,20,40,20.0,0.5,5,0,0,0,"$0.00"`)

	us := table.Rows[0]
	if !us.AverageOrderValue.Valid || us.AverageOrderValue.Value != 100 {
		t.Errorf("US AOV = %+v, want 100", us.AverageOrderValue)
	}
	if !us.RevenuePerActiveUser.Valid || us.RevenuePerActiveUser.Value != 10 {
		t.Errorf("US revenue/user = %+v, want 10", us.RevenuePerActiveUser)
	}
	if !us.CheckoutRate.Valid || us.CheckoutRate.Value != 0.5 {
		t.Errorf("US checkout rate = %+v, want 0.5", us.CheckoutRate)
	}
	if !us.UnitsPerOrder.Valid || us.UnitsPerOrder.Value != 1.5 {
		t.Errorf("US units/order = %+v, want 1.5", us.UnitsPerOrder)
	}

	fr := table.Rows[1]
	if fr.AverageOrderValue.Valid {
		t.Errorf("FR AOV should be missing with zero purchases, got %v", fr.AverageOrderValue.Value)
	}
	if fr.PurchaseRate.Valid {
		t.Error("FR purchase rate should be missing with zero checkouts")
	}
	// One missing denominator must not affect the other ratios.
	if !fr.RevenuePerActiveUser.Valid || fr.RevenuePerActiveUser.Value != 0 {
		t.Errorf("FR revenue/user = %+v, want 0", fr.RevenuePerActiveUser)
	}
	if !fr.AddToCartRate.Valid || fr.AddToCartRate.Value != 0.1 {
		t.Errorf("FR ATC rate = %+v, want 0.1", fr.AddToCartRate)
	}
}

func TestParseTable_MalformedCellsBecomeMissing(t *testing.T) {
	table := parseCSV(t, csvHeader+"\nGermany,abc,60,40,80,n/a,0.4,20,10,5,8,$100.00")

	row := table.Rows[0]
	if row.ActiveUsers.Valid {
		t.Error("malformed active users should be missing, not an error")
	}
	if row.AvgEngagementTime.Valid {
		t.Error("malformed engagement time should be missing")
	}
	if !row.NewUsers.Valid || row.NewUsers.Value != 60 {
		t.Errorf("new users = %+v, want 60", row.NewUsers)
	}
	if row.RevenuePerActiveUser.Valid {
		t.Error("revenue/user should be missing when active users is missing")
	}
}

func TestParseTable_MissingRevenueColumn(t *testing.T) {
	noRevenue := strings.TrimSuffix(csvHeader, ",Total revenue")
	table := parseCSV(t, noRevenue+"\nSpain,100,60,40,80,35.5,0.4,20,10,5,8")

	row := table.Rows[0]
	if !row.Revenue.Valid || row.Revenue.Value != 0 {
		t.Errorf("revenue without column = %+v, want 0", row.Revenue)
	}
	if !row.AverageOrderValue.Valid || row.AverageOrderValue.Value != 0 {
		t.Errorf("AOV with zero revenue = %+v, want 0", row.AverageOrderValue)
	}
}

func TestParseTable_MissingRequiredColumn(t *testing.T) {
	_, err := ParseTable(context.Background(), strings.NewReader(
		"Country,Active users\nItaly,100"))
	if err == nil {
		t.Fatal("expected error for missing required column")
	}
	if !strings.Contains(err.Error(), "missing required column:") {
		t.Errorf("error = %q, want missing-column message", err)
	}
}

func TestParseTable_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"empty file", ""},
		{"ragged row", csvHeader + "\nUS,1,2"},
		{"unterminated quote", csvHeader + "\n\"US,1,2,3,4,5,6,7,8,9,10,11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTable(context.Background(), strings.NewReader(tt.csv)); err == nil {
				t.Error("expected structural parse error")
			}
		})
	}
}

func TestParseTable_DuplicateCountryRejected(t *testing.T) {
	_, err := ParseTable(context.Background(), strings.NewReader(csvHeader+`
France,100,60,40,80,35.5,0.4,20,10,5,8,$10.00
France,50,30,20,40,20.0,0.5,5,2,1,1,$5.00`))
	if err == nil {
		t.Fatal("expected error for duplicate country key")
	}
	if !strings.Contains(err.Error(), "duplicate country key: France") {
		t.Errorf("error = %q, want duplicate-key message", err)
	}
}

func TestParseTable_HeaderWhitespaceTrimmed(t *testing.T) {
	trimmed := " Country ,Active users,New users,Returning users,Engaged sessions,Average engagement time per active user,Bounce rate,Add to carts,Checkouts,Ecommerce purchases,Items purchased, Total revenue "
	table := parseCSV(t, trimmed+"\nJapan,100,60,40,80,35.5,0.4,20,10,5,8,$9.00")

	if table.Rows[0].Country != "Japan" {
		t.Errorf("country = %q, want Japan", table.Rows[0].Country)
	}
	if !table.Rows[0].Revenue.Valid || table.Rows[0].Revenue.Value != 9 {
		t.Errorf("revenue = %+v, want 9", table.Rows[0].Revenue)
	}
}

func TestParseTable_ExtraColumnsPassThrough(t *testing.T) {
	table := parseCSV(t, csvHeader+",Continent\nBrazil,100,60,40,80,35.5,0.4,20,10,5,8,$9.00,South America")

	got := table.Rows[0].Extra["Continent"]
	if got != "South America" {
		t.Errorf("extra column = %q, want South America", got)
	}
}

func TestParseTable_RowOrderPreserved(t *testing.T) {
	var b strings.Builder
	b.WriteString(csvHeader)
	countries := []string{"Chile", "Peru", "Kenya", "India", "Japan", "Spain", "Italy", "Egypt"}
	for _, c := range countries {
		b.WriteString("\n" + c + ",1,1,1,1,1,0.1,1,1,1,1,$1.00")
	}

	table := parseCSV(t, b.String())
	for i, c := range countries {
		if table.Rows[i].Country != c {
			t.Fatalf("row %d = %q, want %q (input order must survive the worker pool)", i, table.Rows[i].Country, c)
		}
	}
}

func BenchmarkParseTable(b *testing.B) {
	var sb strings.Builder
	sb.WriteString(csvHeader)
	for i := 0; i < 1000; i++ {
		sb.WriteString("\nCountry-")
		sb.WriteString(strconv.Itoa(i))
		sb.WriteString(",100,60,40,80,35.5,0.4,20,10,5,8,\"$1,234.56\"")
	}
	content := sb.String()

	b.ResetTimer()
	for b.Loop() {
		if _, err := ParseTable(context.Background(), strings.NewReader(content)); err != nil {
			b.Fatal(err)
		}
	}
}
