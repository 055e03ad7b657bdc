package models

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestNullFloat_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   NullFloat
		want string
	}{
		{"missing", NullFloat{}, "null"},
		{"zero is not missing", Float(0), "0"},
		{"value", Float(1234.56), "1234.56"},
		{"negative", Float(-2.5), "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("marshal = %s, want %s", b, tt.want)
			}
		})
	}
}

func TestNullFloat_UnmarshalJSON(t *testing.T) {
	var f NullFloat
	if err := json.Unmarshal([]byte("null"), &f); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if f.Valid {
		t.Error("null should unmarshal to missing")
	}

	if err := json.Unmarshal([]byte("3.25"), &f); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !f.Valid || f.Value != 3.25 {
		t.Errorf("unmarshal = %+v, want valid 3.25", f)
	}
}

func TestDiv(t *testing.T) {
	tests := []struct {
		name      string
		num, den  NullFloat
		want      float64
		wantValid bool
	}{
		{"normal", Float(10), Float(4), 2.5, true},
		{"zero denominator", Float(10), Float(0), 0, false},
		{"missing denominator", Float(10), NullFloat{}, 0, false},
		{"missing numerator", NullFloat{}, Float(4), 0, false},
		{"zero numerator", Float(0), Float(4), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Div(tt.num, tt.den)
			if got.Valid != tt.wantValid {
				t.Fatalf("Div valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Valid && got.Value != tt.want {
				t.Errorf("Div = %v, want %v", got.Value, tt.want)
			}
		})
	}
}

func TestNullFloat_Or(t *testing.T) {
	if got := Float(5).Or(9); got != 5 {
		t.Errorf("Or on valid = %v, want 5", got)
	}
	if got := (NullFloat{}).Or(9); got != 9 {
		t.Errorf("Or on missing = %v, want 9", got)
	}
}

func TestTable_Countries(t *testing.T) {
	table := &Table{Rows: []CountryRecord{
		{Country: "United States"},
		{Country: "France"},
	}}

	got := table.Countries()
	if len(got) != 2 || got[0] != "United States" || got[1] != "France" {
		t.Errorf("Countries() = %v, want input order preserved", got)
	}
}
