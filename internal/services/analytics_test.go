package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ga4-dashboard/internal/models"
)

const sampleCSV = csvHeader + `
United States,100,60,40,80,35.5,0.4,20,10,10,15,"$1,000.00"
France,50,30,20,40,20.0,0.5,5,0,0,0,"$0.00"`

func TestNewAnalytics(t *testing.T) {
	a := NewAnalytics()
	if a == nil {
		t.Fatal("NewAnalytics() returned nil")
	}
	if a.cache == nil {
		t.Error("cache should be initialized")
	}
	if a.logger == nil {
		t.Error("logger should be initialized")
	}
	if _, ok := a.Dataset(); ok {
		t.Error("Dataset() should report no data before a load")
	}
}

func TestAnalytics_Load(t *testing.T) {
	a := NewAnalytics()

	if err := a.Load(context.Background(), "sample.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	table, ok := a.Dataset()
	if !ok {
		t.Fatal("Dataset() should report data after load")
	}
	if len(table.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(table.Rows))
	}
}

func TestAnalytics_Load_Memoized(t *testing.T) {
	a := NewAnalytics()
	content := []byte(sampleCSV)

	if err := a.Load(context.Background(), "a.csv", content); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first, _ := a.Dataset()

	// Same bytes again: must be served from the cache, i.e. the exact
	// same table, not a re-parse.
	if err := a.Load(context.Background(), "b.csv", content); err != nil {
		t.Fatalf("second load: %v", err)
	}
	second, _ := a.Dataset()

	if first != second {
		t.Error("identical content should reuse the cached table")
	}
	if a.cache.len() != 1 {
		t.Errorf("cache entries = %d, want 1", a.cache.len())
	}
}

func TestAnalytics_Load_NewContentReplacesDataset(t *testing.T) {
	a := NewAnalytics()

	if err := a.Load(context.Background(), "a.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("first load: %v", err)
	}

	other := csvHeader + "\nGermany,10,5,5,8,12.0,0.3,2,1,1,1,$50.00"
	if err := a.Load(context.Background(), "b.csv", []byte(other)); err != nil {
		t.Fatalf("second load: %v", err)
	}

	table, _ := a.Dataset()
	if len(table.Rows) != 1 || table.Rows[0].Country != "Germany" {
		t.Errorf("current dataset should be the new upload, got %d rows", len(table.Rows))
	}
}

func TestAnalytics_Load_RejectedKeepsPrevious(t *testing.T) {
	a := NewAnalytics()

	if err := a.Load(context.Background(), "a.csv", []byte(sampleCSV)); err != nil {
		t.Fatalf("first load: %v", err)
	}

	if err := a.Load(context.Background(), "bad.csv", []byte("not,a\nvalid")); err == nil {
		t.Fatal("expected error for invalid upload")
	}

	table, ok := a.Dataset()
	if !ok || len(table.Rows) != 2 {
		t.Error("a rejected upload must not disturb the current dataset")
	}
}

func TestAnalytics_LoadFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), path); err != nil {
		t.Fatalf("LoadFromCSV() failed: %v", err)
	}

	if _, ok := a.Dataset(); !ok {
		t.Error("Dataset() should report data after file load")
	}
}

func TestAnalytics_LoadFromCSV_MissingFile(t *testing.T) {
	a := NewAnalytics()
	if err := a.LoadFromCSV(context.Background(), "/nonexistent/data.csv"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestAnalytics_SetData(t *testing.T) {
	a := NewAnalytics()
	a.SetData([]models.CountryRecord{{Country: "Japan", ActiveUsers: models.Float(7)}})

	table, ok := a.Dataset()
	if !ok || len(table.Rows) != 1 || table.Rows[0].Country != "Japan" {
		t.Error("SetData() should install the rows as the current dataset")
	}
}

func TestAnalytics_Stats(t *testing.T) {
	a := NewAnalytics()

	stats := a.Stats()
	if loaded, _ := stats["loaded"].(bool); loaded {
		t.Error("stats should report loaded=false before any upload")
	}

	if err := a.Load(context.Background(), "sample.csv", []byte(sampleCSV)); err != nil {
		t.Fatal(err)
	}

	stats = a.Stats()
	if loaded, _ := stats["loaded"].(bool); !loaded {
		t.Error("stats should report loaded=true after upload")
	}
	if rows, _ := stats["rows"].(int); rows != 2 {
		t.Errorf("stats rows = %v, want 2", stats["rows"])
	}
	if stats["filename"] != "sample.csv" {
		t.Errorf("stats filename = %v, want sample.csv", stats["filename"])
	}
}

func TestAnalytics_ConcurrentAccess(t *testing.T) {
	a := NewAnalytics()
	content := []byte(sampleCSV)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			_ = a.Load(context.Background(), "sample.csv", content)
			if table, ok := a.Dataset(); ok {
				_ = table.Countries()
			}
			_ = a.Stats()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestContentKey(t *testing.T) {
	a := ContentKey([]byte("one"))
	b := ContentKey([]byte("two"))
	if a == b {
		t.Error("different content must produce different keys")
	}
	if a != ContentKey([]byte("one")) {
		t.Error("ContentKey must be deterministic")
	}
}

func TestTableCache_Bounded(t *testing.T) {
	c := newTableCache()
	for i := 0; i < maxCacheEntries*2; i++ {
		c.put(ContentKey([]byte{byte(i)}), &models.Table{})
	}
	if c.len() > maxCacheEntries {
		t.Errorf("cache entries = %d, want at most %d", c.len(), maxCacheEntries)
	}
}
