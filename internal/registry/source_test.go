package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantfall/tradesession/internal/config"
	"github.com/quantfall/tradesession/internal/sessioncfg"
	"github.com/quantfall/tradesession/internal/store/sqlite"
)

func writeSessionDB(t *testing.T, rows []sessioncfg.Row) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := sqlite.UpsertRows(db, rows); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	return path
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func boolPtr(v bool) *bool { return &v }

func TestLoadFromConfigCSVMergesOverDB(t *testing.T) {
	dbPath := writeSessionDB(t, []sessioncfg.Row{commodityNightRow("ag"), stockRow("600519")})
	// Partial export: only ag, with different hours.
	csvPath := writeCSV(t, "ag,9,0,15,0\n")

	merged := New()
	if err := merged.LoadFromConfig(config.Config{
		Source: "csv", CSVPath: csvPath, DBPath: dbPath, Merge: boolPtr(true),
	}); err != nil {
		t.Fatalf("merged load: %v", err)
	}
	if merged.Count() != 2 || !merged.Has("600519") {
		t.Fatalf("merge must keep db products absent from the csv, keys = %v", merged.Keys())
	}
	s, _ := merged.Get("ag")
	if s.HasNight() || s.SliceCount() != 1 {
		t.Fatalf("csv must replace ag wholesale, got %s", s.Render())
	}

	replaced := New()
	if err := replaced.LoadFromConfig(config.Config{
		Source: "csv", CSVPath: csvPath, DBPath: dbPath, Merge: boolPtr(false),
	}); err != nil {
		t.Fatalf("replace load: %v", err)
	}
	if replaced.Count() != 1 || replaced.Has("600519") {
		t.Fatalf("without merge the csv stands alone, keys = %v", replaced.Keys())
	}
}

func TestLoadFromConfigCSVWithoutDB(t *testing.T) {
	csvPath := writeCSV(t, "ag,21,0,2,30\n")
	r := New()
	err := r.LoadFromConfig(config.Config{
		Source: "csv", CSVPath: csvPath,
		DBPath: filepath.Join(t.TempDir(), "absent.db"), Merge: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.Count() != 1 || !r.Has("ag") {
		t.Fatalf("keys = %v", r.Keys())
	}
}

func TestLoadFromConfigDBSource(t *testing.T) {
	dbPath := writeSessionDB(t, []sessioncfg.Row{commodityNightRow("ag")})
	r := New()
	if err := r.LoadFromConfig(config.Config{Source: "db", DBPath: dbPath, Merge: boolPtr(true)}); err != nil {
		t.Fatalf("load: %v", err)
	}
	s, ok := r.Get("ag")
	if !ok || !s.HasNight() {
		t.Fatalf("ag must load from the db with its night leg")
	}
	if err := New().LoadFromConfig(config.Config{Source: "ftp"}); err == nil {
		t.Fatalf("unknown source must fail")
	}
}
