package sqlite_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/quantfall/tradesession/internal/registry"
	"github.com/quantfall/tradesession/internal/sessioncfg"
	"github.com/quantfall/tradesession/internal/store/sqlite"
)

func hm(sh, sm, eh, em int) sessioncfg.Slice {
	return sessioncfg.Slice{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
}

func TestUpsertAndLoadRows(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	rows := []sessioncfg.Row{
		{Product: "ag", Exchange: "SHFE", Slices: []sessioncfg.Slice{hm(21, 0, 2, 30), hm(9, 0, 15, 0)}},
		{Product: "IF", Exchange: "CFFEX", Slices: []sessioncfg.Slice{hm(9, 30, 11, 30), hm(13, 0, 15, 0)}},
	}
	if err := sqlite.UpsertRows(db, rows); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := sqlite.LoadRows(db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []sessioncfg.Row{rows[1], rows[0]} // ordered by product, "IF" < "ag"
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %+v, want %+v", got, want)
	}

	// Upsert replaces per product.
	if err := sqlite.UpsertRows(db, []sessioncfg.Row{{Product: "ag", Exchange: "SHFE", Slices: []sessioncfg.Slice{hm(9, 0, 15, 0)}}}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	got, err = sqlite.LoadRows(db)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got) != 2 || len(got[1].Slices) != 1 {
		t.Fatalf("rows after re-upsert = %+v", got)
	}
}

func TestLoadRowsIntoRegistry(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := sqlite.UpsertRows(db, []sessioncfg.Row{
		{Product: "ag", Slices: []sessioncfg.Slice{hm(21, 0, 2, 30), hm(9, 0, 15, 0)}},
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rows, err := sqlite.LoadRows(db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r := registry.New()
	if err := r.Load(rows, false); err != nil {
		t.Fatalf("registry load: %v", err)
	}
	s, ok := r.Get("ag")
	if !ok || !s.HasNight() {
		t.Fatalf("ag must be registered with a night leg")
	}
}
