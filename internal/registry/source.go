package registry

import (
	"fmt"
	"os"

	"github.com/quantfall/tradesession/internal/config"
	"github.com/quantfall/tradesession/internal/store/sqlite"
)

// LoadFromConfig fills the registry from the configured source. With
// source "db" the session table is loaded as-is. With source "csv" and
// merge enabled, an existing session database at db_path loads first
// and the CSV layers on top, so products missing from a partial export
// keep their stored sessions; with merge disabled the CSV stands
// alone.
func (r *Registry) LoadFromConfig(cfg config.Config) error {
	merge := cfg.Merge != nil && *cfg.Merge
	switch cfg.Source {
	case "db":
		return r.loadDB(cfg.DBPath)
	case "csv":
		if merge && cfg.DBPath != "" {
			if _, err := os.Stat(cfg.DBPath); err == nil {
				if err := r.loadDB(cfg.DBPath); err != nil {
					return err
				}
				return r.LoadCSVFile(cfg.CSVPath, true)
			}
		}
		return r.LoadCSVFile(cfg.CSVPath, false)
	default:
		return fmt.Errorf("unknown session source %q", cfg.Source)
	}
}

func (r *Registry) loadDB(path string) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()
	rows, err := sqlite.LoadRows(db)
	if err != nil {
		return err
	}
	return r.Load(rows, false)
}
