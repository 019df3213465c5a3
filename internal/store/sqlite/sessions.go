package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quantfall/tradesession/internal/sessioncfg"
)

// fixedRFC3339Nano is a fixed-width RFC3339 with 9-digit nanoseconds so
// TEXT ordering matches time ordering.
func fixedRFC3339Nano(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// UpsertRows writes configuration rows into trade_session, replacing
// any existing row per product. The whole batch goes in one
// transaction.
func UpsertRows(db *sql.DB, rows []sessioncfg.Row) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO trade_session (product, exchange, sessions, updated_utc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(product) DO UPDATE SET
			exchange = excluded.exchange,
			sessions = excluded.sessions,
			updated_utc = excluded.updated_utc
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := fixedRFC3339Nano(time.Now())
	for _, row := range rows {
		js, err := sessioncfg.MarshalJSONSlices(row.Slices)
		if err != nil {
			return fmt.Errorf("product %q: %w", row.Product, err)
		}
		if _, err := stmt.Exec(row.Product, row.Exchange, js, now); err != nil {
			return fmt.Errorf("product %q: %w", row.Product, err)
		}
	}
	return tx.Commit()
}

// LoadRows reads every trade_session row back as configuration rows,
// ordered by product.
func LoadRows(db *sql.DB) ([]sessioncfg.Row, error) {
	rows, err := db.Query(`
		SELECT product, COALESCE(exchange, ''), sessions
		FROM trade_session
		ORDER BY product
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sessioncfg.Row
	for rows.Next() {
		var r sessioncfg.Row
		var js string
		if err := rows.Scan(&r.Product, &r.Exchange, &js); err != nil {
			return nil, err
		}
		r.Slices, err = sessioncfg.ParseJSONSlices(js)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", r.Product, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
