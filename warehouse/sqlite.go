package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	// registers the sqlite3 database/sql driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBusyTimeout = "5000" // 5 seconds
	defaultJournalMode = "WAL"
	metadataTable      = "tabula_tables"
	dataTablePrefix    = "tabula_data_"
)

const createMetadata = `CREATE TABLE IF NOT EXISTS ` + metadataTable + ` (
	key        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	ddl        TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// openSQLite opens a single-connection pool, which keeps writes serialized
// and lets ":memory:" databases behave as a single database
func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, createMetadata); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create warehouse metadata: %w", err)
	}
	return db, nil
}

func buildDSN(path string) string {
	params := url.Values{}
	params.Set("_busy_timeout", defaultBusyTimeout)
	if path != ":memory:" {
		params.Set("_journal_mode", defaultJournalMode)
	}
	return path + "?" + params.Encode()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func dataTable(key string) string {
	return quoteIdent(dataTablePrefix + key)
}
