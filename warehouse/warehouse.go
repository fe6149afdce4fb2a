package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/errors"
	"github.com/go-sif/tabula/internal/encoding"
	"github.com/go-sif/tabula/logging"
	"github.com/go-sif/tabula/schema"
	"github.com/go-sif/tabula/table"
	"github.com/go-sif/tabula/writer"
	"github.com/tidwall/gjson"
)

// A Warehouse stores managed tables in a SQLite database. Table names are case-insensitive.
type Warehouse struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Warehouse
type Option func(w *Warehouse)

// WithLogger sets the logger which receives save and load messages
func WithLogger(logger *slog.Logger) Option {
	return func(w *Warehouse) {
		w.logger = logging.OrDiscard(logger)
	}
}

// Open opens (creating if necessary) the warehouse stored at path. The path ":memory:" opens a
// private in-memory warehouse.
func Open(path string, opts ...Option) (*Warehouse, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	w := &Warehouse{db: db, logger: logging.Discard()}
	for _, opt := range opts {
		opt(w)
	}
	w.logger.Debug("opened warehouse", "path", path)
	return w, nil
}

// Close releases the underlying database
func (w *Warehouse) Close() error {
	return w.db.Close()
}

func tableKey(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if len(key) == 0 {
		return "", errors.InvalidArgumentError{Argument: "name", Reason: "table names cannot be empty"}
	}
	return key, nil
}

// SaveAsTable stores t under name. When the table already exists, mode decides whether the
// save fails, is skipped, replaces the table or appends to it. Appended Tables must have the
// same column names and types as the stored table.
func (w *Warehouse) SaveAsTable(ctx context.Context, name string, t tabula.Table, mode writer.Mode) error {
	key, err := tableKey(name)
	if err != nil {
		return err
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save of table %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, found, err := lookupSchema(ctx, tx, key)
	if err != nil {
		return err
	}
	if found {
		switch mode {
		case writer.ModeErrorIfExists:
			return errors.DestinationExistsError{Path: name}
		case writer.ModeIgnore:
			w.logger.Info("table exists, skipping save", "table", name)
			return nil
		case writer.ModeOverwrite:
			if err := dropTable(ctx, tx, key); err != nil {
				return err
			}
			found = false
		case writer.ModeAppend:
			if err := sameColumns(existing, t.Schema()); err != nil {
				return err
			}
		}
	}
	if !found {
		if err := createTable(ctx, tx, key, name, t.Schema()); err != nil {
			return err
		}
	}
	if err := insertRows(ctx, tx, key, t); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save of table %s: %w", name, err)
	}
	w.logger.Debug("saved table", "table", name, "rows", t.NumRows(), "mode", mode.String())
	return nil
}

// LoadTable reads a managed table, in the order its rows were saved
func (w *Warehouse) LoadTable(ctx context.Context, name string) (tabula.Table, error) {
	key, err := tableKey(name)
	if err != nil {
		return nil, err
	}
	s, found, err := lookupSchema(ctx, w.db, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.SourceNotFoundError{Path: name}
	}
	rows, err := w.db.QueryContext(ctx, "SELECT * FROM "+dataTable(key)+" ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	cols := s.Columns()
	var data [][]interface{}
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		dest := make([]interface{}, len(cols))
		for i := range raw {
			dest[i] = &raw[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read table %s: %w", name, err)
		}
		row := make([]interface{}, len(cols))
		for i, col := range cols {
			v, err := decodeValue(raw[i], col.Type())
			if err != nil {
				return nil, errors.SchemaMismatchError{Reason: err.Error(), Column: s.ColumnNames()[i], Row: len(data)}
			}
			row[i] = v
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	w.logger.Debug("loaded table", "table", name, "rows", len(data))
	return table.Create(data, s)
}

// DropTable removes a managed table, returning true iff it existed
func (w *Warehouse) DropTable(ctx context.Context, name string) (bool, error) {
	key, err := tableKey(name)
	if err != nil {
		return false, err
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin drop of table %s: %w", name, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	_, found, err := lookupSchema(ctx, tx, key)
	if err != nil || !found {
		return false, err
	}
	if err := dropTable(ctx, tx, key); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// Tables lists the names of all managed tables, sorted
func (w *Warehouse) Tables(ctx context.Context) ([]string, error) {
	rows, err := w.db.QueryContext(ctx, "SELECT name FROM "+metadataTable+" ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list tables: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func lookupSchema(ctx context.Context, q querier, key string) (tabula.Schema, bool, error) {
	var ddl string
	err := q.QueryRowContext(ctx, "SELECT ddl FROM "+metadataTable+" WHERE key = ?", key).Scan(&ddl)
	if err == sql.ErrNoRows {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("look up table %s: %w", key, err)
	}
	s, err := schema.ParseDDL(ddl)
	if err != nil {
		return nil, false, fmt.Errorf("stored schema of table %s: %w", key, err)
	}
	return s, true, nil
}

func sameColumns(existing tabula.Schema, incoming tabula.Schema) error {
	if existing.NumColumns() != incoming.NumColumns() {
		return errors.SchemaMismatchError{Reason: fmt.Sprintf("cannot append %d columns to a table with %d", incoming.NumColumns(), existing.NumColumns())}
	}
	names := existing.ColumnNames()
	incomingNames := incoming.ColumnNames()
	incomingCols := incoming.Columns()
	for i, col := range existing.Columns() {
		if names[i] != incomingNames[i] || !tabula.TypesEqual(col.Type(), incomingCols[i].Type()) {
			return errors.SchemaMismatchError{
				Reason: fmt.Sprintf("cannot append %s %s to column %s %s", incomingNames[i], incomingCols[i].Type().Name(), names[i], col.Type().Name()),
				Column: names[i],
			}
		}
		if !col.Nullable() && incomingCols[i].Nullable() {
			return errors.SchemaMismatchError{Reason: "cannot append nullable values to a NOT NULL column", Column: names[i]}
		}
	}
	return nil
}

func sqliteType(colType tabula.ColumnType) string {
	switch colType.(type) {
	case *tabula.IntegerColumnType, *tabula.BooleanColumnType:
		return "INTEGER"
	case *tabula.DoubleColumnType:
		return "REAL"
	}
	return "TEXT"
}

func createTable(ctx context.Context, tx *sql.Tx, key string, name string, s tabula.Schema) error {
	defs := make([]string, s.NumColumns())
	for i, col := range s.Columns() {
		defs[i] = fmt.Sprintf("c%d %s", i, sqliteType(col.Type()))
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", dataTable(key), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO "+metadataTable+" (key, name, ddl, created_at) VALUES (?, ?, ?, ?)",
		key, name, s.ToDDL(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("register table %s: %w", name, err)
	}
	return nil
}

func dropTable(ctx context.Context, tx *sql.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+dataTable(key)); err != nil {
		return fmt.Errorf("drop table %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+metadataTable+" WHERE key = ?", key); err != nil {
		return fmt.Errorf("unregister table %s: %w", key, err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, key string, t tabula.Table) error {
	n := t.Schema().NumColumns()
	if n == 0 || t.NumRows() == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", dataTable(key), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", key, err)
	}
	defer stmt.Close()
	args := make([]interface{}, n)
	for rowNum, values := range t.Rows() {
		for i, v := range values {
			encoded, err := encodeValue(v)
			if err != nil {
				return errors.SchemaMismatchError{Reason: err.Error(), Column: t.Schema().ColumnNames()[i], Row: rowNum}
			}
			args[i] = encoded
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", rowNum, key, err)
		}
	}
	return nil
}

func encodeValue(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case time.Time:
		return v.Format(tabula.DateFormat), nil
	case []interface{}:
		b, err := encoding.MarshalValue(v, tabula.DateFormat)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

func decodeValue(raw interface{}, colType tabula.ColumnType) (interface{}, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	if raw == nil {
		return nil, nil
	}
	switch colType.(type) {
	case *tabula.BooleanColumnType:
		i, ok := raw.(int64)
		if !ok {
			return nil, fmt.Errorf("expected a stored boolean, found %T", raw)
		}
		return i != 0, nil
	case *tabula.DoubleColumnType:
		if i, ok := raw.(int64); ok {
			return float64(i), nil
		}
		return raw, nil
	case *tabula.DateColumnType:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a stored date, found %T", raw)
		}
		return time.Parse(tabula.DateFormat, s)
	case *tabula.ArrayColumnType:
		s, ok := raw.(string)
		if !ok || !gjson.Valid(s) {
			return nil, fmt.Errorf("expected a stored JSON array, found %v", raw)
		}
		return encoding.DecodeJSON(gjson.Parse(s), colType, tabula.DateFormat)
	}
	return raw, nil
}
