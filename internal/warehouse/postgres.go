package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/govalues/decimal"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"xchange/internal/tabular"
)

// PostgresWarehouse appends tables to a Postgres database. Target tables are
// created from the member's declared schema on first load.
type PostgresWarehouse struct {
	db *sqlx.DB
}

// NewPostgresWarehouse connects to the warehouse database.
func NewPostgresWarehouse(databaseURL string) (*PostgresWarehouse, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}

	return &PostgresWarehouse{db: db}, nil
}

// Close closes the database connection
func (w *PostgresWarehouse) Close() error {
	return w.db.Close()
}

// Append creates the target table if missing and inserts every row in one
// transaction.
func (w *PostgresWarehouse) Append(ctx context.Context, tableID string, tbl *tabular.Table) error {
	if _, err := w.db.ExecContext(ctx, createTableDDL(tableID, tbl.Schema)); err != nil {
		return fmt.Errorf("ensure table %s: %w", tableID, err)
	}

	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := insertStmt(tableID, tbl.Schema)
	for _, row := range tbl.Rows {
		args, err := sqlArgs(row, tbl.Schema)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", tableID, err)
		}
	}
	return tx.Commit()
}

func createTableDDL(tableID string, s tabular.Schema) string {
	cols := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		def := pq.QuoteIdentifier(c.Name) + " " + sqlType(c)
		if c.Required {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pq.QuoteIdentifier(tableID), strings.Join(cols, ", "))
}

func sqlType(c tabular.Column) string {
	switch c.Type {
	case tabular.String:
		if c.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", c.Length)
		}
		return "TEXT"
	case tabular.Integer:
		return "BIGINT"
	case tabular.Decimal:
		precision, scale := c.Precision, c.Scale
		if precision == 0 {
			precision, scale = 7, 2
		}
		return fmt.Sprintf("NUMERIC(%d,%d)", precision, scale)
	case tabular.Date:
		return "DATE"
	}
	return "TEXT"
}

func insertStmt(tableID string, s tabular.Schema) string {
	cols := make([]string, 0, len(s.Columns))
	params := make([]string, 0, len(s.Columns))
	for i, c := range s.Columns {
		cols = append(cols, pq.QuoteIdentifier(c.Name))
		params = append(params, fmt.Sprintf("$%d", i+1))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(tableID), strings.Join(cols, ", "), strings.Join(params, ", "))
}

func sqlArgs(row []any, s tabular.Schema) ([]any, error) {
	if len(row) != len(s.Columns) {
		return nil, fmt.Errorf("row has %d cells, schema has %d columns", len(row), len(s.Columns))
	}
	args := make([]any, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case decimal.Decimal:
			args[i] = v.String()
		case time.Time:
			args[i] = v
		default:
			args[i] = v
		}
	}
	return args, nil
}
