package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/coauth/internal/paper"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table read when a Source names none.
const DefaultTable = "papers"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ReadSQLite reads rows from a table in an existing SQLite file, in rowid order.
// The year column may hold integers, reals, or text; the author column holds
// the encoded mapping as text.
func ReadSQLite(ctx context.Context, path, table string, cols Columns) ([]paper.Row, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrUnsupportedFormat, table)
	}

	// sql.Open would silently create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", ErrUnavailable, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s ORDER BY rowid`,
		quoteIdent(cols.Title), quoteIdent(cols.Year), quoteIdent(cols.Authors), quoteIdent(table))

	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying %s: %v", ErrUnavailable, table, err)
	}
	defer rs.Close()

	var rows []paper.Row
	for rs.Next() {
		var title sql.NullString
		var year, authors any
		if err := rs.Scan(&title, &year, &authors); err != nil {
			return nil, fmt.Errorf("%w: scanning row %d: %v", ErrUnavailable, len(rows)+1, err)
		}

		row := paper.Row{
			Num:   len(rows) + 1,
			Title: title.String,
			Year:  sqlYear(year),
		}
		if s, ok := sqlText(authors); ok {
			row.Authors = authorCell(s)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", ErrUnavailable, err)
	}

	return rows, nil
}

// WriteSQLite creates (or replaces) a table in the SQLite file at path and
// stores rows in order, so a remote dataset can be reused offline.
func WriteSQLite(ctx context.Context, path, table string, cols Columns, rows []paper.Row) error {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("%w: invalid table name %q", ErrUnsupportedFormat, table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	schema := fmt.Sprintf(`
		DROP TABLE IF EXISTS %[1]s;
		CREATE TABLE %[1]s (
			%[2]s TEXT NOT NULL,
			%[3]s INTEGER,
			%[4]s TEXT
		);`,
		quoteIdent(table), quoteIdent(cols.Title), quoteIdent(cols.Year), quoteIdent(cols.Authors))
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)`,
		quoteIdent(table), quoteIdent(cols.Title), quoteIdent(cols.Year), quoteIdent(cols.Authors)))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var year, authors any
		if r.Year != nil {
			year = *r.Year
		}
		if r.Authors != nil {
			authors = *r.Authors
		}
		if _, err := stmt.ExecContext(ctx, r.Title, year, authors); err != nil {
			return fmt.Errorf("inserting row %d: %w", r.Num, err)
		}
	}

	return tx.Commit()
}

// quoteIdent quotes an SQL identifier, so column names like "Full Authors" work.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlText(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return fmt.Sprint(t), true
	}
}

func sqlYear(v any) *int {
	s, ok := sqlText(v)
	if !ok {
		return nil
	}
	return parseYear(s)
}
