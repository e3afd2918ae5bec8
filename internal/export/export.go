package export

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"strings"

	"d1-migrate/internal/dialect"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Open opens a SQLite database file read-only.
func Open(path string) (*sql.DB, error) {
	uri, err := readOnlyURI(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

func readOnlyURI(path string) (string, error) {
	if path == ":memory:" || path == "file::memory:" || strings.Contains(path, "mode=memory") {
		return "", fmt.Errorf("in-memory SQLite databases cannot be exported")
	}
	if !strings.HasPrefix(path, "file:") {
		return "file:" + path + "?mode=ro", nil
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse sqlite URI: %w", err)
	}
	q := u.Query()
	q.Set("mode", "ro")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type table struct {
	name string
	sql  string
}

// Stats summarises one export.
type Stats struct {
	Tables int
	Rows   int
}

// Dump writes every user table of db to w in the format produced by
// `wrangler d1 export`: the CREATE TABLE text followed by one INSERT per row.
func Dump(ctx context.Context, db *sql.DB, w io.Writer) (Stats, error) {
	var stats Stats
	d := &dialect.SQLiteDialect{}

	tables, err := listTables(ctx, db)
	if err != nil {
		return stats, err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "PRAGMA defer_foreign_keys=TRUE;")

	for _, t := range tables {
		fmt.Fprintf(bw, "%s;\n", strings.TrimSuffix(strings.TrimSpace(t.sql), ";"))

		n, err := dumpRows(ctx, db, d, t.name, bw)
		if err != nil {
			return stats, fmt.Errorf("dump %s: %w", t.name, err)
		}
		stats.Tables++
		stats.Rows += n
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write dump: %w", err)
	}
	return stats, nil
}

func listTables(ctx context.Context, db *sql.DB) ([]table, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name, sql FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' AND name NOT LIKE '\_cf\_%' ESCAPE '\'
		 ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []table
	for rows.Next() {
		var t table
		var ddl sql.NullString
		if err := rows.Scan(&t.name, &ddl); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		if !ddl.Valid {
			continue
		}
		t.sql = ddl.String
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// columnNames lists the columns of name in SELECT * order.
func columnNames(ctx context.Context, db *sql.DB, d *dialect.SQLiteDialect, name string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+d.QuoteIdent(name)+" LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// rawSelect selects every column as a unary-plus expression. The value and
// storage class are unchanged, but the result has no declared type, so the
// driver hands TEXT in date/datetime/timestamp columns back as the stored
// string instead of a reformatted time.Time.
func rawSelect(d *dialect.SQLiteDialect, name string, cols []string) string {
	exprs := make([]string, len(cols))
	for i, c := range cols {
		exprs[i] = "+" + d.QuoteIdent(c)
	}
	return "SELECT " + strings.Join(exprs, ", ") + " FROM " + d.QuoteIdent(name)
}

func dumpRows(ctx context.Context, db *sql.DB, d *dialect.SQLiteDialect, name string, w io.Writer) (int, error) {
	cols, err := columnNames(ctx, db, d, name)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, nil
	}

	rows, err := db.QueryContext(ctx, rawSelect(d, name, cols))
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, err
		}
		if _, err := fmt.Fprintln(w, d.InsertQuery(name, cols, []string{d.Tuple(values)})); err != nil {
			return n, err
		}
		n++
	}
	return n, rows.Err()
}
