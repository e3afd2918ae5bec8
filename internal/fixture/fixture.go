package fixture

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

// Options control the size and determinism of a sample dump.
type Options struct {
	Rows int   // rows per table
	Seed int64 // 0 means random
}

// Stats summarises one generated dump.
type Stats struct {
	Tables int
	Rows   int
}

const migrationRows = 3

// Generate writes a synthetic D1 export to w. Parents are generated before
// the tables referencing them so every foreign key points at a real row.
func Generate(w io.Writer, m *dump.Mapping, opts Options) (Stats, error) {
	var stats Stats
	if opts.Rows <= 0 {
		return stats, fmt.Errorf("rows must be positive, got %d", opts.Rows)
	}

	d := &dialect.SQLiteDialect{}
	g := NewGenerator(opts.Seed, m)
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "PRAGMA defer_foreign_keys=TRUE;")
	for _, t := range schema.SortTablesByFKCount(Tables()) {
		fmt.Fprintln(bw, CreateTableSQL(d, t))

		n := opts.Rows
		if t.Name == "d1_migrations" {
			n = migrationRows
		}
		cols := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = c.Name
		}
		for i := 0; i < n; i++ {
			row := g.Row(t, i)
			g.remember(t, row)
			fmt.Fprintln(bw, d.InsertQuery(t.Name, cols, []string{d.Tuple(row)}))
		}

		stats.Tables++
		stats.Rows += n
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write sample dump: %w", err)
	}
	return stats, nil
}

// CreateTableSQL renders t the way SQLite stores it in sqlite_master, with
// a trailing semicolon.
func CreateTableSQL(d dialect.Dialect, t *schema.Table) string {
	var defs []string
	var keys []string
	for _, c := range t.Columns {
		def := d.QuoteIdent(c.Name) + " " + c.DataType
		if !c.IsNullable {
			def += " NOT NULL"
		}
		if c.IsUnique {
			def += " UNIQUE"
		}
		defs = append(defs, def)
		if c.IsPK {
			keys = append(keys, d.QuoteIdent(c.Name))
		}
	}
	if len(keys) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}
	for _, f := range t.ForeignKeys {
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			d.QuoteIdent(f.Column), d.QuoteIdent(f.RefTable), d.QuoteIdent(f.RefColumn)))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", d.QuoteIdent(t.Name), strings.Join(defs, ", "))
}
