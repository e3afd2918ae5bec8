package dialect

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SQLiteDialect renders the SQLite (Cloudflare D1) dump format that the
// dump parser reads: "INSERT INTO \"t\" VALUES(...);" with '' doubled quotes,
// X'..' blobs and the replace(...,'\n',char(10)) newline idiom.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString quotes s as a SQLite string literal. Text containing newlines
// is written on one line through the replace() idiom.
func (d *SQLiteDialect) QuoteString(s string) string {
	q := "'" + strings.ReplaceAll(s, "'", "''") + "'"
	if !strings.Contains(s, "\n") {
		return q
	}
	return "replace(" + strings.ReplaceAll(q, "\n", `\n`) + `,'\n',char(10))`
}

// InsertQuery ignores cols: dump rows are positional.
func (d *SQLiteDialect) InsertQuery(table string, _ []string, tuples []string) string {
	return fmt.Sprintf("INSERT INTO %s VALUES%s;", d.QuoteIdent(table), strings.Join(tuples, ","))
}

func (d *SQLiteDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("DELETE FROM %s", d.QuoteIdent(table))
}

func (d *SQLiteDialect) DisableForeignKeys() string {
	return "PRAGMA foreign_keys = OFF"
}

func (d *SQLiteDialect) EnableForeignKeys() string {
	return "PRAGMA foreign_keys = ON"
}

// Literal renders a Go value scanned from (or destined for) SQLite.
func (d *SQLiteDialect) Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatReal(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(val)) + "'"
	case string:
		return d.QuoteString(val)
	case time.Time:
		return d.QuoteString(val.Format(time.RFC3339Nano))
	default:
		return d.QuoteString(fmt.Sprint(val))
	}
}

// Tuple renders one "(v1,v2,...)" group.
func (d *SQLiteDialect) Tuple(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = d.Literal(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// formatReal keeps a decimal point on integral values so a REAL column is
// not re-read as an INTEGER.
func formatReal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "NULL"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
