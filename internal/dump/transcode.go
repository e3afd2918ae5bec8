package dump

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"d1-migrate/internal/dialect"
)

// SortKeyWidth is the width of a target sort key. Source keys are 19-digit
// zero-padded strings; left-padding keeps their lexicographic order.
const SortKeyWidth = 38

// Epoch values above this are milliseconds, at or below it seconds.
const maxEpochSeconds = 9_999_999_999

// JavaScript-compatible date range limit, in milliseconds.
const maxEpochMillis = 8.64e15

var (
	datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	numericRe    = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// target renders the generated statements.
var target dialect.Dialect = &dialect.MysqlDialect{}

// BuildInsert renders rows of one source table as batched INSERT IGNORE
// statements for target. Columns are converted to snake_case and zipped
// with each row up to the shorter of the two. sourceTable only names the
// origin of the rows and does not affect the output.
func BuildInsert(m *Mapping, targetTable string, sourceColumns []string, rows [][]ParsedValue, sourceTable string) []string {
	columns := make([]string, len(sourceColumns))
	for i, c := range sourceColumns {
		columns[i] = ToSnakeCase(c)
	}

	size := m.batchSize()
	statements := make([]string, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))

		tuples := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			n := min(len(columns), len(row))
			vals := make([]string, n)
			for j := 0; j < n; j++ {
				vals[j] = m.literal(columns[j], row[j])
			}
			tuples = append(tuples, "("+strings.Join(vals, ",")+")")
		}
		statements = append(statements, target.InsertQuery(targetTable, columns, tuples))
	}

	return statements
}

// literal applies the per-column coercion rules. Rule order matters: an
// all-digit quoted string matches several of them.
func (m *Mapping) literal(column string, v ParsedValue) string {
	val := v.Value

	if v.IsNull() {
		return "NULL"
	}
	if !v.WasQuoted && strings.HasPrefix(val, "X'") {
		return val
	}
	if m.TimestampColumns[column] && !m.DateStringColumns[column] {
		if ms, ok := epochMillis(val); ok {
			return target.QuoteString(formatDatetime(ms))
		}
		if datePrefixRe.MatchString(val) {
			return target.QuoteString(val)
		}
		return "NULL"
	}
	if m.BooleanColumns[column] {
		switch val {
		case "true", "1":
			return "1"
		case "false", "0":
			return "0"
		}
		return val
	}
	if column == "sort_key" && v.WasQuoted {
		return target.QuoteString(padLeft(val, SortKeyWidth, '0'))
	}
	if v.WasQuoted {
		return target.QuoteString(val)
	}
	if numericRe.MatchString(val) {
		return val
	}
	return target.QuoteString(val)
}

// EpochToDatetime renders epoch seconds (or milliseconds, when n exceeds
// 9,999,999,999) as a UTC "YYYY-MM-DD HH:MM:SS" string. It returns "" when n
// is not finite or falls outside ±8.64e15 ms, the range a date can hold.
func EpochToDatetime(n float64) string {
	ms, ok := toMillis(n)
	if !ok {
		return ""
	}
	return formatDatetime(ms)
}

// epochMillis parses a positive epoch value and returns it in milliseconds.
// Besides decimal numbers it accepts the 0x, 0o and 0b integer forms.
func epochMillis(s string) (int64, bool) {
	n, ok := parseNumber(strings.TrimSpace(s))
	if !ok || n <= 0 {
		return 0, false
	}
	return toMillis(n)
}

func toMillis(n float64) (int64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	ms := n
	if n <= maxEpochSeconds {
		ms = n * 1000
	}
	if math.Abs(ms) > maxEpochMillis {
		return 0, false
	}
	return int64(ms), true
}

func parseNumber(s string) (float64, bool) {
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		if strings.Contains(s, "_") {
			return 0, false
		}
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func formatDatetime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05")
}

func padLeft(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}
