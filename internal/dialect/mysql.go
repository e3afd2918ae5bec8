package dialect

import (
	"fmt"
	"strings"
)

// MysqlDialect renders statements for the MySQL (PlanetScale) target.
type MysqlDialect struct{}

func (d *MysqlDialect) Name() string { return "mysql" }

func (d *MysqlDialect) QuoteIdent(name string) string {
	return "`" + name + "`"
}

// QuoteString wraps s in single quotes after MySQL backslash escaping.
func (d *MysqlDialect) QuoteString(s string) string {
	return "'" + EscapeMySQLString(s) + "'"
}

// InsertQuery renders an insert-if-absent statement:
// INSERT IGNORE INTO `t` (`a`,`b`) VALUES (1,2),(3,4);
func (d *MysqlDialect) InsertQuery(table string, cols []string, tuples []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdent(c)
	}
	return fmt.Sprintf("INSERT IGNORE INTO %s (%s) VALUES %s;",
		d.QuoteIdent(table), strings.Join(quoted, ","), strings.Join(tuples, ","))
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s", d.QuoteIdent(table))
}

func (d *MysqlDialect) DisableForeignKeys() string {
	return "SET FOREIGN_KEY_CHECKS = 0"
}

func (d *MysqlDialect) EnableForeignKeys() string {
	return "SET FOREIGN_KEY_CHECKS = 1"
}

// mysqlEscapes is applied in order; the backslash must come first or the
// later replacements would have their escape character doubled.
var mysqlEscapes = []struct{ from, to string }{
	{`\`, `\\`},
	{`'`, `\'`},
	{"\n", `\n`},
	{"\r", `\r`},
	{"\t", `\t`},
	{"\x00", `\0`},
}

// EscapeMySQLString escapes s for use inside a single-quoted MySQL literal.
func EscapeMySQLString(s string) string {
	for _, e := range mysqlEscapes {
		s = strings.ReplaceAll(s, e.from, e.to)
	}
	return s
}
