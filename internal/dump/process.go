package dump

import (
	"fmt"
	"regexp"
	"strings"
)

// TableStatements is the generated SQL for one target table.
type TableStatements struct {
	TargetTable string
	SourceTable string
	Rows        int
	SQL         []string
}

// Result is everything Process learned from one dump.
type Result struct {
	TableColumns    map[string][]string
	TableReferences map[string][]string
	TableRows       map[string][][]ParsedValue

	// Statements are in dependency order and must be executed in order.
	Statements []TableStatements
	Warnings   []string

	// SourceTables lists tables with row data in the order they first
	// appeared in the dump.
	SourceTables []string
}

var (
	createStartRe = regexp.MustCompile(`(?i)^CREATE TABLE`)
	insertTableRe = regexp.MustCompile("(?i)INSERT INTO\\s+[\"'`]?(\\w+)[\"'`]?\\s+VALUES\\s*")
)

// Process parses a SQLite dump and builds the target INSERT statements in
// m.TableOrder. Malformed input never fails the run: it shows up as missing
// statements plus warnings.
func Process(text string, m *Mapping) *Result {
	lines := strings.Split(text, "\n")
	res := &Result{
		TableColumns:    make(map[string][]string),
		TableReferences: make(map[string][]string),
		TableRows:       make(map[string][][]ParsedValue),
	}

	collectSchema(lines, res)
	collectRows(lines, m, res)

	for _, targetTable := range m.TableOrder {
		sourceTable, ok := m.SourceFor(targetTable)
		if !ok {
			continue
		}
		rows := res.TableRows[sourceTable]
		if len(rows) == 0 {
			continue
		}
		columns, ok := res.TableColumns[sourceTable]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("No CREATE TABLE found for %q, skipping", sourceTable))
			continue
		}
		res.Statements = append(res.Statements, TableStatements{
			TargetTable: targetTable,
			SourceTable: sourceTable,
			Rows:        len(rows),
			SQL:         BuildInsert(m, targetTable, columns, rows, sourceTable),
		})
	}

	for _, sourceTable := range res.SourceTables {
		targetTable, ok := m.TableNames[sourceTable]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("No mapping for D1 table %q, skipping", sourceTable))
			continue
		}
		if !m.InOrder(targetTable) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Table %q not in TABLE_ORDER, was not migrated!", targetTable))
		}
	}

	return res
}

// collectSchema accumulates each CREATE TABLE block up to the line that
// closes it with ");".
func collectSchema(lines []string, res *Result) {
	var buf strings.Builder
	inCreate := false

	for _, line := range lines {
		if createStartRe.MatchString(line) {
			inCreate = true
			buf.Reset()
			buf.WriteString(line)
		} else if inCreate {
			buf.WriteByte('\n')
			buf.WriteString(line)
		}

		if inCreate && strings.Contains(line, ");") {
			if ct := ParseCreateTable(buf.String()); ct != nil {
				res.TableColumns[ct.TableName] = ct.Columns
				res.TableReferences[ct.TableName] = ct.References
			}
			inCreate = false
			buf.Reset()
		}
	}
}

// collectRows accumulates each INSERT INTO block up to the line ending in
// ";" and lexes its VALUES list.
func collectRows(lines []string, m *Mapping, res *Result) {
	var buf strings.Builder
	inInsert := false

	for _, line := range lines {
		if strings.HasPrefix(line, "INSERT INTO") {
			inInsert = true
			buf.Reset()
			buf.WriteString(line)
		} else if inInsert {
			buf.WriteByte('\n')
			buf.WriteString(line)
		}

		if !inInsert || !strings.HasSuffix(strings.TrimSuffix(line, "\r"), ";") {
			continue
		}
		inInsert = false
		stmt := strings.TrimSuffix(buf.String(), "\r")
		buf.Reset()

		match := insertTableRe.FindStringSubmatch(stmt)
		if match == nil {
			continue
		}
		table := match[1]
		if m.SkipTables[table] {
			continue
		}
		idx := strings.Index(stmt, "VALUES")
		if idx < 0 {
			continue
		}
		rows := ParseValues(stmt[idx+len("VALUES") : len(stmt)-1])
		if len(rows) == 0 {
			continue
		}
		if _, seen := res.TableRows[table]; !seen {
			res.SourceTables = append(res.SourceTables, table)
		}
		res.TableRows[table] = append(res.TableRows[table], rows...)
	}
}
