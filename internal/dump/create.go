package dump

import (
	"regexp"
	"strings"
)

// CreateTable is what the schema pass keeps from one CREATE TABLE statement.
type CreateTable struct {
	TableName string
	Columns   []string // declaration order; rows are positional against it
	// References lists tables named in REFERENCES clauses, first-seen order.
	References []string
}

var (
	createHeaderRe = regexp.MustCompile("(?i)CREATE TABLE\\s+(?:IF NOT EXISTS\\s+)?[\"'`]?(\\w+)[\"'`]?\\s*\\(")
	columnDefRe    = regexp.MustCompile("^[\"'`]?(\\w+)[\"'`]?\\s+")
	referencesRe   = regexp.MustCompile("(?i)REFERENCES\\s+[\"'`]?(\\w+)[\"'`]?")
)

// Segments starting with these (case-sensitive) are table constraints.
var constraintPrefixes = []string{"FOREIGN", "PRIMARY", "UNIQUE", "CHECK", "CONSTRAINT"}

// ParseCreateTable extracts the table name and column names from a CREATE
// TABLE statement. It returns nil when the statement header does not match.
func ParseCreateTable(sql string) *CreateTable {
	m := createHeaderRe.FindStringSubmatchIndex(sql)
	if m == nil {
		return nil
	}
	ct := &CreateTable{TableName: sql[m[2]:m[3]]}

	// m[1] is just past the opening parenthesis of the body.
	bodyStart := m[1]
	bodyEnd := bodyStart
	depth := 1
	for i := bodyStart; i < len(sql); i++ {
		if sql[i] == '(' {
			depth++
		} else if sql[i] == ')' {
			depth--
			if depth == 0 {
				bodyEnd = i
				break
			}
		}
	}

	seen := make(map[string]bool)
	for _, seg := range splitTopLevel(sql[bodyStart:bodyEnd]) {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		for _, ref := range referencesRe.FindAllStringSubmatch(seg, -1) {
			if !seen[ref[1]] {
				seen[ref[1]] = true
				ct.References = append(ct.References, ref[1])
			}
		}
		if isConstraint(seg) {
			continue
		}
		if col := columnDefRe.FindStringSubmatch(seg); col != nil {
			ct.Columns = append(ct.Columns, col[1])
		}
	}

	return ct
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(body string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, body[start:])
}

func isConstraint(seg string) bool {
	for _, p := range constraintPrefixes {
		if strings.HasPrefix(seg, p) {
			return true
		}
	}
	return false
}
