package dump

import "strings"

// ParsedValue is one literal from a VALUES tuple. WasQuoted is the only
// signal separating the string '0123' from the number 123 once quotes have
// been stripped.
type ParsedValue struct {
	Value     string
	WasQuoted bool
}

// IsNull reports whether the literal is the bare NULL keyword.
func (v ParsedValue) IsNull() bool {
	return v.Value == "NULL" && !v.WasQuoted
}

// ParseValues scans the text following a VALUES keyword into rows of
// literals. It never fails: malformed input yields whatever rows could be
// read before the input ran out.
func ParseValues(text string) [][]ParsedValue {
	var rows [][]ParsedValue
	n := len(text)
	i := 0

	for i < n {
		for i < n && text[i] != '(' {
			i++
		}
		if i >= n {
			break
		}
		i++ // (

		var row []ParsedValue
		for i < n && text[i] != ')' {
			i = skipSpace(text, i)
			if i >= n || text[i] == ')' {
				break
			}

			var v ParsedValue
			switch {
			case text[i] == '\'':
				v.Value, i = scanQuoted(text, i)
				v.WasQuoted = true
			case strings.HasPrefix(text[i:], "NULL"):
				v.Value = "NULL"
				i += len("NULL")
			case strings.HasPrefix(text[i:], "replace"):
				v.Value, i = scanReplace(text, i)
				v.WasQuoted = true
			case strings.HasPrefix(text[i:], "X'"):
				v.Value, i = scanHex(text, i)
			default:
				v.Value, i = scanBare(text, i)
			}
			row = append(row, v)

			i = skipSpace(text, i)
			if i < n && text[i] == ',' {
				i++
			}
		}
		if i < n {
			i++ // )
		}

		if len(row) > 0 {
			rows = append(rows, row)
		}

		for i < n && (text[i] == ',' || isSpace(text[i])) {
			i++
		}
	}

	return rows
}

// scanQuoted reads a single-quoted string starting at text[i] == '\''.
// A doubled '' is an escaped quote and does not end the string.
func scanQuoted(text string, i int) (string, int) {
	var b strings.Builder
	n := len(text)
	i++ // opening quote
	for i < n {
		c := text[i]
		if c == '\'' {
			if i+1 < n && text[i+1] == '\'' {
				b.WriteByte('\'')
				i += 2
				continue
			}
			i++ // closing quote
			break
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}

// scanReplace handles replace('text','\n',char(10)): only the first argument
// is kept, with every literal \n turned into a newline. The remaining
// arguments are skipped up to the balancing parenthesis.
func scanReplace(text string, i int) (string, int) {
	n := len(text)
	i += len("replace")
	i = skipSpace(text, i)
	if i < n && text[i] == '(' {
		i++
	}
	i = skipSpace(text, i)

	var arg string
	if i < n && text[i] == '\'' {
		arg, i = scanQuoted(text, i)
	}

	depth := 1
	for i < n && depth > 0 {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		i++
	}
	return strings.ReplaceAll(arg, `\n`, "\n"), i
}

// scanHex keeps an X'..' literal verbatim.
func scanHex(text string, i int) (string, int) {
	n := len(text)
	start := i + 2
	i = start
	for i < n && text[i] != '\'' {
		i++
	}
	digits := text[start:i]
	if i < n {
		i++ // closing quote
	}
	return "X'" + digits + "'", i
}

// scanBare reads an unquoted token up to the next ',' or ')'.
func scanBare(text string, i int) (string, int) {
	start := i
	for i < len(text) && text[i] != ',' && text[i] != ')' {
		i++
	}
	return strings.TrimSpace(text[start:i]), i
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
