package dump

import (
	"fmt"
	"sort"
)

// DefaultBatchSize is the number of rows rendered into one INSERT statement.
const DefaultBatchSize = 50

// Mapping is the static configuration of one source schema → target schema
// migration. Build it once at start and treat it as read-only.
type Mapping struct {
	// TableNames maps source (D1) table names to target table names.
	TableNames map[string]string
	// SkipTables are source tables never migrated.
	SkipTables map[string]bool

	// Column categories, keyed by target (snake_case) column name.
	TimestampColumns  map[string]bool
	DateStringColumns map[string]bool
	BooleanColumns    map[string]bool

	// TableOrder lists target tables so that every table follows the
	// tables it references.
	TableOrder []string

	BatchSize int
}

// Overrides are configuration-supplied adjustments to a Mapping.
type Overrides struct {
	TableNames map[string]string `mapstructure:"table_names"`
	SkipTables []string          `mapstructure:"skip_tables"`
	TableOrder []string          `mapstructure:"table_order"`
	BatchSize  int               `mapstructure:"batch_size"`
}

// WithOverrides returns a copy of m with o applied: table names and skip
// tables are added, a non-empty order replaces the default one.
func (m *Mapping) WithOverrides(o Overrides) *Mapping {
	out := &Mapping{
		TableNames:        make(map[string]string, len(m.TableNames)+len(o.TableNames)),
		SkipTables:        make(map[string]bool, len(m.SkipTables)+len(o.SkipTables)),
		TimestampColumns:  m.TimestampColumns,
		DateStringColumns: m.DateStringColumns,
		BooleanColumns:    m.BooleanColumns,
		TableOrder:        append([]string(nil), m.TableOrder...),
		BatchSize:         m.BatchSize,
	}
	for k, v := range m.TableNames {
		out.TableNames[k] = v
	}
	for k, v := range o.TableNames {
		out.TableNames[k] = v
	}
	for k := range m.SkipTables {
		out.SkipTables[k] = true
	}
	for _, t := range o.SkipTables {
		out.SkipTables[t] = true
	}
	if len(o.TableOrder) > 0 {
		out.TableOrder = append([]string(nil), o.TableOrder...)
	}
	if o.BatchSize > 0 {
		out.BatchSize = o.BatchSize
	}
	return out
}

func (m *Mapping) batchSize() int {
	if m.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return m.BatchSize
}

// SourceFor returns the source table that maps to target. When several do,
// the lexicographically smallest name wins so the result is stable.
func (m *Mapping) SourceFor(target string) (string, bool) {
	found := ""
	for src, dst := range m.TableNames {
		if dst == target && (found == "" || src < found) {
			found = src
		}
	}
	return found, found != ""
}

// InOrder reports whether target appears in TableOrder.
func (m *Mapping) InOrder(target string) bool {
	for _, t := range m.TableOrder {
		if t == target {
			return true
		}
	}
	return false
}

// Validate reports configuration gaps. It never fails; an empty slice means
// the mapping is consistent.
func (m *Mapping) Validate() []string {
	var warnings []string

	sources := make(map[string][]string)
	for src, dst := range m.TableNames {
		sources[dst] = append(sources[dst], src)
	}
	targets := make([]string, 0, len(sources))
	for dst := range sources {
		targets = append(targets, dst)
	}
	sort.Strings(targets)
	for _, dst := range targets {
		if srcs := sources[dst]; len(srcs) > 1 {
			sort.Strings(srcs)
			warnings = append(warnings, fmt.Sprintf("Table %q is mapped from %d source tables %q", dst, len(srcs), srcs))
		}
	}

	seen := make(map[string]bool)
	for _, t := range m.TableOrder {
		if seen[t] {
			warnings = append(warnings, fmt.Sprintf("Table %q appears more than once in TABLE_ORDER", t))
			continue
		}
		seen[t] = true
		if _, ok := sources[t]; !ok {
			warnings = append(warnings, fmt.Sprintf("Table %q in TABLE_ORDER has no source table mapping", t))
		}
	}
	for _, dst := range targets {
		if !seen[dst] {
			warnings = append(warnings, fmt.Sprintf("Table %q is mapped but not in TABLE_ORDER", dst))
		}
	}

	skipped := make([]string, 0, len(m.SkipTables))
	for src := range m.SkipTables {
		skipped = append(skipped, src)
	}
	sort.Strings(skipped)
	for _, src := range skipped {
		if dst, ok := m.TableNames[src]; ok {
			warnings = append(warnings, fmt.Sprintf("Skipped table %q is also mapped to %q", src, dst))
		}
	}

	return warnings
}

func set(items ...string) map[string]bool {
	s := make(map[string]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}
