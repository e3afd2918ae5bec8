package schema

import (
	"fmt"
	"log"
	"sort"

	"d1-migrate/internal/dump"
)

// FromDump builds target tables from the CREATE TABLE statements of a
// processed dump. Unmapped and skipped source tables are left out, and a
// REFERENCES clause only becomes a dependency when the referenced table is
// itself mapped. Tables are returned sorted by name.
func FromDump(res *dump.Result, m *dump.Mapping) []*Table {
	sources := make([]string, 0, len(res.TableColumns))
	for src := range res.TableColumns {
		if _, ok := m.TableNames[src]; ok && !m.SkipTables[src] {
			sources = append(sources, src)
		}
	}
	sort.Strings(sources)

	var tables []*Table
	for _, src := range sources {
		name := m.TableNames[src]
		t := &Table{Name: name, Dependencies: []string{}}

		for _, c := range res.TableColumns[src] {
			col := dump.ToSnakeCase(c)
			t.Columns = append(t.Columns, &Column{Name: col, Meaning: AnalyzeMeaning(col, "")})
		}

		seen := make(map[string]bool)
		for _, ref := range res.TableReferences[src] {
			dep, ok := m.TableNames[ref]
			if !ok || m.SkipTables[ref] || dep == name || seen[dep] {
				continue
			}
			if _, known := res.TableColumns[ref]; !known {
				continue
			}
			seen[dep] = true
			t.Dependencies = append(t.Dependencies, dep)
		}
		tables = append(tables, t)
	}
	return tables
}

// CheckOrder reports every table placed before one of its dependencies.
// Tables missing from order are ignored here; Process already warns about
// them when they carry data.
func CheckOrder(order []string, tables []*Table) []string {
	pos := make(map[string]int, len(order))
	for i, name := range order {
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	var warnings []string
	for _, t := range tables {
		at, ok := pos[t.Name]
		if !ok {
			continue
		}
		for _, dep := range t.Dependencies {
			if depAt, ok := pos[dep]; ok && depAt > at {
				warnings = append(warnings, fmt.Sprintf("Table %q is ordered before its dependency %q", t.Name, dep))
			}
		}
	}
	return warnings
}

// ---------------------------------------------------------------------
// Sorting (topological, greedy cycle breaking)
// ---------------------------------------------------------------------

// SortTablesByFKCount sorts tables so that each follows its dependencies.
// When only cycles remain, the table with the best score is emitted first:
// fewer unresolved dependencies, and a bonus for being in a direct cycle.
func SortTablesByFKCount(tables []*Table) []*Table {
	byName := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}

	sorted := make([]*Table, 0, len(tables))
	processed := make(map[string]bool, len(tables))

	for len(sorted) < len(tables) {
		added := false

		for _, t := range tables {
			if processed[t.Name] || !depsSatisfied(t, processed) {
				continue
			}
			sorted = append(sorted, t)
			processed[t.Name] = true
			added = true
		}
		if added {
			continue
		}

		var best *Table
		bestScore := -999999
		for _, t := range tables {
			if processed[t.Name] {
				continue
			}
			score := cycleScore(t, byName, processed)
			if score > bestScore || (score == bestScore && (best == nil || t.Name > best.Name)) {
				bestScore = score
				best = t
			}
		}
		if best == nil {
			log.Println("[Sort] remaining tables cannot be ordered")
			break
		}
		sorted = append(sorted, best)
		processed[best.Name] = true
		log.Printf("[Sort] Breaking circular dependency: %s (Score: %d)", best.Name, bestScore)
	}

	return sorted
}

func depsSatisfied(t *Table, processed map[string]bool) bool {
	for _, dep := range t.Dependencies {
		if !processed[dep] {
			return false
		}
	}
	return true
}

// cycleScore is -100 per unresolved dependency, +500 when an unresolved
// dependency points straight back at t.
func cycleScore(t *Table, byName map[string]*Table, processed map[string]bool) int {
	score := 0
	circular := false
	for _, dep := range t.Dependencies {
		if processed[dep] {
			continue
		}
		score -= 100
		if other, ok := byName[dep]; ok && !circular {
			for _, back := range other.Dependencies {
				if back == t.Name {
					circular = true
					break
				}
			}
		}
	}
	if circular {
		score += 500
	}
	return score
}
