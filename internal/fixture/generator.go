package fixture

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

// Generated timestamps fall in the year before this instant so that a seed
// always yields the same dump.
var epochBase = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generator produces D1 column values. Column categories (timestamp,
// date string, boolean) come from the mapping so that the sample exercises
// every coercion rule; everything else is chosen from the column meaning.
type Generator struct {
	faker   *gofakeit.Faker
	mapping *dump.Mapping
	fkPool  map[string][]any
}

// NewGenerator returns a generator seeded with seed; 0 picks a random seed.
func NewGenerator(seed int64, m *dump.Mapping) *Generator {
	return &Generator{
		faker:   gofakeit.New(seed),
		mapping: m,
		fkPool:  make(map[string][]any),
	}
}

// Row generates one row for t. index is the 0-based row number.
func (g *Generator) Row(t *schema.Table, index int) []any {
	values := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		values[i] = g.value(t, c, index)
	}
	return values
}

// remember adds the primary key of a generated row to the FK pool.
func (g *Generator) remember(t *schema.Table, row []any) {
	for i, c := range t.Columns {
		if c.IsPK {
			g.fkPool[t.Name] = append(g.fkPool[t.Name], row[i])
			return
		}
	}
}

func (g *Generator) value(t *schema.Table, c *schema.Column, index int) any {
	for _, f := range t.ForeignKeys {
		if f.Column == c.Name {
			return g.reference(f.RefTable, c)
		}
	}

	if c.IsPK {
		if strings.Contains(c.DataType, "int") {
			return int64(index + 1)
		}
		return idPrefix[t.Name] + "_" + strings.ToLower(g.faker.LetterN(12))
	}
	if len(c.EnumValues) > 0 {
		return c.EnumValues[g.faker.Number(0, len(c.EnumValues)-1)]
	}

	name := dump.ToSnakeCase(c.Name)
	switch {
	case g.mapping.DateStringColumns[name]:
		return g.date().Format("2006-01-02")
	case g.mapping.TimestampColumns[name]:
		if c.IsNullable && g.faker.Number(1, 10) == 1 {
			return nil
		}
		// D1 stores timestamp_ms columns next to second-precision ones.
		if name == "updated_at" {
			return g.date().UnixMilli()
		}
		return g.date().Unix()
	case g.mapping.BooleanColumns[name]:
		if g.faker.Bool() {
			return int64(1)
		}
		return int64(0)
	}

	dataType := strings.ToLower(c.DataType)
	if strings.Contains(dataType, "blob") {
		if c.IsNullable && g.faker.Bool() {
			return nil
		}
		return []byte(g.faker.LetterN(8))
	}
	if strings.Contains(dataType, "int") {
		return g.integer(c)
	}
	if strings.Contains(dataType, "real") {
		return g.faker.Float64Range(0, 100)
	}
	return g.text(t, c)
}

// reference picks a primary key already generated for refTable. With an
// empty pool a nullable column gets NULL and a required one a dangling id.
func (g *Generator) reference(refTable string, c *schema.Column) any {
	vals := g.fkPool[refTable]
	if len(vals) > 0 {
		return vals[g.faker.Number(0, len(vals)-1)]
	}
	if c.IsNullable {
		return nil
	}
	return idPrefix[refTable] + "_missing"
}

func (g *Generator) integer(c *schema.Column) any {
	meaning := c.Meaning
	switch {
	case strings.Contains(meaning, "score"):
		return int64(g.faker.Number(1, 500))
	case strings.Contains(meaning, "counter"), strings.Contains(meaning, "count"):
		return int64(g.faker.Number(0, 10))
	case strings.Contains(meaning, "money"):
		return int64(g.faker.Number(500, 25000))
	}
	return int64(g.faker.Number(1, 1000))
}

func (g *Generator) text(t *schema.Table, c *schema.Column) any {
	meaning := c.Meaning

	switch {
	case strings.Contains(meaning, "sort key"):
		return fmt.Sprintf("%019d", g.faker.Int64()&math.MaxInt64)
	case strings.Contains(meaning, "email"):
		return strings.ToLower(g.faker.Email())
	case strings.Contains(meaning, "first name"):
		return g.faker.FirstName()
	case strings.Contains(meaning, "last name"):
		return g.faker.LastName()
	case strings.Contains(meaning, "slug"):
		return strings.ToLower(g.faker.LetterN(6)) + "-" + strings.ToLower(g.faker.LetterN(6))
	case strings.Contains(meaning, "description"):
		// Multi-line text comes out of D1 through replace(...,char(10)).
		return g.faker.Sentence(6) + "\n" + g.faker.Sentence(4) + "\n" + g.faker.Sentence(5)
	case strings.Contains(meaning, "notes"):
		if c.IsNullable && g.faker.Bool() {
			return nil
		}
		return g.faker.Phrase() + " it's " + g.faker.Adjective()
	case strings.Contains(meaning, "name"):
		switch t.Name {
		case "team":
			return g.faker.Company()
		case "competitions":
			return g.faker.City() + " Throwdown"
		case "workouts":
			return strings.ToUpper(g.faker.LetterN(1)) + g.faker.Noun()
		case "d1_migrations":
			return fmt.Sprintf("%04d_%s.sql", g.faker.Number(1, 9999), g.faker.Verb())
		}
		return g.faker.Name()
	case strings.HasSuffix(meaning, " at"):
		return g.date().Format("2006-01-02 15:04:05")
	}

	return g.faker.Word()
}

func (g *Generator) date() time.Time {
	return g.faker.DateRange(epochBase.AddDate(-1, 0, 0), epochBase)
}
