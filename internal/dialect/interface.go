package dialect

// Dialect abstracts how identifiers, literals and statements are rendered
// for one database engine.
type Dialect interface {
	Name() string

	// Rendering
	QuoteIdent(name string) string
	QuoteString(s string) string

	// Query Generation
	// InsertQuery renders one statement carrying every tuple. Tuples are
	// already rendered "(v1,v2,...)" groups.
	InsertQuery(table string, cols []string, tuples []string) string
	TruncateQuery(table string) string

	// Session hooks used around bulk maintenance (clean).
	DisableForeignKeys() string
	EnableForeignKeys() string
}
