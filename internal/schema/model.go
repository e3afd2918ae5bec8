package schema

// Table is a target table together with what it references.
type Table struct {
	Name         string
	Columns      []*Column
	ForeignKeys  []*ForeignKey
	Dependencies []string // referenced target tables, used for ordering
}

type Column struct {
	Name       string
	DataType   string
	IsNullable bool
	IsPK       bool
	IsUnique   bool
	EnumValues []string
	Meaning    string // derived from the column name (e.g. "email", "sort key")
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// MigrationResult reports what happened to one target table.
type MigrationResult struct {
	TableName   string
	SourceTable string
	Rows        int // rows read from the dump
	Batches     int
	Failed      int // batches the target rejected
	Actual      int // rows affected, or counted when verified
	Status      string
	ErrorMsg    string
}
