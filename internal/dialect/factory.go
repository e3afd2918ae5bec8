package dialect

// GetDialect returns the Dialect implementation for a driver name.
func GetDialect(driver string) Dialect {
	switch driver {
	case "sqlite", "d1":
		return &SQLiteDialect{}
	default: // mysql
		return &MysqlDialect{}
	}
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*SQLiteDialect)(nil)
