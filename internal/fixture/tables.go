package fixture

import (
	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

// col declares a D1 column; meaning is filled in from the name.
func col(name, dataType string, opts ...func(*schema.Column)) *schema.Column {
	c := &schema.Column{
		Name:       name,
		DataType:   dataType,
		IsNullable: true,
		Meaning:    schema.AnalyzeMeaning(dump.ToSnakeCase(name), ""),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func pk(c *schema.Column)      { c.IsPK, c.IsNullable = true, false }
func notNull(c *schema.Column) { c.IsNullable = false }
func unique(c *schema.Column)  { c.IsUnique = true }

func enum(values ...string) func(*schema.Column) {
	return func(c *schema.Column) { c.EnumValues = values }
}

func fk(column, refTable string) *schema.ForeignKey {
	return &schema.ForeignKey{Column: column, RefTable: refTable, RefColumn: "id"}
}

// Tables returns the D1 tables the sample dump contains, in no particular
// order. Names and column categories follow the wodsmith schema.
func Tables() []*schema.Table {
	tables := []*schema.Table{
		{
			Name: "scores",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("userId", "text", notNull),
				col("workoutId", "text", notNull),
				col("scoreValue", "integer"),
				col("sortKey", "text"),
				col("asRx", "integer", notNull),
				col("notes", "text"),
				col("recordedAt", "integer"),
			},
			ForeignKeys: []*schema.ForeignKey{fk("userId", "user"), fk("workoutId", "workouts")},
		},
		{
			Name: "team_membership",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("teamId", "text", notNull),
				col("userId", "text", notNull),
				col("roleId", "text", notNull, enum("owner", "admin", "member")),
				col("isSystemRole", "integer", notNull),
				col("joinedAt", "integer"),
				col("isActive", "integer", notNull),
			},
			ForeignKeys: []*schema.ForeignKey{fk("teamId", "team"), fk("userId", "user")},
		},
		{
			Name: "user",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("updateCounter", "integer"),
				col("firstName", "text"),
				col("lastName", "text"),
				col("email", "text", unique),
				col("emailVerified", "integer"),
				col("role", "text", notNull, enum("admin", "user")),
				col("avatar", "blob"),
			},
		},
		{
			Name: "competitions",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("organizingTeamId", "text", notNull),
				col("name", "text", notNull),
				col("slug", "text", notNull, unique),
				col("description", "text"),
				col("startDate", "text", notNull),
				col("endDate", "text", notNull),
			},
			ForeignKeys: []*schema.ForeignKey{fk("organizingTeamId", "team")},
		},
		{
			Name: "team",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("name", "text", notNull),
				col("slug", "text", notNull, unique),
				col("type", "text", notNull, enum("gym", "competition_event", "personal")),
				col("isPersonalTeam", "integer", notNull),
			},
		},
		{
			Name: "workouts",
			Columns: []*schema.Column{
				col("id", "text", pk),
				col("createdAt", "integer", notNull),
				col("updatedAt", "integer", notNull),
				col("name", "text", notNull),
				col("description", "text", notNull),
				col("scheme", "text", notNull, enum("time", "rounds-reps", "load", "emom")),
				col("scope", "text", notNull, enum("private", "public")),
				col("teamId", "text"),
			},
			ForeignKeys: []*schema.ForeignKey{fk("teamId", "team")},
		},
		{
			Name: "d1_migrations",
			Columns: []*schema.Column{
				col("id", "integer", pk),
				col("name", "text"),
				col("applied_at", "text", notNull),
			},
		},
	}

	for _, t := range tables {
		t.Dependencies = []string{}
		for _, f := range t.ForeignKeys {
			t.Dependencies = append(t.Dependencies, f.RefTable)
		}
	}
	return tables
}

// idPrefix is the prefix of generated text ids per table.
var idPrefix = map[string]string{
	"user":            "usr",
	"team":            "team",
	"team_membership": "tmem",
	"workouts":        "wkt",
	"competitions":    "comp",
	"scores":          "score",
}
