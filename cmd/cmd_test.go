package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

const checkDump = `CREATE TABLE "team" ("id" text NOT NULL, "name" text, PRIMARY KEY ("id"));
CREATE TABLE "workouts" ("id" text NOT NULL, "teamId" text REFERENCES "team"("id"), PRIMARY KEY ("id"));
INSERT INTO "team" VALUES('t_1','Crew');
INSERT INTO "workouts" VALUES('w_1','t_1');
INSERT INTO "mystery" VALUES('x');
`

func TestFilterPlan(t *testing.T) {
	plan := []dump.TableStatements{{TargetTable: "users"}, {TargetTable: "teams"}, {TargetTable: "scores"}}

	all, err := filterPlan(plan, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := filterPlan(plan, []string{"scores", "users"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "users", some[0].TargetTable)
	assert.Equal(t, "scores", some[1].TargetTable)

	_, err = filterPlan(plan, []string{"nope"})
	assert.Error(t, err)
}

func TestCheckReport(t *testing.T) {
	m := dump.DefaultMapping().WithOverrides(dump.Overrides{
		TableOrder: []string{"workouts", "teams"},
	})
	res := dump.Process(checkDump, m)

	var buf bytes.Buffer
	issues := checkReport(&buf, res, m, schema.FromDump(res, m))
	out := buf.String()

	assert.Contains(t, out, "UNMAPPED")
	assert.Contains(t, out, `WARN: No mapping for D1 table "mystery", skipping`)
	assert.Contains(t, out, `WARN: Table "workouts" is ordered before its dependency "teams"`)
	assert.GreaterOrEqual(t, issues, 2)
}

func TestLoadMapping_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("settings.batch_size", 10)
	viper.Set("mapping.skip_tables", []string{"scores"})
	viper.Set("mapping.table_names", map[string]string{"legacy_user": "users"})

	m, err := loadMapping()
	require.NoError(t, err)

	assert.Equal(t, 10, m.BatchSize)
	assert.True(t, m.SkipTables["scores"])
	assert.True(t, m.SkipTables["d1_migrations"])
	assert.Equal(t, "users", m.TableNames["legacy_user"])
	assert.Equal(t, "users", m.TableNames["user"])
}

func TestResolveDSN(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("databases", []map[string]any{
		{"name": "staging", "driver": "mysql", "dsn": "u:p@tcp(db:3306)/app", "active": true},
		{"name": "prod", "driver": "mysql", "dsn": "u:p@tcp(prod:3306)/app"},
	})
	got, err := resolveDSN()
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(db:3306)/app", got)

	viper.Set("database.dsn", "mysql://u:p@host/app")
	got, err = resolveDSN()
	require.NoError(t, err)
	assert.Equal(t, "mysql://u:p@host/app", got)
}

func TestResolveDSN_RejectsOtherDrivers(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("databases", []map[string]any{
		{"name": "pg", "driver": "postgres", "dsn": "postgres://x", "active": true},
	})

	_, err := resolveDSN()
	assert.ErrorContains(t, err, "only mysql is supported")
}

type closeErrWriter struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (w *closeErrWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func TestWriteOutput_ReportsCloseError(t *testing.T) {
	out := &closeErrWriter{closeErr: errors.New("disk full")}

	err := writeOutput(out, func(w io.Writer) error {
		_, err := io.WriteString(w, "PRAGMA defer_foreign_keys=TRUE;\n")
		return err
	})

	assert.ErrorContains(t, err, "disk full")
	assert.True(t, out.closed)
}

func TestWriteOutput_WriteErrorWins(t *testing.T) {
	out := &closeErrWriter{closeErr: errors.New("disk full")}

	err := writeOutput(out, func(io.Writer) error { return errors.New("boom") })

	assert.EqualError(t, err, "boom")
	assert.True(t, out.closed)
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.sql")
	out, err := openOutput(io.Discard, path)
	require.NoError(t, err)

	require.NoError(t, writeOutput(out, func(w io.Writer) error {
		_, err := io.WriteString(w, "PRAGMA defer_foreign_keys=TRUE;\n")
		return err
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PRAGMA defer_foreign_keys=TRUE;\n", string(data))
}
