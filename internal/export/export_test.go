package export_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d1-migrate/internal/dump"
	"d1-migrate/internal/export"
)

func seed(t *testing.T, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "d1.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

func TestDump_Format(t *testing.T) {
	path := seed(t,
		`CREATE TABLE "user" ("id" text NOT NULL, "name" text, "createdAt" integer, "score" real, "avatar" blob, PRIMARY KEY ("id"))`,
		`INSERT INTO "user" VALUES ('usr_1','O''Brien',1700000000,2.0,X'DEADBEEF')`,
		`INSERT INTO "user" VALUES ('usr_2',NULL,NULL,NULL,NULL)`,
		`CREATE TABLE "d1_migrations" ("id" integer PRIMARY KEY AUTOINCREMENT, "name" text)`,
		`INSERT INTO "d1_migrations" ("name") VALUES ('0001_init.sql')`,
		`CREATE TABLE "_cf_KV" ("key" text PRIMARY KEY, "value" blob)`,
	)

	db, err := export.Open(path)
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	stats, err := export.Dump(context.Background(), db, &buf)
	require.NoError(t, err)

	assert.Equal(t, export.Stats{Tables: 2, Rows: 3}, stats)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"PRAGMA defer_foreign_keys=TRUE;",
		`CREATE TABLE "user" ("id" text NOT NULL, "name" text, "createdAt" integer, "score" real, "avatar" blob, PRIMARY KEY ("id"));`,
		`INSERT INTO "user" VALUES('usr_1','O''Brien',1700000000,2.0,X'DEADBEEF');`,
		`INSERT INTO "user" VALUES('usr_2',NULL,NULL,NULL,NULL);`,
		`CREATE TABLE "d1_migrations" ("id" integer PRIMARY KEY AUTOINCREMENT, "name" text);`,
		`INSERT INTO "d1_migrations" VALUES(1,'0001_init.sql');`,
	}, lines)
}

func TestDump_RoundTripThroughProcess(t *testing.T) {
	path := seed(t,
		`CREATE TABLE "team" ("id" text NOT NULL, "name" text, "isPersonalTeam" integer, PRIMARY KEY ("id"))`,
		`CREATE TABLE "workouts" ("id" text NOT NULL, "description" text, "teamId" text REFERENCES "team"("id"), PRIMARY KEY ("id"))`,
		`INSERT INTO "team" VALUES ('t_1','Crew',1)`,
		"INSERT INTO \"workouts\" VALUES ('w_1','21-15-9\nThrusters\nPull-ups','t_1')",
		`INSERT INTO "workouts" VALUES ('w_2','007','t_1')`,
	)

	db, err := export.Open(path)
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	_, err = export.Dump(context.Background(), db, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `replace('21-15-9\nThrusters\nPull-ups','\n',char(10))`)

	res := dump.Process(buf.String(), dump.DefaultMapping())
	require.Empty(t, res.Warnings)
	require.Len(t, res.Statements, 2)
	assert.Equal(t, "teams", res.Statements[0].TargetTable)
	assert.Equal(t, "workouts", res.Statements[1].TargetTable)
	assert.Equal(t, []string{"team"}, res.TableReferences["workouts"])

	assert.Equal(t,
		"INSERT IGNORE INTO `teams` (`id`,`name`,`is_personal_team`) VALUES ('t_1','Crew',1);",
		res.Statements[0].SQL[0])
	assert.Equal(t,
		"INSERT IGNORE INTO `workouts` (`id`,`description`,`team_id`) VALUES ('w_1','21-15-9\\nThrusters\\nPull-ups','t_1'),('w_2','007','t_1');",
		res.Statements[1].SQL[0])
}

func TestDump_KeepsStoredDateText(t *testing.T) {
	path := seed(t,
		`CREATE TABLE "ev" ("id" text, "startsAt" datetime, "day" date, "seenAt" timestamp)`,
		`INSERT INTO "ev" VALUES ('e1','2024-01-15 00:00:00','2024-03-01T10:30:00.250+02:00',1700000000)`,
	)

	db, err := export.Open(path)
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	_, err = export.Dump(context.Background(), db, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(),
		`INSERT INTO "ev" VALUES('e1','2024-01-15 00:00:00','2024-03-01T10:30:00.250+02:00',1700000000);`)

	res := dump.Process(buf.String(), dump.DefaultMapping())
	rows := res.TableRows["ev"]
	require.Len(t, rows, 1)
	assert.Equal(t, dump.ParsedValue{Value: "2024-01-15 00:00:00", WasQuoted: true}, rows[0][1])
	assert.Equal(t, dump.ParsedValue{Value: "2024-03-01T10:30:00.250+02:00", WasQuoted: true}, rows[0][2])
	assert.Equal(t, dump.ParsedValue{Value: "1700000000"}, rows[0][3])
}

func TestOpen_IsReadOnly(t *testing.T) {
	path := seed(t, `CREATE TABLE t (id integer)`)

	db, err := export.Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO t VALUES (1)`)
	assert.Error(t, err)
}

func TestOpen_RejectsMemory(t *testing.T) {
	_, err := export.Open(":memory:")
	assert.Error(t, err)
}
