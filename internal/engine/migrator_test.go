package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/dump"
	"d1-migrate/internal/engine"
	"d1-migrate/internal/schema"
)

func TestMigrate_ExecutesInOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	plan := []dump.TableStatements{
		{TargetTable: "users", SourceTable: "user", Rows: 3, SQL: []string{"INSERT users 1", "INSERT users 2"}},
		{TargetTable: "teams", SourceTable: "team", Rows: 1, SQL: []string{"INSERT teams 1"}},
	}
	mock.ExpectExec("INSERT users 1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT users 2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT teams 1").WillReturnResult(sqlmock.NewResult(0, 0))

	progress := 0
	results, err := engine.Migrate(context.Background(), db, plan, func() { progress++ })

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 3, progress)
	assert.Equal(t, []schema.MigrationResult{
		{TableName: "users", SourceTable: "user", Rows: 3, Batches: 2, Actual: 3, Status: "OK"},
		{TableName: "teams", SourceTable: "team", Rows: 1, Batches: 1, Actual: 0, Status: "OK"},
	}, results)
}

func TestMigrate_ContinuesAfterFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	plan := []dump.TableStatements{
		{TargetTable: "users", SourceTable: "user", Rows: 2, SQL: []string{"INSERT users 1", "INSERT users 2"}},
		{TargetTable: "teams", SourceTable: "team", Rows: 1, SQL: []string{"INSERT teams 1"}},
	}
	mock.ExpectExec("INSERT users 1").WillReturnError(errors.New("Error 1452: foreign key constraint fails"))
	mock.ExpectExec("INSERT users 2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT teams 1").WillReturnResult(sqlmock.NewResult(0, 1))

	results, err := engine.Migrate(context.Background(), db, plan, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Failed)
	assert.Equal(t, 1, results[0].Actual)
	assert.Equal(t, "FAILED: 1/2 batches", results[0].Status)
	assert.Contains(t, results[0].ErrorMsg, "1452")
	assert.Equal(t, "OK", results[1].Status)
}

func TestMigrate_StopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	plan := []dump.TableStatements{
		{TargetTable: "users", SourceTable: "user", Rows: 1, SQL: []string{"INSERT users 1"}},
		{TargetTable: "teams", SourceTable: "team", Rows: 1, SQL: []string{"INSERT teams 1"}},
	}
	mock.ExpectExec("INSERT users 1").WillReturnResult(sqlmock.NewResult(0, 1))

	results, err := engine.Migrate(ctx, db, plan, func() { cancel() })

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 2)
	assert.Equal(t, "OK", results[0].Status)
	assert.Equal(t, "ABORTED", results[1].Status)
}

func TestMigrate_EndToEndFromDump(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	res := dump.Process(
		`CREATE TABLE "team" ("id" text NOT NULL, "isPersonalTeam" integer);`+"\n"+
			`CREATE TABLE "user" ("id" text NOT NULL, "createdAt" integer);`+"\n"+
			`INSERT INTO "team" VALUES ('t_1',1);`+"\n"+
			`INSERT INTO "user" VALUES ('usr_1',1700000000);`,
		dump.DefaultMapping())
	require.Empty(t, res.Warnings)

	mock.ExpectExec("INSERT IGNORE INTO `users` (`id`,`created_at`) VALUES ('usr_1','2023-11-14 22:13:20');").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT IGNORE INTO `teams` (`id`,`is_personal_team`) VALUES ('t_1',1);").
		WillReturnResult(sqlmock.NewResult(0, 1))

	results, err := engine.Migrate(context.Background(), db, res.Statements, nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, results, 2)
	assert.Equal(t, 2, engine.TotalStatements(res.Statements))
}

func TestVerify(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	in := []schema.MigrationResult{
		{TableName: "users", Rows: 2, Status: "OK"},
		{TableName: "teams", Rows: 5, Status: "OK"},
		{TableName: "scores", Rows: 1, Status: "OK"},
	}
	mock.ExpectQuery("SELECT COUNT(*) FROM `users`").WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))
	mock.ExpectQuery("SELECT COUNT(*) FROM `teams`").WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(4))
	mock.ExpectQuery("SELECT COUNT(*) FROM `scores`").WillReturnError(errors.New("table missing"))

	out := engine.Verify(context.Background(), db, &dialect.MysqlDialect{}, in)

	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, out, 3)
	assert.Equal(t, "VERIFIED_OK", out[0].Status)
	assert.Equal(t, 3, out[0].Actual)
	assert.Equal(t, "PARTIAL: 4/5", out[1].Status)
	assert.Equal(t, "VERIFY_FAIL: table missing", out[2].Status)
	// The input slice is left alone.
	assert.Equal(t, "OK", in[0].Status)
}

func TestClean(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("TRUNCATE TABLE `team_memberships`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("TRUNCATE TABLE `teams`").WillReturnError(errors.New("locked"))
	mock.ExpectExec("TRUNCATE TABLE `users`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err = engine.Clean(context.Background(), db, &dialect.MysqlDialect{}, []string{"users", "teams", "team_memberships"})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClean_CommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 0").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("TRUNCATE TABLE `users`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SET FOREIGN_KEY_CHECKS = 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("gone away"))

	err = engine.Clean(context.Background(), db, &dialect.MysqlDialect{}, []string{"users"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone away")
}
