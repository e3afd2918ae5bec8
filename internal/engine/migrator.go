package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

// Execer is the part of *sql.DB the migrator needs.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const statementPreview = 300

// Migrate executes plan one statement at a time, in order. A failed
// statement is logged and recorded and the run carries on with the next
// one; only context cancellation stops it early. onProgress is called
// after every statement.
func Migrate(ctx context.Context, db Execer, plan []dump.TableStatements, onProgress func()) ([]schema.MigrationResult, error) {
	results := make([]schema.MigrationResult, 0, len(plan))

	for _, st := range plan {
		log.Printf("migrating: %s → %s (%d rows, %d batches)", st.SourceTable, st.TargetTable, st.Rows, len(st.SQL))

		res := schema.MigrationResult{
			TableName:   st.TargetTable,
			SourceTable: st.SourceTable,
			Rows:        st.Rows,
			Batches:     len(st.SQL),
		}

		for i, stmt := range st.SQL {
			if err := ctx.Err(); err != nil {
				res.Status = "ABORTED"
				results = append(results, res)
				return results, fmt.Errorf("migration of %s interrupted: %w", st.TargetTable, err)
			}

			r, err := db.ExecContext(ctx, stmt)
			if err != nil {
				res.Failed++
				if res.ErrorMsg == "" {
					res.ErrorMsg = err.Error()
				}
				log.Printf("  ERROR batch %d/%d: %v", i+1, len(st.SQL), err)
				log.Printf("    %s", preview(stmt, statementPreview))
			} else if n, err := r.RowsAffected(); err == nil {
				res.Actual += int(n)
			}

			if onProgress != nil {
				onProgress()
			}
		}

		res.Status = "OK"
		if res.Failed > 0 {
			res.Status = fmt.Sprintf("FAILED: %d/%d batches", res.Failed, res.Batches)
		}
		results = append(results, res)
	}

	return results, nil
}

// Verify counts the rows now present in every migrated table. A table
// holding fewer rows than the dump had is reported as PARTIAL.
func Verify(ctx context.Context, db *sql.DB, d dialect.Dialect, results []schema.MigrationResult) []schema.MigrationResult {
	verified := make([]schema.MigrationResult, 0, len(results))
	for _, res := range results {
		var count int
		err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", d.QuoteIdent(res.TableName))).Scan(&count)

		switch {
		case err != nil:
			res.Status = fmt.Sprintf("VERIFY_FAIL: %v", err)
		case count < res.Rows:
			res.Status = fmt.Sprintf("PARTIAL: %d/%d", count, res.Rows)
			res.Actual = count
		default:
			res.Status = "VERIFIED_OK"
			res.Actual = count
		}
		verified = append(verified, res)
	}
	return verified
}

// TotalStatements is the number of statements plan will execute.
func TotalStatements(plan []dump.TableStatements) int {
	n := 0
	for _, st := range plan {
		n += len(st.SQL)
	}
	return n
}

func preview(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
