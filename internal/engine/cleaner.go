package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"d1-migrate/internal/dialect"
)

// Clean empties tables in reverse order inside one transaction with
// foreign key checks switched off. A table that cannot be emptied is logged
// and skipped.
func Clean(ctx context.Context, db *sql.DB, d dialect.Dialect, tables []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cleaning transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	log.Println("Disabling Foreign Key Checks...")
	if _, err := tx.ExecContext(ctx, d.DisableForeignKeys()); err != nil {
		log.Printf("Warning: failed to disable foreign key checks: %v. Continuing...", err)
	}

	total := len(tables)
	count := 0
	for i := total - 1; i >= 0; i-- {
		count++
		if _, err := tx.ExecContext(ctx, d.TruncateQuery(tables[i])); err != nil {
			log.Printf("Warning: failed to clean %s: %v (continuing...)", tables[i], err)
		}
		if count%5 == 0 || count == total {
			log.Printf("Cleaned %d/%d tables...", count, total)
		}
	}

	log.Println("Enabling Foreign Key Checks...")
	if _, err := tx.ExecContext(ctx, d.EnableForeignKeys()); err != nil {
		log.Printf("Warning: failed to enable foreign key checks: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cleaning transaction: %w", err)
	}
	tx = nil

	log.Println("Database cleaned")
	return nil
}
