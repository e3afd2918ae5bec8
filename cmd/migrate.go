package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/dump"
	"d1-migrate/internal/engine"
	"d1-migrate/internal/schema"
)

const dryRunPreview = 200

var (
	dumpPath string
	dryRun   bool
	verify   bool
	tables   []string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Load a D1 export into the target MySQL database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := loadMapping()
		if err != nil {
			return err
		}
		text, err := readDump(dumpPath)
		if err != nil {
			return err
		}

		log.Printf("Dry run: %v", dryRun)
		res := dump.Process(text, m)
		reportParse(res, m)

		plan, err := filterPlan(res.Statements, tables)
		if err != nil {
			return err
		}

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			for _, st := range plan {
				fmt.Printf("Migrating: %s → %s (%d rows, %d columns)\n",
					st.SourceTable, st.TargetTable, st.Rows, len(res.TableColumns[st.SourceTable]))
				if len(st.SQL) > 0 {
					fmt.Printf("  SQL: %s...\n", truncate(st.SQL[0], dryRunPreview))
				}
			}
			printCompletion(plan)
			return nil
		}

		db, err := openTarget(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		start := time.Now()

		uiprogress.Start()
		bar := uiprogress.AddBar(engine.TotalStatements(plan)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Migrating: "
		})

		results, err := engine.Migrate(ctx, db, plan, func() {
			bar.Incr()
		})

		uiprogress.Stop()

		if verify {
			log.Println("Verifying row counts...")
			results = engine.Verify(ctx, db, &dialect.MysqlDialect{}, results)
		}

		fmt.Println("\n📊 Summary Report (Dependency Order):")
		renderResults(cmd.OutOrStdout(), results)
		log.Printf("Migration Done! Time Elapsed: %s", time.Since(start))
		printCompletion(plan)

		return err
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringVar(&dumpPath, "dump", "", "D1 export to migrate (default is dump.path from config)")
	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and print statements without touching the database")
	migrateCmd.Flags().BoolVar(&verify, "verify", false, "Count rows in every migrated table afterwards")
	migrateCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Only migrate these target tables (comma-separated)")
}

// reportParse logs what the two parsing passes found.
func reportParse(res *dump.Result, m *dump.Mapping) {
	log.Printf("Parsed %d CREATE TABLE definitions", len(res.TableColumns))
	log.Printf("Found data for %d tables to migrate", len(res.TableRows))
	for _, src := range res.SourceTables {
		if target, ok := m.TableNames[src]; ok {
			log.Printf("  %s → %s: %d rows", src, target, len(res.TableRows[src]))
		}
	}
	for _, w := range res.Warnings {
		log.Printf("  WARN: %s", w)
	}
}

// filterPlan keeps the statements of the named target tables, in plan
// order. An empty filter keeps everything.
func filterPlan(plan []dump.TableStatements, only []string) ([]dump.TableStatements, error) {
	if len(only) == 0 {
		return plan, nil
	}

	want := make(map[string]bool, len(only))
	for _, t := range only {
		want[t] = true
	}

	var out []dump.TableStatements
	for _, st := range plan {
		if want[st.TargetTable] {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no matching tables found for inputs: %v", only)
	}
	return out, nil
}

func renderResults(w io.Writer, results []schema.MigrationResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Target", "Rows", "Batches", "Failed", "Affected", "Status"})

	rows, affected := 0, 0
	for i, r := range results {
		t.AppendRow(table.Row{i + 1, r.SourceTable, r.TableName, r.Rows, r.Batches, r.Failed, r.Actual, r.Status})
		rows += r.Rows
		affected += r.Actual
	}
	t.AppendFooter(table.Row{"", "", "Total", rows, "", "", affected, ""})
	t.Render()

	for _, r := range results {
		if r.ErrorMsg != "" {
			fmt.Fprintf(w, "  %s └ Error: %s\n", r.TableName, r.ErrorMsg)
		}
	}
}

func printCompletion(plan []dump.TableStatements) {
	rows := 0
	for _, st := range plan {
		rows += st.Rows
	}
	fmt.Printf("\n=== Migration complete: %d total rows across %d tables ===\n", rows, len(plan))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
