package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"d1-migrate/internal/dump"
	"d1-migrate/internal/schema"
)

var suggestOrder bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Parse a D1 export and report problems without touching a database",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMapping()
		if err != nil {
			return err
		}
		text, err := readDump(dumpPath)
		if err != nil {
			return err
		}

		res := dump.Process(text, m)
		tables := schema.FromDump(res, m)
		issues := checkReport(cmd.OutOrStdout(), res, m, tables)

		if suggestOrder {
			fmt.Fprintln(cmd.OutOrStdout(), "\n🔍 Suggested TABLE_ORDER:")
			for i, t := range schema.SortTablesByFKCount(tables) {
				fmt.Fprintf(cmd.OutOrStdout(), "[%02d] %s (Dependencies: %v)\n", i+1, t.Name, t.Dependencies)
			}
		}

		if issues > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d issue(s) found\n", issues)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "\nNo issues found")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&dumpPath, "dump", "", "D1 export to check (default is dump.path from config)")
	checkCmd.Flags().BoolVar(&suggestOrder, "suggest-order", false, "Print a dependency order computed from the dump")
}

// checkReport writes the per-table overview followed by every warning and
// returns the number of warnings.
func checkReport(w io.Writer, res *dump.Result, m *dump.Mapping, tables []*schema.Table) int {
	planned := make(map[string]dump.TableStatements, len(res.Statements))
	for _, st := range res.Statements {
		planned[st.SourceTable] = st
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Source", "Target", "Rows", "Columns", "Batches", "Status"})
	for _, src := range res.SourceTables {
		target, mapped := m.TableNames[src]
		st, ok := planned[src]
		status := "OK"
		switch {
		case !mapped:
			status = "UNMAPPED"
			target = "-"
		case !ok && !m.InOrder(target):
			status = "NOT ORDERED"
		case !ok:
			status = "NO SCHEMA"
		}
		t.AppendRow(table.Row{src, target, len(res.TableRows[src]), len(res.TableColumns[src]), len(st.SQL), status})
	}
	t.Render()

	var warnings []string
	warnings = append(warnings, res.Warnings...)
	warnings = append(warnings, m.Validate()...)
	warnings = append(warnings, schema.CheckOrder(m.TableOrder, tables)...)

	for _, msg := range warnings {
		fmt.Fprintf(w, "  WARN: %s\n", msg)
	}
	return len(warnings)
}
