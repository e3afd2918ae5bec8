package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"d1-migrate/internal/export"
)

var (
	sqlitePath string
	outPath    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a D1-format dump of a local SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sqlitePath == "" {
			return fmt.Errorf("--sqlite is required")
		}

		db, err := export.Open(sqlitePath)
		if err != nil {
			return err
		}
		defer db.Close()

		out, err := openOutput(cmd.OutOrStdout(), outPath)
		if err != nil {
			return err
		}

		var stats export.Stats
		err = writeOutput(out, func(w io.Writer) error {
			var err error
			stats, err = export.Dump(cmd.Context(), db, w)
			return err
		})
		if err != nil {
			return err
		}
		log.Printf("Exported %d tables (%d rows) from %s", stats.Tables, stats.Rows, sqlitePath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file to export")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default is stdout)")
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput creates path, or wraps stdout when path is empty.
func openOutput(stdout io.Writer, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, nil
}

// writeOutput runs write against out and closes it. A failed close is
// reported so that a truncated --out file never looks like a success.
func writeOutput(out io.WriteCloser, write func(io.Writer) error) error {
	err := write(out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close output: %w", cerr)
	}
	return err
}
