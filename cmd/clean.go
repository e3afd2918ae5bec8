package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"d1-migrate/internal/dialect"
	"d1-migrate/internal/engine"
)

var force bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Truncate the target tables before a fresh migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !force {
			return fmt.Errorf("clean deletes all rows of the target tables; re-run with --force")
		}

		m, err := loadMapping()
		if err != nil {
			return err
		}
		targets := m.TableOrder
		if len(tables) > 0 {
			targets = tables
		}

		db, err := openTarget(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		d := dialect.GetDialect("mysql")
		log.Printf("Using Dialect: %s", d.Name())

		return engine.Clean(cmd.Context(), db, d, targets)
	},
}

func init() {
	RootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().BoolVar(&force, "force", false, "Confirm that all rows may be deleted")
	cleanCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Only clean these target tables, in dependency order (comma-separated)")
}
