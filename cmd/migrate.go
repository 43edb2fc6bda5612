package cmd

import (
	"github.com/jjenkins/econsult/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := store.Migrate(ctx, e.db); err != nil {
			e.log.Error("migration failed", "error", err)
			return err
		}
		e.log.Info("database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
