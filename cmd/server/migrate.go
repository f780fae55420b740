package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or list the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		a, err := setup()
		if err != nil {
			return err
		}
		ctx := a.context(cmd.Context())

		store, err := a.openStore(ctx, true)
		if err != nil {
			return err
		}
		defer store.Close()

		switch direction {
		case "down":
			if err := store.MigrateDown(ctx); err != nil {
				return err
			}
			a.logger.Info("rolled back latest migration")
		case "status":
			statuses, err := store.MigrationStatus(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "%05d  %-8s %s\n", st.Version, state, st.Path)
			}
		default:
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			a.logger.Info("migrations applied")
		}
		return nil
	},
}
