package main

import (
	"fmt"

	"github.com/dayflow/hr-engine/seed"
	"github.com/spf13/cobra"
)

var scenarioID string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a demo scenario",
	Long:  `Delete all data and load a demo scenario. Use --list to see the scenarios.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, s := range seed.Scenarios() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", s.ID, s.Description)
			}
			return nil
		}

		a, err := setup()
		if err != nil {
			return err
		}
		ctx := a.context(cmd.Context())
		store, err := a.openStore(ctx, false)
		if err != nil {
			return err
		}
		defer store.Close()

		return seed.NewLoader(store).Load(ctx, scenarioID)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&scenarioID, "scenario", "s", "basic", "scenario to load")
	seedCmd.Flags().Bool("list", false, "list scenarios and exit")
}
