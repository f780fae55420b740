package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dayflow/hr-engine/factory"
	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/seed"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/spf13/cobra"
)

var (
	typesFile       string
	balanceEmployee string
	balanceYear     int
)

var initTypesCmd = &cobra.Command{
	Use:   "init-types",
	Short: "Install the leave-type catalogue",
	Long: `Install PAID, SICK and UNPAID with their default allocations, or the
types listed in a JSON catalogue given with --file. Existing types with the
same code are overwritten; balances already created keep their allocation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		types := timeoff.DefaultTypes()
		if typesFile != "" {
			data, err := os.ReadFile(typesFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", typesFile, err)
			}
			types, err = factory.NewTypeFactory().ParseTypes(data)
			if err != nil {
				return err
			}
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

		if err := seed.InstallTypes(ctx, store.TimeOff(), types); err != nil {
			return err
		}
		for _, t := range types {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-20s %s days\n", t.Code, t.Name, generic.FormatDecimal(t.DefaultAllocation))
		}
		return nil
	},
}

var initBalancesCmd = &cobra.Command{
	Use:   "init-balances",
	Short: "Create missing balances for every active leave type",
	Long: `Create the balance rows for --year (default: current year) for one
employee (--employee) or every employee. Existing rows are left unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		year := balanceYear
		if year == 0 {
			year = time.Now().Year()
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

		ids := []generic.EmployeeID{generic.EmployeeID(balanceEmployee)}
		if balanceEmployee == "" {
			employees, err := store.ListEmployees(ctx)
			if err != nil {
				return err
			}
			ids = ids[:0]
			for _, e := range employees {
				ids = append(ids, e.ID)
			}
		}

		ledger := timeoff.NewLedger(store.TimeOff())
		for _, id := range ids {
			balances, err := ledger.InitializeForYear(ctx, id, year)
			if err != nil {
				return fmt.Errorf("initialize %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d balances for %d\n", id, len(balances), year)
		}
		return nil
	},
}

func init() {
	initTypesCmd.Flags().StringVarP(&typesFile, "file", "f", "", "JSON catalogue of leave types")
	initBalancesCmd.Flags().StringVarP(&balanceEmployee, "employee", "e", "", "employee ID (default: all employees)")
	initBalancesCmd.Flags().IntVarP(&balanceYear, "year", "y", 0, "balance year (default: current year)")
}
