package main

import (
	"errors"
	"fmt"

	"github.com/dayflow/hr-engine/api"
	"github.com/dayflow/hr-engine/generic"
	"github.com/spf13/cobra"
)

var (
	tokenEmployee string
	tokenRole     string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token",
	Long: `Sign a token with auth.jwt_secret for local testing. The employee is not
looked up; any ID is accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenEmployee == "" {
			return errors.New("--employee is required")
		}
		role := generic.ParseRole(tokenRole)

		a, err := setup()
		if err != nil {
			return err
		}
		token, expiresAt, err := api.NewAuth(a.cfg.Auth.JWTSecret, a.cfg.Auth.TokenTTL).
			IssueToken(generic.EmployeeID(tokenEmployee), role)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		a.logger.Debug("token issued", "employee_id", tokenEmployee, "role", string(role), "expires_at", expiresAt)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenEmployee, "employee", "e", "", "employee ID for the sub claim")
	tokenCmd.Flags().StringVarP(&tokenRole, "role", "r", string(generic.RoleEmployee), "ADMIN, HR or EMPLOYEE")
}
