package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"feuerwehr-web/pkg/models"
)

func newCreateAdminCommand(opts *options) *cobra.Command {
	var email, password, name, role string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin or editor account for the CMS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.close()

			u, err := a.auth.CreateAdmin(cmd.Context(), email, password, name, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", u.Role, u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password, at least 8 characters")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "admin or editor")
	return cmd
}
