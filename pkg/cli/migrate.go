package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"feuerwehr-web/pkg/store"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(opts.cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close(db)
			fmt.Fprintf(cmd.OutOrStdout(), "database %s migrated\n", opts.cfg.Database.Driver)
			return nil
		},
	}
}
