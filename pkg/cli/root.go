// Package cli defines the command line of the site binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/logger"
)

type options struct {
	configFile string
	cfg        *config.Config
}

// NewRootCommand builds the command tree. Without a subcommand the site is
// served.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "feuerwehr-web",
		Short:         "Website and CMS of the volunteer fire brigade",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.cfg)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (yaml, toml or json)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newCreateAdminCommand(opts),
		newImportCommand(opts),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
