package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/services"
)

func newImportCommand(opts *options) *cobra.Command {
	var dir, kind, locale string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import markdown posts or pages with front matter",
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != services.ImportPosts && kind != services.ImportPages {
				return fmt.Errorf("--kind must be %s or %s", services.ImportPosts, services.ImportPages)
			}
			a, err := newApp(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.close()

			report, err := a.imports.ImportDir(cmd.Context(), dir, services.ImportOptions{
				Kind:   kind,
				Locale: i18n.ParseLocale(locale),
			})
			if err != nil {
				return err
			}
			a.site.Invalidate(cmd.Context())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d %s\n", len(report.Imported), kind)
			files := make([]string, 0, len(report.Failed))
			for f := range report.Failed {
				files = append(files, f)
			}
			sort.Strings(files)
			for _, f := range files {
				fmt.Fprintf(out, "  failed %s: %s\n", f, report.Failed[f])
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d files failed", len(report.Failed))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "content", "directory with markdown files")
	cmd.Flags().StringVar(&kind, "kind", services.ImportPosts, "posts or pages")
	cmd.Flags().StringVar(&locale, "locale", string(i18n.DefaultLocale), "locale of files without a .de/.en suffix")
	return cmd
}
