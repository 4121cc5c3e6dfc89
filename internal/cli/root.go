package cli

import (
	"fmt"
	"io"
	"strconv"

	"freshguard/internal/page"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the freshguard command tree. The App is built by
// factory before any subcommand runs.
func NewRootCommand(factory Factory) *cobra.Command {
	var (
		opts Options
		app  = new(App)
	)

	root := &cobra.Command{
		Use:           "freshguard",
		Short:         "Track food inventory and the recipes that use it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := factory(cmd.Context(), opts)
			if err != nil {
				return err
			}
			*app = *built
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.APIURL, "api-url", "", "inventory API base URL (overrides FRESHGUARD_API_URL)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(
		newHomeCommand(app),
		newOpenCommand(app),
		newItemsCommand(app),
		newRecipesCommand(app),
	)

	return root
}

func newHomeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the newest item and recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Pages.Render(cmd.Context(), cmd.OutOrStdout(), page.HomePath)
		},
	}
}

func newOpenCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <route>",
		Short: "Render a page by route",
		Long:  routesHelp(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Pages.Render(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func routesHelp() string {
	help := "Render a page by route. Append ?q=<text> to filter lists.\n\nRoutes:\n"
	for _, r := range page.Nav() {
		help += fmt.Sprintf("  %-10s %s\n", r.Path, r.Label)
	}
	return help
}

// parseID reads a positional entity id.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func printf(w io.Writer, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
