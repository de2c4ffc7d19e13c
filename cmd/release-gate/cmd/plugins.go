package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/service/plugins"
)

var (
	// pluginsDir overrides the GameFeature plugins root.
	pluginsDir string
	// pluginsAll prints every plugin with its decision instead of enabled names only.
	pluginsAll bool

	// pluginsCmd decides which GameFeature plugins ship.
	pluginsCmd = &cobra.Command{
		Use:   "plugins",
		Short: "List GameFeature plugins enabled for the release being built.",
		Long: `Scan GameFeature plugin descriptors and print the names of plugins whose version range
includes the resolved release version, one per line.

Descriptors must set EnabledByDefault to false and declare IntroVersion and HasSunsetVersion
(plus SunsetVersion when sunsetting). Plugins with broken descriptors are disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := plugins.Run(cmd.Context(), &plugins.Options{
				ConfigPath: configPath,
				PluginsDir: pluginsDir,
			})
			if err != nil {
				return err
			}

			if !pluginsAll {
				for _, name := range result.Enabled() {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
						return err
					}
				}

				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd // Column padding.

			for _, d := range result.Plugins {
				state, detail := "disabled", d.Range.String()

				switch {
				case d.Err != nil:
					detail = d.Err.Error()
				case d.Enabled:
					state = "enabled"
				}

				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, state, detail)
			}

			return w.Flush()
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(pluginsCmd)

	pluginsCmd.Flags().StringVar(&pluginsDir, "dir", "", "GameFeature plugins root, overrides the settings file")
	pluginsCmd.Flags().BoolVar(&pluginsAll, "all", false, "print every plugin with its decision")
}
