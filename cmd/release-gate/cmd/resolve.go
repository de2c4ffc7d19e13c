package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/resolver"
)

// resolveCmd prints the release version being built.
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved release version.",
	Long: `Resolve the release version from the command line, the environment and the game config,
and print it as MAJOR.MINOR. Fails when no source yields a valid version.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := resolver.ReleaseVersion(cmd.Context())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d.%d\n", v.Major, v.Minor)

		return err
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(resolveCmd)
}
