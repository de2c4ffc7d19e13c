package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/service/classifier"
)

var (
	// classifyManifest overrides the asset manifest path.
	classifyManifest string
	// classifyOutput overrides the cook rule file path.
	classifyOutput string

	// classifyCmd runs the primary asset labeling pass.
	classifyCmd = &cobra.Command{
		Use:   "classify",
		Short: "Assign cook rules to primary assets from their version ranges.",
		Long: `Read every primary asset from the manifest, mark versioned assets AlwaysCook or NeverCook
for the resolved release version and write the cook rule file.

Assets of unversioned types (maps, labels and GameFeature data by default) keep their rule.
Versioned assets without a readable VersionRange tag fail the pass and no rules are written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := classifier.Run(cmd.Context(), &classifier.Options{
				ConfigPath:   configPath,
				ManifestPath: classifyManifest,
				OutputPath:   classifyOutput,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"release %s: %d included, %d excluded, %d skipped\n",
				report.ReleaseVersion, len(report.Included), len(report.Excluded), len(report.Skipped))

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVarP(&classifyManifest, "manifest", "m", "", "asset manifest, overrides the settings file")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "cook rule file, overrides the settings file")
}
