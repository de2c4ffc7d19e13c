package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/service/hooks"
)

var (
	// verifyManifest overrides the asset manifest path.
	verifyManifest string
	// verifyRules overrides the cook rule file path.
	verifyRules string
	// verifyForced lists assets cooked regardless of their rule.
	verifyForced []string
	// verifyTrace logs every hook invocation.
	verifyTrace bool

	// verifyCmd simulates a cook through the load and pre-save hooks.
	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Simulate a cook and fail if excluded content would be saved.",
		Long: `Load every versioned asset through the load hook and save the ones still cooked through
the pre-save hook, using the cook rules written by "classify".

Assets the release excludes are marked transient on load and never saved. Forced assets
skip the load hook, as if pulled in by a reference; saving an excluded one fails the command.`,
		Example: `  release-gate verify --force Item:Scarf -ExampleReleaseVersion=2.0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if verifyTrace {
				ctx = logger.ToContext(ctx, logger.FromContext(ctx).WithOptions(logger.WithLevel(zapcore.DebugLevel)))
			}

			summary, err := hooks.Verify(ctx, &hooks.Options{
				ConfigPath:   configPath,
				ManifestPath: verifyManifest,
				RulesPath:    verifyRules,
				Forced:       verifyForced,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d saved, %d transient\n", len(summary.Saved), len(summary.Transient))

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVarP(&verifyManifest, "manifest", "m", "", "asset manifest, overrides the settings file")
	verifyCmd.Flags().StringVar(&verifyRules, "rules", "", "cook rule file, overrides the settings file")
	verifyCmd.Flags().StringSliceVar(&verifyForced, "force", nil, "Type:Name of assets cooked regardless of their rule")
	verifyCmd.Flags().BoolVar(&verifyTrace, "trace", false, "log every hook invocation")
}
