package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/repository/assets"
)

var (
	// tagManifest overrides the asset manifest path.
	tagManifest string

	// tagCmd stores a version range on a primary asset.
	tagCmd = &cobra.Command{
		Use:   "tag <Type:Name> <intro> [sunset]",
		Short: "Store a version range on a primary asset in the manifest.",
		Long: `Encode the range [intro, sunset) and write it to the VersionRange tag of the asset,
the same value the labeling pass later decodes.`,
		Example: `  release-gate tag Item:Hat 2.0
  release-gate tag Item:Scarf 1.0 2.0`,
		Args: cobra.RangeArgs(2, 3), //nolint:mnd // Asset id, intro and optional sunset.
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logger.WithName(cmd.Context(), "tag")

			id, err := asset.ParsePrimaryAssetID(args[0])
			if err != nil {
				return err
			}

			r, err := rangeFromArgs(args[1:])
			if err != nil {
				return err
			}

			fs := afero.NewOsFs()

			cfg, err := config.Load(fs, configPath)
			if err != nil {
				return err
			}

			path := cfg.AssetManifest
			if tagManifest != "" {
				path = tagManifest
			}

			if !r.Satisfiable() {
				logger.WarnKV(ctx, "Range includes no release version", "asset", id.String(), "range", r.String())
			}

			value := release.EncodeTag(r)
			if err := assets.NewFileRepository(fs, path).SetTag(ctx, id, release.TagName, value); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s=%s\n", id, release.TagName, value)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.Flags().StringVarP(&tagManifest, "manifest", "m", "", "asset manifest, overrides the settings file")
}
