package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/service/classifier"
)

var errBadVersion = errors.New("expected a MAJOR.MINOR version")

// includeCmd evaluates a single version range against the release being built.
var includeCmd = &cobra.Command{
	Use:   "include <intro> [sunset]",
	Short: "Tell whether a version range ships in the release being built.",
	Long: `Print "include" when the range [intro, sunset) contains the resolved release version
and "exclude" otherwise. Without a sunset the range is open-ended.`,
	Example: `  release-gate include 2.0 -ExampleReleaseVersion=2.0
  release-gate include 1.0 2.0`,
	Args: cobra.RangeArgs(1, 2), //nolint:mnd // Intro and optional sunset.
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := rangeFromArgs(args)
		if err != nil {
			return err
		}

		include, err := classifier.ShouldInclude(cmd.Context(), r)
		if err != nil {
			return err
		}

		verdict := "exclude"
		if include {
			verdict = "include"
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), verdict)

		return err
	},
}

// rangeFromArgs builds a version range from an intro and an optional sunset argument.
func rangeFromArgs(args []string) (release.VersionRange, error) {
	intro, ok := release.ParseVersion(args[0])
	if !ok {
		return release.VersionRange{}, fmt.Errorf("intro %q: %w", args[0], errBadVersion)
	}

	r := release.NewVersionRange(intro)
	if len(args) < 2 { //nolint:mnd // Sunset is the second argument.
		return r, nil
	}

	sunset, ok := release.ParseVersion(args[1])
	if !ok {
		return release.VersionRange{}, fmt.Errorf("sunset %q: %w", args[1], errBadVersion)
	}

	return r.WithSunset(sunset), nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(includeCmd)
}
