package classifier

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/repository/assets"
	"github.com/oshokin/build-time-include/internal/repository/rules"
	"github.com/oshokin/build-time-include/internal/resolver"
)

// Options contains inputs for the classify entry point.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ManifestPath overrides the asset manifest from the settings.
	ManifestPath string
	// OutputPath overrides the cook rule file from the settings.
	OutputPath string
	// Fs is the filesystem holding settings, manifest and rules; the OS filesystem when nil.
	Fs afero.Fs
	// Versions provides the target release version; the process-wide resolver when nil.
	Versions VersionProvider
}

// Run executes the labeling pass over the asset manifest and writes the cook rules.
// Nothing is written when any versioned asset lacks a usable version range.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "classify")

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	cfg, err := config.Load(fs, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	manifestPath := cfg.AssetManifest
	if opts.ManifestPath != "" {
		manifestPath = opts.ManifestPath
	}

	outputPath := cfg.CookRulesFile
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	var versions VersionProvider = resolver.Process{}
	if opts.Versions != nil {
		versions = opts.Versions
	}

	registry := assets.NewFileRepository(fs, manifestPath)
	table := rules.NewTable()

	c, err := New(versions, registry, registry, table, WithUnversionedTypes(cfg.UnversionedTypes...))
	if err != nil {
		return nil, fmt.Errorf("initialize classifier: %w", err)
	}

	report, err := c.ApplyPrimaryAssetLabels(ctx)
	if err != nil {
		return report, fmt.Errorf("classify %s: %w", manifestPath, err)
	}

	if err = rules.NewFileRepository(fs, outputPath).Save(ctx, report.ReleaseVersion, table); err != nil {
		return report, err
	}

	logger.InfoKV(ctx, "Cook rules written", "path", outputPath, "rules", table.Len())

	return report, nil
}
