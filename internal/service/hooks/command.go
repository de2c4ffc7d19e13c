package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/repository/assets"
	"github.com/oshokin/build-time-include/internal/repository/rules"
	"github.com/oshokin/build-time-include/internal/resolver"
	"github.com/oshokin/build-time-include/internal/service/classifier"
)

// Options contains inputs for the verify entry point.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ManifestPath overrides the asset manifest from the settings.
	ManifestPath string
	// RulesPath overrides the cook rule file from the settings.
	RulesPath string
	// Forced lists "Type:Name" ids cooked regardless of their rule, e.g. pulled in by references.
	Forced []string
	// Fs is the filesystem holding settings, manifest and rules; the OS filesystem when nil.
	Fs afero.Fs
	// Versions provides the target release version; the process-wide resolver when nil.
	Versions classifier.VersionProvider
}

// Summary reports what a verification cooked.
type Summary struct {
	// Saved lists objects that passed through pre-save.
	Saved []asset.PrimaryAssetID
	// Transient lists objects dropped by the load hook.
	Transient []asset.PrimaryAssetID
}

// Verify replays the cook of every versioned asset that is not ruled out and reports
// excluded objects that would be saved anyway. It never rewrites the rules.
//
//nolint:cyclop,funlen // Sequential replay of a cook; splitting it hides the order of checks.
func Verify(ctx context.Context, opts *Options) (*Summary, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "verify")

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

	rulesPath := cfg.CookRulesFile
	if opts.RulesPath != "" {
		rulesPath = opts.RulesPath
	}

	forced := make(map[asset.PrimaryAssetID]struct{}, len(opts.Forced))

	for _, text := range opts.Forced {
		id, err := asset.ParsePrimaryAssetID(strings.TrimSpace(text))
		if err != nil {
			return nil, err
		}

		forced[id] = struct{}{}
	}

	versions := opts.Versions
	if versions == nil {
		versions = resolver.Process{}
	}

	gate := classifier.NewGate(versions)

	target, err := versions.ReleaseVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve release version: %w", err)
	}

	decidedFor, table, err := rules.NewFileRepository(fs, rulesPath).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cook rules: %w", err)
	}

	if decidedFor != target {
		logger.WarnKV(ctx, "Cook rules were decided for another release",
			"rules_release_version", decidedFor.String(),
			"release_version", target.String(),
		)
	}

	// Only versioned assets carry a range to check.
	c, err := classifier.New(versions, nil, nil, nil, classifier.WithUnversionedTypes(cfg.UnversionedTypes...))
	if err != nil {
		return nil, fmt.Errorf("initialize classifier: %w", err)
	}

	registry := assets.NewFileRepository(fs, manifestPath)

	list, err := registry.ListPrimaryAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list primary assets: %w", err)
	}

	host := NewHost()
	New(gate).Register(host)

	var (
		summary = new(Summary)
		errs    error
	)

	for _, a := range list {
		if !c.RequiresVersionRange(a.ID.Type) {
			continue
		}

		value, ok := a.Tag(release.TagName)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s (%s)", classifier.ErrMissingVersionRange, a.ID, a.Path))

			continue
		}

		r, err := release.DecodeTag(value)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: %w", classifier.ErrInvalidVersionRange, a.ID, err))

			continue
		}

		obj := NewAssetObject(a, r)
		filename := cookedFilename(a)

		if _, isForced := forced[a.ID]; isForced {
			// Forced cooks bypass the load hook.
			summary.Saved = append(summary.Saved, a.ID)
			errs = multierr.Append(errs, host.PreSave(ctx, obj, SaveContext{Cooking: true, TargetFilename: filename}))

			continue
		}

		if table.PrimaryAssetRule(a.ID) == asset.CookRuleNeverCook {
			continue
		}

		saved, err := host.Cook(ctx, obj, filename)
		if saved {
			summary.Saved = append(summary.Saved, a.ID)
		} else {
			summary.Transient = append(summary.Transient, a.ID)
		}

		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return summary, errs
	}

	logger.InfoKV(ctx, "Cook verification passed", "saved", len(summary.Saved), "transient", len(summary.Transient))

	return summary, nil
}

// cookedFilename derives the cooked package file of an asset from its object path.
func cookedFilename(a *asset.Asset) string {
	pkg, _, _ := strings.Cut(a.Path, ".")

	return strings.TrimPrefix(pkg, "/") + ".uasset"
}
