package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/gobwas/glob"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/repository/assets"
)

// RuleSetter reads and overrides cook rules of primary assets.
type RuleSetter interface {
	PrimaryAssetRule(id asset.PrimaryAssetID) asset.CookRule
	SetPrimaryAssetRule(id asset.PrimaryAssetID, rule asset.CookRule)
}

var (
	// ErrMissingVersionRange is returned when a versioned asset has no version range tag.
	ErrMissingVersionRange = errors.New("asset has no release version range tag")
	// ErrInvalidVersionRange is returned when a version range tag cannot be decoded.
	ErrInvalidVersionRange = errors.New("asset has an invalid release version range tag")
)

// Report summarizes one labeling pass.
type Report struct {
	// ReleaseVersion is the target version the pass decided for.
	ReleaseVersion release.Version
	// Included lists assets set to AlwaysCook.
	Included []asset.PrimaryAssetID
	// Excluded lists assets set to NeverCook.
	Excluded []asset.PrimaryAssetID
	// Skipped lists assets of unversioned types.
	Skipped []asset.PrimaryAssetID
	// Failed lists versioned assets without a usable version range.
	Failed []asset.PrimaryAssetID
}

// Classifier applies version-based cook rules to primary assets.
type Classifier struct {
	*Gate

	// registry lists the primary assets.
	registry assets.Registry
	// tags provides the version range tags.
	tags assets.TagStore
	// rules receives the cook rule decisions.
	rules RuleSetter
	// unversioned matches primary asset types that need no version range.
	unversioned []glob.Glob
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithUnversionedTypes replaces the default unversioned primary asset type patterns.
func WithUnversionedTypes(patterns ...string) Option {
	return func(c *Classifier) error {
		matchers := make([]glob.Glob, 0, len(patterns))

		for _, pattern := range patterns {
			matcher, err := glob.Compile(pattern)
			if err != nil {
				return fmt.Errorf("compile unversioned type pattern %q: %w", pattern, err)
			}

			matchers = append(matchers, matcher)
		}

		c.unversioned = matchers

		return nil
	}
}

// New creates a classifier. Map, PrimaryAssetLabel and GameFeatureData are unversioned by default.
func New(
	versions VersionProvider,
	registry assets.Registry,
	tags assets.TagStore,
	rules RuleSetter,
	opts ...Option,
) (*Classifier, error) {
	c := &Classifier{
		Gate:     NewGate(versions),
		registry: registry,
		tags:     tags,
		rules:    rules,
	}

	opts = append([]Option{WithUnversionedTypes(config.DefaultUnversionedTypes()...)}, opts...)

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RequiresVersionRange reports whether assets of the primary asset type must declare a version range.
func (c *Classifier) RequiresVersionRange(assetType string) bool {
	for _, matcher := range c.unversioned {
		if matcher.Match(assetType) {
			return false
		}
	}

	return true
}

// ApplyPrimaryAssetLabels sets AlwaysCook or NeverCook on every versioned primary asset.
// Assets without a usable version range do not stop the pass; they are reported together at the end.
//
//nolint:funlen // The pass mirrors the log narrative of the cook and reads best in one piece.
func (c *Classifier) ApplyPrimaryAssetLabels(ctx context.Context) (*Report, error) {
	version, err := c.versions.ReleaseVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve release version: %w", err)
	}

	ctx = logger.WithFields(ctx, zap.Stringer("release_version", version))
	logger.Info(ctx, "Applying primary asset labels")

	list, err := c.registry.ListPrimaryAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list primary assets: %w", err)
	}

	report := &Report{ReleaseVersion: version}

	var errs []error

	for _, group := range groupByType(list) {
		logger.InfoKV(ctx, "Found assets of primary asset type", "type", group.assetType, "count", len(group.assets))

		if !c.RequiresVersionRange(group.assetType) {
			for _, a := range group.assets {
				report.Skipped = append(report.Skipped, a.ID)
			}

			continue
		}

		for _, a := range group.assets {
			r, err := c.versionRange(ctx, a)
			if err != nil {
				logger.ErrorKV(ctx, "Asset cannot be classified", "asset", a.Path, "error", err)

				report.Failed = append(report.Failed, a.ID)
				errs = append(errs, err)

				continue
			}

			if !r.Satisfiable() {
				logger.WarnKV(ctx, "Asset version range includes no release", "asset", a.Path, "range", r.String())
			}

			include := r.Includes(version)
			rule := asset.RuleFor(include)

			logger.InfoKV(ctx, "Asset has release versioning info",
				"asset", a.Path,
				"range", r.String(),
				"rule", string(rule),
			)

			c.rules.SetPrimaryAssetRule(a.ID, rule)

			if include {
				report.Included = append(report.Included, a.ID)
			} else {
				report.Excluded = append(report.Excluded, a.ID)
			}
		}
	}

	logger.InfoKV(ctx, "Applied primary asset labels",
		"included", len(report.Included),
		"excluded", len(report.Excluded),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
	)

	return report, multierr.Combine(errs...)
}

// versionRange reads and decodes the version range tag of a.
func (c *Classifier) versionRange(ctx context.Context, a *asset.Asset) (release.VersionRange, error) {
	value, ok, err := c.tags.Tag(ctx, a.ID, release.TagName)
	if err != nil {
		return release.VersionRange{}, fmt.Errorf("read tag of %s: %w", a.ID, err)
	}

	if !ok {
		return release.VersionRange{}, fmt.Errorf("%w: %s (%s)", ErrMissingVersionRange, a.ID, a.Path)
	}

	r, err := release.DecodeTag(value)
	if err != nil {
		return release.VersionRange{}, fmt.Errorf("%w: %s (%s): %w", ErrInvalidVersionRange, a.ID, a.Path, err)
	}

	return r, nil
}

// typeGroup is the assets of one primary asset type.
type typeGroup struct {
	assetType string
	assets    []*asset.Asset
}

// groupByType groups assets by primary asset type, keeping first-seen order.
func groupByType(list []*asset.Asset) []*typeGroup {
	var (
		groups []*typeGroup
		index  = make(map[string]*typeGroup)
	)

	for _, a := range list {
		group, ok := index[a.ID.Type]
		if !ok {
			group = &typeGroup{assetType: a.ID.Type}
			index[a.ID.Type] = group
			groups = append(groups, group)
		}

		group.assets = append(group.assets, a)
	}

	return groups
}
