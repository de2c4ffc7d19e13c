package plugins

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
)

// DescriptorExtension is the file extension of plugin descriptors.
const DescriptorExtension = ".uplugin"

// Descriptor fields consulted for version gating.
const (
	fieldEnabledByDefault = "EnabledByDefault"
	fieldIntroVersion     = "IntroVersion"
	fieldHasSunset        = "HasSunsetVersion"
	fieldSunset           = "SunsetVersion"
)

var (
	// ErrInvalidDescriptor is the reason of plugins whose descriptor breaks the gating rules.
	ErrInvalidDescriptor = errors.New("invalid GameFeature plugin descriptor")
	// ErrEnabledByDefault is the reason of plugins that do not opt out of default enabling.
	ErrEnabledByDefault = errors.New("GameFeature plugin must set EnabledByDefault to false")
)

// Decision is the outcome for one plugin.
type Decision struct {
	// Name is the plugin name, the descriptor file name without extension.
	Name string
	// Path is the descriptor location.
	Path string
	// Range is the declared version range; zero when the descriptor is invalid.
	Range release.VersionRange
	// Enabled reports whether the plugin ships in the target release.
	Enabled bool
	// Err explains why a plugin was disabled because of its descriptor.
	Err error
}

// Result holds the decisions of one evaluation, sorted by plugin name.
type Result struct {
	// ReleaseVersion is the target version the plugins were evaluated for.
	ReleaseVersion release.Version
	// Plugins lists one decision per descriptor.
	Plugins []Decision
}

// Enabled returns the names of enabled plugins.
func (r *Result) Enabled() []string {
	return r.names(true)
}

// Disabled returns the names of disabled plugins.
func (r *Result) Disabled() []string {
	return r.names(false)
}

func (r *Result) names(enabled bool) []string {
	var names []string

	for _, d := range r.Plugins {
		if d.Enabled == enabled {
			names = append(names, d.Name)
		}
	}

	return names
}

// Evaluate decides every GameFeature plugin found under dir for the target release.
// A missing dir yields an empty result.
func Evaluate(ctx context.Context, fsys afero.Fs, dir string, target release.Version) (*Result, error) {
	ctx = logger.WithFields(ctx, zap.Stringer("release_version", target))
	logger.InfoKV(ctx, "Evaluating GameFeature plugins", "dir", dir)

	paths, err := findDescriptors(fsys, dir)
	if err != nil {
		return nil, err
	}

	result := &Result{ReleaseVersion: target}

	for _, path := range paths {
		decision := decide(ctx, fsys, path, target)
		result.Plugins = append(result.Plugins, decision)

		logger.InfoKV(ctx, "GameFeature plugin evaluated", "plugin", decision.Name, "enabled", decision.Enabled)
	}

	sort.SliceStable(result.Plugins, func(i, j int) bool {
		return result.Plugins[i].Name < result.Plugins[j].Name
	})

	for _, name := range result.Enabled() {
		logger.InfoKV(ctx, "Enabled plugin", "plugin", name)
	}

	return result, nil
}

// findDescriptors returns every descriptor under dir.
func findDescriptors(fsys afero.Fs, dir string) ([]string, error) {
	exists, err := afero.DirExists(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	if !exists {
		return nil, nil
	}

	var paths []string

	err = afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), DescriptorExtension) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	return paths, nil
}

// decide evaluates one descriptor. Descriptor problems disable the plugin instead of failing the evaluation.
func decide(ctx context.Context, fsys afero.Fs, path string, target release.Version) Decision {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	decision := Decision{Name: name, Path: path}

	r, err := readRange(fsys, path)
	if err != nil {
		logger.WarnKV(ctx, "Failed to parse GameFeature plugin, disabling", "plugin", name, "error", err)

		decision.Err = err

		return decision
	}

	decision.Range = r
	decision.Enabled = r.Includes(target)

	if !decision.Enabled {
		logger.WarnKV(ctx, "GameFeature plugin did not pass release version checks", "plugin", name, "range", r.String())
	}

	return decision
}

// readRange reads and validates the versioning fields of a descriptor.
func readRange(fsys afero.Fs, path string) (release.VersionRange, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return release.VersionRange{}, fmt.Errorf("%w: %s vanished", ErrInvalidDescriptor, path)
		}

		return release.VersionRange{}, fmt.Errorf("read %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return release.VersionRange{}, fmt.Errorf("%w: not valid JSON", ErrInvalidDescriptor)
	}

	if enabled := gjson.GetBytes(data, fieldEnabledByDefault); enabled.Type != gjson.False {
		return release.VersionRange{}, ErrEnabledByDefault
	}

	intro, err := versionField(data, fieldIntroVersion)
	if err != nil {
		return release.VersionRange{}, err
	}

	hasSunset := gjson.GetBytes(data, fieldHasSunset)
	if hasSunset.Type != gjson.True && hasSunset.Type != gjson.False {
		return release.VersionRange{}, fmt.Errorf("%w: %s must be a boolean", ErrInvalidDescriptor, fieldHasSunset)
	}

	r := release.NewVersionRange(intro)
	if !hasSunset.Bool() {
		return r, nil
	}

	sunset, err := versionField(data, fieldSunset)
	if err != nil {
		return release.VersionRange{}, err
	}

	return r.WithSunset(sunset), nil
}

// versionField reads a MAJOR.MINOR string field.
func versionField(data []byte, field string) (release.Version, error) {
	value := gjson.GetBytes(data, field)
	if value.Type != gjson.String {
		return release.Version{}, fmt.Errorf("%w: %s must be a MAJOR.MINOR string", ErrInvalidDescriptor, field)
	}

	version, ok := release.ParseVersion(value.Str)
	if !ok {
		return release.Version{}, fmt.Errorf("%w: cannot parse %s %q", ErrInvalidDescriptor, field, value.Str)
	}

	return version, nil
}
