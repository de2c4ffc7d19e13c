package plugins

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/resolver"
)

// VersionProvider yields the target release version.
type VersionProvider interface {
	ReleaseVersion(ctx context.Context) (release.Version, error)
}

// Options contains inputs for the plugins entry point.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// PluginsDir overrides the GameFeature plugins root from the settings.
	PluginsDir string
	// Fs is the filesystem holding settings and plugins; the OS filesystem when nil.
	Fs afero.Fs
	// Versions provides the target release version; the process-wide resolver when nil.
	Versions VersionProvider
}

// Run evaluates the GameFeature plugins for the resolved release version.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "plugins")

	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	cfg, err := config.Load(fsys, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	dir := cfg.PluginsDir
	if opts.PluginsDir != "" {
		dir = opts.PluginsDir
	}

	var versions VersionProvider = resolver.Process{}
	if opts.Versions != nil {
		versions = opts.Versions
	}

	target, err := versions.ReleaseVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve release version: %w", err)
	}

	return Evaluate(ctx, fsys, dir, target)
}
