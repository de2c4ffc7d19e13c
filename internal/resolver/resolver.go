package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
)

var (
	// ErrVersionUnresolved is returned when no source yields a valid release version.
	// Version-gated packaging cannot proceed without one.
	ErrVersionUnresolved = errors.New("release version could not be resolved from any source")
	// ErrNoResolver is returned when the process-wide resolver was never installed.
	ErrNoResolver = errors.New("release version resolver is not installed")
	// ErrResolverInstalled is returned when a process-wide resolver is installed twice.
	ErrResolverInstalled = errors.New("release version resolver is already installed")
)

// Resolver resolves the target release version once and caches the outcome.
type Resolver struct {
	// sources are consulted in order; the first valid value wins.
	sources []Source

	// once guards the single resolution.
	once sync.Once
	// version is the cached result.
	version release.Version
	// err is the cached failure.
	err error
}

// New creates a resolver consulting sources in the given order.
func New(sources ...Source) *Resolver {
	return &Resolver{
		sources: sources,
	}
}

// NewFromConfig creates a resolver with the command line, environment and INI sources named by cfg.
func NewFromConfig(cfg *config.Config, args []string) *Resolver {
	return New(
		&CommandLine{Args: args, Key: cfg.CommandLineKey},
		NewEnvironment(cfg.EnvironmentVariable),
		NewConfigFile(cfg.GameConfigFile, cfg.GameConfigSection, cfg.GameConfigKey),
	)
}

// ReleaseVersion returns the target release version. The first call consults the sources;
// every later call returns the same outcome without reading them again.
func (r *Resolver) ReleaseVersion(ctx context.Context) (release.Version, error) {
	r.once.Do(func() {
		r.version, r.err = r.resolve(ctx)
	})

	return r.version, r.err
}

// resolve walks the sources in priority order.
func (r *Resolver) resolve(ctx context.Context) (release.Version, error) {
	for _, source := range r.sources {
		ctx := logger.WithKV(ctx, "source", source.Name())

		value, ok, err := source.Lookup(ctx)
		if err != nil {
			logger.WarnKV(ctx, "Failed to read release version source", "error", err)

			continue
		}

		if !ok {
			logger.Debug(ctx, "Release version source is not set")

			continue
		}

		version, ok := release.ParseVersion(value)
		if !ok {
			logger.WarnKV(ctx, "Failed to parse release version", "value", value)

			continue
		}

		logger.InfoKV(ctx, "Parsed release version", "release_version", version.String())

		return version, nil
	}

	return release.Version{}, fmt.Errorf("%w: expected MAJOR.MINOR from %s", ErrVersionUnresolved, r.describeSources())
}

func (r *Resolver) describeSources() string {
	if len(r.sources) == 0 {
		return "no sources"
	}

	description := r.sources[0].Name()
	for _, source := range r.sources[1:] {
		description += ", " + source.Name()
	}

	return description
}

// defaultResolver is the process-wide resolver installed at start-up.
//
//nolint:gochecknoglobals // The target release version is process-wide by nature.
var defaultResolver atomic.Pointer[Resolver]

// SetDefault installs the process-wide resolver. Only the first install succeeds,
// so the release version of a process is resolved at most once.
func SetDefault(r *Resolver) error {
	if r == nil {
		return ErrNoResolver
	}

	if !defaultResolver.CompareAndSwap(nil, r) {
		return ErrResolverInstalled
	}

	return nil
}

// ResetDefault removes the process-wide resolver. Tests use it to start from a clean process.
func ResetDefault() {
	defaultResolver.Store(nil)
}

// Default returns the process-wide resolver or nil.
func Default() *Resolver {
	return defaultResolver.Load()
}

// ReleaseVersion queries the process-wide resolver.
// Systems should prefer asking the classifier about a version range instead.
func ReleaseVersion(ctx context.Context) (release.Version, error) {
	r := Default()
	if r == nil {
		return release.Version{}, ErrNoResolver
	}

	return r.ReleaseVersion(ctx)
}

// Process queries the process-wide resolver on every call.
type Process struct{}

// ReleaseVersion implements classifier.VersionProvider.
func (Process) ReleaseVersion(ctx context.Context) (release.Version, error) {
	return ReleaseVersion(ctx)
}
