package classifier

import (
	"context"

	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/resolver"
)

// VersionProvider yields the target release version.
type VersionProvider interface {
	ReleaseVersion(ctx context.Context) (release.Version, error)
}

// Gate decides inclusion of version ranges against the target release.
type Gate struct {
	// versions provides the target release version.
	versions VersionProvider
}

// NewGate creates a gate backed by the provided version provider.
func NewGate(versions VersionProvider) *Gate {
	return &Gate{
		versions: versions,
	}
}

// ShouldInclude reports whether content declaring r ships in the target release.
func (g *Gate) ShouldInclude(ctx context.Context, r release.VersionRange) (bool, error) {
	version, err := g.versions.ReleaseVersion(ctx)
	if err != nil {
		return false, err
	}

	return r.Includes(version), nil
}

// ShouldInclude reports whether content declaring r ships in the release resolved for this process.
func ShouldInclude(ctx context.Context, r release.VersionRange) (bool, error) {
	return NewGate(resolver.Process{}).ShouldInclude(ctx, r)
}
