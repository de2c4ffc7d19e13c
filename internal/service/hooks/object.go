package hooks

import (
	"sync/atomic"

	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
)

// AssetObject adapts a registry asset with a decoded version range to Object.
type AssetObject struct {
	// asset is the registry entry.
	asset *asset.Asset
	// versionRange is the decoded range of the asset.
	versionRange release.VersionRange
	// transient is set by MarkTransient.
	transient atomic.Bool
}

// NewAssetObject creates an object for a.
func NewAssetObject(a *asset.Asset, r release.VersionRange) *AssetObject {
	return &AssetObject{
		asset:        a,
		versionRange: r,
	}
}

// ID returns the primary asset id.
func (o *AssetObject) ID() asset.PrimaryAssetID {
	return o.asset.ID
}

// Path implements Object.
func (o *AssetObject) Path() string {
	return o.asset.Path
}

// VersionRange implements Object.
func (o *AssetObject) VersionRange() release.VersionRange {
	return o.versionRange
}

// MarkTransient implements Object.
func (o *AssetObject) MarkTransient() {
	o.transient.Store(true)
}

// IsTransient implements Object.
func (o *AssetObject) IsTransient() bool {
	return o.transient.Load()
}
