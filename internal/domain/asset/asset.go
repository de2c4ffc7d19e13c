package asset

import (
	"fmt"
	"maps"
	"strings"
)

// PrimaryAssetID identifies a primary asset by type and name.
type PrimaryAssetID struct {
	// Type is the primary asset type, e.g. ExampleActor or Map.
	Type string `yaml:"type"`
	// Name is the asset name unique within its type.
	Name string `yaml:"name"`
}

// String renders the id as "Type:Name".
func (id PrimaryAssetID) String() string {
	return id.Type + ":" + id.Name
}

// ParsePrimaryAssetID parses the "Type:Name" form.
func ParsePrimaryAssetID(text string) (PrimaryAssetID, error) {
	assetType, name, ok := strings.Cut(text, ":")
	if !ok || assetType == "" || name == "" {
		return PrimaryAssetID{}, fmt.Errorf("invalid primary asset id %q: expected Type:Name", text)
	}

	return PrimaryAssetID{Type: assetType, Name: name}, nil
}

// Asset is one registry entry.
type Asset struct {
	// ID is the primary asset id.
	ID PrimaryAssetID `yaml:"id"`
	// Path is the object path of the asset.
	Path string `yaml:"path"`
	// Tags holds the searchable key-value metadata of the asset.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// Clone returns a copy of the asset that does not share its tag map.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}

	cloned := *a
	cloned.Tags = maps.Clone(a.Tags)

	return &cloned
}

// Tag returns the value stored under key.
func (a *Asset) Tag(key string) (string, bool) {
	value, ok := a.Tags[key]

	return value, ok
}

// CookRule tells the cook whether to package an asset.
type CookRule string

const (
	// CookRuleUnknown leaves the decision to the host.
	CookRuleUnknown CookRule = "Unknown"
	// CookRuleAlwaysCook forces the asset into the build.
	CookRuleAlwaysCook CookRule = "AlwaysCook"
	// CookRuleNeverCook keeps the asset out of the build.
	CookRuleNeverCook CookRule = "NeverCook"
)

// RuleFor maps an inclusion decision to a cook rule.
func RuleFor(include bool) CookRule {
	if include {
		return CookRuleAlwaysCook
	}

	return CookRuleNeverCook
}
