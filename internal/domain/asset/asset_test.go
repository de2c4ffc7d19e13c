package asset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPrimaryAssetID verifies the Type:Name form in both directions.
func TestPrimaryAssetID(t *testing.T) {
	t.Parallel()

	id := PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}
	require.Equal(t, "ExampleActor:BP_Hat_C", id.String())

	parsed, err := ParsePrimaryAssetID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	for _, text := range []string{"", "ExampleActor", ":name", "type:"} {
		_, err = ParsePrimaryAssetID(text)
		require.Error(t, err, "input %q", text)
	}
}

// TestAssetClone verifies that Clone does not share tags and handles nil safely.
func TestAssetClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Asset)(nil).Clone())

	a := &Asset{
		ID:   PrimaryAssetID{Type: "ExampleDataAsset", Name: "DA_Spring"},
		Path: "/Game/Data/DA_Spring.DA_Spring",
		Tags: map[string]string{"VersionRange": "()"},
	}

	b := a.Clone()
	require.Equal(t, a, b)
	require.NotSame(t, a, b)

	b.Tags["VersionRange"] = "changed"

	value, ok := a.Tag("VersionRange")
	require.True(t, ok)
	require.Equal(t, "()", value)
}

// TestRuleFor maps decisions to cook rules.
func TestRuleFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, CookRuleAlwaysCook, RuleFor(true))
	require.Equal(t, CookRuleNeverCook, RuleFor(false))
}
