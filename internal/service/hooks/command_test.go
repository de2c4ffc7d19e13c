package hooks

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/repository/rules"
	"github.com/oshokin/build-time-include/internal/service/classifier"
)

func writeVerifyFixture(t *testing.T, fs afero.Fs, rulesFor release.Version, table *rules.Table) string {
	t.Helper()

	manifest := "assets:\n" +
		"  - id: {type: ExampleActor, name: BP_Hat_C}\n" +
		"    path: /Game/BP_Hat.BP_Hat_C\n" +
		"    tags: {VersionRange: \"" + release.EncodeTag(release.NewVersionRange(release.Version{Major: 1})) + "\"}\n" +
		"  - id: {type: ExampleActor, name: BP_Scarf_C}\n" +
		"    path: /Game/BP_Scarf.BP_Scarf_C\n" +
		"    tags: {VersionRange: \"" + release.EncodeTag(release.NewVersionRange(release.Version{Major: 3})) + "\"}\n" +
		"  - id: {type: Map, name: L_Main}\n" +
		"    path: /Game/L_Main.L_Main\n"
	require.NoError(t, afero.WriteFile(fs, "assets.yaml", []byte(manifest), 0o600))
	require.NoError(t, rules.NewFileRepository(fs, "cook-rules.yaml").Save(context.Background(), rulesFor, table))

	settingsPath := "release-gate.yaml"
	require.NoError(t, config.Save(fs, settingsPath, &config.Config{
		AssetManifest: "assets.yaml",
		CookRulesFile: "cook-rules.yaml",
	}))

	return settingsPath
}

// TestVerify_Passes accepts rules decided for the target release.
func TestVerify_Passes(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	table := rules.NewTable()
	table.SetPrimaryAssetRule(asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}, asset.CookRuleAlwaysCook)
	table.SetPrimaryAssetRule(asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Scarf_C"}, asset.CookRuleNeverCook)

	settingsPath := writeVerifyFixture(t, fs, release.Version{Major: 2}, table)

	summary, err := Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Fs:         fs,
		Versions:   fixedVersion{version: release.Version{Major: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, []asset.PrimaryAssetID{{Type: "ExampleActor", Name: "BP_Hat_C"}}, summary.Saved)
	require.Empty(t, summary.Transient)
}

// TestVerify_ReportsForcedExcludedAssets catches an excluded asset pulled into the cook.
func TestVerify_ReportsForcedExcludedAssets(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	table := rules.NewTable()
	table.SetPrimaryAssetRule(asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Scarf_C"}, asset.CookRuleNeverCook)

	settingsPath := writeVerifyFixture(t, fs, release.Version{Major: 2}, table)

	_, err := Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Forced:     []string{"ExampleActor:BP_Scarf_C"},
		Fs:         fs,
		Versions:   fixedVersion{version: release.Version{Major: 2}},
	})
	require.ErrorIs(t, err, ErrExcludedObjectSaved)
	require.Contains(t, err.Error(), "Game/BP_Scarf.uasset")

	_, err = Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Forced:     []string{"NotAnId"},
		Fs:         fs,
		Versions:   fixedVersion{version: release.Version{Major: 2}},
	})
	require.Error(t, err)
}

// TestVerify_StaleRulesDropTransientObjects replays rules decided for an older release.
func TestVerify_StaleRulesDropTransientObjects(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	table := rules.NewTable()
	table.SetPrimaryAssetRule(asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}, asset.CookRuleAlwaysCook)
	table.SetPrimaryAssetRule(asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Scarf_C"}, asset.CookRuleAlwaysCook)

	settingsPath := writeVerifyFixture(t, fs, release.Version{Major: 3}, table)

	summary, err := Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Fs:         fs,
		Versions:   fixedVersion{version: release.Version{Major: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, []asset.PrimaryAssetID{{Type: "ExampleActor", Name: "BP_Scarf_C"}}, summary.Transient)
}

// TestVerify_MissingRules fails when the classify step never ran.
func TestVerify_MissingRules(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	settingsPath := "release-gate.yaml"
	require.NoError(t, config.Save(fs, settingsPath, new(config.Config)))

	_, err := Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Fs:         fs,
		Versions:   fixedVersion{version: release.Version{Major: 2}},
	})
	require.ErrorIs(t, err, rules.ErrNotFound)

	_, err = Verify(context.Background(), &Options{
		ConfigPath: settingsPath,
		Fs:         fs,
		Versions:   fixedVersion{err: errTestVersion},
	})
	require.ErrorIs(t, err, errTestVersion)
}

var _ classifier.VersionProvider = fixedVersion{}
