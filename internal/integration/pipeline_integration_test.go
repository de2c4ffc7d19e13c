package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/repository/assets"
	"github.com/oshokin/build-time-include/internal/resolver"
	"github.com/oshokin/build-time-include/internal/service/classifier"
	"github.com/oshokin/build-time-include/internal/service/hooks"
	"github.com/oshokin/build-time-include/internal/service/plugins"
)

var (
	hat    = asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}
	scarf  = asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Scarf_C"}
	coat   = asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Coat_C"}
	level  = asset.PrimaryAssetID{Type: "Map", Name: "L_Main"}
	ranges = map[asset.PrimaryAssetID]release.VersionRange{
		hat:   release.NewVersionRange(release.Version{Major: 1}),
		scarf: release.NewVersionRange(release.Version{Major: 1}).WithSunset(release.Version{Major: 2}),
		coat:  release.NewVersionRange(release.Version{Major: 3}),
	}
)

// TestPipeline_ClassifyVerifyPlugins runs every pass against a project on disk with the version taken from the game config.
//
//nolint:paralleltest // Changes the working directory and the process-wide resolver.
func TestPipeline_ClassifyVerifyPlugins(t *testing.T) {
	// Setup project directory and change working directory.
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(config.DefaultEnvironmentVariable, "")

	writeFile(t, config.DefaultGameConfigFile, "[MyGame]\nExampleReleaseVersion=2.0\n")
	writeFile(t, config.DefaultAssetManifest, "assets:\n"+
		"  - id: {type: ExampleActor, name: BP_Hat_C}\n    path: /Game/BP_Hat.BP_Hat_C\n"+
		"  - id: {type: ExampleActor, name: BP_Scarf_C}\n    path: /Game/BP_Scarf.BP_Scarf_C\n"+
		"  - id: {type: ExampleActor, name: BP_Coat_C}\n    path: /Game/BP_Coat.BP_Coat_C\n"+
		"  - id: {type: Map, name: L_Main}\n    path: /Game/L_Main.L_Main\n")
	writeFile(t, filepath.Join(config.DefaultPluginsDir, "Hats", "Hats.uplugin"),
		`{"EnabledByDefault": false, "IntroVersion": "2.0", "HasSunsetVersion": false}`)
	writeFile(t, filepath.Join(config.DefaultPluginsDir, "Winter", "Winter.uplugin"),
		`{"EnabledByDefault": false, "IntroVersion": "1.0", "HasSunsetVersion": true, "SunsetVersion": "2.0"}`)

	resolver.ResetDefault()
	t.Cleanup(resolver.ResetDefault)
	require.NoError(t, resolver.SetDefault(resolver.NewFromConfig(config.Default(), nil)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Tag assets the way an editor would.
	repository := assets.NewFileRepository(afero.NewOsFs(), config.DefaultAssetManifest)
	for id, r := range ranges {
		require.NoError(t, repository.SetTag(ctx, id, release.TagName, release.EncodeTag(r)))
	}

	report, err := classifier.Run(ctx, &classifier.Options{})
	require.NoError(t, err)
	require.Equal(t, release.Version{Major: 2}, report.ReleaseVersion)
	require.Equal(t, []asset.PrimaryAssetID{hat}, report.Included)
	require.ElementsMatch(t, []asset.PrimaryAssetID{scarf, coat}, report.Excluded)
	require.Equal(t, []asset.PrimaryAssetID{level}, report.Skipped)

	_, err = os.Stat(config.DefaultCookRulesFile)
	require.NoError(t, err)

	summary, err := hooks.Verify(ctx, &hooks.Options{})
	require.NoError(t, err)
	require.Equal(t, []asset.PrimaryAssetID{hat}, summary.Saved)

	_, err = hooks.Verify(ctx, &hooks.Options{Forced: []string{coat.String()}})
	require.ErrorIs(t, err, hooks.ErrExcludedObjectSaved)

	result, err := plugins.Run(ctx, &plugins.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"Hats"}, result.Enabled())
	require.Equal(t, []string{"Winter"}, result.Disabled())
}

// TestPipeline_VersionIsResolvedOnce keeps the first resolution for the whole run.
//
//nolint:paralleltest // Changes the working directory and the process-wide resolver.
func TestPipeline_VersionIsResolvedOnce(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(config.DefaultEnvironmentVariable, "")

	writeFile(t, config.DefaultGameConfigFile, "[MyGame]\nExampleReleaseVersion=2.0\n")

	resolver.ResetDefault()
	t.Cleanup(resolver.ResetDefault)
	require.NoError(t, resolver.SetDefault(resolver.NewFromConfig(config.Default(), nil)))

	include, err := classifier.ShouldInclude(context.Background(), release.NewVersionRange(release.Version{Major: 2}))
	require.NoError(t, err)
	require.True(t, include)

	// A later edit of the game config does not change the release being built.
	writeFile(t, config.DefaultGameConfigFile, "[MyGame]\nExampleReleaseVersion=1.0\n")

	include, err = classifier.ShouldInclude(context.Background(), release.NewVersionRange(release.Version{Major: 2}))
	require.NoError(t, err)
	require.True(t, include)
}

// TestPipeline_UnresolvedVersionFails stops every pass when no source yields a version.
//
//nolint:paralleltest // Changes the working directory and the process-wide resolver.
func TestPipeline_UnresolvedVersionFails(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(config.DefaultEnvironmentVariable, "two")

	writeFile(t, config.DefaultGameConfigFile, "[MyGame]\nExampleReleaseVersion=\n")

	resolver.ResetDefault()
	t.Cleanup(resolver.ResetDefault)
	require.NoError(t, resolver.SetDefault(resolver.NewFromConfig(config.Default(), []string{"-ExampleReleaseVersion=2"})))

	_, err := classifier.ShouldInclude(context.Background(), release.NewVersionRange(release.Version{Major: 1}))
	require.ErrorIs(t, err, resolver.ErrVersionUnresolved)

	_, err = plugins.Run(context.Background(), &plugins.Options{})
	require.ErrorIs(t, err, resolver.ErrVersionUnresolved)
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

// chdir changes the working directory to dir and restores it when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
