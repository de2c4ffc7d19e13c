package assets

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/build-time-include/internal/domain/asset"
)

const testManifest = `assets:
  - id: {type: ExampleActor, name: BP_Hat_C}
    path: /Game/Actors/BP_Hat.BP_Hat_C
    tags:
      VersionRange: (IntroVersion=(MajorVersion=2,MinorVersion=0),bHasSunsetVersion=False,SunsetVersion=(MajorVersion=99999,MinorVersion=0))
  - id: {type: ExampleDataAsset, name: DA_Spring}
    path: /Game/Data/DA_Spring.DA_Spring
`

// TestFileRepository_NotFound verifies missing manifests report ErrNotFound.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(afero.NewMemMapFs(), "missing.yaml")

	assets, err := repo.ListPrimaryAssets(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, assets)
}

// TestFileRepository_ListAndTag reads assets and their tags.
func TestFileRepository_ListAndTag(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "assets.yaml", []byte(testManifest), 0o600))

	repo := NewFileRepository(fs, "assets.yaml")

	assets, err := repo.ListPrimaryAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)
	require.Equal(t, "ExampleActor:BP_Hat_C", assets[0].ID.String())

	hat := assets[0].ID
	value, ok, err := repo.Tag(context.Background(), hat, "VersionRange")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, value, "MajorVersion=2")

	_, ok, err = repo.Tag(context.Background(), assets[1].ID, "VersionRange")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = repo.Tag(context.Background(), asset.PrimaryAssetID{Type: "Map", Name: "L_Main"}, "VersionRange")
	require.ErrorIs(t, err, ErrUnknownAsset)

	// Listed assets are copies.
	assets[0].Tags["VersionRange"] = "changed"

	value, _, err = repo.Tag(context.Background(), hat, "VersionRange")
	require.NoError(t, err)
	require.NotEqual(t, "changed", value)
}

// TestFileRepository_SetTag persists tags so that a fresh repository sees them.
func TestFileRepository_SetTag(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "assets.yaml", []byte(testManifest), 0o600))

	id := asset.PrimaryAssetID{Type: "ExampleDataAsset", Name: "DA_Spring"}

	require.NoError(t, NewFileRepository(fs, "assets.yaml").SetTag(context.Background(), id, "VersionRange", "()"))

	value, ok, err := NewFileRepository(fs, "assets.yaml").Tag(context.Background(), id, "VersionRange")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "()", value)

	err = NewFileRepository(fs, "assets.yaml").
		SetTag(context.Background(), asset.PrimaryAssetID{Type: "X", Name: "Y"}, "VersionRange", "()")
	require.ErrorIs(t, err, ErrUnknownAsset)
}

// TestFileRepository_RejectsAnonymousAssets refuses entries without an id.
func TestFileRepository_RejectsAnonymousAssets(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "assets.yaml", []byte("assets:\n  - path: /Game/X\n"), 0o600))

	_, err := NewFileRepository(fs, "assets.yaml").ListPrimaryAssets(context.Background())
	require.Error(t, err)
}
