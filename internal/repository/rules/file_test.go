package rules

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/build-time-include/internal/domain/asset"
	"github.com/oshokin/build-time-include/internal/domain/release"
)

// TestTable verifies rule overrides and the unknown default.
func TestTable(t *testing.T) {
	t.Parallel()

	table := NewTable()
	hat := asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}
	spring := asset.PrimaryAssetID{Type: "ExampleDataAsset", Name: "DA_Spring"}

	require.Equal(t, asset.CookRuleUnknown, table.PrimaryAssetRule(hat))

	table.SetPrimaryAssetRule(spring, asset.CookRuleNeverCook)
	table.SetPrimaryAssetRule(hat, asset.CookRuleAlwaysCook)

	require.Equal(t, asset.CookRuleAlwaysCook, table.PrimaryAssetRule(hat))
	require.Equal(t, 2, table.Len())
	require.Equal(t, []asset.PrimaryAssetID{hat, spring}, table.IDs())
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	_, table, err := NewFileRepository(afero.NewMemMapFs(), "cook-rules.yaml").Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, table)
}

// TestFileRepository_SaveLoad_Roundtrip ensures Save followed by Load returns the same rules.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	repo := NewFileRepository(fs, "out/cook-rules.yaml")

	table := NewTable()
	hat := asset.PrimaryAssetID{Type: "ExampleActor", Name: "BP_Hat_C"}
	table.SetPrimaryAssetRule(hat, asset.CookRuleNeverCook)

	require.NoError(t, repo.Save(context.Background(), release.Version{Major: 2, Minor: 1}, table))

	version, loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, release.Version{Major: 2, Minor: 1}, version)
	require.Equal(t, asset.CookRuleNeverCook, loaded.PrimaryAssetRule(hat))
	require.Equal(t, 1, loaded.Len())
}

// TestFileRepository_LoadRejectsBadDocuments covers malformed versions and ids.
func TestFileRepository_LoadRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fs, "a.yaml", []byte("release_version: two\nrules: {}\n"), 0o600))
	_, _, err := NewFileRepository(fs, "a.yaml").Load(context.Background())
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "b.yaml", []byte("release_version: \"2.0\"\nrules: {NoColon: NeverCook}\n"), 0o600))
	_, _, err = NewFileRepository(fs, "b.yaml").Load(context.Background())
	require.Error(t, err)
}
