package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/domain/asset"
)

// Registry lists the primary assets known to the host.
type Registry interface {
	ListPrimaryAssets(ctx context.Context) ([]*asset.Asset, error)
}

// TagStore reads and writes per-object metadata tags.
type TagStore interface {
	Tag(ctx context.Context, id asset.PrimaryAssetID, key string) (string, bool, error)
	SetTag(ctx context.Context, id asset.PrimaryAssetID, key, value string) error
}

// Manifest is the on-disk registry export.
type Manifest struct {
	// Assets lists every primary asset with its tags.
	Assets []*asset.Asset `yaml:"assets"`
}

var (
	// ErrNotFound is returned when the manifest file does not exist.
	ErrNotFound = errors.New("asset manifest not found")
	// ErrUnknownAsset is returned when a tag is written for an asset missing from the manifest.
	ErrUnknownAsset = errors.New("unknown primary asset")
)

// FileRepository serves a YAML manifest as Registry and TagStore.
// The manifest is read on first use and kept in memory; SetTag writes it back.
type FileRepository struct {
	// fs is the filesystem holding the manifest.
	fs afero.Fs
	// path is the manifest location.
	path string
	// manifest is the loaded manifest, nil until first use.
	manifest *Manifest
	// mu protects manifest and the file.
	mu sync.Mutex
}

// NewFileRepository creates a repository over the manifest at path.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	return &FileRepository{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// ListPrimaryAssets returns copies of all assets in manifest order.
func (r *FileRepository) ListPrimaryAssets(_ context.Context) ([]*asset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	manifest, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]*asset.Asset, 0, len(manifest.Assets))
	for _, a := range manifest.Assets {
		result = append(result, a.Clone())
	}

	return result, nil
}

// Tag returns the tag stored under key for the asset id.
func (r *FileRepository) Tag(_ context.Context, id asset.PrimaryAssetID, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	manifest, err := r.load()
	if err != nil {
		return "", false, err
	}

	a := find(manifest, id)
	if a == nil {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}

	value, ok := a.Tag(key)

	return value, ok, nil
}

// SetTag stores the tag for the asset id and persists the manifest.
func (r *FileRepository) SetTag(_ context.Context, id asset.PrimaryAssetID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	manifest, err := r.load()
	if err != nil {
		return err
	}

	a := find(manifest, id)
	if a == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}

	if a.Tags == nil {
		a.Tags = make(map[string]string, 1)
	}

	a.Tags[key] = value

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	if err = afero.WriteFile(r.fs, r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

// load reads the manifest once. Callers must hold mu.
func (r *FileRepository) load() (*Manifest, error) {
	if r.manifest != nil {
		return r.manifest, nil
	}

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err = yaml.Unmarshal(contents, &manifest); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	for i, a := range manifest.Assets {
		if a == nil || a.ID.Type == "" || a.ID.Name == "" {
			return nil, fmt.Errorf("decode manifest: asset #%d has no primary asset id", i)
		}
	}

	r.manifest = &manifest

	return r.manifest, nil
}

func find(manifest *Manifest, id asset.PrimaryAssetID) *asset.Asset {
	for _, a := range manifest.Assets {
		if a.ID == id {
			return a
		}
	}

	return nil
}
