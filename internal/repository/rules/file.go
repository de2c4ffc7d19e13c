package rules

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
	"github.com/oshokin/build-time-include/internal/domain/release"
)

// document is the YAML layout of the cook rule file.
type document struct {
	// ReleaseVersion is the target version the rules were decided for.
	ReleaseVersion string `yaml:"release_version"`
	// Rules maps "Type:Name" ids to cook rules.
	Rules map[string]asset.CookRule `yaml:"rules"`
}

// outputDirPermissions is used when the rule file directory does not exist yet.
const outputDirPermissions = 0o755

// ErrNotFound is returned when the rule file does not exist yet.
var ErrNotFound = errors.New("cook rules not found")

// FileRepository persists a Table together with the release version it was decided for.
type FileRepository struct {
	// fs is the filesystem holding the rule file.
	fs afero.Fs
	// path is the rule file location.
	path string
	// mu protects concurrent access to the rule file.
	mu sync.Mutex
}

// NewFileRepository creates a repository that reads/writes YAML at the provided path.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	return &FileRepository{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// Save writes the table for the release version.
func (r *FileRepository) Save(_ context.Context, version release.Version, table *Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := document{
		ReleaseVersion: fmt.Sprintf("%d.%d", version.Major, version.Minor),
		Rules:          make(map[string]asset.CookRule, table.Len()),
	}

	for _, id := range table.IDs() {
		doc.Rules[id.String()] = table.PrimaryAssetRule(id)
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode cook rules: %w", err)
	}

	if err = r.fs.MkdirAll(filepath.Dir(r.path), outputDirPermissions); err != nil {
		return fmt.Errorf("create cook rules directory: %w", err)
	}

	if err = afero.WriteFile(r.fs, r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write cook rules: %w", err)
	}

	return nil
}

// Load reads the table and the release version it was decided for.
func (r *FileRepository) Load(_ context.Context) (release.Version, *Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return release.Version{}, nil, ErrNotFound
		}

		return release.Version{}, nil, fmt.Errorf("read cook rules: %w", err)
	}

	var doc document
	if err = yaml.Unmarshal(contents, &doc); err != nil {
		return release.Version{}, nil, fmt.Errorf("decode cook rules: %w", err)
	}

	version, ok := release.ParseVersion(doc.ReleaseVersion)
	if !ok {
		return release.Version{}, nil, fmt.Errorf("decode cook rules: invalid release version %q", doc.ReleaseVersion)
	}

	table := NewTable()

	for key, rule := range doc.Rules {
		id, err := asset.ParsePrimaryAssetID(key)
		if err != nil {
			return release.Version{}, nil, fmt.Errorf("decode cook rules: %w", err)
		}

		table.SetPrimaryAssetRule(id, rule)
	}

	return version, table, nil
}
