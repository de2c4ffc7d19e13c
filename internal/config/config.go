package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/build-time-include/internal/logger"
)

// Config holds the settings shared by the release-gate commands.
type Config struct {
	// CommandLineKey is the key of the KEY=MAJOR.MINOR command-line token.
	CommandLineKey string `yaml:"command_line_key"`
	// EnvironmentVariable holds the release version as MAJOR.MINOR.
	EnvironmentVariable string `yaml:"env_var"`
	// GameConfigFile is the INI file consulted when neither command line nor environment provide a version.
	GameConfigFile string `yaml:"game_config"`
	// GameConfigSection is the INI section holding the release version.
	GameConfigSection string `yaml:"game_config_section"`
	// GameConfigKey is the INI key holding the release version.
	GameConfigKey string `yaml:"game_config_key"`
	// AssetManifest is the YAML export of the asset registry to classify.
	AssetManifest string `yaml:"asset_manifest"`
	// CookRulesFile is where the classify command writes the cook rules.
	CookRulesFile string `yaml:"cook_rules_file"`
	// PluginsDir is the root scanned for GameFeature plugin descriptors.
	PluginsDir string `yaml:"plugins_dir"`
	// UnversionedTypes lists glob patterns of primary asset types that need no version range.
	UnversionedTypes []string `yaml:"unversioned_types"`
	// LogLevel is the minimum level of emitted log messages.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for gate settings.
	DefaultConfigFilename = "release-gate.yaml"

	// DefaultCommandLineKey is the default key of the command-line token.
	DefaultCommandLineKey = "ExampleReleaseVersion"

	// DefaultEnvironmentVariable is the default environment variable name.
	DefaultEnvironmentVariable = "EXAMPLE_RELEASE_VERSION"

	// DefaultGameConfigFile is the default game INI file.
	DefaultGameConfigFile = "Config/DefaultGame.ini"

	// DefaultGameConfigSection is the default INI section.
	DefaultGameConfigSection = "MyGame"

	// DefaultGameConfigKey is the default INI key.
	DefaultGameConfigKey = "ExampleReleaseVersion"

	// DefaultAssetManifest is the default asset registry export.
	DefaultAssetManifest = "assets.yaml"

	// DefaultCookRulesFile is the default cook rule output.
	DefaultCookRulesFile = "cook-rules.yaml"

	// DefaultPluginsDir is the default GameFeature plugins root.
	DefaultPluginsDir = "Plugins/GameFeatures"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

// DefaultUnversionedTypes returns the primary asset types that keep their cook rule untouched.
func DefaultUnversionedTypes() []string {
	return []string{"Map", "PrimaryAssetLabel", "GameFeatureData"}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errEmptyPattern is returned when an unversioned type pattern is blank.
	errEmptyPattern = errors.New("unversioned type pattern must not be empty")
	// errUnknownLogLevel is returned when the log level cannot be parsed.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every field set to its default.
func Default() *Config {
	cfg := new(Config)

	// Defaults only; cannot fail.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path on fs and validates it.
// A missing file at the default location yields the defaults, so the gate works without a settings file.
func Load(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := afero.ReadFile(fs, filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path on fs.
func Save(fs afero.Fs, path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := afero.WriteFile(fs, filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills blank fields with defaults and checks patterns and the log level.
//
//nolint:cyclop // A flat list of defaults reads better than a table.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.CommandLineKey == "" {
		settings.CommandLineKey = DefaultCommandLineKey
	}

	if settings.EnvironmentVariable == "" {
		settings.EnvironmentVariable = DefaultEnvironmentVariable
	}

	if settings.GameConfigFile == "" {
		settings.GameConfigFile = DefaultGameConfigFile
	}

	if settings.GameConfigSection == "" {
		settings.GameConfigSection = DefaultGameConfigSection
	}

	if settings.GameConfigKey == "" {
		settings.GameConfigKey = DefaultGameConfigKey
	}

	if settings.AssetManifest == "" {
		settings.AssetManifest = DefaultAssetManifest
	}

	if settings.CookRulesFile == "" {
		settings.CookRulesFile = DefaultCookRulesFile
	}

	if settings.PluginsDir == "" {
		settings.PluginsDir = DefaultPluginsDir
	}

	if settings.UnversionedTypes == nil {
		settings.UnversionedTypes = DefaultUnversionedTypes()
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, settings.LogLevel)
	}

	for _, pattern := range settings.UnversionedTypes {
		if pattern == "" {
			return errEmptyPattern
		}

		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid unversioned type pattern %q: %w", pattern, err)
		}
	}

	return nil
}
