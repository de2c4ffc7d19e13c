package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/config"
	"github.com/oshokin/build-time-include/internal/logger"
	"github.com/oshokin/build-time-include/internal/resolver"
	"github.com/oshokin/build-time-include/internal/version"
)

var errUnknownLogLevel = errors.New("unknown log level")

var (
	// configPath stores the path to the settings YAML file.
	configPath string
	// logLevel overrides the log level from the settings.
	logLevel string
	// rawArgs keeps the arguments as given, release version token included, for the resolver.
	rawArgs []string

	// rootCmd represents the base command of the gate.
	rootCmd = &cobra.Command{
		Use:   "release-gate",
		Short: "Decide which content ships in a game release.",
		Long: `Version-gated build-time inclusion for game content.

Primary assets and GameFeature plugins declare the release they were introduced in
and, optionally, the release they sunset in. The gate resolves the release being built
and keeps only the content whose range includes it.

The release version is taken from the first source that yields one:
  1. the command line token ExampleReleaseVersion=MAJOR.MINOR, with or without leading dashes
  2. the EXAMPLE_RELEASE_VERSION environment variable
  3. ExampleReleaseVersion in the [MyGame] section of Config/DefaultGame.ini
Names of all three sources can be changed in the settings file.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(afero.NewOsFs(), configPath)
			if err != nil {
				return err
			}

			levelName := cfg.LogLevel
			if logLevel != "" {
				levelName = logLevel
			}

			level, ok := logger.ParseLogLevel(levelName)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, levelName)
			}

			logger.SetLevel(level)

			return resolver.SetDefault(resolver.NewFromConfig(cfg, rawArgs))
		},
	}
)

// Execute runs the release-gate CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)

	err := run(ctx, os.Args[1:])

	stop()

	if err != nil {
		logger.ErrorKV(ctx, "release-gate failed", "error", err)
		os.Exit(1)
	}
}

// run executes the command line args. The release version token is handed to the
// resolver and hidden from cobra, which would reject it as a flag or an argument.
func run(ctx context.Context, args []string) error {
	rawArgs = args

	rootCmd.SetArgs(withoutReleaseVersion(args, commandLineKey(args)))

	return rootCmd.ExecuteContext(ctx)
}

// commandLineKey returns the release version key from the settings named in args.
// Unreadable settings fall back to the default key; the pre-run reports them.
func commandLineKey(args []string) string {
	cfg, err := config.Load(afero.NewOsFs(), settingsPath(args))
	if err != nil {
		return config.DefaultCommandLineKey
	}

	return cfg.CommandLineKey
}

// settingsPath finds the --config value in args before cobra parses them.
func settingsPath(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return config.DefaultConfigFilename
		case arg == "-c" || arg == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			return strings.TrimPrefix(arg, "-c=")
		}
	}

	return config.DefaultConfigFilename
}

// withoutReleaseVersion drops KEY=VALUE tokens for key, spelled with any number of leading dashes,
// and single-dash engine switches like -NoShaderCompile=1 that flag parsing would split into shorthands.
func withoutReleaseVersion(args []string, key string) []string {
	filtered := make([]string, 0, len(args))

	for _, arg := range args {
		if isReleaseVersionToken(arg, key) || isEngineSwitch(arg) {
			continue
		}

		filtered = append(filtered, arg)
	}

	return filtered
}

func isReleaseVersionToken(arg, key string) bool {
	name, _, found := strings.Cut(strings.TrimLeft(arg, "-"), "=")

	return found && strings.EqualFold(name, key)
}

func isEngineSwitch(arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
		return false
	}

	name, _, found := strings.Cut(arg[1:], "=")

	return found && len(name) > 1
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to settings file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the settings file")
}
