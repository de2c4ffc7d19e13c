package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/oshokin/build-time-include/internal/config"
)

var errSettingsExist = errors.New("settings file already exists, use --force to overwrite")

var (
	// initForce overwrites an existing settings file.
	initForce bool

	// initCmd writes a settings file with defaults.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with default values.",
		Args:  cobra.NoArgs,
		// Skip the root pre-run: it loads the settings this command creates.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := afero.NewOsFs()

			exists, err := afero.Exists(fs, configPath)
			if err != nil {
				return err
			}

			if exists && !initForce {
				return fmt.Errorf("%s: %w", configPath, errSettingsExist)
			}

			if err = config.Save(fs, configPath, config.Default()); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "wrote", configPath)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing settings file")
}
