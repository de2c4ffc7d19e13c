package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Source yields the raw release version text of one configuration source.
type Source interface {
	// Name identifies the source in logs.
	Name() string
	// Lookup returns the raw value and whether the source provides one.
	Lookup(ctx context.Context) (string, bool, error)
}

// CommandLine finds a KEY=MAJOR.MINOR token among process arguments.
// Leading dashes and the key's case are ignored, so -ExampleReleaseVersion=2.3 matches too.
type CommandLine struct {
	// Args are the raw process arguments.
	Args []string
	// Key is the token key, e.g. ExampleReleaseVersion.
	Key string
}

// NewCommandLine creates a source over os.Args.
func NewCommandLine(key string) *CommandLine {
	return &CommandLine{
		Args: os.Args[1:],
		Key:  key,
	}
}

// Name implements Source.
func (c *CommandLine) Name() string {
	return "command line"
}

// Lookup implements Source. The first matching token wins.
func (c *CommandLine) Lookup(context.Context) (string, bool, error) {
	prefix := c.Key + "="

	for _, arg := range c.Args {
		token := strings.TrimLeft(arg, "-")
		if len(token) < len(prefix) || !strings.EqualFold(token[:len(prefix)], prefix) {
			continue
		}

		return token[len(prefix):], true, nil
	}

	return "", false, nil
}

// Environment reads a process environment variable.
type Environment struct {
	// Variable is the environment variable name.
	Variable string
	// LookupEnv reads the variable; os.LookupEnv when nil.
	LookupEnv func(string) (string, bool)
}

// NewEnvironment creates a source over the process environment.
func NewEnvironment(variable string) *Environment {
	return &Environment{
		Variable:  variable,
		LookupEnv: os.LookupEnv,
	}
}

// Name implements Source.
func (e *Environment) Name() string {
	return "environment variable " + e.Variable
}

// Lookup implements Source. An empty variable counts as absent.
func (e *Environment) Lookup(context.Context) (string, bool, error) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(e.Variable)
	if !ok || value == "" {
		return "", false, nil
	}

	return value, true, nil
}

// ConfigFile reads a key from a section of the game INI file.
type ConfigFile struct {
	// Path is the INI file location.
	Path string
	// Section is the INI section name.
	Section string
	// Key is the INI key name.
	Key string
}

// NewConfigFile creates a source over the game INI file.
func NewConfigFile(path, section, key string) *ConfigFile {
	return &ConfigFile{
		Path:    filepath.Clean(path),
		Section: section,
		Key:     key,
	}
}

// Name implements Source.
func (c *ConfigFile) Name() string {
	return fmt.Sprintf("config %s [%s] %s", c.Path, c.Section, c.Key)
}

// Lookup implements Source. A missing file, section or key counts as absent;
// a file that exists but cannot be parsed is an error.
func (c *ConfigFile) Lookup(context.Context) (string, bool, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         false,
		IgnoreInlineComment: false,
		AllowShadows:        true,
	}, c.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("load %s: %w", c.Path, err)
	}

	section, err := file.GetSection(c.Section)
	if err != nil {
		return "", false, nil
	}

	if !section.HasKey(c.Key) {
		return "", false, nil
	}

	return section.Key(c.Key).String(), true, nil
}
