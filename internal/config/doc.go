// Package config defines the release-gate settings and provides helpers to
// load, validate and save them in YAML format.
//
// The settings name the release version sources (command-line key,
// environment variable, game INI section and key), the asset manifest and
// cook rule files, the GameFeature plugins root and the unversioned asset types.
package config
