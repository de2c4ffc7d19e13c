package release

import (
	"fmt"
	"strconv"
	"strings"
)

// Version identifies a release using Major.Minor numbering, e.g. v2.3.
type Version struct {
	// Major is the major component of the release number.
	Major int `yaml:"major"`
	// Minor is the minor component of the release number.
	Minor int `yaml:"minor"`
}

// DefaultVersion is the version an unconfigured Version field starts from.
//
//nolint:gochecknoglobals // Immutable value type used as a default.
var DefaultVersion = Version{Major: 1, Minor: 0}

// versionSeparator splits the major and minor components.
const versionSeparator = "."

// String renders the version as "vMajor.Minor".
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// Compare returns -1 if value < reference, 0 if they are equal and 1 if value > reference.
// Major numbers are compared first, minor numbers break ties.
func Compare(reference, value Version) int {
	if sign := sign(value.Major - reference.Major); sign != 0 {
		return sign
	}

	return sign(value.Minor - reference.Minor)
}

// Compare reports how v orders against other: -1 if v < other, 0 if equal, 1 if v > other.
func (v Version) Compare(other Version) int {
	return Compare(other, v)
}

// ParseVersion parses text of the form "MAJOR.MINOR".
// Anything else (a single token, more than two tokens, non-numeric or negative
// components) yields false so that callers can fall back to another source.
func ParseVersion(text string) (Version, bool) {
	tokens := strings.Split(strings.TrimSpace(text), versionSeparator)
	if len(tokens) != 2 {
		return Version{}, false
	}

	major, ok := parseComponent(tokens[0])
	if !ok {
		return Version{}, false
	}

	minor, ok := parseComponent(tokens[1])
	if !ok {
		return Version{}, false
	}

	return Version{Major: major, Minor: minor}, true
}

// parseComponent parses a single non-negative decimal version component.
func parseComponent(token string) (int, bool) {
	value, err := strconv.Atoi(token)
	if err != nil || value < 0 {
		return 0, false
	}

	return value, true
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}
