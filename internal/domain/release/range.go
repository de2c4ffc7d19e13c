package release

import "fmt"

// UnboundedSunset is the placeholder sunset of a range that never sunsets.
// It is only consulted when HasSunset is true.
//
//nolint:gochecknoglobals // Immutable value type used as a default.
var UnboundedSunset = Version{Major: 99999, Minor: 0}

// VersionRange is the window of releases in which content is included:
// [Intro, Sunset) when HasSunset is set, [Intro, +inf) otherwise.
type VersionRange struct {
	// Intro is the first release the content ships in.
	Intro Version
	// HasSunset reports whether the content has a last release.
	HasSunset bool
	// Sunset is the first release the content no longer ships in. It is exclusive.
	Sunset Version
}

// NewVersionRange returns a range starting at intro that never sunsets.
func NewVersionRange(intro Version) VersionRange {
	return VersionRange{
		Intro:  intro,
		Sunset: UnboundedSunset,
	}
}

// WithSunset returns a copy of r that stops shipping at sunset.
func (r VersionRange) WithSunset(sunset Version) VersionRange {
	r.HasSunset = true
	r.Sunset = sunset

	return r
}

// Includes reports whether v is at or past Intro and, if the range has a sunset, strictly before Sunset.
// A range whose Intro is past its Sunset includes nothing; that is not treated specially.
func (r VersionRange) Includes(v Version) bool {
	return Compare(r.Intro, v) >= 0 && (!r.HasSunset || Compare(r.Sunset, v) < 0)
}

// Satisfiable reports whether at least one version can fall inside the range.
func (r VersionRange) Satisfiable() bool {
	return !r.HasSunset || Compare(r.Intro, r.Sunset) > 0
}

// String returns a human-readable representation for logs.
func (r VersionRange) String() string {
	enabled := 0
	if r.HasSunset {
		enabled = 1
	}

	return fmt.Sprintf("MinVersion=%s | MaxVersion(enabled=%d)=%s", r.Intro, enabled, r.Sunset)
}
