// Package release contains the release version domain types.
//
// It defines Version (a Major.Minor release identifier), VersionRange (the
// window of releases in which a piece of content ships) and the textual tag
// codec used to store a range in the host's per-object metadata.
package release
