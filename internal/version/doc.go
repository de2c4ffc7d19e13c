// Package version exposes build metadata of the release-gate binary.
//
// Version, Commit and BuildTime are injected with ldflags. This is the tool
// version, unrelated to the game release version the gate resolves.
package version
