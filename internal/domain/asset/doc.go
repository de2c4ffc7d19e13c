// Package asset contains the cook-side view of host content: primary asset
// identifiers, registry entries with their metadata tags and cook rules.
package asset
