// Package assets implements the asset registry stand-in used by the cook pass.
//
// The FileRepository reads a YAML export of the host's asset registry and
// serves it both as the list of primary assets and as the per-object tag store.
package assets
