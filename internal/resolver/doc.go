// Package resolver determines the target release version of the current build.
//
// Sources are consulted in priority order (command line, environment variable,
// game INI file); the first one that is present and parses wins. The result is
// computed once per Resolver, and the process-wide Resolver installed with
// SetDefault cannot be replaced.
package resolver
