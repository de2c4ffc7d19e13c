// Package logger wraps zap for the release-gate commands.
//
// A global sugared logger writes console lines to stderr at a level set from the
// settings. Services carry loggers in their context: WithName tags the pass,
// WithKV and WithFields attach values every line of the pass repeats, and the
// *KV helpers log through whatever logger the context holds.
package logger
