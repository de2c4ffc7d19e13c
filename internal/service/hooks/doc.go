// Package hooks implements the load and pre-save callbacks the cook host
// invokes for versioned objects.
//
// OnLoad marks objects excluded from the target release as transient so the
// host does not save them. OnPreSave is the final safety net: an excluded
// object that is about to be saved anyway is reported as an error, never fixed.
package hooks
