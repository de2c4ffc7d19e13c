package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/build-time-include/internal/domain/release"
	"github.com/oshokin/build-time-include/internal/logger"
)

// Object is a host object that declares a release version range.
type Object interface {
	// Path is the object path used in diagnostics.
	Path() string
	// VersionRange is the range of releases the object ships in.
	VersionRange() release.VersionRange
	// MarkTransient keeps the host from saving the object.
	MarkTransient()
	// IsTransient reports whether the object was marked transient.
	IsTransient() bool
}

// SaveContext describes one save of an object.
type SaveContext struct {
	// Cooking reports whether the save is part of a cook.
	Cooking bool
	// TargetFilename is where the object is being saved.
	TargetFilename string
}

// Includer decides whether a version range ships in the target release.
type Includer interface {
	ShouldInclude(ctx context.Context, r release.VersionRange) (bool, error)
}

// LoadFunc is invoked by the host after an object is loaded.
type LoadFunc func(ctx context.Context, obj Object, cooking bool)

// PreSaveFunc is invoked by the host before an object is saved.
type PreSaveFunc func(ctx context.Context, obj Object, save SaveContext) error

// HookRegistry is the host's extension point for lifecycle callbacks.
type HookRegistry interface {
	OnLoad(name string, fn LoadFunc)
	OnPreSave(name string, fn PreSaveFunc)
}

// ErrExcludedObjectSaved is returned when an object excluded from the target release is being cooked.
var ErrExcludedObjectSaved = errors.New("object was cooked despite not being version compatible")

// hookName is the name the callbacks are registered under.
const hookName = "release-version-gate"

// Hooks holds the version gating callbacks.
type Hooks struct {
	// includer decides inclusion against the target release.
	includer Includer
}

// New creates hooks deciding through includer.
func New(includer Includer) *Hooks {
	return &Hooks{
		includer: includer,
	}
}

// Register installs the callbacks on the host.
func (h *Hooks) Register(registry HookRegistry) {
	registry.OnLoad(hookName, h.OnLoad)
	registry.OnPreSave(hookName, h.OnPreSave)
}

// OnLoad marks obj transient when cooking for a release its range excludes.
// This covers class defaults and placed instances alike.
func (h *Hooks) OnLoad(ctx context.Context, obj Object, cooking bool) {
	if !cooking {
		return
	}

	include, err := h.includer.ShouldInclude(ctx, obj.VersionRange())
	if err != nil {
		logger.ErrorKV(ctx, "Cannot decide whether object ships", "object", obj.Path(), "error", err)

		return
	}

	if include {
		return
	}

	obj.MarkTransient()
	logger.WarnKV(ctx, "Object marking self as transient to avoid save", "object", obj.Path())
}

// OnPreSave reports an excluded object that is about to be cooked anyway,
// e.g. because another included asset references it or it was force cooked.
func (h *Hooks) OnPreSave(ctx context.Context, obj Object, save SaveContext) error {
	if !save.Cooking {
		return nil
	}

	include, err := h.includer.ShouldInclude(ctx, obj.VersionRange())
	if err != nil {
		return fmt.Errorf("check %s: %w", obj.Path(), err)
	}

	if include {
		return nil
	}

	logger.ErrorKV(ctx, "Object was cooked despite not being version compatible; "+
		"make sure it is not referenced by another primary asset or force cooked",
		"object", obj.Path(),
		"target", save.TargetFilename,
	)

	return fmt.Errorf("%w: %s cooked to %s", ErrExcludedObjectSaved, obj.Path(), save.TargetFilename)
}
