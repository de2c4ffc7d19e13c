package hooks

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/oshokin/build-time-include/internal/logger"
)

// Host is an in-process HookRegistry that dispatches lifecycle events to registered callbacks.
type Host struct {
	// load holds the load callbacks in registration order.
	load []namedLoad
	// preSave holds the pre-save callbacks in registration order.
	preSave []namedPreSave
	// mu protects the callback lists.
	mu sync.RWMutex
}

type namedLoad struct {
	name string
	fn   LoadFunc
}

type namedPreSave struct {
	name string
	fn   PreSaveFunc
}

// NewHost creates a host without callbacks.
func NewHost() *Host {
	return new(Host)
}

// OnLoad implements HookRegistry.
func (h *Host) OnLoad(name string, fn LoadFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.load = append(h.load, namedLoad{name: name, fn: fn})
}

// OnPreSave implements HookRegistry.
func (h *Host) OnPreSave(name string, fn PreSaveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.preSave = append(h.preSave, namedPreSave{name: name, fn: fn})
}

// Load runs the load callbacks for obj.
func (h *Host) Load(ctx context.Context, obj Object, cooking bool) {
	h.mu.RLock()
	callbacks := h.load
	h.mu.RUnlock()

	for _, cb := range callbacks {
		logger.DebugKV(ctx, "Running load hook", "hook", cb.name, "object", obj.Path())
		cb.fn(ctx, obj, cooking)
	}
}

// PreSave runs every pre-save callback for obj and returns their combined errors.
func (h *Host) PreSave(ctx context.Context, obj Object, save SaveContext) error {
	h.mu.RLock()
	callbacks := h.preSave
	h.mu.RUnlock()

	var err error

	for _, cb := range callbacks {
		logger.DebugKV(ctx, "Running pre-save hook", "hook", cb.name, "object", obj.Path())
		err = multierr.Append(err, cb.fn(ctx, obj, save))
	}

	return err
}

// Cook loads obj for cooking and, unless it turned transient, saves it to targetFilename.
// It reports whether the object was saved.
func (h *Host) Cook(ctx context.Context, obj Object, targetFilename string) (bool, error) {
	h.Load(ctx, obj, true)

	if obj.IsTransient() {
		return false, nil
	}

	if err := h.PreSave(ctx, obj, SaveContext{Cooking: true, TargetFilename: targetFilename}); err != nil {
		return true, err
	}

	return true, nil
}
