package runtime

import "sync"

// ============================================================================
// Global registry
// ============================================================================

var (
	globalRegistry *Registry
	globalMu       sync.Mutex
)

// Default returns the process-wide registry, creating it from
// DefaultConfig on first use.
func Default() *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalRegistry == nil {
		globalRegistry = NewRegistry(nil)
	}
	return globalRegistry
}

// InitGlobal replaces the process-wide registry with a fresh one built
// from cfg and returns it.
func InitGlobal(cfg *Config) *Registry {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRegistry = NewRegistry(cfg)
	return globalRegistry
}

// ResetGlobal drops the process-wide registry. The next Default call
// starts from an empty store.
func ResetGlobal() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRegistry = nil
}

// DeclareClass declares a class on the process-wide registry.
func DeclareClass(name string, super Ref, opts *Options) (*Definition, error) {
	return Default().DeclareClass(name, super, opts)
}

// DeclareTrait declares a trait on the process-wide registry.
func DeclareTrait(name string, opts *Options) (*Definition, error) {
	return Default().DeclareTrait(name, opts)
}

// Extend mixes other into name on the process-wide registry.
func Extend(name string, other Ref) error {
	return Default().Extend(name, other)
}

// Instantiate creates an instance from the process-wide registry.
func Instantiate(name string, args ...Value) (*Instance, error) {
	return Default().Instantiate(name, args...)
}

// Delete deletes an instance using the process-wide registry.
func Delete(inst *Instance) error {
	return Default().Delete(inst)
}

// InstanceOf checks ancestry on the process-wide registry.
func InstanceOf(inst *Instance, name string) bool {
	return Default().InstanceOf(inst, name)
}

// IsValid reports whether inst is tagged and not deleted.
func IsValid(inst *Instance) bool {
	return Default().IsValid(inst)
}

// TypeOf returns the class tag of inst.
func TypeOf(inst *Instance) (string, bool) {
	return Default().TypeOf(inst)
}

// Lookup returns a definition from the process-wide registry.
func Lookup(name string) (*Definition, bool) {
	return Default().Lookup(name)
}

// SetErrorHandler replaces the process-wide registry's error sink.
func SetErrorHandler(h ErrorHandler) {
	Default().SetErrorHandler(h)
}

// RefreshInheritance re-propagates members of name on the process-wide
// registry.
func RefreshInheritance(name string) error {
	return Default().RefreshInheritance(name)
}
