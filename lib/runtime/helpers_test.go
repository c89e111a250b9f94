package runtime

import (
	"errors"
	"testing"
)

// recorder collects raised errors instead of exiting.
type recorder struct {
	errs []error
}

func (rec *recorder) handle(err error) {
	rec.errs = append(rec.errs, err)
}

func (rec *recorder) last() error {
	if len(rec.errs) == 0 {
		return nil
	}
	return rec.errs[len(rec.errs)-1]
}

func newTestRegistry(t *testing.T) (*Registry, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewRegistry(&Config{Reload: true, ErrorHandler: rec.handle}), rec
}

func traceCtor(trace *[]string, msg string) Constructor {
	return func(self *Instance, args []Value) {
		*trace = append(*trace, msg)
	}
}

func traceDtor(trace *[]string, msg string) Destructor {
	return func(self *Instance) {
		*trace = append(*trace, msg)
	}
}

func mustClass(t *testing.T, r *Registry, name string, super Ref, opts *Options) *Definition {
	t.Helper()
	d, err := r.DeclareClass(name, super, opts)
	if err != nil {
		t.Fatalf("DeclareClass(%s): %v", name, err)
	}
	return d
}

func mustTrait(t *testing.T, r *Registry, name string, opts *Options) *Definition {
	t.Helper()
	d, err := r.DeclareTrait(name, opts)
	if err != nil {
		t.Fatalf("DeclareTrait(%s): %v", name, err)
	}
	return d
}

func mustNew(t *testing.T, r *Registry, name string, args ...Value) *Instance {
	t.Helper()
	inst, err := r.Instantiate(name, args...)
	if err != nil {
		t.Fatalf("Instantiate(%s): %v", name, err)
	}
	return inst
}

func expectErr(t *testing.T, rec *recorder, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if !errors.Is(rec.last(), want) {
		t.Fatalf("expected handler to receive %v, got %v", want, rec.last())
	}
}
