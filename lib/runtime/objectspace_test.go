package runtime

import (
	"errors"
	"testing"
)

// TestRedeclareReturnsSameDefinition verifies reload-mode declaration is idempotent.
func TestRedeclareReturnsSameDefinition(t *testing.T) {
	r, _ := newTestRegistry(t)
	base := mustClass(t, r, "Base", nil, nil)
	mustClass(t, r, "Derived", Name("Base"), nil)

	again := mustClass(t, r, "Base", nil, &Options{Fields: map[string]Value{"x": IntValue(1)}})
	if again != base {
		t.Fatal("expected redeclaration to return the existing definition")
	}
	if _, ok := again.Get("x"); ok {
		t.Error("redeclaration must not change the existing definition")
	}
	if got := base.Subclasses(); len(got) != 1 || got[0] != "Derived" {
		t.Errorf("expected subclasses to survive redeclaration, got %v", got)
	}
}

// TestStrictNamesRejectRedeclaration verifies that reload mode is opt-in.
func TestStrictNamesRejectRedeclaration(t *testing.T) {
	rec := &recorder{}
	r := NewRegistry(&Config{ErrorHandler: rec.handle})
	mustClass(t, r, "Base", nil, nil)
	_, err := r.DeclareClass("Base", nil, nil)
	expectErr(t, rec, err, ErrDuplicateName)
}

// TestClassAndTraitShareNamespace verifies a trait cannot reuse a class name.
func TestClassAndTraitShareNamespace(t *testing.T) {
	r, rec := newTestRegistry(t)
	mustClass(t, r, "Thing", nil, nil)
	_, err := r.DeclareTrait("Thing", nil)
	expectErr(t, rec, err, ErrDuplicateName)
}

// TestDeclareSuperErrors covers the primary-super checks.
func TestDeclareSuperErrors(t *testing.T) {
	r, rec := newTestRegistry(t)
	mustTrait(t, r, "Trait", nil)
	mustClass(t, r, "NeedsArgs", nil, &Options{
		Constructor:    func(self *Instance, args []Value) {},
		TakesArguments: true,
	})

	_, err := r.DeclareClass("Missing", Name("Nowhere"), nil)
	expectErr(t, rec, err, ErrUnknownSuper)

	_, err = r.DeclareClass("Loop", Name("Loop"), nil)
	expectErr(t, rec, err, ErrSelfInheritance)

	_, err = r.DeclareClass("OnTrait", Name("Trait"), nil)
	expectErr(t, rec, err, ErrSuperIsTrait)

	_, err = r.DeclareClass("Child", Name("NeedsArgs"), nil)
	expectErr(t, rec, err, ErrMissingSuperInit)

	_, err = r.DeclareClass("Wrapped", Name("NeedsArgs"), &Options{
		SuperInit: func(self *Instance, super func(args ...Value), args []Value) { super(args...) },
	})
	if err != nil {
		t.Fatalf("expected SuperInit to satisfy a parameterized super: %v", err)
	}
}

// TestFailedDeclarationRegistersNothing verifies declarations validate before mutating.
func TestFailedDeclarationRegistersNothing(t *testing.T) {
	r, rec := newTestRegistry(t)
	base := mustClass(t, r, "Base", nil, nil)

	_, err := r.DeclareClass("Broken", Name("Base"), &Options{Extends: []Ref{Name("Ghost")}})
	expectErr(t, rec, err, ErrUnknownSuper)

	if _, ok := r.Lookup("Broken"); ok {
		t.Error("failed declaration must not be registered")
	}
	if len(base.Subclasses()) != 0 {
		t.Errorf("failed declaration must not record subclasses, got %v", base.Subclasses())
	}
}

// TestDeclareAcceptsHandles verifies a *Definition can stand in for a name.
func TestDeclareAcceptsHandles(t *testing.T) {
	r, _ := newTestRegistry(t)
	base := mustClass(t, r, "Base", nil, nil)
	mixin := mustTrait(t, r, "Mixin", nil)

	d := mustClass(t, r, "Derived", base, &Options{Extends: []Ref{mixin}})
	supers := d.Supers()
	if len(supers) != 2 || supers[0] != "Base" || supers[1] != "Mixin" {
		t.Errorf("expected [Base Mixin], got %v", supers)
	}
}

// TestLookupAndNames verifies lookup and declaration-order listing.
func TestLookupAndNames(t *testing.T) {
	r, _ := newTestRegistry(t)
	mustClass(t, r, "B", nil, nil)
	mustTrait(t, r, "A", nil)

	if _, ok := r.Lookup("C"); ok {
		t.Error("expected no definition for C")
	}
	d, ok := r.Lookup("A")
	if !ok || d.Kind() != KindTrait {
		t.Fatalf("expected trait A, got %v %v", d, ok)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "B" || names[1] != "A" {
		t.Errorf("expected [B A], got %v", names)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 definitions, got %d", r.Len())
	}
}

// TestSetErrorHandler verifies the sink can be replaced.
func TestSetErrorHandler(t *testing.T) {
	r, first := newTestRegistry(t)
	second := &recorder{}
	r.SetErrorHandler(second.handle)

	_, err := r.Instantiate("Nope")
	if !errors.Is(err, ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
	if len(first.errs) != 0 {
		t.Error("old handler should not be called")
	}
	if len(second.errs) != 1 {
		t.Errorf("expected new handler to be called once, got %d", len(second.errs))
	}
}

// TestPanicHandler verifies errors can be turned into panics.
func TestPanicHandler(t *testing.T) {
	r := NewRegistry(&Config{Reload: true, ErrorHandler: PanicHandler})
	defer func() {
		p := recover()
		err, ok := p.(error)
		if !ok || !errors.Is(err, ErrUnknownClass) {
			t.Errorf("expected panic with ErrUnknownClass, got %v", p)
		}
	}()
	r.Instantiate("Nope")
	t.Error("expected panic")
}

// TestRefreshInheritance verifies post-hoc super members reach existing instances.
func TestRefreshInheritance(t *testing.T) {
	r, _ := newTestRegistry(t)
	constructed := 0
	base := mustClass(t, r, "Base", nil, &Options{
		Constructor: func(self *Instance, args []Value) { constructed++ },
	})
	mustClass(t, r, "Derived", Name("Base"), &Options{
		Fields: map[string]Value{"color": StringValue("red")},
	})
	mustClass(t, r, "Leaf", Name("Derived"), nil)

	derived := mustNew(t, r, "Derived")
	leaf := mustNew(t, r, "Leaf")
	if constructed != 2 {
		t.Fatalf("expected 2 constructions, got %d", constructed)
	}

	base.Set("greeting", StringValue("hello"))
	base.Set("color", StringValue("blue"))
	if _, ok := derived.Lookup("greeting"); ok {
		t.Fatal("field should not be visible before refresh")
	}

	if err := r.RefreshInheritance("Base"); err != nil {
		t.Fatalf("RefreshInheritance: %v", err)
	}
	if got := derived.Get("greeting").AsString(); got != "hello" {
		t.Errorf("expected Derived to see greeting, got %q", got)
	}
	if got := leaf.Get("greeting").AsString(); got != "hello" {
		t.Errorf("expected Leaf to see greeting, got %q", got)
	}
	if got := derived.Get("color").AsString(); got != "red" {
		t.Errorf("local field must win over refresh, got %q", got)
	}
	if constructed != 2 {
		t.Errorf("refresh must not run constructors, got %d constructions", constructed)
	}
}

// TestRefreshUnknown verifies refreshing an undeclared name fails.
func TestRefreshUnknown(t *testing.T) {
	r, rec := newTestRegistry(t)
	err := r.RefreshInheritance("Ghost")
	expectErr(t, rec, err, ErrUnknownClass)
}

// TestGenerateID verifies instance IDs are prefixed by class name.
func TestGenerateID(t *testing.T) {
	a := GenerateID("App::Counter")
	b := GenerateID("App::Counter")
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) <= len("app_counter_") || a[:len("app_counter_")] != "app_counter_" {
		t.Errorf("expected app_counter_ prefix, got %s", a)
	}
}
