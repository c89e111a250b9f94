package runtime

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func declareHierarchy(t *testing.T, r *Registry) {
	t.Helper()
	mustClass(t, r, "Base", nil, nil)
	mustTrait(t, r, "TraitX", nil)
	mustTrait(t, r, "TraitY", &Options{Extends: []Ref{Name("TraitX")}})
	mustClass(t, r, "Derived", Name("Base"), &Options{Extends: []Ref{Name("TraitY")}})
	mustClass(t, r, "Unrelated", nil, nil)
}

// TestInstanceOf verifies ancestry-aware type checks.
func TestInstanceOf(t *testing.T) {
	r, _ := newTestRegistry(t)
	declareHierarchy(t, r)
	inst := mustNew(t, r, "Derived")

	for _, name := range []string{"Derived", "Base", "TraitY", "TraitX"} {
		if !r.InstanceOf(inst, name) {
			t.Errorf("expected Derived instance to be a %s", name)
		}
	}
	if r.InstanceOf(inst, "Unrelated") {
		t.Error("expected Derived instance not to be Unrelated")
	}
	if r.InstanceOf(&Instance{}, "Base") || r.InstanceOf(nil, "Base") {
		t.Error("untagged values are instances of nothing")
	}
}

// TestTypeOfAndIsValid verifies tag queries.
func TestTypeOfAndIsValid(t *testing.T) {
	r, _ := newTestRegistry(t)
	declareHierarchy(t, r)
	inst := mustNew(t, r, "Base")

	if name, ok := r.TypeOf(inst); !ok || name != "Base" {
		t.Errorf("expected Base, got %q %v", name, ok)
	}
	if _, ok := r.TypeOf(&Instance{}); ok {
		t.Error("expected no type for an untagged value")
	}
	if r.IsValid(&Instance{}) || r.IsValid(nil) {
		t.Error("untagged values are never valid")
	}
	if inst.Class() == nil || inst.Class().Name() != "Base" {
		t.Error("expected instance to resolve its class")
	}
}

// TestAncestry verifies depth-first extension-order ancestry.
func TestAncestry(t *testing.T) {
	r, _ := newTestRegistry(t)
	declareHierarchy(t, r)

	want := []string{"Derived", "Base", "TraitY", "TraitX"}
	if diff := cmp.Diff(want, r.Ancestry("Derived")); diff != "" {
		t.Errorf("ancestry mismatch (-want +got):\n%s", diff)
	}
	if r.Ancestry("Ghost") != nil {
		t.Error("expected nil ancestry for unknown names")
	}
	if !r.IsSubclassOf("Derived", "TraitX") || r.IsSubclassOf("Base", "Derived") {
		t.Error("IsSubclassOf mismatch")
	}
	if r.IsSubclassOf("Ghost", "Ghost") {
		t.Error("unknown names are subclasses of nothing")
	}
}

// TestInstanceOfSurvivesCycles verifies the visited set terminates the search.
func TestInstanceOfSurvivesCycles(t *testing.T) {
	r, _ := newTestRegistry(t)
	p := mustTrait(t, r, "P", nil)
	q := mustTrait(t, r, "Q", nil)
	p.supers = append(p.supers, "Q")
	q.supers = append(q.supers, "P")
	c := mustClass(t, r, "C", nil, nil)
	c.supers = append(c.supers, "P")

	inst := &Instance{ClassName: "C", registry: r}
	if !r.InstanceOf(inst, "Q") {
		t.Error("expected Q to be found")
	}
	if r.InstanceOf(inst, "Z") {
		t.Error("expected Z not to be found")
	}
}
