package runtime

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestDestructionOrder verifies self first, then supers last-extended-first.
func TestDestructionOrder(t *testing.T) {
	r, _ := newTestRegistry(t)
	var trace []string
	mustClass(t, r, "Root", nil, &Options{Destructor: traceDtor(&trace, "Root")})
	mustClass(t, r, "Base", Name("Root"), &Options{Destructor: traceDtor(&trace, "Base")})
	mustTrait(t, r, "TraitX", &Options{Destructor: traceDtor(&trace, "X")})
	mustTrait(t, r, "TraitY", &Options{Destructor: traceDtor(&trace, "Y")})
	mustClass(t, r, "Derived", Name("Base"), &Options{
		Extends:    []Ref{Name("TraitX"), Name("TraitY")},
		Destructor: traceDtor(&trace, "Derived"),
	})

	inst := mustNew(t, r, "Derived")
	if err := r.Delete(inst); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := []string{"Derived", "Y", "X", "Base", "Root"}
	if diff := cmp.Diff(want, trace); diff != "" {
		t.Errorf("destruction mismatch (-want +got):\n%s", diff)
	}
}

// TestDestructionVisitsSharedAncestorsOnce verifies diamonds destroy once.
func TestDestructionVisitsSharedAncestorsOnce(t *testing.T) {
	r, _ := newTestRegistry(t)
	var trace []string
	mustTrait(t, r, "Shared", &Options{Destructor: traceDtor(&trace, "Shared")})
	mustTrait(t, r, "Left", &Options{Extends: []Ref{Name("Shared")}, Destructor: traceDtor(&trace, "Left")})
	mustTrait(t, r, "Right", &Options{Extends: []Ref{Name("Shared")}, Destructor: traceDtor(&trace, "Right")})
	mustClass(t, r, "C", nil, &Options{Extends: []Ref{Name("Left"), Name("Right")}})

	order, err := r.DestructionOrder("C")
	if err != nil {
		t.Fatalf("DestructionOrder: %v", err)
	}
	if diff := cmp.Diff([]string{"Right", "Shared", "Left"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// TestDeleteIsIdempotent verifies a second delete does nothing.
func TestDeleteIsIdempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	calls := 0
	mustClass(t, r, "C", nil, &Options{Destructor: func(self *Instance) { calls++ }})
	inst := mustNew(t, r, "C")

	if !r.IsValid(inst) {
		t.Fatal("expected instance to be valid before delete")
	}
	if err := r.Delete(inst); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := r.Delete(inst); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected destructor to run once, ran %d times", calls)
	}
	if r.IsValid(inst) {
		t.Error("expected instance to be invalid after delete")
	}
	if !inst.Deleted() {
		t.Error("expected Deleted to report true")
	}
}

// TestDeleteUndeclared verifies untagged values cannot be deleted.
func TestDeleteUndeclared(t *testing.T) {
	r, rec := newTestRegistry(t)
	err := r.Delete(&Instance{})
	expectErr(t, rec, err, ErrDeleteUndeclared)

	err = r.Delete(nil)
	expectErr(t, rec, err, ErrDeleteUndeclared)
}

// TestDestructionSurvivesCycles verifies the visited set stops residual cycles.
func TestDestructionSurvivesCycles(t *testing.T) {
	r, _ := newTestRegistry(t)
	var trace []string
	p := mustTrait(t, r, "P", &Options{Destructor: traceDtor(&trace, "P")})
	q := mustTrait(t, r, "Q", &Options{Destructor: traceDtor(&trace, "Q")})
	p.supers = append(p.supers, "Q")
	q.supers = append(q.supers, "P")
	mustClass(t, r, "C", nil, &Options{Destructor: traceDtor(&trace, "C")})
	c, _ := r.Lookup("C")
	c.supers = append(c.supers, "P")

	inst := &Instance{ClassName: "C", registry: r}
	if err := r.Delete(inst); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if diff := cmp.Diff([]string{"C", "P", "Q"}, trace); diff != "" {
		t.Errorf("destruction mismatch (-want +got):\n%s", diff)
	}
}
