package runtime

import (
	"sort"
	"strings"
)

// Kind distinguishes classes from traits. Both share one namespace.
type Kind int

const (
	KindClass Kind = iota
	KindTrait
)

func (k Kind) String() string {
	if k == KindTrait {
		return "trait"
	}
	return "class"
}

// Ref names a declaration either by string or by its handle.
// Name("Base") and a *Definition for Base are interchangeable.
type Ref interface {
	refName() string
}

// Name refers to a declaration by name.
type Name string

func (n Name) refName() string { return string(n) }

func refName(ref Ref) string {
	if ref == nil {
		return ""
	}
	return ref.refName()
}

// Constructor runs during instantiation with the constructor arguments.
type Constructor func(self *Instance, args []Value)

// Destructor runs during deletion.
type Destructor func(self *Instance)

// Getter computes an attribute on read when accessors are enabled.
type Getter func(self *Instance) Value

// Setter intercepts an attribute write when accessors are enabled.
type Setter func(self *Instance, v Value)

// SuperInit lets a subclass decide if, when and with what arguments its
// class-kind super is constructed. Only the first call to super runs.
type SuperInit func(self *Instance, super func(args ...Value), args []Value)

type slot int

const (
	slotField slot = iota
	slotGetter
	slotSetter
)

type memberKey struct {
	slot slot
	name string
}

// internalPrefix marks members that are never copied by a mixin.
const internalPrefix = "__"

// Definition is the member table and ancestry record of one declared name.
// Ancestry is stored by name; the owning Registry resolves names.
type Definition struct {
	name string
	kind Kind
	reg  *Registry

	fields    map[string]Value
	accessors bool
	getters   map[string]Getter
	setters   map[string]Setter

	constructor    Constructor
	takesArguments bool
	destructor     Destructor
	superInit      SuperInit

	supers     []string
	subclasses []string
	inherited  map[memberKey]bool

	construction *constructionChain
	destruction  *destructionChain
	building     bool
}

func newDefinition(reg *Registry, name string, kind Kind) *Definition {
	return &Definition{
		name:      name,
		kind:      kind,
		reg:       reg,
		fields:    make(map[string]Value),
		inherited: make(map[memberKey]bool),
	}
}

func (d *Definition) refName() string {
	if d == nil {
		return ""
	}
	return d.name
}

// Name returns the declared name.
func (d *Definition) Name() string { return d.name }

// Kind returns whether this is a class or a trait.
func (d *Definition) Kind() Kind { return d.kind }

// Supers returns the extended names in extension order.
func (d *Definition) Supers() []string {
	return append([]string(nil), d.supers...)
}

// Subclasses returns the names that directly extend this definition.
func (d *Definition) Subclasses() []string {
	return append([]string(nil), d.subclasses...)
}

// Get returns a plain member, local or inherited.
func (d *Definition) Get(key string) (Value, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Set defines a local member. A local member is never overwritten by a
// later mixin or refresh.
func (d *Definition) Set(key string, v Value) {
	d.fields[key] = v
	delete(d.inherited, memberKey{slotField, key})
}

// SetMethod defines a local method member.
func (d *Definition) SetMethod(key string, fn MethodFunc) {
	d.Set(key, MethodValue(fn))
}

// Keys returns the sorted plain member names.
func (d *Definition) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsInherited reports whether the plain member key was copied from a super.
func (d *Definition) IsInherited(key string) bool {
	return d.inherited[memberKey{slotField, key}]
}

// Accessors reports whether getter/setter dispatch is enabled.
func (d *Definition) Accessors() bool { return d.accessors }

// EnableAccessors switches the definition to getter/setter dispatch.
func (d *Definition) EnableAccessors() {
	if d.accessors {
		return
	}
	d.accessors = true
	d.getters = make(map[string]Getter)
	d.setters = make(map[string]Setter)
}

// SetGetter registers a local getter, enabling accessors if needed.
func (d *Definition) SetGetter(key string, fn Getter) {
	d.EnableAccessors()
	d.getters[key] = fn
	delete(d.inherited, memberKey{slotGetter, key})
}

// SetSetter registers a local setter, enabling accessors if needed.
func (d *Definition) SetSetter(key string, fn Setter) {
	d.EnableAccessors()
	d.setters[key] = fn
	delete(d.inherited, memberKey{slotSetter, key})
}

// Getter returns the getter registered for key.
func (d *Definition) Getter(key string) (Getter, bool) {
	g, ok := d.getters[key]
	return g, ok
}

// Setter returns the setter registered for key.
func (d *Definition) Setter(key string) (Setter, bool) {
	s, ok := d.setters[key]
	return s, ok
}

// SetConstructor installs the constructor. takesArguments states whether
// it needs constructor arguments. A trait constructor that takes arguments
// is rejected, as is one on a class whose direct subclasses would pass it
// their arguments without a SuperInit. The definition is left unchanged on
// error.
func (d *Definition) SetConstructor(fn Constructor, takesArguments bool) error {
	takesArguments = fn != nil && takesArguments
	if takesArguments {
		if d.kind == KindTrait {
			return d.reg.raise(ErrTraitConstructorHasParams, "trait %s", d.name)
		}
		for _, sub := range d.subclasses {
			sd, ok := d.reg.defs[sub]
			if !ok || len(sd.supers) == 0 || sd.supers[0] != d.name {
				continue
			}
			if sd.superInit == nil {
				return d.reg.raise(ErrMissingSuperInit, "%s extends %s", sub, d.name)
			}
		}
	}
	d.constructor = fn
	d.takesArguments = takesArguments
	d.reg.invalidate(d.name)
	return nil
}

// SetDestructor installs the destructor.
func (d *Definition) SetDestructor(fn Destructor) {
	d.destructor = fn
	d.reg.invalidate(d.name)
}

// SetSuperInit installs the wrapper around the class-kind super's
// construction. Removing it fails while that super's constructor takes
// arguments.
func (d *Definition) SetSuperInit(fn SuperInit) error {
	if fn == nil && len(d.supers) > 0 {
		if sd, ok := d.reg.defs[d.supers[0]]; ok && sd.kind == KindClass && sd.constructor != nil && sd.takesArguments {
			return d.reg.raise(ErrMissingSuperInit, "%s extends %s", d.name, sd.name)
		}
	}
	d.superInit = fn
	d.reg.invalidate(d.name)
	return nil
}

// HasConstructor reports whether a constructor is installed.
func (d *Definition) HasConstructor() bool { return d.constructor != nil }

// TakesArguments reports whether the constructor needs arguments.
func (d *Definition) TakesArguments() bool { return d.takesArguments }

// HasDestructor reports whether a destructor is installed.
func (d *Definition) HasDestructor() bool { return d.destructor != nil }

// copyMembers merges src's members into d. A key is taken when d lacks it
// or only holds an inherited value; internal keys are skipped.
func (d *Definition) copyMembers(src *Definition) int {
	copied := 0
	for key, v := range src.fields {
		if strings.HasPrefix(key, internalPrefix) {
			continue
		}
		if d.takes(slotField, key, d.hasField(key)) {
			d.fields[key] = v
			d.inherited[memberKey{slotField, key}] = true
			copied++
		}
	}
	if !src.accessors {
		return copied
	}
	d.EnableAccessors()
	for key, g := range src.getters {
		if strings.HasPrefix(key, internalPrefix) {
			continue
		}
		_, present := d.getters[key]
		if d.takes(slotGetter, key, present) {
			d.getters[key] = g
			d.inherited[memberKey{slotGetter, key}] = true
			copied++
		}
	}
	for key, s := range src.setters {
		if strings.HasPrefix(key, internalPrefix) {
			continue
		}
		_, present := d.setters[key]
		if d.takes(slotSetter, key, present) {
			d.setters[key] = s
			d.inherited[memberKey{slotSetter, key}] = true
			copied++
		}
	}
	return copied
}

func (d *Definition) hasField(key string) bool {
	_, ok := d.fields[key]
	return ok
}

func (d *Definition) takes(s slot, key string, present bool) bool {
	return !present || d.inherited[memberKey{s, key}]
}

func (d *Definition) hasSuper(name string) bool {
	for _, s := range d.supers {
		if s == name {
			return true
		}
	}
	return false
}

func (d *Definition) addSubclass(name string) {
	for _, s := range d.subclasses {
		if s == name {
			return
		}
	}
	d.subclasses = append(d.subclasses, name)
}
