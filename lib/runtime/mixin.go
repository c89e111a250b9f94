package runtime

// extendView is the part of a target that extension checks depend on. It
// lets declare validate a definition before registering it.
type extendView struct {
	name      string
	kind      Kind
	supers    []string
	superInit bool
}

func (d *Definition) view() extendView {
	return extendView{
		name:      d.name,
		kind:      d.kind,
		supers:    d.supers,
		superInit: d.superInit != nil,
	}
}

// Extend mixes other into name: validates the edge, copies members under
// the shadowing rules, records the edge both ways and invalidates cached
// chains below name. Nothing is mutated when validation fails.
func (r *Registry) Extend(name string, other Ref) error {
	d, ok := r.defs[name]
	if !ok {
		return r.raise(ErrUnknownClass, "%s", name)
	}
	src := refName(other)
	if err := r.checkExtend(d.view(), src); err != nil {
		return err
	}
	r.mixin(d, r.defs[src])
	log.Debugf("%s extends %s supers=%v", name, src, d.supers)
	return nil
}

func (r *Registry) checkExtend(target extendView, src string) error {
	if src == target.name {
		return r.raise(ErrSelfInheritance, "%s", src)
	}
	sd, ok := r.defs[src]
	if !ok {
		return r.raise(ErrUnknownSuper, "%s extends %s", target.name, src)
	}
	for _, s := range target.supers {
		if s == src {
			return r.raise(ErrDuplicateSuper, "%s already extends %s", target.name, src)
		}
	}
	switch sd.kind {
	case KindClass:
		if target.kind == KindTrait {
			return r.raise(ErrTraitExtendsClass, "trait %s extends class %s", target.name, src)
		}
		if len(target.supers) > 0 {
			return r.raise(ErrMultipleClassSupers, "%s extends class %s at position %d", target.name, src, len(target.supers)+1)
		}
		if sd.constructor != nil && sd.takesArguments && !target.superInit {
			return r.raise(ErrMissingSuperInit, "%s extends %s", target.name, src)
		}
	case KindTrait:
		if sd.constructor != nil && sd.takesArguments {
			return r.raise(ErrTraitConstructorHasParams, "%s extends trait %s", target.name, src)
		}
	}
	if r.hasAncestor(src, target.name) {
		return r.raise(ErrCircularInheritance, "%s extends %s", target.name, src)
	}
	return nil
}

// mixin applies a validated extension.
func (r *Registry) mixin(target, src *Definition) {
	target.copyMembers(src)
	target.supers = append(target.supers, src.name)
	src.addSubclass(target.name)
	r.invalidate(target.name)
}

// hasAncestor reports whether target is reachable from name through
// supers. The visited set guards against residual cycles.
func (r *Registry) hasAncestor(name, target string) bool {
	seen := make(map[string]bool)
	var walk func(string) bool
	walk = func(n string) bool {
		if n == target {
			return true
		}
		if seen[n] {
			return false
		}
		seen[n] = true
		d, ok := r.defs[n]
		if !ok {
			return false
		}
		for _, s := range d.supers {
			if walk(s) {
				return true
			}
		}
		return false
	}
	return walk(name)
}
