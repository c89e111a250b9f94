package runtime

// InstanceOf reports whether inst's class is name or has name anywhere in
// its ancestry, classes and traits alike.
func (r *Registry) InstanceOf(inst *Instance, name string) bool {
	if inst == nil || inst.ClassName == "" {
		return false
	}
	return r.IsSubclassOf(inst.ClassName, name)
}

// IsSubclassOf reports whether target is name itself or one of its
// transitive supers.
func (r *Registry) IsSubclassOf(name, target string) bool {
	if _, ok := r.defs[name]; !ok {
		return false
	}
	return r.hasAncestor(name, target)
}

// IsValid reports whether inst carries a class tag and is not deleted.
func (r *Registry) IsValid(inst *Instance) bool {
	return inst != nil && inst.ClassName != "" && !inst.deleted
}

// TypeOf returns the class tag of inst.
func (r *Registry) TypeOf(inst *Instance) (string, bool) {
	if inst == nil || inst.ClassName == "" {
		return "", false
	}
	return inst.ClassName, true
}

// Ancestry returns name followed by its transitive supers, depth-first in
// extension order, each once.
func (r *Registry) Ancestry(name string) []string {
	if _, ok := r.defs[name]; !ok {
		return nil
	}
	return r.ancestry(name)
}

func (r *Registry) ancestry(name string) []string {
	seen := make(map[string]bool)
	var out []string
	var walk func(string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
		d, ok := r.defs[n]
		if !ok {
			return
		}
		for _, s := range d.supers {
			walk(s)
		}
	}
	walk(name)
	return out
}
