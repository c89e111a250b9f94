package runtime

type destructionEntry struct {
	owner string
	run   Destructor
}

type destructionChain struct {
	entries []destructionEntry
}

func (c *destructionChain) run(self *Instance) {
	for _, e := range c.entries {
		e.run(self)
	}
}

func (c *destructionChain) owners() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.owner
	}
	return out
}

// Delete marks inst deleted and runs its destruction chain. Deleting an
// already deleted instance does nothing.
func (r *Registry) Delete(inst *Instance) error {
	if inst != nil && inst.deleted {
		return nil
	}
	if inst == nil || inst.ClassName == "" {
		return r.raise(ErrDeleteUndeclared, "instance has no class")
	}
	d, ok := r.defs[inst.ClassName]
	if !ok {
		return r.raise(ErrUnknownClass, "%s", inst.ClassName)
	}
	inst.deleted = true
	r.destruction(d).run(inst)
	return nil
}

// DestructionOrder returns the owners of the destruction chain entries of
// name, in execution order.
func (r *Registry) DestructionOrder(name string) ([]string, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, r.raise(ErrUnknownClass, "%s", name)
	}
	return r.destruction(d).owners(), nil
}

// destruction returns the cached chain of d: d's own destructor, then each
// super in reverse extension order, depth-first, every name once.
func (r *Registry) destruction(d *Definition) *destructionChain {
	if d.destruction != nil {
		return d.destruction
	}
	var entries []destructionEntry
	visited := make(map[string]bool)
	var visit func(*Definition)
	visit = func(cur *Definition) {
		if visited[cur.name] {
			return
		}
		visited[cur.name] = true
		if cur.destructor != nil {
			entries = append(entries, destructionEntry{owner: cur.name, run: cur.destructor})
		}
		for i := len(cur.supers) - 1; i >= 0; i-- {
			if sd, ok := r.defs[cur.supers[i]]; ok {
				visit(sd)
			}
		}
	}
	visit(d)
	d.destruction = &destructionChain{entries: entries}
	log.Debugf("destruction chain %s: %v", d.name, d.destruction.owners())
	return d.destruction
}
