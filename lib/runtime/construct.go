package runtime

type constructionEntry struct {
	owner string
	run   func(self *Instance, args []Value)
}

// constructionChain is the ordered constructor list of a class. A chain
// with no entries is cached too, so instantiation skips all work.
type constructionChain struct {
	entries []constructionEntry
}

func (c *constructionChain) run(self *Instance, args []Value) {
	for _, e := range c.entries {
		e.run(self, args)
	}
}

func (c *constructionChain) owners() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.owner
	}
	return out
}

// Instantiate creates an instance of name and runs its construction chain
// with args.
func (r *Registry) Instantiate(name string, args ...Value) (*Instance, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, r.raise(ErrUnknownClass, "%s", name)
	}
	if d.kind == KindTrait {
		return nil, r.raise(ErrTraitNotInstantiable, "%s", name)
	}
	chain, err := r.construction(d)
	if err != nil {
		return nil, err
	}
	inst := newInstance(r, name)
	chain.run(inst, args)
	return inst, nil
}

// ConstructionOrder returns the owners of the construction chain entries
// of name, in execution order.
func (r *Registry) ConstructionOrder(name string) ([]string, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, r.raise(ErrUnknownClass, "%s", name)
	}
	chain, err := r.construction(d)
	if err != nil {
		return nil, err
	}
	return chain.owners(), nil
}

// construction returns the cached chain of d, building it on first use.
//
// Order: the class-kind first super's full chain (directly or through
// SuperInit), then each trait's flattened constructors, then d's own.
// Names already covered by the super's ancestry are not run twice.
func (r *Registry) construction(d *Definition) (*constructionChain, error) {
	if d.construction != nil {
		return d.construction, nil
	}
	if d.building {
		return nil, r.raise(ErrCircularInheritance, "%s reached while building its own construction chain", d.name)
	}
	d.building = true
	defer func() { d.building = false }()

	var entries []constructionEntry
	visited := map[string]bool{d.name: true}
	traits := d.supers
	if len(traits) > 0 {
		if first := r.defs[traits[0]]; first.kind == KindClass {
			superChain, err := r.construction(first)
			if err != nil {
				return nil, err
			}
			for _, anc := range r.ancestry(first.name) {
				visited[anc] = true
			}
			if e, ok := superEntry(d, first.name, superChain); ok {
				entries = append(entries, e)
			}
			traits = traits[1:]
		}
	}

	building := map[string]bool{d.name: true}
	for _, t := range traits {
		td := r.defs[t]
		if td.kind != KindTrait {
			return nil, r.raise(ErrMultipleClassSupers, "%s has class %s after its first super", d.name, t)
		}
		var err error
		entries, err = r.flattenTrait(td, visited, building, entries)
		if err != nil {
			return nil, err
		}
	}

	if d.constructor != nil {
		entries = append(entries, constructionEntry{owner: d.name, run: d.constructor})
	}
	d.construction = &constructionChain{entries: entries}
	log.Debugf("construction chain %s: %v", d.name, d.construction.owners())
	return d.construction, nil
}

// superEntry wraps the super's chain in d's SuperInit when one is declared.
// An absent wrapper over an empty super chain contributes nothing.
func superEntry(d *Definition, owner string, superChain *constructionChain) (constructionEntry, bool) {
	wrap := d.superInit
	if wrap == nil {
		if len(superChain.entries) == 0 {
			return constructionEntry{}, false
		}
		return constructionEntry{owner: owner, run: superChain.run}, true
	}
	return constructionEntry{owner: owner, run: func(self *Instance, args []Value) {
		called := false
		wrap(self, func(superArgs ...Value) {
			if called {
				return
			}
			called = true
			superChain.run(self, superArgs)
		}, args)
	}}, true
}

// flattenTrait appends td's constructors depth-first, its own supers first.
// Each name contributes at most once.
func (r *Registry) flattenTrait(td *Definition, visited, building map[string]bool, entries []constructionEntry) ([]constructionEntry, error) {
	if building[td.name] {
		return nil, r.raise(ErrCircularInheritance, "trait %s reached while flattening itself", td.name)
	}
	if visited[td.name] {
		return entries, nil
	}
	building[td.name] = true
	for _, s := range td.supers {
		sd := r.defs[s]
		if sd.kind != KindTrait {
			continue
		}
		var err error
		entries, err = r.flattenTrait(sd, visited, building, entries)
		if err != nil {
			return nil, err
		}
	}
	delete(building, td.name)
	visited[td.name] = true
	if td.constructor != nil {
		entries = append(entries, constructionEntry{owner: td.name, run: td.constructor})
	}
	return entries, nil
}
