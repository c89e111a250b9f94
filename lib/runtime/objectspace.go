package runtime

import (
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Config holds registry configuration
type Config struct {
	// Reload makes redeclaring a known name return the existing definition
	// instead of failing with ErrDuplicateName.
	Reload bool
	// ErrorHandler receives every raised error. Nil means FatalHandler.
	ErrorHandler ErrorHandler
}

// DefaultConfig returns a configuration with default values.
// OBJMODEL_STRICT_NAMES disables reload mode.
func DefaultConfig() *Config {
	return &Config{
		Reload:       os.Getenv("OBJMODEL_STRICT_NAMES") == "",
		ErrorHandler: FatalHandler,
	}
}

// Options configures a declaration.
type Options struct {
	// Accessors enables getter/setter dispatch on the definition.
	Accessors bool
	// Extends lists names mixed in after the primary super, in order.
	Extends []Ref
	// SuperInit wraps construction of the class-kind super.
	SuperInit SuperInit

	Constructor    Constructor
	TakesArguments bool
	Destructor     Destructor
	Fields         map[string]Value
	Getters        map[string]Getter
	Setters        map[string]Setter
}

// Registry holds every declared class and trait, indexed by name.
type Registry struct {
	defs    map[string]*Definition
	order   []string
	handler ErrorHandler
	reload  bool
}

// NewRegistry creates an empty registry. A nil cfg uses DefaultConfig.
func NewRegistry(cfg *Config) *Registry {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	r := &Registry{
		defs:    make(map[string]*Definition),
		handler: cfg.ErrorHandler,
		reload:  cfg.Reload,
	}
	if r.handler == nil {
		r.handler = FatalHandler
	}
	return r
}

// SetErrorHandler replaces the error sink. Nil restores FatalHandler.
func (r *Registry) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = FatalHandler
	}
	r.handler = h
}

// DeclareClass declares a class with an optional class-kind super.
func (r *Registry) DeclareClass(name string, super Ref, opts *Options) (*Definition, error) {
	return r.declare(name, KindClass, refName(super), opts)
}

// DeclareTrait declares a trait. Traits have no primary super; use
// Options.Extends to compose other traits.
func (r *Registry) DeclareTrait(name string, opts *Options) (*Definition, error) {
	return r.declare(name, KindTrait, "", opts)
}

func (r *Registry) declare(name string, kind Kind, super string, opts *Options) (*Definition, error) {
	if opts == nil {
		opts = &Options{}
	}
	if name == "" {
		return nil, r.raise(ErrUnknownClass, "empty name")
	}
	if existing, ok := r.defs[name]; ok {
		if r.reload && existing.kind == kind {
			log.Debugf("redeclared %s %s", kind, name)
			return existing, nil
		}
		return nil, r.raise(ErrDuplicateName, "%s already declared as %s", name, existing.kind)
	}

	if super != "" {
		if super == name {
			return nil, r.raise(ErrSelfInheritance, "%s", name)
		}
		sd, ok := r.defs[super]
		if !ok {
			return nil, r.raise(ErrUnknownSuper, "%s extends %s", name, super)
		}
		if sd.kind == KindTrait {
			return nil, r.raise(ErrSuperIsTrait, "%s extends trait %s", name, super)
		}
	}
	if kind == KindTrait && opts.Constructor != nil && opts.TakesArguments {
		return nil, r.raise(ErrTraitConstructorHasParams, "trait %s", name)
	}

	// Validate the whole extension list against the prospective supers so
	// a failed declaration registers nothing.
	sources := make([]string, 0, len(opts.Extends)+1)
	if super != "" {
		sources = append(sources, super)
	}
	for _, ref := range opts.Extends {
		sources = append(sources, refName(ref))
	}
	view := extendView{name: name, kind: kind, superInit: opts.SuperInit != nil}
	for _, src := range sources {
		if err := r.checkExtend(view, src); err != nil {
			return nil, err
		}
		view.supers = append(view.supers, src)
	}

	d := newDefinition(r, name, kind)
	for k, v := range opts.Fields {
		d.fields[k] = v
	}
	if opts.Accessors || len(opts.Getters) > 0 || len(opts.Setters) > 0 {
		d.EnableAccessors()
		for k, g := range opts.Getters {
			d.getters[k] = g
		}
		for k, s := range opts.Setters {
			d.setters[k] = s
		}
	}
	d.constructor = opts.Constructor
	d.takesArguments = opts.Constructor != nil && opts.TakesArguments
	d.destructor = opts.Destructor
	d.superInit = opts.SuperInit

	r.defs[name] = d
	r.order = append(r.order, name)
	for _, src := range sources {
		r.mixin(d, r.defs[src])
	}
	log.Debugf("declared %s %s supers=%v", kind, name, d.supers)
	return d, nil
}

// Lookup returns the definition declared under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns declared names in declaration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of declarations.
func (r *Registry) Len() int {
	return len(r.defs)
}

// invalidate drops cached chains for name and every transitive subclass.
func (r *Registry) invalidate(name string) {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		d, ok := r.defs[n]
		if !ok {
			return
		}
		d.construction = nil
		d.destruction = nil
		for _, sub := range d.subclasses {
			walk(sub)
		}
	}
	walk(name)
}

// descendants returns every transitive subclass of name, parents before
// children.
func (r *Registry) descendants(name string) []string {
	seen := map[string]bool{name: true}
	var post []string
	var walk func(string)
	walk = func(n string) {
		for _, sub := range r.defs[n].subclasses {
			if seen[sub] {
				continue
			}
			seen[sub] = true
			walk(sub)
			post = append(post, sub)
		}
	}
	walk(name)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// RefreshInheritance re-copies members of name into all known
// subclasses, transitively, without running any constructor. Existing
// instances observe the new members through their class.
func (r *Registry) RefreshInheritance(name string) error {
	if _, ok := r.defs[name]; !ok {
		return r.raise(ErrUnknownClass, "%s", name)
	}
	subs := r.descendants(name)
	total := 0
	for _, sub := range subs {
		d := r.defs[sub]
		for _, s := range d.supers {
			total += d.copyMembers(r.defs[s])
		}
	}
	log.Infof("refreshed %s into %d subclasses (%d members)", name, len(subs), total)
	return nil
}

// GenerateID creates a new unique instance ID for the given class name
func GenerateID(className string) string {
	idPrefix := strings.ToLower(strings.ReplaceAll(className, "::", "_"))
	return idPrefix + "_" + uuid.New().String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
