package manifest

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/objmodel/lib/runtime"
)

// Tracer receives construct/destruct events from traced declarations.
type Tracer func(event string)

// ErrorHandler returns the runtime error handler named by on-error.
func (m *Manifest) ErrorHandler() (runtime.ErrorHandler, error) {
	switch m.Runtime.OnError {
	case "", "fatal":
		return runtime.FatalHandler, nil
	case "log":
		return runtime.LogHandler, nil
	case "panic":
		return runtime.PanicHandler, nil
	case "hook":
		return runtime.HookHandler(m.Runtime.ErrorHook), nil
	default:
		return nil, fmt.Errorf("unknown on-error mode %q", m.Runtime.OnError)
	}
}

// NewRegistry builds an empty registry configured by the manifest.
func (m *Manifest) NewRegistry() (*runtime.Registry, error) {
	handler, err := m.ErrorHandler()
	if err != nil {
		return nil, err
	}
	return runtime.NewRegistry(&runtime.Config{
		Reload:       m.Reload(),
		ErrorHandler: handler,
	}), nil
}

// ConfigureLogging applies the [log] table to commonlog.
func (m *Manifest) ConfigureLogging() {
	var path *string
	if m.Log.File != "" {
		path = &m.Log.File
	}
	commonlog.Configure(m.Log.Verbosity, path)
}

// Apply declares the manifest's includes, then its own traits, then its
// classes, in file order, on reg. A reference must be declared before it
// is used.
func (m *Manifest) Apply(reg *runtime.Registry, trace Tracer) error {
	includes, err := m.resolver().Resolve()
	if err != nil {
		return err
	}
	for _, inc := range includes {
		if err := inc.Manifest.applyOwn(reg, inc.Namespace, trace); err != nil {
			return fmt.Errorf("include %s: %w", inc.Name, err)
		}
	}
	return m.applyOwn(reg, m.Project.Namespace, trace)
}

// resolver reports each resolved include when [log] verbosity is set.
func (m *Manifest) resolver() *Resolver {
	return NewResolver(m, m.Log.Verbosity > 0)
}

func (m *Manifest) applyOwn(reg *runtime.Registry, ns string, trace Tracer) error {
	for _, d := range m.Traits {
		if d.Super != "" {
			return fmt.Errorf("trait %s: traits have no super; use extends", d.Name)
		}
		name := Qualify(ns, d.Name)
		if _, err := reg.DeclareTrait(name, d.options(ns, name, trace)); err != nil {
			return err
		}
	}
	for _, d := range m.Classes {
		name := Qualify(ns, d.Name)
		var super runtime.Ref
		if d.Super != "" {
			super = runtime.Name(Qualify(ns, d.Super))
		}
		if _, err := reg.DeclareClass(name, super, d.options(ns, name, trace)); err != nil {
			return err
		}
	}
	log.Debugf("applied %d traits and %d classes (namespace %q)", len(m.Traits), len(m.Classes), ns)
	return nil
}

func (d Decl) options(ns, name string, trace Tracer) *runtime.Options {
	opts := &runtime.Options{Accessors: d.Accessors}
	for _, e := range d.Extends {
		opts.Extends = append(opts.Extends, runtime.Name(Qualify(ns, e)))
	}
	if len(d.Fields) > 0 {
		opts.Fields = make(map[string]runtime.Value, len(d.Fields))
		for k, v := range d.Fields {
			opts.Fields[k] = runtime.ValueOf(v)
		}
	}
	if d.Trace {
		opts.Constructor = func(self *runtime.Instance, args []runtime.Value) {
			log.Infof("construct %s for %s", name, self.ID)
			if trace != nil {
				trace("construct " + name)
			}
		}
		opts.Destructor = func(self *runtime.Instance) {
			log.Infof("destruct %s for %s", name, self.ID)
			if trace != nil {
				trace("destruct " + name)
			}
		}
	}
	return opts
}
