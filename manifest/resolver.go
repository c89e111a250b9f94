package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ResolvedInclude is an include that has been loaded from disk.
type ResolvedInclude struct {
	Name      string    // include name
	Dir       string    // absolute directory
	Namespace string    // namespace its declarations are qualified with
	Manifest  *Manifest // the included manifest
}

// Resolver loads includes transitively.
type Resolver struct {
	manifest *Manifest
	verbose  bool
}

// NewResolver creates a new include resolver.
func NewResolver(m *Manifest, verbose bool) *Resolver {
	return &Resolver{
		manifest: m,
		verbose:  verbose,
	}
}

// Resolve returns all includes in load order (includes before the
// manifests that include them). A directory is loaded once even when
// several manifests include it.
func (r *Resolver) Resolve() ([]ResolvedInclude, error) {
	resolved := make(map[string]bool)
	loading := map[string]bool{r.manifest.Dir: true}
	return r.resolveAll(r.manifest, resolved, loading)
}

func (r *Resolver) resolveAll(m *Manifest, resolved, loading map[string]bool) ([]ResolvedInclude, error) {
	var order []ResolvedInclude

	names := make([]string, 0, len(m.Includes))
	for name := range m.Includes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ri, err := r.resolveOne(m, name, m.Includes[name])
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", name, err)
		}
		if loading[ri.Dir] {
			return nil, fmt.Errorf("include cycle through %s (%s)", name, ri.Dir)
		}
		if resolved[ri.Dir] {
			continue
		}

		loading[ri.Dir] = true
		transitive, err := r.resolveAll(ri.Manifest, resolved, loading)
		delete(loading, ri.Dir)
		if err != nil {
			return nil, err
		}
		order = append(order, transitive...)

		resolved[ri.Dir] = true
		if r.verbose {
			log.Infof("include %s from %s as %s", name, ri.Dir, ri.Namespace)
		}
		order = append(order, *ri)
	}

	return order, nil
}

// resolveNamespace determines the effective namespace for an include:
//  1. Consumer override (inc.Namespace)
//  2. Producer manifest (Project.Namespace)
//  3. PascalCase fallback (ToPascalCase(name))
func resolveNamespace(name string, inc Include, included *Manifest) (string, error) {
	var ns string
	switch {
	case inc.Namespace != "":
		ns = inc.Namespace
	case included != nil && included.Project.Namespace != "":
		ns = included.Project.Namespace
	default:
		ns = ToPascalCase(name)
	}

	if IsReservedNamespace(ns) {
		return "", fmt.Errorf("include %q resolves to reserved namespace %q; add namespace = \"...\" in [includes]", name, ns)
	}
	return ns, nil
}

func (r *Resolver) resolveOne(from *Manifest, name string, inc Include) (*ResolvedInclude, error) {
	if inc.Path == "" {
		return nil, fmt.Errorf("include %q has no path specified", name)
	}
	dir := inc.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(from.Dir, dir)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", inc.Path, err)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("include %q not found at %s: %w", name, dir, err)
	}

	included, err := Load(dir)
	if err != nil {
		return nil, err
	}
	ns, err := resolveNamespace(name, inc, included)
	if err != nil {
		return nil, err
	}
	return &ResolvedInclude{
		Name:      name,
		Dir:       dir,
		Namespace: ns,
		Manifest:  included,
	}, nil
}
