// Package manifest handles objmodel.toml files: runtime configuration plus
// a declarative class graph that can be applied to a registry.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/chazu/objmodel/lib/platform"
)

// FileName is the manifest file looked up in a directory.
const FileName = "objmodel.toml"

// Manifest represents an objmodel.toml file.
type Manifest struct {
	Project  Project            `toml:"project"`
	Runtime  RuntimeConfig      `toml:"runtime"`
	Log      LogConfig          `toml:"log"`
	Includes map[string]Include `toml:"includes"`
	Traits   []Decl             `toml:"trait"`
	Classes  []Decl             `toml:"class"`

	// Dir is the directory containing the manifest (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name      string `toml:"name"`
	Namespace string `toml:"namespace"`
}

// RuntimeConfig configures the registry built from the manifest.
type RuntimeConfig struct {
	Reload    *bool  `toml:"reload"`
	OnError   string `toml:"on-error"`
	ErrorHook string `toml:"error-hook"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Include pulls in the declarations of another manifest directory.
type Include struct {
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// Decl declares one class or trait.
type Decl struct {
	Name      string         `toml:"name"`
	Super     string         `toml:"super"`
	Extends   []string       `toml:"extends"`
	Accessors bool           `toml:"accessors"`
	Trace     bool           `toml:"trace"`
	Fields    map[string]any `toml:"fields"`
}

// Load parses the objmodel.toml file in dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	content, err := platform.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse([]byte(content), path)
	if err != nil {
		return nil, err
	}
	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// LoadFile parses a manifest at an explicit path. Includes resolve relative
// to the file's directory.
func LoadFile(path string) (*Manifest, error) {
	content, err := platform.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse([]byte(content), path)
	if err != nil {
		return nil, err
	}
	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return m, nil
}

// Parse validates and decodes manifest content. name is used in errors.
func Parse(data []byte, name string) (*Manifest, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", name, err)
	}
	if m.Runtime.OnError == "" {
		m.Runtime.OnError = "fatal"
	}
	if m.Runtime.OnError == "hook" && m.Runtime.ErrorHook == "" {
		return nil, fmt.Errorf("invalid %s: on-error = \"hook\" requires error-hook", name)
	}
	if m.Project.Namespace == "" && m.Project.Name != "" {
		m.Project.Namespace = ToPascalCase(m.Project.Name)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find an objmodel.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Reload reports whether redeclaration is idempotent. Defaults to true.
func (m *Manifest) Reload() bool {
	return m.Runtime.Reload == nil || *m.Runtime.Reload
}
