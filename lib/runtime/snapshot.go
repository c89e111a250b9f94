package runtime

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot is a read-only description of a registry for tooling. It is an
// export format; registries are never rebuilt from it.
type Snapshot struct {
	Definitions []DefinitionSnapshot `cbor:"definitions" json:"definitions"`
}

// DefinitionSnapshot describes one declaration.
type DefinitionSnapshot struct {
	Name           string   `cbor:"name" json:"name"`
	Kind           string   `cbor:"kind" json:"kind"`
	Supers         []string `cbor:"supers,omitempty" json:"supers,omitempty"`
	Subclasses     []string `cbor:"subclasses,omitempty" json:"subclasses,omitempty"`
	Fields         []string `cbor:"fields,omitempty" json:"fields,omitempty"`
	Inherited      []string `cbor:"inherited,omitempty" json:"inherited,omitempty"`
	Accessors      bool     `cbor:"accessors" json:"accessors"`
	Getters        []string `cbor:"getters,omitempty" json:"getters,omitempty"`
	Setters        []string `cbor:"setters,omitempty" json:"setters,omitempty"`
	Constructor    bool     `cbor:"constructor" json:"constructor"`
	TakesArguments bool     `cbor:"takes_arguments" json:"takes_arguments"`
	Destructor     bool     `cbor:"destructor" json:"destructor"`
	Construction   []string `cbor:"construction,omitempty" json:"construction,omitempty"`
	Destruction    []string `cbor:"destruction,omitempty" json:"destruction,omitempty"`
	Error          string   `cbor:"error,omitempty" json:"error,omitempty"`
}

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("runtime: failed to create CBOR enc mode: %v", err))
	}
	snapshotEncMode = em
}

// Describe snapshots every declaration in declaration order. Chains are
// built as a side effect; a chain that cannot be built is reported in the
// entry's Error field instead of through the error handler.
func (r *Registry) Describe() *Snapshot {
	s := &Snapshot{Definitions: make([]DefinitionSnapshot, 0, len(r.order))}
	handler := r.handler
	r.handler = nil
	defer func() { r.handler = handler }()

	for _, name := range r.order {
		d := r.defs[name]
		ds := DefinitionSnapshot{
			Name:           d.name,
			Kind:           d.kind.String(),
			Supers:         d.Supers(),
			Subclasses:     d.Subclasses(),
			Fields:         d.Keys(),
			Accessors:      d.accessors,
			Getters:        sortedKeys(d.getters),
			Setters:        sortedKeys(d.setters),
			Constructor:    d.constructor != nil,
			TakesArguments: d.takesArguments,
			Destructor:     d.destructor != nil,
		}
		for _, k := range ds.Fields {
			if d.IsInherited(k) {
				ds.Inherited = append(ds.Inherited, k)
			}
		}
		if d.kind == KindClass {
			if chain, err := r.construction(d); err != nil {
				ds.Error = err.Error()
			} else {
				ds.Construction = chain.owners()
			}
		}
		ds.Destruction = r.destruction(d).owners()
		s.Definitions = append(s.Definitions, ds)
	}
	return s
}

// Find returns the entry for name.
func (s *Snapshot) Find(name string) (DefinitionSnapshot, bool) {
	for _, d := range s.Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return DefinitionSnapshot{}, false
}

// MarshalSnapshot encodes a snapshot as canonical CBOR.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return snapshotEncMode.Marshal(s)
}

// UnmarshalSnapshot decodes a CBOR snapshot.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("runtime: unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// MarshalSnapshotJSON encodes a snapshot as indented JSON.
func MarshalSnapshotJSON(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
