package runtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Instance is an object created by Registry.Instantiate. Attribute access
// goes through its class definition; own data lives in Vars.
type Instance struct {
	ID        string
	ClassName string // Declaring class; empty for untagged values
	Vars      map[string]Value
	CreatedAt time.Time

	registry *Registry
	deleted  bool
}

func newInstance(r *Registry, className string) *Instance {
	return &Instance{
		ID:        GenerateID(className),
		ClassName: className,
		Vars:      make(map[string]Value),
		CreatedAt: time.Now(),
		registry:  r,
	}
}

// Class returns the definition of the instance's class.
func (inst *Instance) Class() *Definition {
	if inst == nil || inst.registry == nil {
		return nil
	}
	return inst.registry.defs[inst.ClassName]
}

// Deleted reports whether the instance was deleted.
func (inst *Instance) Deleted() bool {
	return inst != nil && inst.deleted
}

// Lookup reads an attribute: a registered getter first, then own data,
// then the class definition's member.
func (inst *Instance) Lookup(key string) (Value, bool) {
	d := inst.Class()
	if d != nil && d.accessors {
		if g, ok := d.getters[key]; ok {
			return g(inst), true
		}
	}
	if v, ok := inst.Vars[key]; ok {
		return v, true
	}
	if d != nil {
		if v, ok := d.fields[key]; ok {
			return v, true
		}
	}
	return NilValue(), false
}

// Get reads an attribute, returning nil when absent.
func (inst *Instance) Get(key string) Value {
	v, _ := inst.Lookup(key)
	return v
}

// Set writes an attribute through a registered setter, or stores it on
// the instance.
func (inst *Instance) Set(key string, v Value) {
	if d := inst.Class(); d != nil && d.accessors {
		if s, ok := d.setters[key]; ok {
			s(inst, v)
			return
		}
	}
	inst.RawSet(key, v)
}

// RawGet reads own data, bypassing getters and class members.
func (inst *Instance) RawGet(key string) Value {
	if v, ok := inst.Vars[key]; ok {
		return v
	}
	return NilValue()
}

// RawSet stores own data, bypassing setters. Setters use it to store the
// value they were given.
func (inst *Instance) RawSet(key string, v Value) {
	if inst.Vars == nil {
		inst.Vars = make(map[string]Value)
	}
	inst.Vars[key] = v
}

// String returns a printable representation
func (inst *Instance) String() string {
	if inst.deleted {
		return fmt.Sprintf("<%s %s (deleted)>", inst.ClassName, inst.ID)
	}
	return fmt.Sprintf("<%s %s>", inst.ClassName, inst.ID)
}

// ToJSON serializes the instance's own data to JSON
func (inst *Instance) ToJSON() string {
	cls, _ := json.Marshal(inst.ClassName)
	id, _ := json.Marshal(inst.ID)
	result := fmt.Sprintf(`{"class":%s,"id":%s,"created_at":"%s","deleted":%t`,
		cls, id, inst.CreatedAt.Format(time.RFC3339), inst.deleted)
	for _, name := range sortedKeys(inst.Vars) {
		key, _ := json.Marshal(name)
		result += fmt.Sprintf(`,%s:%s`, key, inst.Vars[name].ToJSON())
	}
	return result + "}"
}
