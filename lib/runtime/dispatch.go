package runtime

import "fmt"

// Send invokes the method member selector on inst. The member is resolved
// like any attribute, so getters, own data and inherited members all
// participate.
func (r *Registry) Send(inst *Instance, selector string, args ...Value) (Value, error) {
	if inst == nil || inst.ClassName == "" {
		return NilValue(), fmt.Errorf("%w: send %s to untagged value", ErrUnknownClass, selector)
	}
	member, ok := inst.Lookup(selector)
	if !ok {
		return NilValue(), fmt.Errorf("%w: %s does not understand %s", ErrNotAMethod, inst.ClassName, selector)
	}
	if !member.IsMethod() {
		return NilValue(), fmt.Errorf("%w: %s.%s is a %s", ErrNotAMethod, inst.ClassName, selector, member.Type)
	}
	return member.MethodVal(inst, args), nil
}

// RespondsTo reports whether inst has a method member named selector.
func (r *Registry) RespondsTo(inst *Instance, selector string) bool {
	if inst == nil {
		return false
	}
	member, ok := inst.Lookup(selector)
	return ok && member.IsMethod()
}

// Send invokes a method member on the instance through its registry.
func (inst *Instance) Send(selector string, args ...Value) (Value, error) {
	if inst == nil || inst.registry == nil {
		return NilValue(), fmt.Errorf("%w: send %s to untagged value", ErrUnknownClass, selector)
	}
	return inst.registry.Send(inst, selector, args...)
}
