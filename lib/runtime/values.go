// Package runtime implements the objmodel object model: a registry of
// classes and traits composed by single-class inheritance plus trait
// mixins, with cached construction and destruction chains, accessor
// dispatch on instances, and ancestry-aware introspection.
package runtime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType represents the type of a member or instance value
type ValueType int

const (
	TypeNil ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeInstance
	TypeMethod
	TypeArray
	TypeError
)

var valueTypeNames = [...]string{
	TypeNil:      "nil",
	TypeInt:      "int",
	TypeFloat:    "float",
	TypeString:   "string",
	TypeBool:     "bool",
	TypeInstance: "instance",
	TypeMethod:   "method",
	TypeArray:    "array",
	TypeError:    "error",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}
	return "unknown"
}

// MethodFunc is the signature for methods stored as definition members.
type MethodFunc func(self *Instance, args []Value) Value

// Value is a definition field, an instance variable, or a method.
type Value struct {
	Type        ValueType
	IntVal      int64
	FloatVal    float64
	StringVal   string
	InstanceVal *Instance
	MethodVal   MethodFunc
	ArrayVal    *Array
	ErrorMsg    string
}

// NilValue returns a nil value
func NilValue() Value {
	return Value{Type: TypeNil}
}

// IntValue creates an integer value
func IntValue(n int64) Value {
	return Value{Type: TypeInt, IntVal: n}
}

// FloatValue creates a float value
func FloatValue(f float64) Value {
	return Value{Type: TypeFloat, FloatVal: f}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{Type: TypeString, StringVal: s}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	if b {
		return Value{Type: TypeBool, IntVal: 1}
	}
	return Value{Type: TypeBool, IntVal: 0}
}

// InstanceValue creates an instance reference value
func InstanceValue(inst *Instance) Value {
	return Value{Type: TypeInstance, InstanceVal: inst}
}

// MethodValue wraps a function so it can be stored as a member.
func MethodValue(fn MethodFunc) Value {
	return Value{Type: TypeMethod, MethodVal: fn}
}

// ArrayValue creates an array value
func ArrayValue(arr *Array) Value {
	return Value{Type: TypeArray, ArrayVal: arr}
}

// ErrorValue creates an error value
func ErrorValue(msg string) Value {
	return Value{Type: TypeError, ErrorMsg: msg}
}

// ValueOf converts a plain Go value into a Value. Unsupported types become
// string values via fmt.
func ValueOf(x any) Value {
	switch v := x.(type) {
	case nil:
		return NilValue()
	case Value:
		return v
	case int:
		return IntValue(int64(v))
	case int64:
		return IntValue(v)
	case float64:
		return FloatValue(v)
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case *Instance:
		return InstanceValue(v)
	case MethodFunc:
		return MethodValue(v)
	case func(self *Instance, args []Value) Value:
		return MethodValue(v)
	case []any:
		arr := NewArray()
		for _, e := range v {
			arr.Push(ValueOf(e))
		}
		return ArrayValue(arr)
	default:
		log.Warningf("converting unsupported %T to a string value", x)
		return StringValue(fmt.Sprint(v))
	}
}

// IsNil returns true if the value is nil
func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

// IsMethod reports whether the value is callable.
func (v Value) IsMethod() bool {
	return v.Type == TypeMethod && v.MethodVal != nil
}

// IsTruthy returns true for values that are considered "true" in conditionals
func (v Value) IsTruthy() bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.IntVal != 0
	case TypeInt:
		return v.IntVal != 0
	case TypeFloat:
		return v.FloatVal != 0
	case TypeString:
		return v.StringVal != "" && v.StringVal != "false" && v.StringVal != "nil"
	case TypeError:
		return false
	default:
		return true
	}
}

// AsString converts the value to a string representation
func (v Value) AsString() string {
	switch v.Type {
	case TypeNil:
		return ""
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'f', -1, 64)
	case TypeString:
		return v.StringVal
	case TypeBool:
		if v.IntVal != 0 {
			return "true"
		}
		return "false"
	case TypeInstance:
		if v.InstanceVal != nil {
			return v.InstanceVal.ID
		}
		return ""
	case TypeMethod:
		return "<method>"
	case TypeArray:
		if v.ArrayVal != nil {
			return v.ArrayVal.ToJSON()
		}
		return "[]"
	case TypeError:
		return "Error: " + v.ErrorMsg
	default:
		return ""
	}
}

// AsInt converts the value to an integer
func (v Value) AsInt() int64 {
	switch v.Type {
	case TypeInt:
		return v.IntVal
	case TypeFloat:
		return int64(v.FloatVal)
	case TypeBool:
		return v.IntVal
	case TypeString:
		n, _ := strconv.ParseInt(v.StringVal, 10, 64)
		return n
	default:
		return 0
	}
}

// AsFloat converts the value to a float
func (v Value) AsFloat() float64 {
	switch v.Type {
	case TypeFloat:
		return v.FloatVal
	case TypeInt:
		return float64(v.IntVal)
	case TypeBool:
		return float64(v.IntVal)
	case TypeString:
		f, _ := strconv.ParseFloat(v.StringVal, 64)
		return f
	default:
		return 0
	}
}

// ToJSON serializes the value to JSON
func (v Value) ToJSON() string {
	switch v.Type {
	case TypeNil:
		return "null"
	case TypeInt:
		return strconv.FormatInt(v.IntVal, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.FloatVal, 'f', -1, 64)
	case TypeString:
		data, _ := json.Marshal(v.StringVal)
		return string(data)
	case TypeBool:
		if v.IntVal != 0 {
			return "true"
		}
		return "false"
	case TypeInstance:
		if v.InstanceVal != nil {
			data, _ := json.Marshal(v.InstanceVal.ID)
			return fmt.Sprintf(`{"_instance":%s}`, data)
		}
		return "null"
	case TypeMethod:
		return `{"_method":true}`
	case TypeArray:
		if v.ArrayVal != nil {
			return v.ArrayVal.ToJSON()
		}
		return "[]"
	case TypeError:
		data, _ := json.Marshal(v.ErrorMsg)
		return fmt.Sprintf(`{"_error":%s}`, data)
	default:
		return "null"
	}
}

// Array is an ordered list of values
type Array struct {
	Elements []Value
}

// NewArray creates a new empty array
func NewArray() *Array {
	return &Array{Elements: make([]Value, 0)}
}

// Push adds an element to the array
func (a *Array) Push(v Value) {
	a.Elements = append(a.Elements, v)
}

// At returns the element at the given index
func (a *Array) At(idx int) Value {
	if idx < 0 || idx >= len(a.Elements) {
		return NilValue()
	}
	return a.Elements[idx]
}

// Len returns the length of the array
func (a *Array) Len() int {
	return len(a.Elements)
}

// ToJSON serializes the array to JSON
func (a *Array) ToJSON() string {
	if a == nil || len(a.Elements) == 0 {
		return "[]"
	}
	parts := make([]string, len(a.Elements))
	for i, elem := range a.Elements {
		parts[i] = elem.ToJSON()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
