package jsonquery

import (
	"fmt"
	"slices"
)

// Document is a JSON object: a set of uniquely named fields.
//
// Setters return the receiver so calls can be chained. Containers passed to a
// setter are deep copied, so later changes to the argument are never visible
// through the document (and the reverse).
//
// A Document is NOT goroutine-safe.
type Document struct {
	fields map[string]Value
}

// New returns an empty [*Document].
func New() *Document {
	return &Document{fields: make(map[string]Value)}
}

func (*Document) Kind() Kind { return KindObject }
func (*Document) isValue()   {}

func (d *Document) set(key string, v Value) *Document {
	if d.fields == nil {
		d.fields = make(map[string]Value)
	}

	d.fields[key] = v

	return d
}

// Set stores a deep copy of v under key. A nil v stores [Null].
func (d *Document) Set(key string, v Value) *Document {
	return d.set(key, cloneValue(v))
}

// SetString stores a string under key.
func (d *Document) SetString(key, value string) *Document {
	return d.set(key, String(value))
}

// SetBoolean stores a boolean under key.
func (d *Document) SetBoolean(key string, value bool) *Document {
	return d.set(key, Bool(value))
}

// SetFloat stores a float under key.
func (d *Document) SetFloat(key string, value float64) *Document {
	return d.set(key, Float(value))
}

// SetInt stores an integer under key.
func (d *Document) SetInt(key string, value int64) *Document {
	return d.set(key, Int(value))
}

// SetNull stores null under key.
func (d *Document) SetNull(key string) *Document {
	return d.set(key, Null{})
}

// SetObject stores a deep copy of obj under key. A nil obj stores null.
func (d *Document) SetObject(key string, obj *Document) *Document {
	return d.set(key, cloneValue(obj))
}

// SetStringArray stores data as an array of strings under key.
func (d *Document) SetStringArray(key string, data []string) *Document {
	return d.set(key, arrayOf(data, func(s string) Value { return String(s) }))
}

// SetBoolArray stores data as an array of booleans under key.
func (d *Document) SetBoolArray(key string, data []bool) *Document {
	return d.set(key, arrayOf(data, func(b bool) Value { return Bool(b) }))
}

// SetFloatArray stores data as an array of floats under key.
func (d *Document) SetFloatArray(key string, data []float64) *Document {
	return d.set(key, arrayOf(data, func(f float64) Value { return Float(f) }))
}

// SetIntArray stores data as an array of integers under key.
func (d *Document) SetIntArray(key string, data []int64) *Document {
	return d.set(key, arrayOf(data, func(i int64) Value { return Int(i) }))
}

// SetObjectArray stores deep copies of data under key. Nil entries become null.
func (d *Document) SetObjectArray(key string, data []*Document) *Document {
	return d.set(key, arrayOf(data, func(o *Document) Value { return cloneValue(o) }))
}

// SetNullArray stores an array of length nulls under key.
//
// A negative length returns an error wrapping [ErrInvalidArgument] and leaves
// the document unchanged.
func (d *Document) SetNullArray(key string, length int) (*Document, error) {
	if length < 0 {
		return d, fmt.Errorf("%w: null array length %d for field %q", ErrInvalidArgument, length, key)
	}

	arr := make(Array, length)
	for i := range arr {
		arr[i] = Null{}
	}

	return d.set(key, arr), nil
}

func arrayOf[T any](data []T, conv func(T) Value) Array {
	arr := make(Array, len(data))
	for i, v := range data {
		arr[i] = conv(v)
	}

	return arr
}

// Get returns a deep copy of the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	v, ok := d.fields[key]
	if !ok {
		return nil, false
	}

	return cloneValue(v), true
}

// GetString returns the string stored under key.
// It returns "" and false if the field is missing or not a string.
func (d *Document) GetString(key string) (string, bool) {
	v, ok := d.fields[key].(String)
	return string(v), ok
}

// GetBool returns the boolean stored under key.
// It returns false and false if the field is missing or not a boolean.
func (d *Document) GetBool(key string) (bool, bool) {
	v, ok := d.fields[key].(Bool)
	return bool(v), ok
}

// GetInt returns the integer stored under key.
// It returns 0 and false if the field is missing or not an integer. A float
// field is never narrowed, even when it has no fractional part.
func (d *Document) GetInt(key string) (int64, bool) {
	v, ok := d.fields[key].(Int)
	return int64(v), ok
}

// GetFloat returns the number stored under key.
// Integer fields are widened. It returns 0 and false if the field is missing
// or not a number.
func (d *Document) GetFloat(key string) (float64, bool) {
	return asFloat(d.fields[key])
}

func asFloat(v Value) (float64, bool) {
	switch vt := v.(type) {
	case Float:
		return float64(vt), true
	case Int:
		return float64(vt), true
	}

	return 0, false
}

// GetIsNull reports whether the field under key is null, and whether it exists.
func (d *Document) GetIsNull(key string) (isNull, exists bool) {
	v, exists := d.fields[key]
	if !exists {
		return false, false
	}

	_, isNull = v.(Null)

	return isNull, true
}

// GetObject returns a deep copy of the object stored under key.
// It returns nil and false if the field is missing or not an object.
func (d *Document) GetObject(key string) (*Document, bool) {
	v, ok := d.fields[key].(*Document)
	if !ok || v == nil {
		return nil, false
	}

	return v.Clone(), true
}

// GetStringArray returns the strings stored under key.
// It returns nil and false if the field is missing, not an array, or holds
// any element that is not a string.
func (d *Document) GetStringArray(key string) ([]string, bool) {
	return typedArray(d.fields[key], func(v Value) (string, bool) {
		s, ok := v.(String)
		return string(s), ok
	})
}

// GetBoolArray returns the booleans stored under key.
// It returns nil and false if the field is missing, not an array, or holds
// any element that is not a boolean.
func (d *Document) GetBoolArray(key string) ([]bool, bool) {
	return typedArray(d.fields[key], func(v Value) (bool, bool) {
		b, ok := v.(Bool)
		return bool(b), ok
	})
}

// GetIntArray returns the integers stored under key.
// It returns nil and false if the field is missing, not an array, or holds
// any element that is not an integer.
func (d *Document) GetIntArray(key string) ([]int64, bool) {
	return typedArray(d.fields[key], func(v Value) (int64, bool) {
		i, ok := v.(Int)
		return int64(i), ok
	})
}

// GetFloatArray returns the numbers stored under key, widening integers.
// It returns nil and false if the field is missing, not an array, or holds
// any element that is not a number.
func (d *Document) GetFloatArray(key string) ([]float64, bool) {
	return typedArray(d.fields[key], asFloat)
}

// GetObjectArray returns deep copies of the objects stored under key.
// It returns nil and false if the field is missing, not an array, or holds
// any element that is not an object.
func (d *Document) GetObjectArray(key string) ([]*Document, bool) {
	return typedArray(d.fields[key], func(v Value) (*Document, bool) {
		o, ok := v.(*Document)
		if !ok || o == nil {
			return nil, false
		}

		return o.Clone(), true
	})
}

func typedArray[T any](v Value, conv func(Value) (T, bool)) ([]T, bool) {
	arr, ok := v.(Array)
	if !ok {
		return nil, false
	}

	out := make([]T, len(arr))

	for i, e := range arr {
		if out[i], ok = conv(e); !ok {
			return nil, false
		}
	}

	return out, true
}

// GetObjectKeys returns the field names of the document in sorted order.
func (d *Document) GetObjectKeys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// HasField reports whether a field named key exists, whatever its kind.
func (d *Document) HasField(key string) bool {
	_, ok := d.fields[key]
	return ok
}

// RemoveField deletes the field named key, if present.
func (d *Document) RemoveField(key string) *Document {
	delete(d.fields, key)
	return d
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}

	return len(d.fields)
}

// Reset removes every field.
func (d *Document) Reset() {
	clear(d.fields)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{fields: make(map[string]Value, len(d.fields))}
	for k, v := range d.fields {
		out.fields[k] = cloneValue(v)
	}

	return out
}

// Equal reports whether d and o hold the same fields with equal values.
// Key order is irrelevant; an [Int] never equals a [Float].
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}

	if len(d.fields) != len(o.fields) {
		return false
	}

	for k, v := range d.fields {
		ov, ok := o.fields[k]
		if !ok || !equalValue(v, ov) {
			return false
		}
	}

	return true
}

// replace swaps the contents of d for those of src. src must not be used afterwards.
func (d *Document) replace(src *Document) {
	d.Reset()

	if d.fields == nil {
		d.fields = make(map[string]Value, len(src.fields))
	}

	for k, v := range src.fields {
		d.fields[k] = v
	}
}
