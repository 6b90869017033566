package jsonquery

// Kind identifies which variant a [Value] holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// Value is a single JSON value.
//
// The set of implementations is closed: [Null], [Bool], [Int], [Float],
// [String], [Array] and [*Document]. Use a type switch to inspect one.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null value.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Int is a JSON number written without a fraction or exponent.
type Int int64

// Float is a JSON number with a fraction or exponent.
type Float float64

// String is a JSON string.
type String string

// Array is an ordered JSON array. Elements may be of mixed kinds; only the
// typed array getters on [Document] require them to match.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Array) isValue()  {}

// cloneValue returns a copy of v that shares no containers with it.
// A nil Value (or nil *Document) becomes Null.
func cloneValue(v Value) Value {
	switch vt := v.(type) {
	case nil:
		return Null{}
	case *Document:
		if vt == nil {
			return Null{}
		}

		return vt.Clone()
	case Array:
		out := make(Array, len(vt))
		for i, e := range vt {
			out[i] = cloneValue(e)
		}

		return out
	}

	return v
}

// equalValue reports whether a and b hold the same kind and the same data.
func equalValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if a.Kind() != b.Kind() {
		return false
	}

	switch at := a.(type) {
	case *Document:
		return at.Equal(b.(*Document))
	case Array:
		bt := b.(Array)
		if len(at) != len(bt) {
			return false
		}

		for i := range at {
			if !equalValue(at[i], bt[i]) {
				return false
			}
		}

		return true
	}

	return a == b
}
