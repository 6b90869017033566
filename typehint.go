package jsonquery

import (
	"bytes"
)

// TypeHint is the kind of top-level value some text appears to hold, judged
// by its first non-whitespace byte. [FromBytes] uses it to turn blank input
// and non-object roots into [ErrEmptyInput] and [ErrNotObject] errors that
// name what was found, and [Document.UnmarshalJSON] to spot a JSON null.
type TypeHint int

const (
	TypeUnknown TypeHint = iota // No JSON value starts with this byte.
	TypeArray                   // '['
	TypeObject                  // '{', the only root a Document accepts.
	TypeBool                    // 't' or 'f'
	TypeNumber                  // '-' or a digit
	TypeString                  // '"'
	TypeNull                    // 'n'
	TypeEmpty                   // Nothing but whitespace.
)

var hintNames = [...]string{
	TypeUnknown: "unknown",
	TypeArray:   "array",
	TypeObject:  "object",
	TypeBool:    "bool",
	TypeNumber:  "number",
	TypeString:  "string",
	TypeNull:    "null",
	TypeEmpty:   "empty",
}

// String returns the name used in parse error messages.
func (t TypeHint) String() string {
	if t < 0 || int(t) >= len(hintNames) {
		return hintNames[TypeUnknown]
	}

	return hintNames[t]
}

// HintType classifies data by its first non-whitespace byte. A [TypeObject]
// result says nothing about whether the rest of data is well formed.
func HintType(data []byte) TypeHint {
	data = bytes.TrimSpace(data)

	if len(data) == 0 {
		return TypeEmpty
	}

	switch data[0] {
	case '[':
		return TypeArray
	case '{':
		return TypeObject
	case 't', 'f':
		return TypeBool
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return TypeNumber
	case '"':
		return TypeString
	case 'n':
		return TypeNull
	}

	return TypeUnknown
}
