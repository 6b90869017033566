package jsonquery

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// Marshal returns the compact JSON encoding of d.
//
// Fields are written in sorted key order, so equal documents always encode to
// identical bytes.
func Marshal(d *Document) ([]byte, error) {
	return encode(JSONAPI, d)
}

// MarshalJSON implements [json.Marshaler].
func (d *Document) MarshalJSON() ([]byte, error) {
	return Marshal(d)
}

// ToString returns the compact JSON encoding of d.
func (d *Document) ToString() string {
	buf, err := Marshal(d)
	if err != nil {
		// Encoding into memory has no failure path of its own.
		return ""
	}

	return string(buf)
}

// ToIndentedString returns the JSON encoding of d with nested values indented
// by indent spaces per level. An indent of zero or less is the same as [Document.ToString].
func (d *Document) ToIndentedString(indent int) string {
	if indent <= 0 {
		return d.ToString()
	}

	buf, err := encode(indentAPI(indent), d)
	if err != nil {
		return ""
	}

	return string(buf)
}

// indentAPIs caches one frozen configuration per indent step; freezing builds
// fresh encoder and decoder caches each time.
var indentAPIs sync.Map // map[int]jsoniter.API

// indentAPI returns the configuration for indented output. Only the stream
// layout comes from it: values are written by this package, never by
// jsoniter's reflection encoders.
func indentAPI(indent int) jsoniter.API {
	if api, ok := indentAPIs.Load(indent); ok {
		return api.(jsoniter.API)
	}

	api, _ := indentAPIs.LoadOrStore(indent, jsoniter.Config{IndentionStep: indent, SortMapKeys: true}.Froze())

	return api.(jsoniter.API)
}

func encode(api jsoniter.API, d *Document) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	writeDocument(stream, d)

	if stream.Error != nil {
		return nil, stream.Error
	}

	// The stream buffer goes back to the pool.
	return append([]byte(nil), stream.Buffer()...), nil
}

func writeDocument(stream *jsoniter.Stream, d *Document) {
	if d.Len() == 0 {
		stream.WriteEmptyObject()
		return
	}

	stream.WriteObjectStart()

	for i, key := range d.GetObjectKeys() {
		if i > 0 {
			stream.WriteMore()
		}

		stream.WriteObjectField(key)
		writeValue(stream, d.fields[key])
	}

	stream.WriteObjectEnd()
}

func writeArray(stream *jsoniter.Stream, arr Array) {
	if len(arr) == 0 {
		stream.WriteEmptyArray()
		return
	}

	stream.WriteArrayStart()

	for i, v := range arr {
		if i > 0 {
			stream.WriteMore()
		}

		writeValue(stream, v)
	}

	stream.WriteArrayEnd()
}

// writeValue writes any variant, so heterogeneous arrays encode like any other.
func writeValue(stream *jsoniter.Stream, v Value) {
	switch vt := v.(type) {
	case nil, Null:
		stream.WriteNil()
	case Bool:
		stream.WriteBool(bool(vt))
	case Int:
		stream.WriteInt64(int64(vt))
	case Float:
		writeFloat(stream, float64(vt))
	case String:
		stream.WriteString(string(vt))
	case Array:
		writeArray(stream, vt)
	case *Document:
		if vt == nil {
			stream.WriteNil()
			return
		}

		writeDocument(stream, vt)
	default:
		panic(fmt.Sprintf("jsonquery: unknown value type %T", v))
	}
}

// writeFloat writes f so that it parses back as a Float: integral values keep
// a ".0" suffix. NaN and infinities have no JSON form and are written as null.
func writeFloat(stream *jsoniter.Stream, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		stream.WriteNil()
		return
	}

	var scratch [32]byte

	stream.WriteRaw(string(appendFloat(scratch[:0], f)))
}

// appendFloat uses the same cutoffs as encoding/json: plain decimal notation
// for magnitudes in [1e-6, 1e21), exponent notation outside of it.
func appendFloat(b []byte, f float64) []byte {
	abs := math.Abs(f)
	format := byte('f')

	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	b = strconv.AppendFloat(b, f, format, -1, 64)

	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}

		return b
	}

	for _, c := range b {
		if c == '.' {
			return b
		}
	}

	return append(b, '.', '0')
}
