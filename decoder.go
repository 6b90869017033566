package jsonquery

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// FromString parses text into a new [*Document].
//
// The text must hold exactly one JSON object. On any failure the returned
// document is nil and the error wraps [ErrParsingFailed]; a partially decoded
// document is never returned.
func FromString(text string) (*Document, error) {
	return FromBytes([]byte(text))
}

// FromBytes is the same as [FromString] but reads from a byte slice.
func FromBytes(data []byte) (*Document, error) {
	switch hint := HintType(data); hint {
	case TypeObject:
	case TypeEmpty:
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, ErrEmptyInput)
	default:
		return nil, fmt.Errorf("%w: %w (found %s)", ErrParsingFailed, ErrNotObject, hint)
	}

	iter := JSONAPI.BorrowIterator(data)
	defer JSONAPI.ReturnIterator(iter)

	doc := New()
	readObject(iter, doc)

	if iter.Error != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, iter.Error)
	}

	// Only whitespace may follow; reaching the end sets io.EOF.
	if iter.WhatIsNext() != jsoniter.InvalidValue || !errors.Is(iter.Error, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, ErrTrailingData)
	}

	return doc, nil
}

// UnmarshalJSON implements [json.Unmarshaler]. A JSON null leaves d unchanged,
// as does any error.
func (d *Document) UnmarshalJSON(data []byte) error {
	if HintType(data) == TypeNull {
		return nil
	}

	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}

	d.replace(parsed)

	return nil
}

func readObject(iter *jsoniter.Iterator, doc *Document) {
	iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
		doc.set(key, readValue(it))
		return it.Error == nil
	})
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return String(iter.ReadString())
	case jsoniter.NumberValue:
		return readNumber(iter)
	case jsoniter.BoolValue:
		return Bool(iter.ReadBool())
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null{}
	case jsoniter.ArrayValue:
		arr := Array{}

		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readValue(it))
			return it.Error == nil
		})

		return arr
	case jsoniter.ObjectValue:
		doc := New()
		readObject(iter, doc)

		return doc
	}

	iter.ReportError("readValue", "expected a JSON value")

	return Null{}
}

// readNumber keeps the integer/float distinction of the text: a literal with
// a fraction or exponent is a Float, anything else an Int unless it overflows.
func readNumber(iter *jsoniter.Iterator) Value {
	lit := string(iter.ReadNumber())
	if iter.Error != nil {
		return Null{}
	}

	if !validNumber(lit) {
		iter.ReportError("readNumber", "invalid number "+strconv.Quote(lit))
		return Null{}
	}

	if !strings.ContainsAny(lit, ".eE") {
		i, err := strconv.ParseInt(lit, 10, 64)
		if err == nil {
			return Int(i)
		}

		if !errors.Is(err, strconv.ErrRange) {
			iter.ReportError("readNumber", "invalid number "+strconv.Quote(lit))
			return Null{}
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(f, 0) {
		iter.ReportError("readNumber", "invalid number "+strconv.Quote(lit))
		return Null{}
	}

	return Float(f)
}

// validNumber reports whether lit matches the JSON number grammar:
// -?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?
func validNumber(lit string) bool {
	i, n := 0, len(lit)

	if i < n && lit[i] == '-' {
		i++
	}

	switch {
	case i < n && lit[i] == '0':
		i++
	case i < n && lit[i] >= '1' && lit[i] <= '9':
		i = skipDigits(lit, i)
	default:
		return false
	}

	if i < n && lit[i] == '.' {
		start := i + 1
		if i = skipDigits(lit, start); i == start {
			return false
		}
	}

	if i < n && (lit[i] == 'e' || lit[i] == 'E') {
		i++

		if i < n && (lit[i] == '+' || lit[i] == '-') {
			i++
		}

		start := i
		if i = skipDigits(lit, start); i == start {
			return false
		}
	}

	return i == n
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	return i
}
