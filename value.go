package mockcache

import (
	"strconv"
	"strings"
)

type valueKind int

const (
	kindText valueKind = iota
	kindInteger
	kindBytes
)

// Value is the single representation for stored cache content. A value is
// text, an integer, or opaque bytes. Coercion between the three is explicit:
// String returns the textual form every verb concatenates on, and Int64
// returns the numeric form Increment/Decrement operate on.
type Value struct {
	kind valueKind
	text string
	num  int64
	raw  []byte
}

// Text builds a textual value.
func Text(s string) Value {
	return Value{kind: kindText, text: s}
}

// Integer builds a numeric value.
func Integer(n int64) Value {
	return Value{kind: kindInteger, num: n}
}

// Bytes builds an opaque byte value. The slice is cloned so later caller
// mutation cannot reach into the store.
func Bytes(b []byte) Value {
	clone := make([]byte, len(b))
	copy(clone, b)
	return Value{kind: kindBytes, raw: clone}
}

// String returns the textual form: text as-is, integers in base 10, bytes
// reinterpreted as a string.
func (v Value) String() string {
	switch v.kind {
	case kindInteger:
		return strconv.FormatInt(v.num, 10)
	case kindBytes:
		return string(v.raw)
	default:
		return v.text
	}
}

// Int64 returns the numeric form. Text and byte values are parsed as base-10
// integers; surrounding whitespace is tolerated.
func (v Value) Int64() (int64, error) {
	if v.kind == kindInteger {
		return v.num, nil
	}
	return strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
}

// Bytes returns the byte form. The returned slice is a clone.
func (v Value) Bytes() []byte {
	s := v.String()
	clone := make([]byte, len(s))
	copy(clone, s)
	return clone
}

// dump renders the value for Client.String: text and bytes quoted,
// integers bare, so the two are distinguishable in diagnostics.
func (v Value) dump() string {
	if v.kind == kindInteger {
		return strconv.FormatInt(v.num, 10)
	}
	return strconv.Quote(v.String())
}
