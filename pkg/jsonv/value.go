// Package jsonv reads loosely-typed JSON payloads without committing to a
// schema. Objects are walked in document order, which keeps every lookup that
// depends on key order deterministic for a given payload.
package jsonv

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Value is a read-only view over one JSON node. The zero Value is missing.
type Value struct {
	r gjson.Result
}

// Field is one object member in document order.
type Field struct {
	Key   string
	Value Value
}

// Parse reads a response body. Empty or malformed bodies become an empty
// object so callers never see a parse failure.
func Parse(data []byte) Value {
	if len(strings.TrimSpace(string(data))) == 0 || !gjson.ValidBytes(data) {
		return Value{r: gjson.Parse("{}")}
	}
	return Value{r: gjson.ParseBytes(data)}
}

// ParseString is Parse for string input.
func ParseString(s string) Value {
	return Parse([]byte(s))
}

// Present reports whether the node exists and is not JSON null.
func (v Value) Present() bool {
	return v.r.Exists() && v.r.Type != gjson.Null
}

// IsNull reports an explicit JSON null.
func (v Value) IsNull() bool {
	return v.r.Exists() && v.r.Type == gjson.Null
}

func (v Value) IsObject() bool {
	return v.r.IsObject()
}

func (v Value) IsArray() bool {
	return v.r.IsArray()
}

func (v Value) IsString() bool {
	return v.r.Type == gjson.String
}

func (v Value) IsNumber() bool {
	return v.r.Type == gjson.Number
}

// Get returns an object member or, for arrays, the element at a numeric key.
// Duplicate object keys resolve to the last occurrence.
func (v Value) Get(key string) Value {
	switch {
	case v.r.IsObject():
		var found gjson.Result
		v.r.ForEach(func(k, val gjson.Result) bool {
			if k.String() == key {
				found = val
			}
			return true
		})
		return Value{r: found}
	case v.r.IsArray():
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 {
			return Value{}
		}
		return v.At(i)
	}
	return Value{}
}

// Path walks nested keys with Get.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.r.Exists() {
			return Value{}
		}
	}
	return cur
}

// At returns the i-th array element.
func (v Value) At(i int) Value {
	if !v.r.IsArray() || i < 0 {
		return Value{}
	}
	var found gjson.Result
	n := 0
	v.r.ForEach(func(_, val gjson.Result) bool {
		if n == i {
			found = val
			return false
		}
		n++
		return true
	})
	return Value{r: found}
}

// Items returns array elements; nil for anything that is not an array.
func (v Value) Items() []Value {
	if !v.r.IsArray() {
		return nil
	}
	out := []Value{}
	v.r.ForEach(func(_, val gjson.Result) bool {
		out = append(out, Value{r: val})
		return true
	})
	return out
}

// Len is the element count of an array or the distinct key count of an object.
func (v Value) Len() int {
	switch {
	case v.r.IsArray():
		return len(v.Items())
	case v.r.IsObject():
		return len(v.Fields())
	}
	return 0
}

// Fields returns object members in document order. A repeated key keeps the
// position of its first occurrence and the value of its last.
func (v Value) Fields() []Field {
	if !v.r.IsObject() {
		return nil
	}
	out := []Field{}
	index := map[string]int{}
	v.r.ForEach(func(k, val gjson.Result) bool {
		key := k.String()
		if i, ok := index[key]; ok {
			out[i].Value = Value{r: val}
			return true
		}
		index[key] = len(out)
		out = append(out, Field{Key: key, Value: Value{r: val}})
		return true
	})
	return out
}

// First returns the first member among keys that is present, in the order
// given.
func (v Value) First(keys ...string) Value {
	for _, k := range keys {
		if f := v.Get(k); f.Present() {
			return f
		}
	}
	return Value{}
}

// Pick returns the first present value among dotted paths, in the order
// given. Numeric segments index arrays.
func (v Value) Pick(paths ...string) Value {
	for _, p := range paths {
		if f := v.Path(strings.Split(p, ".")...); f.Present() {
			return f
		}
	}
	return Value{}
}

// Text renders strings as-is and numbers or booleans as their JSON text.
func (v Value) Text() (string, bool) {
	switch v.r.Type {
	case gjson.String:
		return v.r.Str, true
	case gjson.Number:
		return v.r.Raw, true
	case gjson.True, gjson.False:
		return v.r.Raw, true
	}
	return "", false
}

// TextOr is Text with a fallback for objects, arrays, null and missing.
func (v Value) TextOr(fallback string) string {
	if s, ok := v.Text(); ok {
		return s
	}
	return fallback
}

// Number returns JSON numbers and numeric strings as float64.
func (v Value) Number() (float64, bool) {
	switch v.r.Type {
	case gjson.Number:
		return v.r.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.r.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// NumberPtr is Number as a nullable value.
func (v Value) NumberPtr() *float64 {
	if f, ok := v.Number(); ok {
		return &f
	}
	return nil
}

// True reports a literal JSON true.
func (v Value) True() bool {
	return v.r.Type == gjson.True
}

// Truthy follows loose JSON truthiness: non-empty strings, non-zero numbers,
// true, and any object or array.
func (v Value) Truthy() bool {
	switch v.r.Type {
	case gjson.True:
		return true
	case gjson.String:
		return v.r.Str != ""
	case gjson.Number:
		return v.r.Num != 0
	case gjson.JSON:
		return true
	}
	return false
}

// Has reports whether an object carries key at all, null included.
func (v Value) Has(key string) bool {
	if !v.r.IsObject() {
		return false
	}
	return v.Get(key).r.Exists()
}

// Raw is the node's JSON text; empty when missing.
func (v Value) Raw() string {
	return v.r.Raw
}

// MarshalJSON passes the node through unchanged; missing nodes encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.r.Exists() || v.r.Raw == "" {
		return []byte("null"), nil
	}
	return []byte(v.r.Raw), nil
}

// UnmarshalJSON lets Value sit inside decoded request bodies.
func (v *Value) UnmarshalJSON(data []byte) error {
	v.r = gjson.ParseBytes(append([]byte(nil), data...))
	return nil
}
