// Package normalize turns loosely-shaped booking API payloads into canonical
// values. Nothing here returns an error: a shape that matches no strategy
// yields an empty result.
package normalize

import "staybook/pkg/jsonv"

// Strategy extracts a list from a payload. ok reports that the strategy
// recognised the shape, even when the list it found is empty.
type Strategy func(v jsonv.Value) (items []jsonv.Value, ok bool)

// Chain tries strategies in order; the first that recognises the shape wins.
func Chain(strategies ...Strategy) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		for _, s := range strategies {
			if items, ok := s(v); ok {
				return items, true
			}
		}
		return nil, false
	}
}

// List runs s and never returns nil.
func List(v jsonv.Value, s Strategy) []jsonv.Value {
	items, ok := s(v)
	if !ok || items == nil {
		return []jsonv.Value{}
	}
	return items
}

// BareArray accepts a payload that is itself the list.
func BareArray(v jsonv.Value) ([]jsonv.Value, bool) {
	if v.IsArray() {
		return v.Items(), true
	}
	return nil, false
}

// Envelope accepts the first key, in order, whose value is an array.
func Envelope(keys ...string) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		if !v.IsObject() {
			return nil, false
		}
		for _, k := range keys {
			if f := v.Get(k); f.IsArray() {
				return f.Items(), true
			}
		}
		return nil, false
	}
}

// Under applies inner to the value at key.
func Under(key string, inner Strategy) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		f := v.Get(key)
		if !f.Present() {
			return nil, false
		}
		return inner(f)
	}
}

// FirstPage treats an array payload as pages and applies inner to page 0.
func FirstPage(inner Strategy) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		if !v.IsArray() || v.Len() == 0 {
			return nil, false
		}
		return inner(v.At(0))
	}
}

// ScanProperties takes the first array-valued property in document order,
// looking one object level down when a property is itself an object.
func ScanProperties(v jsonv.Value) ([]jsonv.Value, bool) {
	if !v.IsObject() {
		return nil, false
	}
	for _, f := range v.Fields() {
		if f.Value.IsArray() {
			return f.Value.Items(), true
		}
		if f.Value.IsObject() {
			for _, inner := range f.Value.Fields() {
				if inner.Value.IsArray() {
					return inner.Value.Items(), true
				}
			}
		}
	}
	return nil, false
}

// Telltale takes the first array-valued property whose first element is an
// object carrying any of keys.
func Telltale(keys ...string) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		if !v.IsObject() {
			return nil, false
		}
		for _, f := range v.Fields() {
			if !f.Value.IsArray() || f.Value.Len() == 0 {
				continue
			}
			first := f.Value.At(0)
			for _, k := range keys {
				if first.Has(k) {
					return f.Value.Items(), true
				}
			}
		}
		return nil, false
	}
}

// Text is the display text of the first present path, or fallback.
func Text(v jsonv.Value, fallback string, paths ...string) string {
	return v.Pick(paths...).TextOr(fallback)
}
