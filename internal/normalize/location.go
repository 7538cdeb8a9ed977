package normalize

import (
	"staybook/pkg/jsonv"
	"staybook/pkg/model"
)

// locationEnvelope accepts a list under key, or under key's own data or
// locations member.
func locationEnvelope(keys ...string) Strategy {
	return func(v jsonv.Value) ([]jsonv.Value, bool) {
		if !v.IsObject() {
			return nil, false
		}
		for _, k := range keys {
			f := v.Get(k)
			if f.IsArray() {
				return f.Items(), true
			}
			if items, ok := Envelope("data", "locations")(f); ok {
				return items, true
			}
		}
		return nil, false
	}
}

var locationList = Chain(
	BareArray,
	locationEnvelope("data", "locations", "results", "suggestions", "items"),
	ScanProperties,
)

// Locations extracts autocomplete suggestions. Entries that are not objects
// are dropped.
func Locations(raw jsonv.Value) []model.Location {
	out := []model.Location{}
	for _, item := range List(raw, locationList) {
		if loc := Location(item); loc != nil {
			out = append(out, *loc)
		}
	}
	return out
}

// Location normalizes one suggestion; nil for anything but an object.
func Location(raw jsonv.Value) *model.Location {
	if !raw.IsObject() {
		return nil
	}
	id := Text(raw, "", "id", "locationId", "referenceId", "code")
	return &model.Location{
		ID:          id,
		Name:        Text(raw, Text(raw, "", "id", "locationId"), "name", "locationName", "displayName", "title", "label", "text"),
		Type:        Text(raw, "", "type", "locationType", "category"),
		ReferenceID: Text(raw, "", "referenceId", "id", "locationId"),
	}
}
