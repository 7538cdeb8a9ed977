package jsonv

import (
	"encoding/json"
	"testing"
)

func TestParse_MalformedBecomesEmptyObject(t *testing.T) {
	for _, in := range []string{"", "   ", "{not json", "<html>502</html>"} {
		v := ParseString(in)
		if !v.IsObject() || v.Len() != 0 {
			t.Errorf("Parse(%q) should be an empty object, got %q", in, v.Raw())
		}
	}
}

func TestPresent(t *testing.T) {
	v := ParseString(`{"a":null,"b":0,"c":""}`)

	if v.Get("a").Present() {
		t.Error("null should not be present")
	}
	if !v.Get("a").IsNull() {
		t.Error("null should be reported by IsNull")
	}
	if !v.Get("b").Present() || !v.Get("c").Present() {
		t.Error("zero values are present")
	}
	if v.Get("missing").Present() || v.Get("missing").IsNull() {
		t.Error("missing key is neither present nor null")
	}
	if !v.Has("a") || v.Has("missing") {
		t.Error("Has should include explicit null only")
	}
}

func TestFields_DocumentOrderAndDuplicates(t *testing.T) {
	v := ParseString(`{"z":1,"a":2,"z":3,"m":4}`)

	fields := v.Fields()
	if len(fields) != 3 {
		t.Fatalf("expected 3 distinct fields, got %d", len(fields))
	}
	wantKeys := []string{"z", "a", "m"}
	for i, f := range fields {
		if f.Key != wantKeys[i] {
			t.Errorf("field %d = %q, want %q", i, f.Key, wantKeys[i])
		}
	}
	if n, _ := fields[0].Value.Number(); n != 3 {
		t.Errorf("duplicate key should take last value, got %v", n)
	}
	if n, _ := v.Get("z").Number(); n != 3 {
		t.Errorf("Get should take last value, got %v", n)
	}
}

func TestFirst(t *testing.T) {
	v := ParseString(`{"name":null,"label":"Goa","title":"ignored"}`)

	if got := v.First("name", "label", "title").TextOr(""); got != "Goa" {
		t.Errorf("First = %q, want Goa", got)
	}
	if v.First("x", "y").Present() {
		t.Error("First with no present key should be missing")
	}
}

func TestPathAndArrays(t *testing.T) {
	v := ParseString(`{"results":[{"data":[{"roomRate":[1,2]}]}]}`)

	rr := v.Path("results", "0", "data", "0", "roomRate")
	if !rr.IsArray() || rr.Len() != 2 {
		t.Fatalf("Path did not resolve roomRate: %q", rr.Raw())
	}
	if n, _ := rr.At(1).Number(); n != 2 {
		t.Errorf("At(1) = %v", n)
	}
	if rr.At(5).Present() {
		t.Error("out of range index should be missing")
	}
	if v.Path("results", "x", "data").Present() {
		t.Error("non-numeric index on array should be missing")
	}
	if ParseString(`{"a":1}`).Items() != nil {
		t.Error("Items on object should be nil")
	}
}

func TestTextAndNumber(t *testing.T) {
	v := ParseString(`{"s":"abc","n":5000,"ns":" 12.5 ","b":true,"o":{}}`)

	tests := []struct {
		key    string
		text   string
		textOK bool
		num    float64
		numOK  bool
	}{
		{"s", "abc", true, 0, false},
		{"n", "5000", true, 5000, true},
		{"ns", " 12.5 ", true, 12.5, true},
		{"b", "true", true, 0, false},
		{"o", "", false, 0, false},
		{"missing", "", false, 0, false},
	}
	for _, tt := range tests {
		text, ok := v.Get(tt.key).Text()
		if text != tt.text || ok != tt.textOK {
			t.Errorf("%s: Text() = %q,%v want %q,%v", tt.key, text, ok, tt.text, tt.textOK)
		}
		num, ok := v.Get(tt.key).Number()
		if num != tt.num || ok != tt.numOK {
			t.Errorf("%s: Number() = %v,%v want %v,%v", tt.key, num, ok, tt.num, tt.numOK)
		}
	}
	if v.Get("s").NumberPtr() != nil {
		t.Error("NumberPtr of a word should be nil")
	}
}

func TestTruthy(t *testing.T) {
	v := ParseString(`{"t":true,"f":false,"e":"","s":"x","z":0,"n":1,"a":[],"nil":null}`)
	want := map[string]bool{"t": true, "f": false, "e": false, "s": true, "z": false, "n": true, "a": true, "nil": false, "missing": false}

	for key, w := range want {
		if got := v.Get(key).Truthy(); got != w {
			t.Errorf("Truthy(%s) = %v, want %v", key, got, w)
		}
	}
	if v.Get("s").True() {
		t.Error("only literal true is True")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	type wrapper struct {
		Amount Value `json:"amount"`
		Gone   Value `json:"gone"`
	}
	src := ParseString(`{"amount":"₹ 5,000"}`)

	out, err := json.Marshal(wrapper{Amount: src.Get("amount")})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"amount":"₹ 5,000","gone":null}` {
		t.Errorf("Marshal = %s", out)
	}

	var back wrapper
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.Amount.TextOr("") != "₹ 5,000" {
		t.Errorf("Unmarshal lost value: %q", back.Amount.Raw())
	}
}

func TestPick(t *testing.T) {
	v := ParseString(`{"rate":{"finalRate":null},"availability":{"rate":{"finalRate":4200}},"results":[{"bookingId":"B1"}]}`)

	if n, _ := v.Pick("rate.finalRate", "availability.rate.finalRate").Number(); n != 4200 {
		t.Errorf("Pick should skip null paths, got %v", n)
	}
	if got := v.Pick("results.bookingId", "results.0.bookingId").TextOr(""); got != "B1" {
		t.Errorf("Pick on array index = %q", got)
	}
	if v.Pick("nope", "rate.finalRate").Present() {
		t.Error("Pick with nothing present should be missing")
	}
}
