package sanitizer

import (
	"reflect"
	"testing"

	"staybook/pkg/model"
)

func TestNormalizeIDs(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"trim", []string{" h1 ", "h2"}, []string{"h1", "h2"}},
		{"remove duplicates", []string{"h1", "h1 ", "h2"}, []string{"h1", "h2"}},
		{"filter empty strings", []string{"h1", "", "  "}, []string{"h1"}},
		{"empty input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeIDs(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeIDs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"R1,R2", []string{"R1", "R2"}},
		{"R1, R1 ,", []string{"R1", "R1"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGuest(t *testing.T) {
	in := model.GuestRecord{
		Title:         " Mr ",
		FirstName:     "  Ravi  Kumar ",
		LastName:      " Shah",
		Email:         " ravi@example.com ",
		ISDCode:       " +91",
		ContactNumber: " 98765 43210 ",
		PANNumber:     " abcde1234f",
	}

	got := Guest(in)
	want := model.GuestRecord{
		Title:         "Mr",
		FirstName:     "Ravi Kumar",
		LastName:      "Shah",
		Email:         "ravi@example.com",
		ISDCode:       "+91",
		ContactNumber: "98765 43210",
		PANNumber:     "ABCDE1234F",
	}
	if got != want {
		t.Errorf("Guest() = %+v, want %+v", got, want)
	}
	if Guest(got) != got {
		t.Error("Guest should be idempotent")
	}
}

func TestSpecialRequests(t *testing.T) {
	if SpecialRequests("   ") != nil {
		t.Error("blank special requests should be nil")
	}
	if got := SpecialRequests(" late check-in "); got == nil || *got != "late check-in" {
		t.Errorf("SpecialRequests = %v", got)
	}
}
