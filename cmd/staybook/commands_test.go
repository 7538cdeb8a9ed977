package main

import (
	"reflect"
	"testing"

	"staybook/pkg/model"
)

func TestSearchQuery_HotelIDs(t *testing.T) {
	tests := []struct {
		name     string
		hotelIDs string
		want     []string
	}{
		{"empty", "", nil},
		{"blanks and spaces dropped", " h1, ,h2 ,", []string{"h1", "h2"}},
		{"only separators", " , ,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := searchQuery("2025-06-01", "2025-06-02", model.Occupancy{Adults: 2}, "", tt.hotelIDs)
			if !reflect.DeepEqual(q.HotelIDs, tt.want) {
				t.Errorf("HotelIDs = %#v, want %#v", q.HotelIDs, tt.want)
			}
		})
	}
}
