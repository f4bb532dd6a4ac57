package utils

import (
	"reflect"
	"testing"
)

func TestExtractCityCodes(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"flights from chennai to goa next week", []string{"MAA", "GOI"}},
		{"bombay to dehli", []string{"BOM", "DEL"}},
		{"new delhi to delhi", []string{"DEL"}},
		{"BLR to cok", []string{"BLR", "COK"}},
		{"goalkeeper delivery", []string{}},
	}
	for _, tt := range tests {
		got := ExtractCityCodes(NormalizeQuery(tt.query))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestCityAfter(t *testing.T) {
	if got := CityAfter("from delhi change destination to goa", "to"); got != "GOI" {
		t.Errorf("got %q, want GOI", got)
	}
	if got := CityAfter("start from pune", "from"); got != "PNQ" {
		t.Errorf("got %q, want PNQ", got)
	}
	if got := CityAfter("kochi instead", "to"); got != "COK" {
		t.Errorf("got %q, want COK", got)
	}
	if got := CityAfter("somewhere else", "to"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestHasDateInfo(t *testing.T) {
	for _, q := range []string{"for august 16", "on the 18th", "tommorow", "7/8/2025", "next week"} {
		if !HasDateInfo(NormalizeQuery(q)) {
			t.Errorf("%q: want date info", q)
		}
	}
	for _, q := range []string{"business class only", "direct flights", "show more"} {
		if HasDateInfo(NormalizeQuery(q)) {
			t.Errorf("%q: want no date info", q)
		}
	}
}

func TestHasRouteInfo(t *testing.T) {
	if !HasRouteInfo("what about mumbai") {
		t.Error("city mention should count as route info")
	}
	if !HasRouteInfo("from here to there") {
		t.Error("from/to pattern should count as route info")
	}
	if HasRouteInfo("to be honest from now") {
		t.Error("to before from is not a route pattern")
	}
}

func TestContainsPhrase(t *testing.T) {
	if !ContainsPhrase("show more flights", "more flights") {
		t.Error("expected phrase match")
	}
	if ContainsPhrase("tomorrow", "to") {
		t.Error("phrase must respect word boundaries")
	}
	if n, ok := FirstNumber("add 3 passengers on 5th"); !ok || n != 3 {
		t.Errorf("FirstNumber = %d, %v", n, ok)
	}
}
