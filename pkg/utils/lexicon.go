package utils

import (
	"regexp"
	"sort"
)

// Cities lists the recognized city tokens, including airport codes and common misspellings
var Cities = []City{
	{"delhi", "DEL"}, {"new delhi", "DEL"}, {"deli", "DEL"}, {"dehli", "DEL"}, {"del", "DEL"},
	{"mumbai", "BOM"}, {"mumbay", "BOM"}, {"bombay", "BOM"}, {"bom", "BOM"},
	{"bangalore", "BLR"}, {"bengaluru", "BLR"}, {"bangalor", "BLR"}, {"banglore", "BLR"}, {"blr", "BLR"},
	{"chennai", "MAA"}, {"chenai", "MAA"}, {"channai", "MAA"}, {"madras", "MAA"}, {"maa", "MAA"},
	{"kolkata", "CCU"}, {"calcutta", "CCU"}, {"ccu", "CCU"},
	{"hyderabad", "HYD"}, {"hyd", "HYD"},
	{"pune", "PNQ"}, {"pnq", "PNQ"},
	{"ahmedabad", "AMD"}, {"amd", "AMD"},
	{"kochi", "COK"}, {"cochin", "COK"}, {"cok", "COK"},
	{"goa", "GOI"}, {"goi", "GOI"},
	{"jaipur", "JAI"}, {"jai", "JAI"},
	{"lucknow", "LKO"}, {"lko", "LKO"},
}

// TomorrowVariants are the accepted spellings of "tomorrow"
var TomorrowVariants = []string{"tomorrow", "tommorow", "tomorow", "tommorrow", "tomorrrow", "tomarow"}

var dateKeywords = []string{
	"today", "next week", "next month",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
	regexp.MustCompile(`\b\d{1,2}(st|nd|rd|th)\b`),
	regexp.MustCompile(`\b` + monthPattern + `\s+\d{1,2}\b`),
	regexp.MustCompile(`\b\d{1,2}\s+` + monthPattern + `\b`),
}

type cityHit struct {
	pos  int
	code string
}

// ExtractCityCodes returns the distinct airport codes mentioned in text, in order of appearance.
// text must be normalized with NormalizeQuery.
func ExtractCityCodes(text string) []string {
	var hits []cityHit
	for _, c := range Cities {
		if pos := PhraseIndex(text, c.Token); pos >= 0 {
			hits = append(hits, cityHit{pos: pos, code: c.Code})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	seen := make(map[string]bool, len(hits))
	codes := make([]string, 0, len(hits))
	for _, h := range hits {
		if seen[h.code] {
			continue
		}
		seen[h.code] = true
		codes = append(codes, h.code)
	}
	return codes
}

// CityAfter returns the first city mentioned after the last occurrence of keyword,
// falling back to the first city in the text.
func CityAfter(text, keyword string) string {
	last := -1
	for offset := 0; offset < len(text); {
		i := PhraseIndex(text[offset:], keyword)
		if i < 0 {
			break
		}
		last = offset + i
		offset = last + len(keyword)
	}
	if last >= 0 {
		if codes := ExtractCityCodes(text[last+len(keyword):]); len(codes) > 0 {
			return codes[0]
		}
	}
	if codes := ExtractCityCodes(text); len(codes) > 0 {
		return codes[0]
	}
	return ""
}

// HasRouteInfo reports whether text mentions a city or a "from ... to ..." pattern
func HasRouteInfo(text string) bool {
	if len(ExtractCityCodes(text)) > 0 {
		return true
	}
	return HasFromToPattern(text)
}

// HasFromToPattern reports whether "from" is later followed by "to"
func HasFromToPattern(text string) bool {
	from := PhraseIndex(text, "from")
	if from < 0 {
		return false
	}
	return PhraseIndex(text[from:], "to") >= 0
}

// HasDateInfo reports whether text carries any date signal
func HasDateInfo(text string) bool {
	if ContainsAnyPhrase(text, TomorrowVariants) || ContainsAnyPhrase(text, dateKeywords) {
		return true
	}
	for _, re := range datePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
