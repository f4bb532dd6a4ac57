package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sept": time.September, "sep": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const ordinal = `(?:st|nd|rd|th)?`

var (
	monthDayRe = regexp.MustCompile(`\b` + monthPattern + `\s+(\d{1,2})` + ordinal + `\b`)
	dayMonthRe = regexp.MustCompile(`\b(\d{1,2})` + ordinal + `\s+(?:of\s+)?` + monthPattern + `\b`)
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)

	monthDayRangeRe = regexp.MustCompile(`\b` + monthPattern + `\s+(\d{1,2})` + ordinal + `\s+to\s+` + monthPattern + `\s+(\d{1,2})` + ordinal + `\b`)
	dayMonthRangeRe = regexp.MustCompile(`\b(\d{1,2})` + ordinal + `\s+` + monthPattern + `\s+to\s+(\d{1,2})` + ordinal + `\s+` + monthPattern + `\b`)

	bareMonthRe = regexp.MustCompile(`\b` + monthPattern + `\b`)
)

// "may" is only read as a month when one of these frames it
var mayIndicators = []string{"in may", "during may", "throughout may", "may flights", "may month"}

// DateParser resolves free-text temporal expressions relative to a reference instant.
// It holds no state and is safe for concurrent use.
type DateParser struct{}

// NewDateParser creates a new date parser
func NewDateParser() *DateParser {
	return &DateParser{}
}

// Resolve parses text into a single date, a date range, or nothing.
// It never invents a date: an unrecognized text yields DateNone.
func (p *DateParser) Resolve(text string, reference time.Time) DateResolution {
	q := NormalizeQuery(text)
	today := truncateDay(reference)

	if ContainsAnyPhrase(q, TomorrowVariants) {
		return single(today.AddDate(0, 0, 1))
	}
	if ContainsPhrase(q, "today") {
		return single(today)
	}
	if ContainsPhrase(q, "next week") {
		return single(today.AddDate(0, 0, 7))
	}

	if r, ok := p.explicitRange(q, today); ok {
		return r
	}

	if ContainsPhrase(q, "next month") {
		return single(nextMonthDate(today))
	}

	if d, ok := p.specificDate(q, today); ok {
		return single(d)
	}

	if r, ok := p.monthRange(q, today); ok {
		return r
	}

	return DateResolution{Kind: DateNone}
}

// ParseDate returns the resolved single date or the start of a resolved range
func (p *DateParser) ParseDate(text string, reference time.Time) (time.Time, bool) {
	return p.Resolve(text, reference).First()
}

func (p *DateParser) explicitRange(q string, today time.Time) (DateResolution, bool) {
	var m1, m2 time.Month
	var d1, d2 int

	if m := monthDayRangeRe.FindStringSubmatch(q); m != nil {
		m1, d1 = months[m[1]], atoi(m[2])
		m2, d2 = months[m[3]], atoi(m[4])
	} else if m := dayMonthRangeRe.FindStringSubmatch(q); m != nil {
		d1, m1 = atoi(m[1]), months[m[2]]
		d2, m2 = atoi(m[3]), months[m[4]]
	} else {
		return DateResolution{}, false
	}

	startYear := yearFor(m1, today)
	start, ok := calendarDate(startYear, m1, d1, today.Location())
	if !ok {
		return DateResolution{}, false
	}

	endYear := yearFor(m2, today)
	if m2 < m1 {
		endYear = startYear + 1
	}
	end, ok := calendarDate(endYear, m2, d2, today.Location())
	if !ok {
		return DateResolution{}, false
	}
	if end.Before(start) {
		start, end = end, start
	}
	return DateResolution{Kind: DateRange, Start: start, End: end}, true
}

func (p *DateParser) specificDate(q string, today time.Time) (time.Time, bool) {
	if m := isoDateRe.FindStringSubmatch(q); m != nil {
		if d, ok := calendarDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), today.Location()); ok {
			return d, true
		}
	}

	var month time.Month
	var day int
	if m := monthDayRe.FindStringSubmatch(q); m != nil {
		month, day = months[m[1]], atoi(m[2])
	} else if m := dayMonthRe.FindStringSubmatch(q); m != nil {
		day, month = atoi(m[1]), months[m[2]]
	} else {
		return time.Time{}, false
	}
	return calendarDate(yearFor(month, today), month, day, today.Location())
}

func (p *DateParser) monthRange(q string, today time.Time) (DateResolution, bool) {
	if monthDayRe.MatchString(q) || dayMonthRe.MatchString(q) {
		return DateResolution{}, false
	}
	for _, m := range bareMonthRe.FindAllStringSubmatch(q, -1) {
		name := m[1]
		if name == "may" && !ContainsAnyPhrase(q, mayIndicators) {
			continue
		}
		month := months[name]
		start := time.Date(yearFor(month, today), month, 1, 0, 0, 0, 0, today.Location())
		end := start.AddDate(0, 1, -1)
		return DateResolution{Kind: DateRange, Start: start, End: end}, true
	}
	return DateResolution{}, false
}

// nextMonthDate picks the 15th of next month when the reference day is on or before the 15th,
// otherwise the 1st of next month
func nextMonthDate(today time.Time) time.Time {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, 1, 0)
	if today.Day() <= 15 {
		return first.AddDate(0, 0, 14)
	}
	return first
}

// yearFor keeps the reference year unless the month has already passed
func yearFor(month time.Month, today time.Time) int {
	if month < today.Month() {
		return today.Year() + 1
	}
	return today.Year()
}

func calendarDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func single(d time.Time) DateResolution {
	return DateResolution{Kind: DateSingle, Date: d}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
