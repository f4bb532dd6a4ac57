package utils

import "time"

// DateKind says what a temporal expression resolved to
type DateKind int

const (
	DateNone DateKind = iota
	DateSingle
	DateRange
)

// DateResolution is the outcome of resolving a temporal expression.
// Date is set for DateSingle; Start and End are set for DateRange.
type DateResolution struct {
	Kind  DateKind
	Date  time.Time
	Start time.Time
	End   time.Time
}

// Found reports whether anything was resolved
func (r DateResolution) Found() bool {
	return r.Kind != DateNone
}

// First returns the single date or the start of the range
func (r DateResolution) First() (time.Time, bool) {
	switch r.Kind {
	case DateSingle:
		return r.Date, true
	case DateRange:
		return r.Start, true
	}
	return time.Time{}, false
}

// City is a recognized city token and its airport code
type City struct {
	Token string
	Code  string
}
