package entity

import "errors"

var (
	ErrExtractionProvider  = errors.New("extraction provider error")
	ErrMissingLocation     = errors.New("could not identify origin and destination")
	ErrGeneralQuery        = errors.New("query is not flight related")
	ErrProviderUnavailable = errors.New("flight provider unavailable")
	ErrInvalidDate         = errors.New("invalid departure date")
	ErrInvalidRequest      = errors.New("invalid search request")
	ErrContextNotFound     = errors.New("no active search context")
	ErrAirlineNotFound     = errors.New("airline not found")
)

// GeneralQueryError carries the user-facing reply for a non-flight query
type GeneralQueryError struct {
	Message     string
	Suggestions []string
}

func (e *GeneralQueryError) Error() string {
	return e.Message
}

func (e *GeneralQueryError) Unwrap() error {
	return ErrGeneralQuery
}
