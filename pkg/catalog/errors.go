package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch matches any *FetchError via errors.Is.
	ErrFetch = errors.New("price fetch failed")
	// ErrParse matches any *ParseError via errors.Is.
	ErrParse = errors.New("price payload malformed")
)

// FetchError reports an unreachable price source or a non-success status.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch prices from %s: status code %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch prices from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports a payload that cannot be decoded into price records.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse prices from %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }
