package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession               = errors.New("no session, run setup first")
	ErrCachePopulationRequired = errors.New("run populate before this")
	ErrEmptyCache              = errors.New("no revisions")
	ErrSelectorRequired        = errors.New("provide revisions field")
)

// InvalidSelectorError is returned when a selector is not allowed in the requested mode
type InvalidSelectorError struct {
	Selector string
}

func (e *InvalidSelectorError) Error() string {
	return fmt.Sprintf("invalid revisions field %q", e.Selector)
}

// NotFoundError is returned by a revision source that has no log entry for a revision
type NotFoundError struct {
	Rev int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no log entry found for r%d", e.Rev)
}

// FetchError wraps a failure to fetch one revision during populate
type FetchError struct {
	Rev int64
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch r%d: %v", e.Rev, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
