package models

import (
	"errors"
	"fmt"
)

// ErrUnknownBrand is returned when a requested brand id has no property
// mapping. Single-brand queries surface it to the caller; the whole-snapshot
// aggregation silently skips such brands.
var ErrUnknownBrand = errors.New("unknown brand")

// ErrUnknownHorizon is returned for a horizon with no report date range.
var ErrUnknownHorizon = errors.New("unknown horizon")

// ErrConfigUnavailable is returned when the brand mapping could not be
// obtained from the provider, the last-known mapping, or built-in defaults.
var ErrConfigUnavailable = errors.New("brand configuration unavailable")

// FetchError wraps an upstream fetch failure for one (property, horizon)
// pair. Callers recover locally by retaining the previous cached value.
type FetchError struct {
	PropertyID string
	Horizon    Horizon
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s property %s: %v", e.Horizon, e.PropertyID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
