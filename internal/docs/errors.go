package docs

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationFailedError is returned when a lifecycle transition is blocked by
// the validation engine. The full report travels with the error so handlers
// can surface every message, not just the first.
type ValidationFailedError struct {
	Report ValidationReport
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Report.Errors, ", ")
}

// PublishedSaveError is returned when saving blocks whose generated MDX does
// not compile into a published document. The same failure on a draft is only
// logged; see Service.SaveBlocks.
type PublishedSaveError struct {
	Cause error
}

func (e *PublishedSaveError) Error() string {
	return "cannot save broken MDX to a published document: " + e.Cause.Error()
}

func (e *PublishedSaveError) Unwrap() error { return e.Cause }
