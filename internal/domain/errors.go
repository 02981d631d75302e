package domain

import "fmt"

// Kind classifies a failure or warning raised by the core. The string value
// is the machine-readable detail callers surface to the UI layer.
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindMacroBudgetTight     Kind = "macro_budget_tight"
	KindInsufficientCatalog  Kind = "insufficient_catalog"
	KindProviderFailure      Kind = "provider_failure"
	KindNoProvidersAvailable Kind = "no_providers_available"
	KindCommitConflict       Kind = "commit_conflict"
	KindNotFound             Kind = "not_found"
	// KindCatalogNote marks non-fatal plan synthesis notes (fallbacks, repeats).
	KindCatalogNote Kind = "catalog_note"
	// KindMalformedRecord marks a provider record that could not be normalized.
	KindMalformedRecord Kind = "malformed_record"
)

// Error is a fatal core error. Two Errors match under errors.Is when their
// kinds are equal, so the sentinels below can be used as targets.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel errors used across layers.
var (
	ErrInvalidInput         = &Error{Kind: KindInvalidInput}
	ErrInsufficientCatalog  = &Error{Kind: KindInsufficientCatalog}
	ErrNoProvidersAvailable = &Error{Kind: KindNoProvidersAvailable}
	ErrCommitConflict       = &Error{Kind: KindCommitConflict}
	ErrNotFound             = &Error{Kind: KindNotFound}
)

// Invalid builds an InvalidInput error with a formatted detail.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Detail: fmt.Sprintf(format, args...)}
}

// Diagnostic is a non-fatal note returned next to a still-valid result.
type Diagnostic struct {
	Kind   Kind   `json:"kind"`
	Source string `json:"source,omitempty"`
	Detail string `json:"detail"`
}
