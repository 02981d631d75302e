package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := fmt.Errorf("normalizing: %w", Invalid("height must be positive, got %v", 0.0))

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected errors.Is(err, ErrInvalidInput), got %v", err)
	}
	if errors.Is(err, ErrCommitConflict) {
		t.Fatal("invalid input must not match commit conflict")
	}

	var de *Error
	if !errors.As(err, &de) {
		t.Fatal("expected errors.As to find *Error")
	}
	if de.Kind != KindInvalidInput {
		t.Errorf("kind = %s, want %s", de.Kind, KindInvalidInput)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Kind: KindNoProvidersAvailable, Detail: "both providers failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	want := "no_providers_available: both providers failed: connection reset"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
