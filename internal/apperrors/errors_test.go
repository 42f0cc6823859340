package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrap_MatchesSentinel(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("append snapshot: %w", Wrap(ErrPersistence, cause))

	if !errors.Is(err, ErrPersistence) {
		t.Error("Expected wrapped error to match ErrPersistence")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected wrapped error to expose its cause")
	}
	if errors.Is(err, ErrInternal) {
		t.Error("Expected no match against a different sentinel")
	}
}

func TestFrom(t *testing.T) {
	if got := From(WithMessage(ErrRouteNotFound, "Route 99 not found")); got.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", got.StatusCode)
	}

	got := From(errors.New("boom"))
	if got.Code != ErrInternal.Code || got.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected internal error mapping, got %+v", got)
	}
	if got.Message == "boom" {
		t.Error("Expected internal details to stay out of the message")
	}
}
