package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("join: %w", Conflict("slot %d already taken", 3))

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected %v to match ErrConflict", err)
	}
	if errors.Is(err, ErrValidation) {
		t.Errorf("conflict should not match ErrValidation")
	}
	if got := KindOf(err); got != KindConflict {
		t.Errorf("KindOf = %q, want %q", got, KindConflict)
	}
}

func TestIntegrityIsNotFound(t *testing.T) {
	err := Integrity("no participant holds slot %d", 2)

	if !errors.Is(err, ErrNotFound) {
		t.Error("integrity fault should match ErrNotFound")
	}
	if !IsIntegrity(err) {
		t.Error("expected integrity flag")
	}
	if IsIntegrity(NotFound("group g1")) {
		t.Error("plain not-found should not be an integrity fault")
	}
}

func TestConflictWrapUnwraps(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed")
	err := ConflictWrap(cause, "insert participant")

	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if err.Error() != "insert participant: UNIQUE constraint failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != "" {
		t.Errorf("KindOf = %q, want empty", got)
	}
}
