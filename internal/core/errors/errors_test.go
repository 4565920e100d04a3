package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "session not found")
		if err.Error() != "[NOT_FOUND] session not found" {
			t.Errorf("expected [NOT_FOUND] session not found, got %s", err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeValidationError, "depth %q is not valid", "extreme")
		expected := `[VALIDATION_ERROR] depth "extreme" is not valid`
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeIOError, "read failed")
		expected := "[IO_ERROR] read failed: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid input")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeCancelled, "scan cancelled")
		if !IsCode(err, CodeCancelled) {
			t.Error("expected IsCode to return true for wrapped CodeCancelled")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := fmt.Errorf("lookup: %w", inner)
		if !IsCode(outer, CodeNotFound) {
			t.Error("expected IsCode to see through fmt.Errorf wrapping")
		}
	})

	t.Run("Unwrap", func(t *testing.T) {
		original := errors.New("boom")
		err := Wrap(original, CodeInternal, "internal failure")
		if !errors.Is(err, original) {
			t.Error("expected errors.Is to find the original error")
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		if got := CodeOf(New(CodeConflict, "session exists")); got != CodeConflict {
			t.Errorf("expected CONFLICT, got %s", got)
		}
		if got := CodeOf(errors.New("plain")); got != CodeInternal {
			t.Errorf("expected INTERNAL_ERROR for plain errors, got %s", got)
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeIOError, "read failed"), CtxPath, "src/a.ts")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected a DomainError")
		}
		if de.Context[CtxPath] != "src/a.ts" {
			t.Errorf("expected context path src/a.ts, got %v", de.Context[CtxPath])
		}
	})

	t.Run("AddContextPlainError", func(t *testing.T) {
		err := AddContext(errors.New("plain"), CtxSession, "abc")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected a DomainError wrapper")
		}
		if de.Code != CodeInternal {
			t.Errorf("expected INTERNAL_ERROR wrapper, got %s", de.Code)
		}
		if de.Context[CtxSession] != "abc" {
			t.Errorf("expected context session abc, got %v", de.Context[CtxSession])
		}
	})

	t.Run("MessageOf", func(t *testing.T) {
		if got := MessageOf(New(CodeNotFound, "session missing")); got != "session missing" {
			t.Errorf("expected bare message, got %q", got)
		}
		if got := MessageOf(errors.New("plain")); got != "plain" {
			t.Errorf("expected plain error text, got %q", got)
		}
		wrapped := fmt.Errorf("outer: %w", New(CodeConflict, "already running"))
		if got := MessageOf(wrapped); got != "already running" {
			t.Errorf("expected unwrapped message, got %q", got)
		}
	})
}
