package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeUnresolvedSymbol, "owner not found")
		if err.Error() != "[UNRESOLVED_SYMBOL] owner not found" {
			t.Errorf("expected [UNRESOLVED_SYMBOL] owner not found, got %s", err.Error())
		}
	})

	t.Run("Newf", func(t *testing.T) {
		err := Newf(CodeAmbiguousImport, "%s is bound by %d owners", "assertThat", 2)
		if err.Error() != "[AMBIGUOUS_IMPORT] assertThat is bound by 2 owners" {
			t.Errorf("unexpected message %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeMalformedArgument, "lambda takes parameters")
		if !IsCode(err, CodeMalformedArgument) {
			t.Error("expected IsCode to return true for CodeMalformedArgument")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
		if IsCode(errors.New("plain"), CodeInternal) {
			t.Error("plain errors carry no code")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeParse, "syntax error"), CtxPath, "A.java")
		if !IsCode(err, CodeParse) {
			t.Fatalf("expected code to be preserved, got %v", err)
		}
		if !strings.Contains(err.Error(), "A.java") {
			t.Errorf("expected context in message, got %s", err.Error())
		}

		plain := AddContext(errors.New("boom"), CtxRule, "r")
		if CodeOf(plain) != CodeInternal {
			t.Errorf("expected plain error to become internal, got %q", CodeOf(plain))
		}
	})
}
