package codeerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{NotFound, 3},
		{BrokenPipe, 0},
		{IO, 1},
		{Internal, 1},
	}
	for _, c := range cases {
		if got := c.kind.ExitCode(); got != c.want {
			t.Errorf("%s.ExitCode() = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if ParseFailure.String() != "parse_failure" {
		t.Errorf("got %q", ParseFailure.String())
	}
	if Kind(99).String() != "internal" {
		t.Errorf("unknown kind should fall back to internal, got %q", Kind(99).String())
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(IO, cause, "write cache")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through Unwrap to cause")
	}
	if err.Error() != "write cache: disk full" {
		t.Errorf("got %q", err.Error())
	}
}

func TestAsAndIs(t *testing.T) {
	err := fmt.Errorf("indexing failed: %w", New(ParseFailure, "bad syntax"))

	ce, ok := As(err)
	if !ok || ce.Kind != ParseFailure {
		t.Fatalf("As() = %v, %v", ce, ok)
	}
	if !Is(err, ParseFailure) {
		t.Error("Is(err, ParseFailure) should be true")
	}
	if Is(err, IO) {
		t.Error("Is(err, IO) should be false")
	}

	if _, ok := As(errors.New("plain")); ok {
		t.Error("As() on a plain error should fail")
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(NotFound, "symbol not found").
		WithSuggestion("run `codeintel index` first").
		WithSuggestion("check spelling")

	if len(err.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(err.Suggestions))
	}
}
