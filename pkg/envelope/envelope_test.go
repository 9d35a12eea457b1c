package envelope

import (
	"testing"

	"github.com/codegraph/codeintel/pkg/codeerr"
)

func TestNewAutoDowngradesEmptyToNotFound(t *testing.T) {
	env := New(EntitySymbol, Empty())
	if env.Status != StatusNotFound {
		t.Errorf("status = %v, want NotFound", env.Status)
	}
	if env.Count != 0 {
		t.Errorf("count = %d, want 0", env.Count)
	}
}

func TestNewWithItemsIsSuccess(t *testing.T) {
	env := New(EntitySearchResult, Items([]any{"a", "b", "c"}))
	if env.Status != StatusSuccess {
		t.Errorf("status = %v, want Success", env.Status)
	}
	if env.Count != 3 {
		t.Errorf("count = %d, want 3", env.Count)
	}
}

func TestGroupedCount(t *testing.T) {
	env := New(EntityMixed, Grouped(map[string][]any{
		"callers": {"a", "b"},
		"callees": {"c"},
	}))
	if env.Count != 3 {
		t.Errorf("count = %d, want 3", env.Count)
	}
}

func TestSingleWithNilItemIsEmpty(t *testing.T) {
	env := New(EntityIndexInfo, Single(nil))
	if env.Status != StatusNotFound {
		t.Errorf("status = %v, want NotFound", env.Status)
	}
}

func TestFailCarriesGuidanceFromFirstSuggestion(t *testing.T) {
	err := codeerr.New(codeerr.NotFound, "symbol missing").
		WithSuggestion("run index first").
		WithSuggestion("check spelling")

	env := Fail(EntitySymbol, err)
	if env.Status != StatusError {
		t.Errorf("status = %v, want Error", env.Status)
	}
	if env.Guidance != "run index first" {
		t.Errorf("guidance = %q", env.Guidance)
	}
	if env.Err() != err {
		t.Error("Err() should return the wrapped error")
	}
}

func TestExitCode(t *testing.T) {
	if got := New(EntitySymbol, Items([]any{1})).ExitCode(); got != 0 {
		t.Errorf("success exit code = %d, want 0", got)
	}
	if got := New(EntitySymbol, Empty()).ExitCode(); got != 3 {
		t.Errorf("not-found exit code = %d, want 3", got)
	}
	if got := New(EntitySymbol, Items([]any{1})).WithStatus(StatusPartialSuccess).ExitCode(); got != 0 {
		t.Errorf("partial-success exit code = %d, want 0", got)
	}

	ioErr := codeerr.New(codeerr.IO, "disk full")
	if got := Fail(EntitySymbol, ioErr).ExitCode(); got != 1 {
		t.Errorf("io error exit code = %d, want 1", got)
	}
	notFoundErr := codeerr.New(codeerr.NotFound, "missing")
	if got := Fail(EntitySymbol, notFoundErr).ExitCode(); got != 3 {
		t.Errorf("wrapped not-found exit code = %d, want 3", got)
	}
}

func TestWithMetadataAndGuidance(t *testing.T) {
	env := New(EntitySearchResult, Items([]any{1})).
		WithMetadata(Metadata{Query: "Widget", TimingMs: 12}).
		WithGuidance("narrow your search")

	if env.Metadata == nil || env.Metadata.Query != "Widget" {
		t.Fatalf("metadata not attached: %+v", env.Metadata)
	}
	if env.Guidance != "narrow your search" {
		t.Errorf("guidance = %q", env.Guidance)
	}
}

func TestRenderDataReturnsSelf(t *testing.T) {
	env := New(EntitySymbol, Items([]any{1}))
	rendered, ok := env.RenderData().(Envelope)
	if !ok {
		t.Fatal("RenderData() did not return an Envelope")
	}
	if rendered.Count != 1 {
		t.Errorf("count = %d, want 1", rendered.Count)
	}
}
