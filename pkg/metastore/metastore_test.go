package metastore

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func buildFixture() *Store {
	s := New()
	s.AddFile(ids.NewFileId(1), "widget.go")
	s.AddSymbols([]symbol.Symbol{
		{Id: ids.NewSymbolId(1), Name: "NewWidget", FileId: ids.NewFileId(1)},
		{Id: ids.NewSymbolId(2), Name: "Greet", FileId: ids.NewFileId(1)},
		{Id: ids.NewSymbolId(3), Name: "main", FileId: ids.NewFileId(1)},
	})
	s.AddRelationships(
		[]langparser.CallTuple{
			{Caller: "main", Callee: "NewWidget"},
			{Caller: "main", Callee: "Greet"},
			{Caller: "Greet", Callee: "Sprintf"},
		},
		[]langparser.ImplementsTuple{
			{Interface: "Stringer", Type: "Widget"},
			{Interface: "Stringer", Type: "Gadget"},
		},
		nil,
	)
	return s
}

func TestCallersAndCallees(t *testing.T) {
	s := buildFixture()

	callers := s.Callers("Greet")
	if len(callers) != 1 || callers[0] != "main" {
		t.Errorf("Callers(Greet) = %v", callers)
	}

	callees := s.Callees("main")
	sort.Strings(callees)
	want := []string{"Greet", "NewWidget"}
	if len(callees) != 2 || callees[0] != want[0] || callees[1] != want[1] {
		t.Errorf("Callees(main) = %v, want %v", callees, want)
	}
}

func TestCallersDedupes(t *testing.T) {
	s := New()
	s.AddRelationships([]langparser.CallTuple{
		{Caller: "a", Callee: "b"},
		{Caller: "a", Callee: "b"},
	}, nil, nil)
	if got := s.Callers("b"); len(got) != 1 {
		t.Errorf("Callers(b) = %v, want one deduped entry", got)
	}
}

func TestImplementations(t *testing.T) {
	s := buildFixture()
	impls := s.Implementations("Stringer")
	sort.Strings(impls)
	want := []string{"Gadget", "Widget"}
	if len(impls) != 2 || impls[0] != want[0] || impls[1] != want[1] {
		t.Errorf("Implementations(Stringer) = %v, want %v", impls, want)
	}
	if got := s.Implementations("Nope"); got != nil {
		t.Errorf("Implementations(Nope) = %v, want nil", got)
	}
}

func TestImpactTransitiveClosure(t *testing.T) {
	s := New()
	s.AddRelationships([]langparser.CallTuple{
		{Caller: "main", Callee: "run"},
		{Caller: "run", Callee: "step"},
		{Caller: "otherEntry", Callee: "step"},
	}, nil, nil)

	impact := s.Impact("step")
	sort.Strings(impact)
	want := []string{"main", "otherEntry", "run"}
	if len(impact) != len(want) {
		t.Fatalf("Impact(step) = %v, want %v", impact, want)
	}
	for i := range want {
		if impact[i] != want[i] {
			t.Errorf("Impact(step)[%d] = %q, want %q", i, impact[i], want[i])
		}
	}
}

func TestImpactHasNoCycleInfiniteLoop(t *testing.T) {
	s := New()
	s.AddRelationships([]langparser.CallTuple{
		{Caller: "a", Callee: "b"},
		{Caller: "b", Callee: "a"},
	}, nil, nil)
	impact := s.Impact("a")
	if len(impact) != 1 || impact[0] != "b" {
		t.Errorf("Impact(a) in a 2-cycle = %v, want [b]", impact)
	}
}

func TestByNameAndGet(t *testing.T) {
	s := buildFixture()
	matches := s.ByName("Greet")
	if len(matches) != 1 || matches[0].Id != ids.NewSymbolId(2) {
		t.Errorf("ByName(Greet) = %v", matches)
	}

	sym, ok := s.Get(ids.NewSymbolId(3))
	if !ok || sym.Name != "main" {
		t.Errorf("Get(3) = %v, %v", sym, ok)
	}

	if _, ok := s.Get(ids.NewSymbolId(999)); ok {
		t.Error("Get on unknown id should report false")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "symbols.meta.json")

	s := buildFixture()
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Symbols) != 3 {
		t.Errorf("loaded %d symbols, want 3", len(loaded.Symbols))
	}
	if len(loaded.Calls) != 3 {
		t.Errorf("loaded %d calls, want 3", len(loaded.Calls))
	}
	if loaded.Callees("main")[0] == "" {
		t.Error("loaded store should still answer queries")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error loading a missing metastore file")
	}
}
