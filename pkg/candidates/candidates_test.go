package candidates

import (
	"testing"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func TestNarrowByKind(t *testing.T) {
	idx := New()
	fn := symbol.New(ids.NewSymbolId(1), "Greet", ids.KindFunction, ids.NewFileId(1), ids.Range{})
	st := symbol.New(ids.NewSymbolId(2), "Widget", ids.KindStruct, ids.NewFileId(1), ids.Range{})
	idx.Add(fn, langparser.LangGo)
	idx.Add(st, langparser.LangGo)

	candidateIDs := []uint32{1, 2}
	got := idx.Narrow(candidateIDs, Filter{Kind: ids.KindFunction, KindSet: true})
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Narrow(kind=Function) = %v, want [1]", got)
	}
}

func TestNarrowUnsetFilterReturnsInputUnchanged(t *testing.T) {
	idx := New()
	got := idx.Narrow([]uint32{5, 6, 7}, Filter{})
	if len(got) != 3 {
		t.Errorf("Narrow with no filter set = %v, want passthrough", got)
	}
}

func TestNarrowUnknownKindYieldsEmpty(t *testing.T) {
	idx := New()
	idx.Add(symbol.New(ids.NewSymbolId(1), "Greet", ids.KindFunction, ids.NewFileId(1), ids.Range{}), langparser.LangGo)

	got := idx.Narrow([]uint32{1}, Filter{Kind: ids.KindInterface, KindSet: true})
	if len(got) != 0 {
		t.Errorf("Narrow(kind=Interface) on an index with no interfaces = %v, want empty", got)
	}
}

func TestByFileAndCardinality(t *testing.T) {
	idx := New()
	idx.AddAll([]symbol.Symbol{
		symbol.New(ids.NewSymbolId(1), "a", ids.KindFunction, ids.NewFileId(1), ids.Range{}),
		symbol.New(ids.NewSymbolId(2), "b", ids.KindFunction, ids.NewFileId(1), ids.Range{}),
		symbol.New(ids.NewSymbolId(3), "c", ids.KindStruct, ids.NewFileId(2), ids.Range{}),
	}, langparser.LangGo)

	if got := idx.ByFile(ids.NewFileId(1)); len(got) != 2 {
		t.Errorf("ByFile(1) = %v, want 2 ids", got)
	}
	if got := idx.Cardinality(ids.KindFunction); got != 2 {
		t.Errorf("Cardinality(Function) = %d, want 2", got)
	}
	if got := idx.Cardinality(ids.KindEnum); got != 0 {
		t.Errorf("Cardinality(Enum) = %d, want 0", got)
	}
}

func TestAddSkipsLangUnknown(t *testing.T) {
	idx := New()
	idx.Add(symbol.New(ids.NewSymbolId(1), "a", ids.KindFunction, ids.NewFileId(1), ids.Range{}), langparser.LangUnknown)

	got := idx.Narrow([]uint32{1}, Filter{Lang: langparser.LangGo, LangSet: true})
	if len(got) != 0 {
		t.Errorf("a symbol added with LangUnknown should not match a Go language filter, got %v", got)
	}
}
