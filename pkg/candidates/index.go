// Package candidates maintains Roaring-bitmap posting lists over symbol
// ids, keyed by kind, file, and language, so a lookup with a kind/language
// filter can narrow its candidate set instead of scanning every cache
// bucket entry that shares a name hash.
package candidates

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// Index holds one posting list per (kind | file | language) key. It is
// safe for concurrent reads; rebuilds take an exclusive lock.
type Index struct {
	mu       sync.RWMutex
	byKind   map[ids.SymbolKind]*roaring.Bitmap
	byFile   map[ids.FileId]*roaring.Bitmap
	byLang   map[langparser.Language]*roaring.Bitmap
}

func New() *Index {
	return &Index{
		byKind: make(map[ids.SymbolKind]*roaring.Bitmap),
		byFile: make(map[ids.FileId]*roaring.Bitmap),
		byLang: make(map[langparser.Language]*roaring.Bitmap),
	}
}

// Add indexes a single symbol's id under its kind and file, and under lang
// if the caller tracks per-file language (lang may be langparser.LangUnknown
// when the indexer hasn't attributed one, in which case it's skipped).
func (idx *Index) Add(s symbol.Symbol, lang langparser.Language) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	id := uint32(s.Id)
	idx.bitmapForKindLocked(s.Kind).Add(id)
	idx.bitmapForFileLocked(s.FileId).Add(id)
	if lang != langparser.LangUnknown {
		idx.bitmapForLangLocked(lang).Add(id)
	}
}

// AddAll indexes every symbol in a file's parse result under the same
// FileId/Language, as the indexer does per-file after a parse completes.
func (idx *Index) AddAll(symbols []symbol.Symbol, lang langparser.Language) {
	for _, s := range symbols {
		idx.Add(s, lang)
	}
}

func (idx *Index) bitmapForKindLocked(k ids.SymbolKind) *roaring.Bitmap {
	b, ok := idx.byKind[k]
	if !ok {
		b = roaring.New()
		idx.byKind[k] = b
	}
	return b
}

func (idx *Index) bitmapForFileLocked(f ids.FileId) *roaring.Bitmap {
	b, ok := idx.byFile[f]
	if !ok {
		b = roaring.New()
		idx.byFile[f] = b
	}
	return b
}

func (idx *Index) bitmapForLangLocked(l langparser.Language) *roaring.Bitmap {
	b, ok := idx.byLang[l]
	if !ok {
		b = roaring.New()
		idx.byLang[l] = b
	}
	return b
}

// Filter narrows an unordered slice of candidate symbol ids to those
// matching an optional kind and language constraint. Either constraint may
// be left unset (kindSet/langSet false) to skip it.
type Filter struct {
	Kind    ids.SymbolKind
	KindSet bool
	Lang    langparser.Language
	LangSet bool
}

// Narrow intersects candidateIDs against the posting lists matching f,
// returning the reduced set in no particular order. An Index with no
// entries for a requested kind/language yields an empty result, not the
// unfiltered input — callers should treat this as "no additional
// candidates to consider from this index", not "no index available".
func (idx *Index) Narrow(candidateIDs []uint32, f Filter) []uint32 {
	if !f.KindSet && !f.LangSet {
		return candidateIDs
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	allowed := roaring.New()
	allowed.AddMany(candidateIDs)

	if f.KindSet {
		if b, ok := idx.byKind[f.Kind]; ok {
			allowed.And(b)
		} else {
			return nil
		}
	}
	if f.LangSet {
		if b, ok := idx.byLang[f.Lang]; ok {
			allowed.And(b)
		} else {
			return nil
		}
	}

	return allowed.ToArray()
}

// ByFile returns every symbol id indexed under a file, in ascending order.
func (idx *Index) ByFile(f ids.FileId) []uint32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	b, ok := idx.byFile[f]
	if !ok {
		return nil
	}
	return b.ToArray()
}

// Cardinality returns how many distinct symbol ids are indexed under kind.
func (idx *Index) Cardinality(kind ids.SymbolKind) uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	b, ok := idx.byKind[kind]
	if !ok {
		return 0
	}
	return b.GetCardinality()
}
