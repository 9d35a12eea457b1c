// Package metastore is the richer metadata store the hash-mmap cache
// defers collision resolution and detail lookups to: a JSON-encoded
// id-to-Symbol map persisted alongside the binary cache file.
package metastore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// Store is an in-memory index from SymbolId to the full Symbol record, plus
// the relationship tuples the indexer collected, for query operations that
// need more than the cache's name/hash/location quadruple.
type Store struct {
	Symbols    map[ids.SymbolId]symbol.Symbol `json:"symbols"`
	Files      map[ids.FileId]string          `json:"files"`
	Calls      []langparser.CallTuple         `json:"calls"`
	Implements []langparser.ImplementsTuple   `json:"implements"`
	Extends    []langparser.ExtendsTuple      `json:"extends"`
}

func New() *Store {
	return &Store{Symbols: make(map[ids.SymbolId]symbol.Symbol), Files: make(map[ids.FileId]string)}
}

func (s *Store) AddFile(id ids.FileId, path string) { s.Files[id] = path }

func (s *Store) AddSymbols(symbols []symbol.Symbol) {
	for _, sym := range symbols {
		s.Symbols[sym.Id] = sym
	}
}

func (s *Store) AddRelationships(calls []langparser.CallTuple, implements []langparser.ImplementsTuple, extends []langparser.ExtendsTuple) {
	s.Calls = append(s.Calls, calls...)
	s.Implements = append(s.Implements, implements...)
	s.Extends = append(s.Extends, extends...)
}

// Callers returns every caller name that calls callee.
func (s *Store) Callers(callee string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.Calls {
		if c.Callee == callee && !seen[c.Caller] {
			seen[c.Caller] = true
			out = append(out, c.Caller)
		}
	}
	return out
}

// Callees returns every distinct name caller calls.
func (s *Store) Callees(caller string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.Calls {
		if c.Caller == caller && !seen[c.Callee] {
			seen[c.Callee] = true
			out = append(out, c.Callee)
		}
	}
	return out
}

// Implementations returns every type implementing the named interface/trait.
func (s *Store) Implementations(iface string) []string {
	var out []string
	for _, i := range s.Implements {
		if i.Interface == iface {
			out = append(out, i.Type)
		}
	}
	return out
}

// Impact performs a breadth-first closure over the caller graph: every
// name transitively reachable by following Callers edges from name,
// i.e. everything that would be affected by a change to name.
func (s *Store) Impact(name string) []string {
	visited := map[string]bool{name: true}
	queue := []string{name}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, caller := range s.Callers(cur) {
			if !visited[caller] {
				visited[caller] = true
				out = append(out, caller)
				queue = append(queue, caller)
			}
		}
	}
	return out
}

// ByName returns every symbol whose name matches exactly, for resolving a
// cache hit's SymbolId (or for a plain linear fallback when no cache is
// available yet).
func (s *Store) ByName(name string) []symbol.Symbol {
	var out []symbol.Symbol
	for _, sym := range s.Symbols {
		if sym.Name == name {
			out = append(out, sym)
		}
	}
	return out
}

func (s *Store) Get(id ids.SymbolId) (symbol.Symbol, bool) {
	sym, ok := s.Symbols[id]
	return sym, ok
}

// Save writes the store as indented JSON to path.
func Save(path string, s *Store) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return codeerr.Wrap(codeerr.Internal, err, "metastore: encode")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return codeerr.Wrap(codeerr.IO, err, "metastore: create state dir")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return codeerr.Wrap(codeerr.IO, err, "metastore: write "+path)
	}
	return nil
}

// Load reads a previously saved store from path.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.IO, err, "metastore: read "+path)
	}
	s := New()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, codeerr.Wrap(codeerr.CacheFormat, err, "metastore: decode "+path)
	}
	return s, nil
}
