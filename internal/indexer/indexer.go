// Package indexer walks a directory tree, dispatches each file to its
// language extractor on a worker pool, and merges the results into the
// symbol cache, candidate bitmap index, and resolution store.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/codegraph/codeintel/internal/progress"
	"github.com/codegraph/codeintel/pkg/candidates"
	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
	"github.com/codegraph/codeintel/pkg/symcache"
)

// DefaultWorkerMultiplier mirrors the teacher's NumCPU multiplier for
// mixed I/O + CGO (tree-sitter) workloads.
const DefaultWorkerMultiplier = 2

// perFileSymbolBudget is the disjoint SymbolId range reserved per file
// before dispatch, so concurrent workers never mint colliding ids. A file
// producing more symbols than this is reported as an Internal per-file error
// and its symbols are dropped — generous enough that it would indicate a
// pathological input, not a normal file.
const perFileSymbolBudget = 100_000

// FileError pairs a path with the error encountered processing it.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

// Result is the outcome of indexing one tree: the merged symbols and
// relationship tuples (for cache/candidate/metastore building by the
// caller) and any per-file errors.
type Result struct {
	Symbols      []symbol.Symbol
	Calls        []langparser.CallTuple
	Implements   []langparser.ImplementsTuple
	Extends      []langparser.ExtendsTuple
	Files        []FileInfo
	Errors       []FileError
}

// FileInfo records the FileId assigned to a path and the language detected
// for it, so callers can attribute candidates/resolution entries.
type FileInfo struct {
	Path     string
	FileId   ids.FileId
	Language langparser.Language
}

// Indexer owns the shared counters handed out to worker goroutines.
type Indexer struct {
	fileCounter   atomic.Uint32
	symbolCounter *ids.SymbolCounter
	counterMu     sync.Mutex
	progress      *progress.Tracker
	maxWorkers    int
	symbolBudget  uint32
}

func New() *Indexer {
	return &Indexer{symbolCounter: ids.NewSymbolCounter(), symbolBudget: perFileSymbolBudget}
}

// WithProgress attaches a progress tracker the indexer ticks once per file.
func (ix *Indexer) WithProgress(p *progress.Tracker) *Indexer {
	ix.progress = p
	return ix
}

// WithMaxWorkers overrides the worker pool size. n <= 0 keeps the
// NumCPU*DefaultWorkerMultiplier default.
func (ix *Indexer) WithMaxWorkers(n int) *Indexer {
	ix.maxWorkers = n
	return ix
}

// WithSymbolBudget overrides the disjoint SymbolId range reserved per file.
// n <= 0 keeps the perFileSymbolBudget default.
func (ix *Indexer) WithSymbolBudget(n int) *Indexer {
	if n > 0 {
		ix.symbolBudget = uint32(n)
	}
	return ix
}

// Index walks root, parsing every file whose extension maps to a supported
// language, using up to NumCPU*DefaultWorkerMultiplier concurrent workers
// (or WithMaxWorkers's override).
func (ix *Indexer) Index(ctx context.Context, root string) (*Result, error) {
	files, err := discoverFiles(root)
	if err != nil {
		return nil, codeerr.Wrap(codeerr.IO, err, "indexer: walk "+root)
	}
	var mu sync.Mutex
	result := &Result{}

	maxWorkers := ix.maxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)

	for _, path := range files {
		path := path
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			fileResult, err := ix.indexFile(path)
			if ix.progress != nil {
				ix.progress.Tick()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, FileError{Path: path, Err: err})
				return nil
			}
			result.Symbols = append(result.Symbols, fileResult.symbols...)
			result.Calls = append(result.Calls, fileResult.calls...)
			result.Implements = append(result.Implements, fileResult.implements...)
			result.Extends = append(result.Extends, fileResult.extends...)
			result.Files = append(result.Files, FileInfo{Path: path, FileId: fileResult.fileID, Language: fileResult.lang})
			return nil
		})
	}
	_ = p.Wait()

	return result, nil
}

type fileParseResult struct {
	fileID     ids.FileId
	lang       langparser.Language
	symbols    []symbol.Symbol
	calls      []langparser.CallTuple
	implements []langparser.ImplementsTuple
	extends    []langparser.ExtendsTuple
}

// indexFile reserves a disjoint FileId and SymbolId range, then dispatches
// to the language extractor registered for path's detected language,
// collecting both symbols and the relationship tuples query operations
// need (calls, implements, extends).
func (ix *Indexer) indexFile(path string) (fileParseResult, error) {
	l := langparser.DetectLanguage(path)
	if l == langparser.LangUnknown {
		return fileParseResult{lang: l}, codeerr.New(codeerr.InvalidInput, "unsupported file extension")
	}

	parser, err := lang.ForLanguage(l)
	if err != nil {
		return fileParseResult{lang: l}, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fileParseResult{lang: l}, codeerr.Wrap(codeerr.IO, err, "read source")
	}

	fileID := ids.NewFileId(ix.fileCounter.Add(1))

	ix.counterMu.Lock()
	start := ix.symbolCounter.Reserve(ix.symbolBudget)
	ix.counterMu.Unlock()
	fileCounter := ids.FromValue(uint32(start))

	var tracker langparser.NodeTrackerLike
	symbols, err := parser.Parse(source, fileID, fileCounter, &tracker)
	if err != nil {
		return fileParseResult{fileID: fileID, lang: l}, codeerr.Wrap(codeerr.ParseFailure, err, "parse "+path)
	}
	if used := fileCounter.Value() - uint32(start); used > ix.symbolBudget {
		return fileParseResult{fileID: fileID, lang: l}, codeerr.New(codeerr.Internal, fmt.Sprintf("parse %s: %d symbols exceed the per-file id budget of %d", path, used, ix.symbolBudget))
	}

	calls, err := parser.FindCalls(source)
	if err != nil {
		calls = nil
	}
	implements, err := parser.FindImplementations(source)
	if err != nil {
		implements = nil
	}
	extends, err := parser.FindExtends(source)
	if err != nil {
		extends = nil
	}

	return fileParseResult{
		fileID:     fileID,
		lang:       l,
		symbols:    symbols,
		calls:      calls,
		implements: implements,
		extends:    extends,
	}, nil
}

// BuildCandidates populates a fresh candidates.Index from a Result, so
// callers don't have to know the per-symbol language attribution scheme.
func BuildCandidates(res *Result) *candidates.Index {
	byFile := make(map[ids.FileId]langparser.Language, len(res.Files))
	for _, f := range res.Files {
		byFile[f.FileId] = f.Language
	}
	idx := candidates.New()
	for _, s := range res.Symbols {
		idx.Add(s, byFile[s.FileId])
	}
	return idx
}

// BuildCache writes a symcache.Cache file from a Result's symbols.
func BuildCache(path string, res *Result) error {
	return symcache.Build(path, res.Symbols)
}

func discoverFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if langparser.DetectLanguage(path) != langparser.LangUnknown {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func shouldSkipDir(name string) bool {
	return name == ".git" || name == "node_modules" || name == "vendor"
}
