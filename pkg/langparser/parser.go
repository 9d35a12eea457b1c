package langparser

import (
	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// LanguageParser is the uniform contract every per-language extractor in
// pkg/lang/* implements. Parse extracts a file's symbols; each Find* method
// takes the same source and extracts one kind of relationship tuple on its
// own, parsing the source again.
type LanguageParser interface {
	Language() Language

	// Parse walks the full source of a file and extracts its symbols.
	// fileID tags every symbol produced. counter supplies ids.SymbolId
	// values; tracker records which grammar node kinds were handled.
	Parse(source []byte, fileID ids.FileId, counter *ids.SymbolCounter, tracker *NodeTrackerLike) ([]symbol.Symbol, error)

	FindCalls(source []byte) ([]CallTuple, error)
	FindMethodCalls(source []byte) ([]MethodCall, error)
	FindImplementations(source []byte) ([]ImplementsTuple, error)
	FindExtends(source []byte) ([]ExtendsTuple, error)
	FindUses(source []byte) ([]UsesTuple, error)
	FindDefines(source []byte) ([]DefinesTuple, error)
	FindImports(source []byte, fileID ids.FileId) ([]Import, error)
	FindVariableTypes(source []byte) ([]VariableTypeTuple, error)
	FindInherentMethods(source []byte) ([]InherentMethodTuple, error)

	// ExtractDocComment returns the doc comment immediately preceding the
	// given 1-based line, per the language's doc-comment convention, or ""
	// if none is attached.
	ExtractDocComment(source []byte, line uint32) string
}

// NodeTrackerLike is the subset of *nodetracker.Tracker a LanguageParser
// needs; declared here (rather than importing pkg/nodetracker directly) to
// avoid a dependency cycle, since nodetracker has no need to know about
// langparser.
type NodeTrackerLike interface {
	RegisterHandledNode(name string, id uint16)
}
