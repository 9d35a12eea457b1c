// Package symbol holds the data records every language extractor produces:
// Symbol and the ScopeContext tag attached to it at emission time.
package symbol

import (
	"github.com/codegraph/codeintel/pkg/ids"
)

// Visibility mirrors a declaration's access level, mapped per language by
// the extractor that emits the symbol (see each pkg/lang/* package).
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
	// VisibilityModule covers file/internal/package-private/protected access
	// (including Rust's restricted pub(...) forms).
	VisibilityModule
	// VisibilityCrate covers module-group access (C# and Kotlin internal).
	VisibilityCrate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "Public"
	case VisibilityPrivate:
		return "Private"
	case VisibilityModule:
		return "Module"
	case VisibilityCrate:
		return "Crate"
	default:
		return "Public"
	}
}

// ScopeKind tags the shape of a ScopeContext without needing a type switch.
type ScopeKind int

const (
	ScopeModule ScopeKind = iota
	ScopeGlobal
	ScopePackage
	ScopeNamespace
	ScopeClassMember
	ScopeParameter
	ScopeLocal
)

// ScopeContext is the semantic scope under which a symbol was declared. Only
// Kind discriminates the variant; Hoisted/ParentName/ParentKind are only
// meaningful when Kind == ScopeLocal.
type ScopeContext struct {
	Kind ScopeKind

	// Hoisted is true only for declarations whose site semantically
	// precedes the enclosing function body (JS/TS function declarations).
	Hoisted bool

	// ParentName/ParentKind identify the nearest enclosing function or
	// class for ScopeLocal contexts.
	ParentName string
	ParentKind string
}

// Module returns the Module scope singleton value.
func Module() ScopeContext { return ScopeContext{Kind: ScopeModule} }

// Global returns the Global scope singleton value.
func Global() ScopeContext { return ScopeContext{Kind: ScopeGlobal} }

// Package returns the Package/Namespace scope singleton value.
func Package() ScopeContext { return ScopeContext{Kind: ScopePackage} }

// ClassMember returns the ClassMember scope singleton value.
func ClassMember() ScopeContext { return ScopeContext{Kind: ScopeClassMember} }

// Parameter returns the Parameter scope singleton value.
func Parameter() ScopeContext { return ScopeContext{Kind: ScopeParameter} }

// Local returns a Local scope attributed to the nearest enclosing function
// or class.
func Local(hoisted bool, parentName, parentKind string) ScopeContext {
	return ScopeContext{Kind: ScopeLocal, Hoisted: hoisted, ParentName: parentName, ParentKind: parentKind}
}

// Symbol is an extracted declaration with identity, location, and metadata.
// Base fields (Id, Name, Kind, FileId, Range) are required; the rest are
// composed fluently via the With* methods, which return updated copies so
// extractors can chain: sym = sym.WithDoc(d).WithVisibility(v).
type Symbol struct {
	Id     ids.SymbolId
	Name   string
	Kind   ids.SymbolKind
	FileId ids.FileId
	Range  ids.Range

	Signature    string
	DocComment   string
	ModulePath   string
	HasVis       bool
	Visibility   Visibility
	HasScope     bool
	ScopeContext ScopeContext
}

// New builds the required base of a Symbol. Id, FileId and Name must be
// non-empty/non-zero per the engine's invariants.
func New(id ids.SymbolId, name string, kind ids.SymbolKind, fileID ids.FileId, r ids.Range) Symbol {
	return Symbol{Id: id, Name: name, Kind: kind, FileId: fileID, Range: r}
}

// WithSignature attaches the source text of the declaration header (body
// excluded).
func (s Symbol) WithSignature(sig string) Symbol {
	s.Signature = sig
	return s
}

// WithDoc attaches a normalized doc comment.
func (s Symbol) WithDoc(doc string) Symbol {
	s.DocComment = doc
	return s
}

// WithModulePath attaches a language-defined dotted or slash-separated path.
func (s Symbol) WithModulePath(path string) Symbol {
	s.ModulePath = path
	return s
}

// WithVisibility attaches a resolved visibility.
func (s Symbol) WithVisibility(v Visibility) Symbol {
	s.HasVis = true
	s.Visibility = v
	return s
}

// WithScopeContext attaches the ScopeContext the parser determined at
// emission time. Per the scope attribution contract, every extractor MUST
// call this whenever it knows the scope.
func (s Symbol) WithScopeContext(sc ScopeContext) Symbol {
	s.HasScope = true
	s.ScopeContext = sc
	return s
}
