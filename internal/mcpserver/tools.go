package mcpserver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/codegraph/codeintel/pkg/audit"
	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/envelope"
	"github.com/codegraph/codeintel/pkg/lang"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/metastore"
)

// FindSymbolInput names a symbol to look up by exact name.
type FindSymbolInput struct {
	Name string `json:"name" jsonschema:"Exact symbol name to look up."`
}

// FindCallersInput names a callee to find callers of.
type FindCallersInput struct {
	Name string `json:"name" jsonschema:"Function or method name to find callers of."`
}

// FindCalleesInput names a caller to find callees of.
type FindCalleesInput struct {
	Name string `json:"name" jsonschema:"Function or method name to find callees of."`
}

// FindImplementationsInput names an interface/trait to find implementations of.
type FindImplementationsInput struct {
	Name string `json:"name" jsonschema:"Interface or trait name to find implementations of."`
}

// ImpactOfInput names a symbol to compute the transitive impact set of.
type ImpactOfInput struct {
	Name string `json:"name" jsonschema:"Symbol name to compute the caller-graph impact set for."`
}

// AuditCoverageInput names a sample file (and optional language override) to audit.
type AuditCoverageInput struct {
	File string `json:"file" jsonschema:"Path to a representative source file for the language."`
	Lang string `json:"lang,omitempty" jsonschema:"Language override; inferred from the file extension when empty."`
}

func (s *Server) metaPath() string { return filepath.Join(s.stateDir, "symbols.meta.json") }

func (s *Server) loadStore() (*metastore.Store, error) {
	return metastore.Load(s.metaPath())
}

func toolResult(env envelope.Envelope) (*mcp.CallToolResult, any, error) {
	text, err := toon.Marshal(env.RenderData(), toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(text)}},
		IsError: env.Status == envelope.StatusError,
	}, nil, nil
}

func (s *Server) handleFindSymbol(ctx context.Context, req *mcp.CallToolRequest, input FindSymbolInput) (*mcp.CallToolResult, any, error) {
	store, err := s.loadStore()
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntitySymbol, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
	}

	matches := store.ByName(input.Name)
	items := make([]any, 0, len(matches))
	for _, sym := range matches {
		items = append(items, sym)
	}
	return toolResult(envelope.New(envelope.EntitySymbol, envelope.Items(items)))
}

func (s *Server) handleFindCallers(ctx context.Context, req *mcp.CallToolRequest, input FindCallersInput) (*mcp.CallToolResult, any, error) {
	store, err := s.loadStore()
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntitySearchResult, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
	}

	callers := store.Callers(input.Name)
	items := make([]any, 0, len(callers))
	for _, n := range callers {
		items = append(items, n)
	}
	return toolResult(envelope.New(envelope.EntitySearchResult, envelope.Items(items)))
}

func (s *Server) handleFindCallees(ctx context.Context, req *mcp.CallToolRequest, input FindCalleesInput) (*mcp.CallToolResult, any, error) {
	store, err := s.loadStore()
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntitySearchResult, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
	}

	callees := store.Callees(input.Name)
	items := make([]any, 0, len(callees))
	for _, n := range callees {
		items = append(items, n)
	}
	return toolResult(envelope.New(envelope.EntitySearchResult, envelope.Items(items)))
}

func (s *Server) handleFindImplementations(ctx context.Context, req *mcp.CallToolRequest, input FindImplementationsInput) (*mcp.CallToolResult, any, error) {
	store, err := s.loadStore()
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntityInterface, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
	}

	impls := store.Implementations(input.Name)
	items := make([]any, 0, len(impls))
	for _, n := range impls {
		items = append(items, n)
	}
	return toolResult(envelope.New(envelope.EntityInterface, envelope.Items(items)))
}

func (s *Server) handleImpactOf(ctx context.Context, req *mcp.CallToolRequest, input ImpactOfInput) (*mcp.CallToolResult, any, error) {
	store, err := s.loadStore()
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntityImpact, asCodeErr(err)).
			WithGuidance("run `codeintel index <path>` first"))
	}

	affected := store.Impact(input.Name)
	items := make([]any, 0, len(affected))
	for _, n := range affected {
		items = append(items, n)
	}
	return toolResult(envelope.New(envelope.EntityImpact, envelope.Items(items)).
		WithMetadata(envelope.Metadata{Query: input.Name}))
}

func (s *Server) handleAuditCoverage(ctx context.Context, req *mcp.CallToolRequest, input AuditCoverageInput) (*mcp.CallToolResult, any, error) {
	l := langparser.DetectLanguage(input.File)
	if input.Lang != "" {
		l = langparser.ParseLanguage(input.Lang)
	}
	if l == langparser.LangUnknown {
		return toolResult(envelope.Fail(envelope.EntityIndexInfo,
			codeerr.New(codeerr.InvalidInput, "could not determine language for "+input.File)))
	}

	parser, err := lang.ForLanguage(l)
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntityIndexInfo, asCodeErr(err)))
	}

	source, err := os.ReadFile(input.File)
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntityIndexInfo, codeerr.Wrap(codeerr.IO, err, "audit: read "+input.File)))
	}

	report, err := audit.Run(l, source, parser)
	if err != nil {
		return toolResult(envelope.Fail(envelope.EntityIndexInfo, codeerr.Wrap(codeerr.Internal, err, "audit: run")))
	}

	summary := map[string]any{
		"language":         report.Language,
		"grammar_total":    report.GrammarTotal,
		"handled_curated":  report.HandledCurated,
		"curated_total":    report.CuratedTotal,
		"coverage_percent": report.CoveragePercent,
		"gaps":             report.Gaps,
		"no_grammar":       report.NoGrammar,
	}
	return toolResult(envelope.New(envelope.EntityIndexInfo, envelope.Single(summary)))
}

func asCodeErr(err error) *codeerr.Error {
	if ce, ok := codeerr.As(err); ok {
		return ce
	}
	return codeerr.Wrap(codeerr.Internal, err, "tool failed")
}
