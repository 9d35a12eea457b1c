// Package gdscript is a best-effort line-oriented extractor for GDScript
// source, Godot's Python-like scripting language. No tree-sitter GDScript
// grammar is available, so this implements langparser.LanguageParser
// directly against indentation and regular expressions.
package gdscript

import (
	"regexp"
	"strings"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

type Parser struct{}

func New() langparser.LanguageParser { return &Parser{} }

func (p *Parser) Language() langparser.Language { return langparser.LangGDScript }

var (
	funcRe      = regexp.MustCompile(`^(\s*)func\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	classNameRe = regexp.MustCompile(`^class_name\s+([A-Za-z_][A-Za-z0-9_]*)`)
	innerClsRe  = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_][A-Za-z0-9_]*)`)
	extendsRe   = regexp.MustCompile(`^extends\s+([A-Za-z_][A-Za-z0-9_.]*)`)
	varRe       = regexp.MustCompile(`^(\s*)(?:export(?:\([^)]*\))?\s+)?(var|const)\s+([A-Za-z_][A-Za-z0-9_]*)`)
	signalRe    = regexp.MustCompile(`^(\s*)signal\s+([A-Za-z_][A-Za-z0-9_]*)`)
	importRe    = regexp.MustCompile(`^(?:const\s+[A-Za-z_][A-Za-z0-9_]*\s*=\s*)?preload\(\s*"([^"]+)"\s*\)`)
	callRe      = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
)

func (p *Parser) Parse(source []byte, fileID ids.FileId, counter *ids.SymbolCounter, tracker *langparser.NodeTrackerLike) ([]symbol.Symbol, error) {
	lines := strings.Split(string(source), "\n")
	var out []symbol.Symbol

	for i, line := range lines {
		if m := classNameRe.FindStringSubmatch(line); m != nil {
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, symbol.New(counter.Next(), m[1], ids.KindClass, fileID, r).
				WithVisibility(symbol.VisibilityPublic).WithScopeContext(symbol.Module()))
			continue
		}
		if m := innerClsRe.FindStringSubmatch(line); m != nil {
			if tracker != nil {
				(*tracker).RegisterHandledNode("inner_class", 0)
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, symbol.New(counter.Next(), m[2], ids.KindClass, fileID, r).
				WithVisibility(symbol.VisibilityPublic).WithScopeContext(symbol.Module()))
			continue
		}
		if m := funcRe.FindStringSubmatch(line); m != nil {
			if tracker != nil {
				(*tracker).RegisterHandledNode("function_definition", 0)
			}
			vis := symbol.VisibilityPublic
			if strings.HasPrefix(m[2], "_") {
				vis = symbol.VisibilityPrivate
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, symbol.New(counter.Next(), m[2], ids.KindFunction, fileID, r).
				WithVisibility(vis).WithScopeContext(symbol.Module()))
			continue
		}
		if m := varRe.FindStringSubmatch(line); m != nil {
			kind := ids.KindVariable
			if m[2] == "const" {
				kind = ids.KindConstant
			}
			vis := symbol.VisibilityPublic
			if strings.HasPrefix(m[3], "_") {
				vis = symbol.VisibilityPrivate
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, symbol.New(counter.Next(), m[3], kind, fileID, r).
				WithVisibility(vis).WithScopeContext(symbol.Module()))
			continue
		}
		if m := signalRe.FindStringSubmatch(line); m != nil {
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, symbol.New(counter.Next(), m[2], ids.KindFunction, fileID, r).
				WithVisibility(symbol.VisibilityPublic).WithScopeContext(symbol.Module()))
		}
	}
	return out, nil
}

func (p *Parser) FindCalls(source []byte) ([]langparser.CallTuple, error) {
	lines := strings.Split(string(source), "\n")
	var out []langparser.CallTuple
	caller := langparser.ScriptScopeSentinel(langparser.LangGDScript)
	for i, line := range lines {
		if m := funcRe.FindStringSubmatch(line); m != nil {
			caller = m[2]
			continue
		}
		if varRe.MatchString(line) || classNameRe.MatchString(line) || extendsRe.MatchString(line) {
			continue
		}
		for _, m := range callRe.FindAllStringSubmatch(line, -1) {
			if isKeyword(m[1]) {
				continue
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, langparser.CallTuple{Caller: caller, Callee: m[1], Range: r})
		}
	}
	return out, nil
}

func isKeyword(s string) bool {
	switch s {
	case "if", "for", "while", "match", "func", "return":
		return true
	}
	return false
}

func (p *Parser) FindMethodCalls(source []byte) ([]langparser.MethodCall, error) {
	calls, err := p.FindCalls(source)
	if err != nil {
		return nil, err
	}
	out := make([]langparser.MethodCall, 0, len(calls))
	for _, c := range calls {
		out = append(out, langparser.NewMethodCall(c.Caller, c.Callee, c.Range))
	}
	return out, nil
}

func (p *Parser) FindImplementations(source []byte) ([]langparser.ImplementsTuple, error) {
	return nil, nil
}

// FindExtends reports the single `extends Base` declaration a GDScript
// file may have, attributed to the file's class_name (or "<script>" if
// the file is anonymous, per Godot's one-script-per-file model).
func (p *Parser) FindExtends(source []byte) ([]langparser.ExtendsTuple, error) {
	lines := strings.Split(string(source), "\n")
	name := "<script>"
	for _, line := range lines {
		if m := classNameRe.FindStringSubmatch(line); m != nil {
			name = m[1]
			break
		}
	}
	var out []langparser.ExtendsTuple
	for i, line := range lines {
		if m := extendsRe.FindStringSubmatch(line); m != nil {
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, langparser.ExtendsTuple{Derived: name, Base: m[1], Range: r})
			break
		}
	}
	return out, nil
}

func (p *Parser) FindUses(source []byte) ([]langparser.UsesTuple, error) {
	return nil, nil
}

func (p *Parser) FindDefines(source []byte) ([]langparser.DefinesTuple, error) {
	return nil, nil
}

func (p *Parser) FindImports(source []byte, fileID ids.FileId) ([]langparser.Import, error) {
	lines := strings.Split(string(source), "\n")
	var out []langparser.Import
	for _, line := range lines {
		if m := importRe.FindStringSubmatch(line); m != nil {
			out = append(out, langparser.NewImport(m[1], fileID))
		}
	}
	return out, nil
}

func (p *Parser) FindVariableTypes(source []byte) ([]langparser.VariableTypeTuple, error) {
	return nil, nil
}

func (p *Parser) FindInherentMethods(source []byte) ([]langparser.InherentMethodTuple, error) {
	return nil, nil
}

func (p *Parser) ExtractDocComment(source []byte, line uint32) string {
	lines := strings.Split(string(source), "\n")
	if line == 0 || int(line) > len(lines) {
		return ""
	}
	var b strings.Builder
	for i := int(line) - 2; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if l == "" || !strings.HasPrefix(l, "#") {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
