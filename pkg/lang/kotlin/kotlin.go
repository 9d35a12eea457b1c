// Package kotlin is a best-effort line-oriented extractor for Kotlin
// source. No tree-sitter Kotlin grammar is available, so this implements
// langparser.LanguageParser directly against regular expressions rather
// than a parsed tree — coarser than the grammar-backed extractors, but
// behind the same interface, so callers don't special-case it.
package kotlin

import (
	"regexp"
	"strings"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

type Parser struct{}

func New() langparser.LanguageParser { return &Parser{} }

func (p *Parser) Language() langparser.Language { return langparser.LangKotlin }

var (
	funReStr   = `^\s*(?:(private|internal|public|protected)\s+)?(?:suspend\s+)?fun(?:\s*<[^>]*>)?\s+(?:([A-Za-z_][A-Za-z0-9_<>,. ?]*)\.)?([A-Za-z_][A-Za-z0-9_]*)\s*\(`
	classReStr = `^\s*(?:(private|internal|public)\s+)?(?:data\s+|sealed\s+|abstract\s+|open\s+)*(class|interface|object|enum class)\s+([A-Za-z_][A-Za-z0-9_]*)`
	valReStr   = `^\s*(?:(private|internal|public)\s+)?(val|var|const val)\s+([A-Za-z_][A-Za-z0-9_]*)`
	importRe   = regexp.MustCompile(`^\s*import\s+([A-Za-z_][A-Za-z0-9_.]*)(?:\s+as\s+([A-Za-z_][A-Za-z0-9_]*))?`)
	callRe     = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
)

var (
	funRe   = regexp.MustCompile(funReStr)
	classRe = regexp.MustCompile(classReStr)
	valRe   = regexp.MustCompile(valReStr)
)

func (p *Parser) Parse(source []byte, fileID ids.FileId, counter *ids.SymbolCounter, tracker *langparser.NodeTrackerLike) ([]symbol.Symbol, error) {
	lines := strings.Split(string(source), "\n")
	var out []symbol.Symbol
	currentClass := ""
	classIndent := -1

	for i, line := range lines {
		indent := leadingSpaces(line)
		if currentClass != "" && indent <= classIndent && strings.TrimSpace(line) != "" {
			currentClass = ""
			classIndent = -1
		}

		if m := classRe.FindStringSubmatch(line); m != nil {
			if tracker != nil {
				(*tracker).RegisterHandledNode("class_declaration", 0)
			}
			kind := ids.KindClass
			switch m[2] {
			case "interface":
				kind = ids.KindInterface
			case "enum class":
				kind = ids.KindEnum
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			sym := symbol.New(counter.Next(), m[3], kind, fileID, r).
				WithVisibility(visibilityOf(m[1])).
				WithScopeContext(symbol.Module())
			out = append(out, sym)
			currentClass = m[3]
			classIndent = indent
			continue
		}

		if m := funRe.FindStringSubmatch(line); m != nil {
			if tracker != nil {
				(*tracker).RegisterHandledNode("function_declaration", 0)
			}
			kind := ids.KindFunction
			scope := symbol.Module()
			receiver := m[2]
			if receiver != "" || currentClass != "" {
				kind = ids.KindMethod
				if currentClass != "" {
					scope = symbol.ClassMember()
				}
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			sym := symbol.New(counter.Next(), m[3], kind, fileID, r).
				WithVisibility(visibilityOf(m[1])).
				WithScopeContext(scope)
			out = append(out, sym)
			continue
		}

		if m := valRe.FindStringSubmatch(line); m != nil {
			kind := ids.KindVariable
			if m[2] == "const val" {
				kind = ids.KindConstant
			}
			scope := symbol.Module()
			if currentClass != "" {
				scope = symbol.ClassMember()
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			sym := symbol.New(counter.Next(), m[3], kind, fileID, r).
				WithVisibility(visibilityOf(m[1])).
				WithScopeContext(scope)
			out = append(out, sym)
		}
	}
	return out, nil
}

func visibilityOf(modifier string) symbol.Visibility {
	switch modifier {
	case "private":
		return symbol.VisibilityPrivate
	case "internal":
		return symbol.VisibilityCrate
	case "protected":
		return symbol.VisibilityModule
	default:
		return symbol.VisibilityPublic
	}
}

func leadingSpaces(s string) int {
	n := 0
	for _, c := range s {
		if c == ' ' {
			n++
		} else if c == '\t' {
			n += 4
		} else {
			break
		}
	}
	return n
}

func (p *Parser) FindCalls(source []byte) ([]langparser.CallTuple, error) {
	lines := strings.Split(string(source), "\n")
	var out []langparser.CallTuple
	caller := langparser.ScriptScopeSentinel(langparser.LangKotlin)
	for i, line := range lines {
		if m := funRe.FindStringSubmatch(line); m != nil {
			caller = m[3]
			continue
		}
		if classRe.MatchString(line) || valRe.MatchString(line) {
			continue
		}
		for _, m := range callRe.FindAllStringSubmatch(line, -1) {
			name := m[1]
			if isKeyword(name) {
				continue
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, langparser.CallTuple{Caller: caller, Callee: name, Range: r})
		}
	}
	return out, nil
}

func isKeyword(s string) bool {
	switch s {
	case "if", "for", "while", "when", "fun", "return", "catch", "super":
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
	lines := strings.Split(string(source), "\n")
	var out []langparser.ImplementsTuple
	for i, line := range lines {
		m := classRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		for _, base := range strings.Split(line[idx+1:], ",") {
			name := strings.TrimSpace(strings.SplitN(strings.TrimSpace(base), "(", 2)[0])
			if name == "" {
				continue
			}
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, langparser.ImplementsTuple{Type: m[3], Interface: name, Range: r})
		}
	}
	return out, nil
}

func (p *Parser) FindExtends(source []byte) ([]langparser.ExtendsTuple, error) {
	impls, err := p.FindImplementations(source)
	if err != nil {
		return nil, err
	}
	var out []langparser.ExtendsTuple
	for _, impl := range impls {
		if !looksLikeInterface(impl.Interface) {
			out = append(out, langparser.ExtendsTuple{Derived: impl.Type, Base: impl.Interface, Range: impl.Range})
		}
	}
	return out, nil
}

func looksLikeInterface(name string) bool {
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

func (p *Parser) FindUses(source []byte) ([]langparser.UsesTuple, error) {
	return nil, nil
}

func (p *Parser) FindDefines(source []byte) ([]langparser.DefinesTuple, error) {
	lines := strings.Split(string(source), "\n")
	var out []langparser.DefinesTuple
	currentClass := ""
	classIndent := -1
	for i, line := range lines {
		indent := leadingSpaces(line)
		if currentClass != "" && indent <= classIndent && strings.TrimSpace(line) != "" {
			currentClass = ""
		}
		if m := classRe.FindStringSubmatch(line); m != nil {
			currentClass = m[3]
			classIndent = indent
			continue
		}
		if currentClass == "" {
			continue
		}
		if m := funRe.FindStringSubmatch(line); m != nil {
			r := ids.NewRange(uint32(i+1), 0, uint32(i+1), uint16(len(line)))
			out = append(out, langparser.DefinesTuple{Type: currentClass, Method: m[3], Range: r})
		}
	}
	return out, nil
}

func (p *Parser) FindImports(source []byte, fileID ids.FileId) ([]langparser.Import, error) {
	lines := strings.Split(string(source), "\n")
	var out []langparser.Import
	for _, line := range lines {
		m := importRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		imp := langparser.NewImport(m[1], fileID)
		if m[2] != "" {
			imp = imp.WithAlias(m[2])
		}
		if strings.HasSuffix(m[1], "*") {
			imp = imp.AsGlob()
		}
		out = append(out, imp)
	}
	return out, nil
}

func (p *Parser) FindVariableTypes(source []byte) ([]langparser.VariableTypeTuple, error) {
	return nil, nil
}

func (p *Parser) FindInherentMethods(source []byte) ([]langparser.InherentMethodTuple, error) {
	defines, err := p.FindDefines(source)
	if err != nil {
		return nil, err
	}
	out := make([]langparser.InherentMethodTuple, 0, len(defines))
	for _, d := range defines {
		out = append(out, langparser.InherentMethodTuple{Type: d.Type, Method: d.Method})
	}
	return out, nil
}

func (p *Parser) ExtractDocComment(source []byte, line uint32) string {
	lines := strings.Split(string(source), "\n")
	if line == 0 || int(line) > len(lines) {
		return ""
	}
	var b strings.Builder
	for i := int(line) - 2; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if l == "" {
			break
		}
		if !strings.HasPrefix(l, "//") && !strings.HasPrefix(l, "*") && !strings.HasPrefix(l, "/**") {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
