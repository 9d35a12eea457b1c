// Package tsengine implements a single tree-sitter-backed extraction engine
// shared by every grammar-backed language under pkg/lang/*. Each concrete
// language package (golang, rust, clang, cpp, csharp, typescript, php)
// supplies a Config describing the node-type vocabulary and naming rules
// for its grammar; the engine walks the tree once per query and applies
// that config, the same table-driven shape the teacher's inspector uses.
package tsengine

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/parsectx"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// ParamSpec is one formal parameter, or a method receiver, found in a
// function/method declaration's header.
type ParamSpec struct {
	Name string
	Node *sitter.Node
}

// VarTypeSpec is one (variable, type) binding found on a var/field/local
// declaration node, the raw material for langparser.VariableTypeTuple.
type VarTypeSpec struct {
	Variable string
	Type     string
	Node     *sitter.Node
}

// Config describes one grammar's node vocabulary and naming conventions.
type Config struct {
	Lang langparser.Language
	TS   *sitter.Language

	FunctionTypes map[string]bool
	MethodTypes   map[string]bool
	ClassTypes    map[string]ids.SymbolKind // struct/class/interface/trait/enum node types -> kind
	ImportTypes   map[string]bool
	VarTypes      map[string]bool
	ConstTypes    map[string]bool
	CallTypes     map[string]bool

	// FuncName extracts a function/method's name, or "" if anonymous.
	FuncName func(n *sitter.Node, src []byte) string
	// Receiver extracts a method receiver's type name, or "" for plain functions.
	Receiver func(n *sitter.Node, src []byte) string
	// Params extracts the formal parameter list (and receiver, for
	// grammars that attach it to the same declaration node) of a
	// function/method declaration, each emitted as a Parameter symbol.
	Params func(n *sitter.Node, src []byte) []ParamSpec
	// ClassName extracts a type declaration's name.
	ClassName func(n *sitter.Node, src []byte) string
	// Inheritance extracts (extends bases, implements interfaces) for a type decl.
	Inheritance func(n *sitter.Node, src []byte) (extends, implements []string)
	// ImportPath extracts the dotted/slashed path string of an import node.
	ImportPath func(n *sitter.Node, src []byte) (path string, alias string, isGlob bool)
	// VarName extracts a variable/const declarator's name.
	VarName func(n *sitter.Node, src []byte) string
	// VariableTypes extracts (variable, type) bindings from a node in
	// VarTypes/ConstTypes; nil means the language has no enabled
	// variable-type story (spec default).
	VariableTypes func(n *sitter.Node, src []byte) []VarTypeSpec
	// CallTarget extracts (calleeName, receiverExprOrEmpty) from a call node.
	CallTarget func(n *sitter.Node, src []byte) (callee, receiver string)
	// TypeArgs extracts the raw text of each type argument at a call/new
	// node (the K, V in `new Map<K, V>()`), or nil if the node carries
	// none. Drives the generic-parameters Uses rule alongside CallTarget.
	TypeArgs func(n *sitter.Node, src []byte) []string
	// NewExprTypes marks node types that construct a value; their generic
	// Uses are attributed to the assigned variable rather than the callee.
	NewExprTypes map[string]bool
	// Visibility resolves a declaration's access level. Receives the
	// declaration node (for grammars that mark access via a modifier
	// keyword or wrapper statement) and the name (for grammars that mark
	// it via naming convention).
	Visibility func(n *sitter.Node, name string, src []byte) symbol.Visibility
	// DocComment walks backward from a declaration node to collect its doc comment.
	DocComment func(n *sitter.Node, src []byte) string
}

// Engine implements langparser.LanguageParser against a Config.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine { return &Engine{cfg: cfg} }

func (e *Engine) Language() langparser.Language { return e.cfg.Lang }

// TSLanguage exposes the underlying tree-sitter grammar, for callers (the
// audit runner) that need to walk a raw parse tree rather than the
// production extraction path.
func (e *Engine) TSLanguage() *sitter.Language { return e.cfg.TS }

func (e *Engine) parseTree(source []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	p.SetLanguage(e.cfg.TS)
	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("tsengine: parse %s: %w", e.cfg.Lang, err)
	}
	return tree, nil
}

func nodeRange(n *sitter.Node) ids.Range {
	sp, ep := n.StartPoint(), n.EndPoint()
	return ids.NewRange(sp.Row+1, uint16(sp.Column), ep.Row+1, uint16(ep.Column))
}

// Range converts a tree-sitter node's source span into an ids.Range, for
// Config hooks (e.g. two-pass ExternalType extractors) that build Symbols
// outside the engine's own traversal.
func Range(n *sitter.Node) ids.Range { return nodeRange(n) }

// NodeText returns a node's source text, or "" for a nil/out-of-range node.
func NodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start > end || int(end) > len(src) {
		return ""
	}
	return string(src[start:end])
}

// FieldText returns the text of a node's named child field, or "".
func FieldText(n *sitter.Node, field string, src []byte) string {
	if n == nil {
		return ""
	}
	return NodeText(n.ChildByFieldName(field), src)
}

// Unquote strips a single layer of matching quote characters, the common
// shape of a string-literal import path across every grammar here.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func walk(n *sitter.Node, visit func(n *sitter.Node, nodeType string) bool) {
	if n == nil {
		return
	}
	if !visit(n, n.Type()) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// Parse extracts every symbol in the file in one traversal, attributing
// scope via pkg/parsectx the same way the engine's per-node handlers are
// driven by the Config tables.
func (e *Engine) Parse(source []byte, fileID ids.FileId, counter *ids.SymbolCounter, tracker *langparser.NodeTrackerLike) ([]symbol.Symbol, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	p := &parseState{e: e, ctx: parsectx.New(), source: source, fileID: fileID, counter: counter, tracker: tracker}
	p.visit(tree.RootNode())
	return p.out, nil
}

// parseState carries the single recursive-descent traversal's mutable state.
type parseState struct {
	e       *Engine
	ctx     *parsectx.Context
	source  []byte
	fileID  ids.FileId
	counter *ids.SymbolCounter
	tracker *langparser.NodeTrackerLike
	out     []symbol.Symbol
}

func (p *parseState) visit(n *sitter.Node) {
	if n == nil {
		return
	}
	nodeType := n.Type()
	if p.tracker != nil {
		(*p.tracker).RegisterHandledNode(nodeType, 0)
	}
	cfg := p.e.cfg

	if kind, isClass := cfg.ClassTypes[nodeType]; isClass && cfg.ClassName != nil {
		if name := cfg.ClassName(n, p.source); name != "" {
			p.emit(n, name, kind)

			prevClass := p.ctx.CurrentClass()
			p.ctx.SetCurrentClass(name)
			p.ctx.EnterScope(parsectx.ScopeClass, false)
			p.visitChildren(n)
			p.ctx.ExitScope()
			p.ctx.SetCurrentClass(prevClass)
			return
		}
	}

	if cfg.FunctionTypes[nodeType] || cfg.MethodTypes[nodeType] {
		if cfg.FuncName != nil {
			if name := cfg.FuncName(n, p.source); name != "" {
				kind := ids.KindFunction
				if cfg.MethodTypes[nodeType] {
					kind = ids.KindMethod
				} else if cfg.Receiver != nil && cfg.Receiver(n, p.source) != "" {
					kind = ids.KindMethod
				}
				p.emit(n, name, kind)
				p.emitParams(n)

				prevFn := p.ctx.CurrentFunction()
				p.ctx.SetCurrentFunction(name)
				p.ctx.EnterScope(parsectx.ScopeFunction, false)
				p.visitChildren(n)
				p.ctx.ExitScope()
				p.ctx.SetCurrentFunction(prevFn)
				return
			}
		}
	}

	if cfg.VarTypes[nodeType] || cfg.ConstTypes[nodeType] {
		if cfg.VarName != nil {
			if name := cfg.VarName(n, p.source); name != "" {
				kind := ids.KindVariable
				if cfg.ConstTypes[nodeType] {
					kind = ids.KindConstant
				}
				p.emit(n, name, kind)
			}
		}
	}

	p.visitChildren(n)
}

func (p *parseState) visitChildren(n *sitter.Node) {
	for i := 0; i < int(n.ChildCount()); i++ {
		p.visit(n.Child(i))
	}
}

func (p *parseState) emit(n *sitter.Node, name string, kind ids.SymbolKind) {
	cfg := p.e.cfg
	sym := symbol.New(p.counter.Next(), name, kind, p.fileID, nodeRange(n)).
		WithScopeContext(p.ctx.CurrentScopeContext())
	if cfg.Visibility != nil {
		sym = sym.WithVisibility(cfg.Visibility(n, name, p.source))
	}
	if cfg.DocComment != nil {
		if doc := cfg.DocComment(n, p.source); doc != "" {
			sym = sym.WithDoc(doc)
		}
	}
	p.out = append(p.out, sym)
}

// emitParams emits a Parameter symbol, scope_context = Parameter, for each
// formal parameter (and receiver, where the grammar attaches one to the
// same node) of a function/method declaration.
func (p *parseState) emitParams(n *sitter.Node) {
	if p.e.cfg.Params == nil {
		return
	}
	for _, ps := range p.e.cfg.Params(n, p.source) {
		if ps.Name == "" || ps.Node == nil {
			continue
		}
		sym := symbol.New(p.counter.Next(), ps.Name, ids.KindParameter, p.fileID, nodeRange(ps.Node)).
			WithScopeContext(symbol.Parameter())
		p.out = append(p.out, sym)
	}
}

func (e *Engine) FindCalls(source []byte) ([]langparser.CallTuple, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.CallTuple
	caller := langparser.ScriptScopeSentinel(e.cfg.Lang)
	var funcStack []string

	var visit func(n *sitter.Node, nodeType string) bool
	visit = func(n *sitter.Node, nodeType string) bool {
		if e.cfg.FunctionTypes[nodeType] || e.cfg.MethodTypes[nodeType] {
			if e.cfg.FuncName != nil {
				if name := e.cfg.FuncName(n, source); name != "" {
					funcStack = append(funcStack, name)
					for i := 0; i < int(n.ChildCount()); i++ {
						walk(n.Child(i), visit)
					}
					funcStack = funcStack[:len(funcStack)-1]
					return false
				}
			}
		}
		if e.cfg.CallTypes[nodeType] && e.cfg.CallTarget != nil {
			callee, _ := e.cfg.CallTarget(n, source)
			if callee != "" {
				cur := caller
				if len(funcStack) > 0 {
					cur = funcStack[len(funcStack)-1]
				}
				out = append(out, langparser.CallTuple{Caller: cur, Callee: callee, Range: nodeRange(n)})
			}
		}
		return true
	}
	walk(tree.RootNode(), visit)
	return out, nil
}

func (e *Engine) FindMethodCalls(source []byte) ([]langparser.MethodCall, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.MethodCall
	caller := langparser.ScriptScopeSentinel(e.cfg.Lang)
	var funcStack []string

	var visit func(n *sitter.Node, nodeType string) bool
	visit = func(n *sitter.Node, nodeType string) bool {
		if e.cfg.FunctionTypes[nodeType] || e.cfg.MethodTypes[nodeType] {
			if e.cfg.FuncName != nil {
				if name := e.cfg.FuncName(n, source); name != "" {
					funcStack = append(funcStack, name)
					for i := 0; i < int(n.ChildCount()); i++ {
						walk(n.Child(i), visit)
					}
					funcStack = funcStack[:len(funcStack)-1]
					return false
				}
			}
		}
		if e.cfg.CallTypes[nodeType] && e.cfg.CallTarget != nil {
			callee, receiver := e.cfg.CallTarget(n, source)
			if callee == "" {
				return true
			}
			cur := caller
			if len(funcStack) > 0 {
				cur = funcStack[len(funcStack)-1]
			}
			mc := langparser.NewMethodCall(cur, callee, nodeRange(n))
			if receiver != "" {
				mc = mc.WithReceiver(receiver)
			}
			out = append(out, mc)
		}
		return true
	}
	walk(tree.RootNode(), visit)
	return out, nil
}

func (e *Engine) FindImplementations(source []byte) ([]langparser.ImplementsTuple, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.ImplementsTuple
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if _, ok := e.cfg.ClassTypes[nodeType]; !ok || e.cfg.ClassName == nil || e.cfg.Inheritance == nil {
			return true
		}
		name := e.cfg.ClassName(n, source)
		if name == "" {
			return true
		}
		_, implements := e.cfg.Inheritance(n, source)
		for _, iface := range implements {
			out = append(out, langparser.ImplementsTuple{Type: name, Interface: iface, Range: nodeRange(n)})
		}
		return true
	})
	return out, nil
}

func (e *Engine) FindExtends(source []byte) ([]langparser.ExtendsTuple, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.ExtendsTuple
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if _, ok := e.cfg.ClassTypes[nodeType]; !ok || e.cfg.ClassName == nil || e.cfg.Inheritance == nil {
			return true
		}
		name := e.cfg.ClassName(n, source)
		if name == "" {
			return true
		}
		extends, _ := e.cfg.Inheritance(n, source)
		for _, base := range extends {
			out = append(out, langparser.ExtendsTuple{Derived: name, Base: base, Range: nodeRange(n)})
		}
		return true
	})
	return out, nil
}

func (e *Engine) FindUses(source []byte) ([]langparser.UsesTuple, error) {
	calls, err := e.FindCalls(source)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []langparser.UsesTuple
	for _, c := range calls {
		key := c.Caller + "/" + c.Callee
		if seen[key] || !looksLikeType(c.Callee) {
			continue
		}
		seen[key] = true
		out = append(out, langparser.UsesTuple{Context: c.Caller, Type: c.Callee, Range: c.Range})
	}

	if e.cfg.TypeArgs != nil {
		generic, err := e.findGenericUses(source)
		if err != nil {
			return nil, err
		}
		for _, u := range generic {
			key := u.Context + "/" + u.Type
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, u)
		}
	}
	return out, nil
}

// findGenericUses walks call/new-expression nodes for type-argument lists
// (e.g. the K, V in `new Map<K, V>()`), attributing each non-primitive
// argument to the assigned variable for NewExprTypes nodes, or to the
// callee name otherwise.
func (e *Engine) findGenericUses(source []byte) ([]langparser.UsesTuple, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.UsesTuple
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if !e.cfg.CallTypes[nodeType] || e.cfg.CallTarget == nil {
			return true
		}
		args := e.cfg.TypeArgs(n, source)
		if len(args) == 0 {
			return true
		}
		callee, _ := e.cfg.CallTarget(n, source)
		context := callee
		if e.cfg.NewExprTypes[nodeType] {
			if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
				if v := FieldText(parent, "name", source); v != "" {
					context = v
				}
			}
		}
		for _, arg := range args {
			if !looksLikeType(arg) {
				continue
			}
			out = append(out, langparser.UsesTuple{Context: context, Type: arg, Range: nodeRange(n)})
		}
		return true
	})
	return out, nil
}

func looksLikeType(name string) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	return r >= 'A' && r <= 'Z'
}

func (e *Engine) FindDefines(source []byte) ([]langparser.DefinesTuple, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.DefinesTuple
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if !(e.cfg.FunctionTypes[nodeType] || e.cfg.MethodTypes[nodeType]) || e.cfg.FuncName == nil || e.cfg.Receiver == nil {
			return true
		}
		name := e.cfg.FuncName(n, source)
		recv := e.cfg.Receiver(n, source)
		if name == "" || recv == "" {
			return true
		}
		out = append(out, langparser.DefinesTuple{Type: recv, Method: name, Range: nodeRange(n)})
		return true
	})
	return out, nil
}

func (e *Engine) FindImports(source []byte, fileID ids.FileId) ([]langparser.Import, error) {
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.Import
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if !e.cfg.ImportTypes[nodeType] || e.cfg.ImportPath == nil {
			return true
		}
		path, alias, isGlob := e.cfg.ImportPath(n, source)
		if path == "" {
			return true
		}
		imp := langparser.NewImport(path, fileID)
		if alias != "" {
			imp = imp.WithAlias(alias)
		}
		if isGlob {
			imp = imp.AsGlob()
		}
		out = append(out, imp)
		return true
	})
	return out, nil
}

func (e *Engine) FindVariableTypes(source []byte) ([]langparser.VariableTypeTuple, error) {
	if e.cfg.VariableTypes == nil {
		return nil, nil
	}
	tree, err := e.parseTree(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var out []langparser.VariableTypeTuple
	walk(tree.RootNode(), func(n *sitter.Node, nodeType string) bool {
		if !(e.cfg.VarTypes[nodeType] || e.cfg.ConstTypes[nodeType]) {
			return true
		}
		for _, vt := range e.cfg.VariableTypes(n, source) {
			if vt.Variable == "" || vt.Type == "" || vt.Node == nil {
				continue
			}
			out = append(out, langparser.VariableTypeTuple{Variable: vt.Variable, Type: vt.Type, Range: nodeRange(vt.Node)})
		}
		return true
	})
	return out, nil
}

func (e *Engine) FindInherentMethods(source []byte) ([]langparser.InherentMethodTuple, error) {
	defines, err := e.FindDefines(source)
	if err != nil {
		return nil, err
	}
	var out []langparser.InherentMethodTuple
	for _, d := range defines {
		out = append(out, langparser.InherentMethodTuple{Type: d.Type, Method: d.Method})
	}
	return out, nil
}

func (e *Engine) ExtractDocComment(source []byte, line uint32) string {
	if e.cfg.DocComment == nil {
		return ""
	}
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
		if !strings.HasPrefix(l, "//") && !strings.HasPrefix(l, "#") && !strings.HasPrefix(l, "*") && !strings.HasPrefix(l, "///") {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
