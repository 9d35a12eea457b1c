// Package csharp extracts symbols from C# source using the tree-sitter C#
// grammar. Visibility follows the explicit modifier child nodes the grammar
// attaches to each declaration (public/private/internal/protected), the
// rule the teacher's inspector leaves as VisibilityUnknown for non-Go/
// non-Python languages; this extractor makes it concrete. A second pass
// over the parse tree (parser.Parse below) also emits ExternalType symbols
// for any non-local, non-primitive type referenced in a signature or
// declaration, since C# code routinely names types it never defines.
package csharp

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tscsharp "github.com/smacker/go-tree-sitter/csharp"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// parser wraps the shared engine to add the two-pass ExternalType tracking
// pkg/lang/tsengine.Engine has no generic hook for: pass one is the
// engine's own Parse, pass two re-walks the tree for type references that
// don't resolve to a locally-declared class/interface/struct/enum.
type parser struct {
	*tsengine.Engine
}

func New() langparser.LanguageParser {
	return &parser{tsengine.New(tsengine.Config{
		Lang: langparser.LangCSharp,
		TS:   tscsharp.GetLanguage(),

		FunctionTypes: set("local_function_statement"),
		MethodTypes:   set("method_declaration", "constructor_declaration"),
		ClassTypes: map[string]ids.SymbolKind{
			"class_declaration":     ids.KindClass,
			"interface_declaration": ids.KindInterface,
			"struct_declaration":    ids.KindStruct,
			"enum_declaration":      ids.KindEnum,
		},
		ImportTypes: set("using_directive"),
		VarTypes:    set("local_declaration_statement", "field_declaration"),
		CallTypes:   set("invocation_expression"),

		FuncName:      fieldName,
		ClassName:     fieldName,
		Inheritance:   inheritance,
		ImportPath:    importPath,
		VarName:       varName,
		CallTarget:    callTarget,
		Params:        params,
		Visibility:    visibility,
		VariableTypes: variableTypes,
		DocComment:    docComment,
	})}
}

// Parse runs the shared engine's normal extraction, then appends
// ExternalType symbols discovered by the second pass.
func (p *parser) Parse(source []byte, fileID ids.FileId, counter *ids.SymbolCounter, tracker *langparser.NodeTrackerLike) ([]symbol.Symbol, error) {
	out, err := p.Engine.Parse(source, fileID, counter, tracker)
	if err != nil {
		return nil, err
	}
	locals := make(map[string]bool, len(out))
	for _, s := range out {
		switch s.Kind {
		case ids.KindClass, ids.KindInterface, ids.KindStruct, ids.KindEnum:
			locals[s.Name] = true
		}
	}
	ext, err := externalTypes(source, p.Engine.TSLanguage(), locals, fileID, counter)
	if err != nil {
		return nil, err
	}
	return append(out, ext...), nil
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

func fieldName(n *sitter.Node, src []byte) string {
	return tsengine.FieldText(n, "name", src)
}

// inheritance splits a base_list into the first entry (base class, if its
// name doesn't start with "I" followed by an uppercase letter — the C#
// interface naming convention) and the rest as implemented interfaces.
// Without semantic types this is the best a syntax-only pass can do.
func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	baseList := n.ChildByFieldName("bases")
	if baseList == nil {
		return nil, nil
	}
	first := true
	for i := 0; i < int(baseList.NamedChildCount()); i++ {
		name := tsengine.NodeText(baseList.NamedChild(i), src)
		if first && !looksLikeInterfaceName(name) {
			extends = append(extends, name)
		} else {
			implements = append(implements, name)
		}
		first = false
	}
	return extends, implements
}

func looksLikeInterfaceName(name string) bool {
	return len(name) > 1 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	nameNode := n.ChildByFieldName("name")
	text := tsengine.NodeText(nameNode, src)
	if idx := strings.Index(text, "="); idx >= 0 {
		return strings.TrimSpace(text[idx+1:]), strings.TrimSpace(text[:idx]), false
	}
	return text, "", false
}

func varName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "variable_declaration" {
			decl := n.Child(i)
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				if decl.NamedChild(j).Type() == "variable_declarator" {
					return tsengine.FieldText(decl.NamedChild(j), "name", src)
				}
			}
		}
	}
	return tsengine.FieldText(n, "name", src)
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	if fn.Type() == "member_access_expression" {
		expr := fn.ChildByFieldName("expression")
		name := fn.ChildByFieldName("name")
		return tsengine.NodeText(name, src), tsengine.NodeText(expr, src)
	}
	return tsengine.NodeText(fn, src), ""
}

// visibility reads the modifier child nodes C#'s grammar attaches directly
// to a declaration. Types with no explicit modifier default to internal
// (Crate, assembly-wide); members with no explicit modifier default to
// private, C#'s actual default access for class/struct members.
func visibility(n *sitter.Node, _ string, src []byte) symbol.Visibility {
	var hasPublic, hasPrivate, hasProtected, hasInternal bool
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "modifier" {
			continue
		}
		switch tsengine.NodeText(child, src) {
		case "public":
			hasPublic = true
		case "private":
			hasPrivate = true
		case "protected":
			hasProtected = true
		case "internal":
			hasInternal = true
		}
	}
	switch {
	case hasPublic:
		return symbol.VisibilityPublic
	case hasPrivate:
		return symbol.VisibilityPrivate
	case hasProtected:
		return symbol.VisibilityModule
	case hasInternal:
		return symbol.VisibilityCrate
	}
	switch n.Type() {
	case "class_declaration", "interface_declaration", "struct_declaration", "enum_declaration":
		return symbol.VisibilityCrate
	default:
		return symbol.VisibilityPrivate
	}
}

// params walks a method_declaration/constructor_declaration/
// local_function_statement's parameter_list, reading each parameter's name
// field directly.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	plist := n.ChildByFieldName("parameters")
	if plist == nil {
		return nil
	}
	var out []tsengine.ParamSpec
	for i := 0; i < int(plist.NamedChildCount()); i++ {
		p := plist.NamedChild(i)
		if p.Type() != "parameter" {
			continue
		}
		if name := p.ChildByFieldName("name"); name != nil {
			out = append(out, tsengine.ParamSpec{Name: tsengine.NodeText(name, src), Node: name})
		}
	}
	return out
}

// variableTypes implements the "new T() initializers and explicit type
// annotations yield find_variable_types; var without a new T() RHS is not
// inferred" rule: a non-`var` annotation always contributes its declared
// type, while a `var`-declared local only contributes a type when its
// initializer is itself an object_creation_expression.
func variableTypes(n *sitter.Node, src []byte) []tsengine.VarTypeSpec {
	var decl *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "variable_declaration" {
			decl = n.Child(i)
			break
		}
	}
	if decl == nil {
		return nil
	}
	typeNode := decl.ChildByFieldName("type")
	isVar := typeNode != nil && tsengine.NodeText(typeNode, src) == "var"

	var out []tsengine.VarTypeSpec
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		d := decl.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		name := tsengine.FieldText(d, "name", src)
		if name == "" {
			continue
		}
		if typeNode != nil && !isVar {
			out = append(out, tsengine.VarTypeSpec{Variable: name, Type: tsengine.NodeText(typeNode, src), Node: d})
			continue
		}
		if value := d.ChildByFieldName("value"); value != nil && value.Type() == "object_creation_expression" {
			if ctorType := value.ChildByFieldName("type"); ctorType != nil {
				out = append(out, tsengine.VarTypeSpec{Variable: name, Type: tsengine.NodeText(ctorType, src), Node: d})
			}
		}
	}
	return out
}

// baseTypeName reduces a type node to the identifier an ExternalType symbol
// should carry, stripping the array/nullable/generic wrapper shapes C#'s
// grammar wraps around a base name; predefined_type (C#'s primitives) is
// deliberately unhandled so it resolves to "" and gets filtered by callers.
func baseTypeName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "nullable_type":
		if n.NamedChildCount() > 0 {
			return baseTypeName(n.NamedChild(0), src)
		}
		return ""
	case "array_type":
		return baseTypeName(n.ChildByFieldName("type"), src)
	case "generic_name", "qualified_name":
		return tsengine.FieldText(n, "name", src)
	case "identifier", "type_identifier":
		return tsengine.NodeText(n, src)
	default:
		return ""
	}
}

// externalTypes is pass 2 of the two-pass parse: it re-walks the tree for
// every type reference attached to a variable/field declaration, parameter,
// method return type, or object_creation_expression, and emits an
// ExternalType symbol for each one that is neither in the locally-declared
// registry (pass 1, i.e. the Engine's own Parse output) nor a primitive.
func externalTypes(source []byte, lang *sitter.Language, locals map[string]bool, fileID ids.FileId, counter *ids.SymbolCounter) ([]symbol.Symbol, error) {
	sp := sitter.NewParser()
	sp.SetLanguage(lang)
	tree, err := sp.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("csharp: external type pass: %w", err)
	}
	defer tree.Close()

	seen := make(map[string]bool)
	var out []symbol.Symbol
	record := func(typeNode *sitter.Node) {
		name := baseTypeName(typeNode, source)
		if name == "" || locals[name] || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, symbol.New(counter.Next(), name, ids.KindExternalType, fileID, tsengine.Range(typeNode)))
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		switch n.Type() {
		case "variable_declaration", "parameter", "method_declaration", "local_function_statement", "object_creation_expression":
			if t := n.ChildByFieldName("type"); t != nil {
				record(t)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(tree.RootNode())
	return out, nil
}

func docComment(n *sitter.Node, src []byte) string {
	prev := n.PrevSibling()
	var lines []string
	for prev != nil && prev.Type() == "comment" {
		text := tsengine.NodeText(prev, src)
		if !strings.HasPrefix(text, "///") {
			break
		}
		lines = append([]string{strings.TrimPrefix(text, "///")}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
