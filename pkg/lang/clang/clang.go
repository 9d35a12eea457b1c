// Package clang extracts symbols from C source using the tree-sitter C
// grammar. C has no classes, interfaces, or visibility keywords; "exported"
// means not `static`, and structs/enums/unions stand in for ClassTypes.
package clang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func New() langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: langparser.LangC,
		TS:   tsc.GetLanguage(),

		FunctionTypes: set("function_definition"),
		ClassTypes: map[string]ids.SymbolKind{
			"struct_specifier": ids.KindStruct,
			"enum_specifier":   ids.KindEnum,
			"union_specifier":  ids.KindStruct,
		},
		ImportTypes: set("preproc_include"),
		VarTypes:    set("declaration"),
		CallTypes:   set("call_expression"),

		FuncName:   funcName,
		ClassName:  fieldName,
		ImportPath: importPath,
		VarName:    varName,
		CallTarget: callTarget,
		Params:     params,
		Visibility: visibility,
		DocComment: docComment,
	})
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

// funcName descends through the function_declarator wrapping a
// function_definition's declarator to find the identifier.
func funcName(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "function_declarator":
			return tsengine.FieldText(decl, "declarator", src)
		case "pointer_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return tsengine.NodeText(decl, src)
		}
	}
	return ""
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	pathNode := n.ChildByFieldName("path")
	text := tsengine.NodeText(pathNode, src)
	return strings.Trim(text, "\"<>"), "", false
}

func varName(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			return tsengine.NodeText(decl, src)
		case "init_declarator", "pointer_declarator", "array_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	return tsengine.NodeText(fn, src), ""
}

// visibility treats a `static` storage_class_specifier as confining a
// function to its translation unit, the closest C analog of Module scope;
// everything else has external linkage by default.
func visibility(n *sitter.Node, _ string, src []byte) symbol.Visibility {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "storage_class_specifier" && tsengine.NodeText(child, src) == "static" {
			return symbol.VisibilityModule
		}
	}
	return symbol.VisibilityPublic
}

// params descends a function_declarator's parameter_list, unwrapping the
// pointer/array declarators C allows around a bare parameter name.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	decl := n.ChildByFieldName("declarator")
	for decl != nil && decl.Type() != "function_declarator" {
		decl = decl.ChildByFieldName("declarator")
	}
	if decl == nil {
		return nil
	}
	plist := decl.ChildByFieldName("parameters")
	if plist == nil {
		return nil
	}
	var out []tsengine.ParamSpec
	for i := 0; i < int(plist.NamedChildCount()); i++ {
		p := plist.NamedChild(i)
		if p.Type() != "parameter_declaration" {
			continue
		}
		out = append(out, declaratorName(p, src)...)
	}
	return out
}

func declaratorName(p *sitter.Node, src []byte) []tsengine.ParamSpec {
	decl := p.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier":
			return []tsengine.ParamSpec{{Name: tsengine.NodeText(decl, src), Node: decl}}
		case "pointer_declarator", "array_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return nil
		}
	}
	return nil
}

// docComment collects the block (/* */) or line (//) comment immediately
// preceding a declaration.
func docComment(n *sitter.Node, src []byte) string {
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := tsengine.NodeText(prev, src)
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimPrefix(text, "//")
	return strings.TrimSpace(text)
}
