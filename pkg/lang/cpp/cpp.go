// Package cpp extracts symbols from C++ source using the tree-sitter C++
// grammar, extending clang's C handling with class_specifier and
// namespace-qualified function definitions.
package cpp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func New() langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: langparser.LangCPP,
		TS:   tscpp.GetLanguage(),

		FunctionTypes: set("function_definition"),
		ClassTypes: map[string]ids.SymbolKind{
			"class_specifier":  ids.KindClass,
			"struct_specifier": ids.KindStruct,
			"enum_specifier":   ids.KindEnum,
		},
		ImportTypes: set("preproc_include"),
		VarTypes:    set("declaration", "field_declaration"),
		CallTypes:   set("call_expression"),

		FuncName:    funcName,
		Receiver:    receiver,
		ClassName:   fieldName,
		Inheritance: inheritance,
		ImportPath:  importPath,
		VarName:     varName,
		CallTarget:  callTarget,
		Params:      params,
		Visibility:  visibility,
		DocComment:  docComment,
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

// funcName handles both in-class definitions (plain identifier declarator)
// and out-of-line qualified definitions (Type::method).
func funcName(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "function_declarator":
			inner := decl.ChildByFieldName("declarator")
			if inner != nil && inner.Type() == "qualified_identifier" {
				return tsengine.FieldText(inner, "name", src)
			}
			return tsengine.NodeText(inner, src)
		case "pointer_declarator", "reference_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return tsengine.NodeText(decl, src)
		}
	}
	return ""
}

// receiver extracts the "Type" half of an out-of-line "Type::method"
// qualified definition, empty for in-class or free functions.
func receiver(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declarator")
	if decl == nil || decl.Type() != "function_declarator" {
		return ""
	}
	inner := decl.ChildByFieldName("declarator")
	if inner == nil || inner.Type() != "qualified_identifier" {
		return ""
	}
	scope := inner.ChildByFieldName("scope")
	return tsengine.NodeText(scope, src)
}

func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	baseList := n.ChildByFieldName("base_class_clause")
	if baseList == nil {
		return nil, nil
	}
	for i := 0; i < int(baseList.NamedChildCount()); i++ {
		c := baseList.NamedChild(i)
		if c.Type() == "type_identifier" || c.Type() == "qualified_identifier" {
			extends = append(extends, tsengine.NodeText(c, src))
		}
	}
	return extends, nil
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	pathNode := n.ChildByFieldName("path")
	return strings.Trim(tsengine.NodeText(pathNode, src), "\"<>"), "", false
}

func varName(n *sitter.Node, src []byte) string {
	decl := n.ChildByFieldName("declarator")
	for decl != nil {
		switch decl.Type() {
		case "identifier", "field_identifier":
			return tsengine.NodeText(decl, src)
		case "init_declarator", "pointer_declarator", "reference_declarator", "array_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return ""
		}
	}
	return ""
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	if fn.Type() == "field_expression" {
		arg := fn.ChildByFieldName("argument")
		field := fn.ChildByFieldName("field")
		return tsengine.NodeText(field, src), tsengine.NodeText(arg, src)
	}
	return tsengine.NodeText(fn, src), ""
}

// visibility looks back through the member's preceding siblings for the
// nearest access_specifier ("public:"/"private:"/"protected:"); free
// functions have no such field_declaration_list parent and default to
// Public, while members before any access_specifier fall back to the
// class's default (private for `class`, public for `struct`).
func visibility(n *sitter.Node, _ string, src []byte) symbol.Visibility {
	parent := n.Parent()
	if parent == nil || parent.Type() != "field_declaration_list" {
		return symbol.VisibilityPublic
	}
	for sib := n.PrevSibling(); sib != nil; sib = sib.PrevSibling() {
		if sib.Type() == "access_specifier" {
			switch tsengine.NodeText(sib, src) {
			case "public":
				return symbol.VisibilityPublic
			case "protected":
				return symbol.VisibilityModule
			default:
				return symbol.VisibilityPrivate
			}
		}
	}
	class := parent.Parent()
	if class != nil && class.Type() == "class_specifier" {
		return symbol.VisibilityPrivate
	}
	return symbol.VisibilityPublic
}

// params descends a function_declarator's parameter_list, reusing the same
// declarator-unwrapping shape as varName/funcName for pointer/reference
// parameters.
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
		case "pointer_declarator", "reference_declarator", "array_declarator":
			decl = decl.ChildByFieldName("declarator")
		default:
			return nil
		}
	}
	return nil
}

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
