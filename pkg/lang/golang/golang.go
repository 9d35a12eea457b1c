// Package golang extracts symbols and relationship tuples from Go source
// using the tree-sitter Go grammar, configuring pkg/lang/tsengine the way
// the teacher's pkg/parser/inspector.go special-cases LangGo.
package golang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsgo "github.com/smacker/go-tree-sitter/golang"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// New returns a LanguageParser for Go source files.
func New() langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: langparser.LangGo,
		TS:   tsgo.GetLanguage(),

		FunctionTypes: set("function_declaration"),
		MethodTypes:   set("method_declaration"),
		ClassTypes: map[string]ids.SymbolKind{
			"type_declaration": ids.KindStruct,
		},
		ImportTypes: set("import_spec"),
		VarTypes:    set("var_declaration", "short_var_declaration"),
		ConstTypes:  set("const_declaration"),
		CallTypes:   set("call_expression"),

		FuncName:    funcName,
		Receiver:    receiver,
		ClassName:   className,
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

func funcName(n *sitter.Node, src []byte) string {
	return tsengine.FieldText(n, "name", src)
}

// receiver returns the dereferenced receiver type name for a method
// declaration, e.g. "*Foo" becomes "Foo".
func receiver(n *sitter.Node, src []byte) string {
	recv := n.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.ChildCount()); i++ {
		child := recv.Child(i)
		if child.Type() != "parameter_declaration" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		text := tsengine.NodeText(typeNode, src)
		return strings.TrimPrefix(text, "*")
	}
	return ""
}

// className handles type_declaration, which wraps a type_spec child that
// actually carries the name (struct, interface, or plain alias).
func className(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() == "type_spec" || child.Type() == "type_alias" {
			return tsengine.FieldText(child, "name", src)
		}
	}
	return ""
}

// inheritance reports interface embeds as "implements" for interface type
// decls, and embedded struct fields as "extends" for struct decls. Go has
// no explicit `implements`/`extends` keywords; both are structural.
func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	var typeSpec *sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "type_spec" {
			typeSpec = n.Child(i)
			break
		}
	}
	if typeSpec == nil {
		return nil, nil
	}
	typeNode := typeSpec.ChildByFieldName("type")
	if typeNode == nil {
		return nil, nil
	}
	switch typeNode.Type() {
	case "interface_type":
		for i := 0; i < int(typeNode.ChildCount()); i++ {
			c := typeNode.Child(i)
			if c.Type() == "type_identifier" || c.Type() == "qualified_type" {
				implements = append(implements, tsengine.NodeText(c, src))
			}
		}
	case "struct_type":
		body := typeNode
		for i := 0; i < int(body.ChildCount()); i++ {
			field := body.Child(i)
			if field.Type() != "field_declaration" {
				continue
			}
			if field.ChildByFieldName("name") != nil {
				continue
			}
			if typeField := field.ChildByFieldName("type"); typeField != nil {
				extends = append(extends, strings.TrimPrefix(tsengine.NodeText(typeField, src), "*"))
			}
		}
	}
	return extends, implements
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	pathNode := n.ChildByFieldName("path")
	text := tsengine.NodeText(pathNode, src)
	path = tsengine.Unquote(text)
	if nameNode := n.ChildByFieldName("name"); nameNode != nil {
		aliasText := tsengine.NodeText(nameNode, src)
		if aliasText == "_" {
			return path, "", false
		}
		if aliasText == "." {
			return path, "", true
		}
		alias = aliasText
	}
	return path, alias, false
}

func varName(n *sitter.Node, src []byte) string {
	if n.Type() == "short_var_declaration" {
		left := n.ChildByFieldName("left")
		if left != nil && left.NamedChildCount() > 0 {
			return tsengine.NodeText(left.NamedChild(0), src)
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "var_spec" || n.Child(i).Type() == "const_spec" {
			return tsengine.FieldText(n.Child(i), "name", src)
		}
	}
	return ""
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	if fn.Type() == "selector_expression" {
		operand := fn.ChildByFieldName("operand")
		field := fn.ChildByFieldName("field")
		return tsengine.NodeText(field, src), tsengine.NodeText(operand, src)
	}
	return tsengine.NodeText(fn, src), ""
}

func visibility(_ *sitter.Node, name string, _ []byte) symbol.Visibility {
	if len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z' {
		return symbol.VisibilityPublic
	}
	return symbol.VisibilityPrivate
}

// params walks a function_declaration or method_declaration's parameter
// list, plus the method receiver, and emits one ParamSpec per bound name.
// Go allows a single parameter_declaration to carry several names sharing
// one type ("a, b int"), so each is walked independently.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	var out []tsengine.ParamSpec
	if recv := n.ChildByFieldName("receiver"); recv != nil {
		out = append(out, paramListNames(recv, src)...)
	}
	if plist := n.ChildByFieldName("parameters"); plist != nil {
		out = append(out, paramListNames(plist, src)...)
	}
	return out
}

func paramListNames(list *sitter.Node, src []byte) []tsengine.ParamSpec {
	var out []tsengine.ParamSpec
	for i := 0; i < int(list.ChildCount()); i++ {
		decl := list.Child(i)
		switch decl.Type() {
		case "parameter_declaration", "variadic_parameter_declaration":
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				child := decl.NamedChild(j)
				if child.Type() == "identifier" {
					out = append(out, tsengine.ParamSpec{Name: tsengine.NodeText(child, src), Node: child})
				}
			}
		}
	}
	return out
}

// docComment collects the run of contiguous "//" line comments that
// immediately precede a declaration, Go's doc comment convention.
func docComment(n *sitter.Node, src []byte) string {
	prev := n.PrevSibling()
	var lines []string
	for prev != nil && prev.Type() == "comment" {
		lines = append([]string{strings.TrimPrefix(tsengine.NodeText(prev, src), "//")}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
