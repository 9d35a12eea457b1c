// Package php extracts symbols from PHP source using the tree-sitter PHP
// grammar. Visibility follows the public/protected/private keywords PHP
// requires on class members; free functions and other declarations without
// such a keyword are Public.
package php

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsphp "github.com/smacker/go-tree-sitter/php"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func New() langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: langparser.LangPHP,
		TS:   tsphp.GetLanguage(),

		FunctionTypes: set("function_definition"),
		MethodTypes:   set("method_declaration"),
		ClassTypes: map[string]ids.SymbolKind{
			"class_declaration":     ids.KindClass,
			"interface_declaration": ids.KindInterface,
			"trait_declaration":     ids.KindTrait,
		},
		ImportTypes: set("namespace_use_declaration"),
		VarTypes:    set("property_declaration"),
		CallTypes:   set("function_call_expression", "member_call_expression"),

		FuncName:    fieldName,
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

func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	base := n.ChildByFieldName("base_clause")
	if base != nil {
		for i := 0; i < int(base.NamedChildCount()); i++ {
			extends = append(extends, tsengine.NodeText(base.NamedChild(i), src))
		}
	}
	iface := n.ChildByFieldName("interfaces")
	if iface != nil {
		for i := 0; i < int(iface.NamedChildCount()); i++ {
			implements = append(implements, tsengine.NodeText(iface.NamedChild(i), src))
		}
	}
	return extends, implements
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "namespace_use_clause" {
			nameNode := c.ChildByFieldName("name")
			aliasNode := c.ChildByFieldName("alias")
			return tsengine.NodeText(nameNode, src), tsengine.NodeText(aliasNode, src), false
		}
	}
	return "", "", false
}

func varName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "property_element" {
			return tsengine.NodeText(n.NamedChild(i), src)
		}
	}
	return ""
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	if n.Type() == "member_call_expression" {
		obj := n.ChildByFieldName("object")
		name := n.ChildByFieldName("name")
		return tsengine.NodeText(name, src), tsengine.NodeText(obj, src)
	}
	fn := n.ChildByFieldName("function")
	return tsengine.NodeText(fn, src), ""
}

// visibility reads the visibility_modifier child a method_declaration or
// property_declaration carries directly ("public"/"protected"/"private");
// free functions and interface/class declarations have no such modifier and
// default to Public, PHP's rule for anything without an explicit keyword.
func visibility(n *sitter.Node, _ string, src []byte) symbol.Visibility {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "visibility_modifier" {
			continue
		}
		switch tsengine.NodeText(child, src) {
		case "public":
			return symbol.VisibilityPublic
		case "protected":
			return symbol.VisibilityModule
		case "private":
			return symbol.VisibilityPrivate
		}
	}
	return symbol.VisibilityPublic
}

// params walks a parameters node's simple_parameter/variadic_parameter
// children. PHP parameter names keep their literal `$` sigil, matching the
// convention varName already uses for property names.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	plist := n.ChildByFieldName("parameters")
	if plist == nil {
		return nil
	}
	var out []tsengine.ParamSpec
	for i := 0; i < int(plist.NamedChildCount()); i++ {
		p := plist.NamedChild(i)
		switch p.Type() {
		case "simple_parameter", "variadic_parameter":
			name := p.ChildByFieldName("name")
			if name != nil {
				out = append(out, tsengine.ParamSpec{Name: tsengine.NodeText(name, src), Node: name})
			}
		}
	}
	return out
}

// docComment collects a single PHPDoc block comment (/** ... */)
// immediately preceding a declaration.
func docComment(n *sitter.Node, src []byte) string {
	prev := n.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := tsengine.NodeText(prev, src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	text = strings.TrimPrefix(text, "/**")
	text = strings.TrimSuffix(text, "*/")
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimPrefix(strings.TrimSpace(l), "*"))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
