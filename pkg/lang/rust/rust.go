// Package rust extracts symbols and relationship tuples from Rust source
// using the tree-sitter Rust grammar.
package rust

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func New() langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: langparser.LangRust,
		TS:   tsrust.GetLanguage(),

		FunctionTypes: set("function_item"),
		ClassTypes: map[string]ids.SymbolKind{
			"struct_item": ids.KindStruct,
			"enum_item":   ids.KindEnum,
			"trait_item":  ids.KindTrait,
		},
		ImportTypes: set("use_declaration"),
		VarTypes:    set("let_declaration", "static_item"),
		ConstTypes:  set("const_item"),
		CallTypes:   set("call_expression"),

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

// inheritance reports a trait_item's supertrait bounds as extends. impl_item
// is not a ClassType node, so `impl Trait for Type` blocks are not read and
// produce no implements entries.
func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	if n.Type() != "trait_item" {
		return nil, nil
	}
	bounds := n.ChildByFieldName("bounds")
	if bounds == nil {
		return nil, nil
	}
	for i := 0; i < int(bounds.NamedChildCount()); i++ {
		c := bounds.NamedChild(i)
		if c.Type() == "type_identifier" {
			extends = append(extends, tsengine.NodeText(c, src))
		}
	}
	return extends, nil
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	arg := n.ChildByFieldName("argument")
	text := tsengine.NodeText(arg, src)
	if strings.HasSuffix(text, "::*") {
		return strings.TrimSuffix(text, "::*"), "", true
	}
	if idx := strings.Index(text, " as "); idx >= 0 {
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+4:]), false
	}
	return text, "", false
}

func varName(n *sitter.Node, src []byte) string {
	if n.Type() == "static_item" {
		return tsengine.FieldText(n, "name", src)
	}
	pattern := n.ChildByFieldName("pattern")
	return tsengine.NodeText(pattern, src)
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "field_expression":
		value := fn.ChildByFieldName("value")
		field := fn.ChildByFieldName("field")
		return tsengine.NodeText(field, src), tsengine.NodeText(value, src)
	case "scoped_identifier":
		path := fn.ChildByFieldName("path")
		name := fn.ChildByFieldName("name")
		return tsengine.NodeText(name, src), tsengine.NodeText(path, src)
	default:
		return tsengine.NodeText(fn, src), ""
	}
}

// visibility reads the visibility_modifier child node rust's grammar attaches
// directly to a declaration: absent means private to the module, "pub" means
// fully public, and any "pub(...)" restricted form (pub(crate), pub(super),
// pub(in path)) is treated as Module visibility since it never escapes the
// crate.
func visibility(n *sitter.Node, _ string, src []byte) symbol.Visibility {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "visibility_modifier" {
			continue
		}
		text := tsengine.NodeText(child, src)
		if text == "pub" {
			return symbol.VisibilityPublic
		}
		return symbol.VisibilityModule
	}
	return symbol.VisibilityPrivate
}

// params walks a function_item's parameter list, including an explicit
// self_parameter, which tree-sitter-rust represents as a sibling of the
// regular parameter nodes rather than folding it into one of them.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	plist := n.ChildByFieldName("parameters")
	if plist == nil {
		return nil
	}
	var out []tsengine.ParamSpec
	for i := 0; i < int(plist.ChildCount()); i++ {
		p := plist.Child(i)
		switch p.Type() {
		case "self_parameter":
			out = append(out, tsengine.ParamSpec{Name: tsengine.NodeText(p, src), Node: p})
		case "parameter":
			pattern := p.ChildByFieldName("pattern")
			if pattern != nil {
				out = append(out, tsengine.ParamSpec{Name: tsengine.NodeText(pattern, src), Node: pattern})
			}
		}
	}
	return out
}

// docComment collects the run of contiguous "///" or "//!" line comments
// immediately preceding a declaration.
func docComment(n *sitter.Node, src []byte) string {
	prev := n.PrevSibling()
	var lines []string
	for prev != nil && prev.Type() == "line_comment" {
		text := tsengine.NodeText(prev, src)
		if !strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "//!") {
			break
		}
		lines = append([]string{strings.TrimPrefix(strings.TrimPrefix(text, "///"), "//!")}, lines...)
		prev = prev.PrevSibling()
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
