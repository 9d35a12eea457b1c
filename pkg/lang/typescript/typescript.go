// Package typescript extracts symbols from TypeScript, TSX, and JavaScript
// source sharing one grammar family (tree-sitter's typescript/tsx/
// javascript packages differ only in which node kinds exist). export is
// tracked via an export_statement wrapper rather than naming convention,
// unlike Go or Rust.
package typescript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsjavascript "github.com/smacker/go-tree-sitter/javascript"
	tstsx "github.com/smacker/go-tree-sitter/typescript/tsx"
	tstypescript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/lang/tsengine"
	"github.com/codegraph/codeintel/pkg/langparser"
	"github.com/codegraph/codeintel/pkg/symbol"
)

func New() langparser.LanguageParser         { return build(langparser.LangTypeScript, tstypescript.GetLanguage()) }
func NewTSX() langparser.LanguageParser      { return build(langparser.LangTSX, tstsx.GetLanguage()) }
func NewJavaScript() langparser.LanguageParser { return build(langparser.LangJavaScript, tsjavascript.GetLanguage()) }

func build(lang langparser.Language, ts *sitter.Language) langparser.LanguageParser {
	return tsengine.New(tsengine.Config{
		Lang: lang,
		TS:   ts,

		FunctionTypes: set("function_declaration", "function_expression", "arrow_function", "generator_function_declaration"),
		MethodTypes:   set("method_definition"),
		ClassTypes: map[string]ids.SymbolKind{
			"class_declaration":     ids.KindClass,
			"interface_declaration": ids.KindInterface,
		},
		ImportTypes:  set("import_statement"),
		VarTypes:     set("variable_declaration", "lexical_declaration"),
		CallTypes:    set("call_expression", "new_expression"),
		NewExprTypes: set("new_expression"),

		FuncName:      funcName,
		ClassName:     fieldName,
		Inheritance:   inheritance,
		ImportPath:    importPath,
		VarName:       varName,
		CallTarget:    callTarget,
		Params:        params,
		Visibility:    visibility,
		TypeArgs:      typeArgs,
		VariableTypes: variableTypes,
		DocComment:    docComment,
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

// funcName handles both `function foo() {}` and `const foo = () => {}` /
// `const foo = function() {}` assignment forms, since arrow/anonymous
// functions carry their name on the enclosing variable_declarator.
func funcName(n *sitter.Node, src []byte) string {
	if name := tsengine.FieldText(n, "name", src); name != "" {
		return name
	}
	parent := n.Parent()
	if parent != nil && parent.Type() == "variable_declarator" {
		return tsengine.FieldText(parent, "name", src)
	}
	return ""
}

// visibility resolves class members via the accessibility_modifier keyword
// ("public"/"protected"/"private") or the "#" private-field sigil tree-sitter
// surfaces directly in the member name; everything else (free functions,
// top-level classes/interfaces) falls back to the export_statement wrapper
// check, the only reliable module-level exported/non-exported signal this
// grammar exposes syntactically.
func visibility(n *sitter.Node, name string, src []byte) symbol.Visibility {
	if strings.HasPrefix(name, "#") {
		return symbol.VisibilityPrivate
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "accessibility_modifier" {
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
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "export_statement":
			return symbol.VisibilityPublic
		case "statement_block", "program":
			return symbol.VisibilityPrivate
		}
	}
	return symbol.VisibilityPrivate
}

// params walks a parameters list's required_parameter/optional_parameter
// (TypeScript) or bare identifier/assignment_pattern/rest_pattern (JS)
// children down to the bound identifier.
func params(n *sitter.Node, src []byte) []tsengine.ParamSpec {
	plist := n.ChildByFieldName("parameters")
	if plist == nil {
		return nil
	}
	var out []tsengine.ParamSpec
	for i := 0; i < int(plist.NamedChildCount()); i++ {
		p := plist.NamedChild(i)
		if spec := paramName(p, src); spec.Name != "" {
			out = append(out, spec)
		}
	}
	return out
}

func paramName(p *sitter.Node, src []byte) tsengine.ParamSpec {
	switch p.Type() {
	case "required_parameter", "optional_parameter":
		if pattern := p.ChildByFieldName("pattern"); pattern != nil {
			return paramName(pattern, src)
		}
	case "assignment_pattern":
		if left := p.ChildByFieldName("left"); left != nil {
			return paramName(left, src)
		}
	case "rest_pattern":
		if p.NamedChildCount() > 0 {
			return paramName(p.NamedChild(0), src)
		}
	case "identifier":
		return tsengine.ParamSpec{Name: tsengine.NodeText(p, src), Node: p}
	}
	return tsengine.ParamSpec{}
}

// typeArgs reads a call_expression/new_expression's optional type_arguments
// field, returning the textual form of each generic argument.
func typeArgs(n *sitter.Node, src []byte) []string {
	args := n.ChildByFieldName("type_arguments")
	if args == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		out = append(out, tsengine.NodeText(args.NamedChild(i), src))
	}
	return out
}

// variableTypes extracts (variable, type) bindings for `new T()` assignment
// and explicit type-annotation forms; plain `let x = 1` with no constructor
// or annotation carries no statically-recoverable type and is skipped.
func variableTypes(n *sitter.Node, src []byte) []tsengine.VarTypeSpec {
	var out []tsengine.VarTypeSpec
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		name := tsengine.FieldText(d, "name", src)
		if name == "" {
			continue
		}
		if ann := d.ChildByFieldName("type"); ann != nil {
			out = append(out, tsengine.VarTypeSpec{Variable: name, Type: tsengine.NodeText(ann, src), Node: d})
			continue
		}
		value := d.ChildByFieldName("value")
		if value != nil && value.Type() == "new_expression" {
			ctor := value.ChildByFieldName("constructor")
			if ctor != nil {
				out = append(out, tsengine.VarTypeSpec{Variable: name, Type: tsengine.NodeText(ctor, src), Node: d})
			}
		}
	}
	return out
}

func inheritance(n *sitter.Node, src []byte) (extends, implements []string) {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Type() != "class_heritage" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			grandchild := child.Child(j)
			switch grandchild.Type() {
			case "extends_clause":
				for k := 0; k < int(grandchild.NamedChildCount()); k++ {
					gc := grandchild.NamedChild(k)
					if gc.Type() == "identifier" || gc.Type() == "type_identifier" {
						extends = append(extends, tsengine.NodeText(gc, src))
					}
				}
			case "implements_clause":
				for k := 0; k < int(grandchild.NamedChildCount()); k++ {
					implements = append(implements, tsengine.NodeText(grandchild.NamedChild(k), src))
				}
			}
		}
	}
	return extends, implements
}

func importPath(n *sitter.Node, src []byte) (path, alias string, isGlob bool) {
	sourceNode := n.ChildByFieldName("source")
	path = tsengine.Unquote(tsengine.NodeText(sourceNode, src))
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "identifier":
			alias = tsengine.NodeText(c, src)
		case "namespace_import":
			isGlob = true
		}
	}
	return path, alias, isGlob
}

func varName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "variable_declarator" {
			return tsengine.FieldText(n.Child(i), "name", src)
		}
	}
	return ""
}

func callTarget(n *sitter.Node, src []byte) (callee, receiver string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		fn = n.ChildByFieldName("constructor")
	}
	if fn == nil {
		return "", ""
	}
	if fn.Type() == "member_expression" {
		obj := fn.ChildByFieldName("object")
		prop := fn.ChildByFieldName("property")
		return tsengine.NodeText(prop, src), tsengine.NodeText(obj, src)
	}
	return tsengine.NodeText(fn, src), ""
}

// docComment collects a single JSDoc-style block comment (/** ... */)
// immediately preceding a declaration.
func docComment(n *sitter.Node, src []byte) string {
	target := n
	if parent := n.Parent(); parent != nil && parent.Type() == "export_statement" {
		target = parent
	}
	prev := target.PrevSibling()
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
