// Package parsectx implements the scope stack and current-class/current-function
// tracking that every language extractor threads through its traversal, so
// nested declarations get attributed to the right ScopeContext.
package parsectx

import "github.com/codegraph/codeintel/pkg/symbol"

// ScopeType is the kind of frame pushed onto a ParserContext's stack.
type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeModule
	ScopeFunction
	ScopeClass
	ScopeBlock
	ScopePackage
	ScopeNamespace
)

type frame struct {
	kind     ScopeType
	hoisting bool
}

// Context maintains a stack of scope frames plus the names of the nearest
// enclosing class and function. A fresh Context starts with [Module] on the
// stack; exit_scope never pops below Module.
type Context struct {
	stack           []frame
	currentClass    string
	currentFunction string
}

// New returns a fresh Context with Module at the bottom of the stack.
func New() *Context {
	return &Context{stack: []frame{{kind: ScopeModule}}}
}

// EnterScope pushes a new frame. hoisting is only meaningful for
// ScopeFunction frames (JS/TS hoisted function declarations).
func (c *Context) EnterScope(kind ScopeType, hoisting bool) {
	c.stack = append(c.stack, frame{kind: kind, hoisting: hoisting})
}

// ExitScope pops the innermost frame, never popping below the initial
// Module frame. On exit, CurrentClass clears iff a Class frame was popped;
// CurrentFunction clears iff a Function frame was popped.
func (c *Context) ExitScope() {
	if len(c.stack) <= 1 {
		return
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	switch top.kind {
	case ScopeClass:
		c.currentClass = ""
	case ScopeFunction:
		c.currentFunction = ""
	}
}

// SetCurrentClass records the name of the class whose body is being
// traversed. Callers MUST save the previous value and restore it on scope
// exit to preserve correct parent attribution for nested declarations.
func (c *Context) SetCurrentClass(name string) { c.currentClass = name }

// CurrentClass returns the nearest enclosing class name, or "".
func (c *Context) CurrentClass() string { return c.currentClass }

// SetCurrentFunction records the name of the function whose body is being
// traversed. Same save/restore discipline as SetCurrentClass.
func (c *Context) SetCurrentFunction(name string) { c.currentFunction = name }

// CurrentFunction returns the nearest enclosing function name, or "".
func (c *Context) CurrentFunction() string { return c.currentFunction }

// IsInClass reports whether any frame on the stack is a Class frame.
func (c *Context) IsInClass() bool {
	for _, f := range c.stack {
		if f.kind == ScopeClass {
			return true
		}
	}
	return false
}

// IsInFunction reports whether any frame on the stack is a Function frame.
func (c *Context) IsInFunction() bool {
	for _, f := range c.stack {
		if f.kind == ScopeFunction {
			return true
		}
	}
	return false
}

// IsModuleLevel reports whether the stack is exactly [Module] (or [Global]).
func (c *Context) IsModuleLevel() bool {
	return len(c.stack) == 1
}

// CurrentScopeContext inspects the stack innermost-first and derives the
// ScopeContext a newly emitted symbol should carry.
func (c *Context) CurrentScopeContext() symbol.ScopeContext {
	for i := len(c.stack) - 1; i >= 0; i-- {
		switch c.stack[i].kind {
		case ScopeFunction, ScopeBlock:
			parentKind := "function"
			parentName := c.currentFunction
			if parentName == "" && c.currentClass != "" {
				parentKind = "class"
				parentName = c.currentClass
			}
			return symbol.Local(c.stack[i].kind == ScopeFunction && c.stack[i].hoisting, parentName, parentKind)
		case ScopeClass:
			return symbol.ClassMember()
		case ScopePackage, ScopeNamespace:
			return symbol.Package()
		case ScopeGlobal:
			return symbol.Global()
		}
	}
	return symbol.Module()
}

// InnermostKind returns the kind of the innermost frame, for extractors
// that need a quick peek without deriving a full ScopeContext.
func (c *Context) InnermostKind() ScopeType {
	return c.stack[len(c.stack)-1].kind
}

// Depth returns the number of frames currently on the stack.
func (c *Context) Depth() int { return len(c.stack) }
