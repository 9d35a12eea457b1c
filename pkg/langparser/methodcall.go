package langparser

import (
	"strings"

	"github.com/codegraph/codeintel/pkg/ids"
)

// MethodCall is a structured call site: caller, method name, an optional
// receiver, and whether the call is static (Type::method style) as opposed
// to an instance/self call.
type MethodCall struct {
	Caller     string
	Method     string
	Receiver   string
	HasReceiver bool
	IsStatic   bool
	Range      ids.Range
}

// NewMethodCall builds a plain function call (no receiver).
func NewMethodCall(caller, method string, r ids.Range) MethodCall {
	return MethodCall{Caller: caller, Method: method, Range: r}
}

// WithReceiver attaches a receiver, producing an instance/self call.
func (m MethodCall) WithReceiver(receiver string) MethodCall {
	m.Receiver = receiver
	m.HasReceiver = true
	m.IsStatic = false
	return m
}

// StaticMethod marks the call as a static call (Type::method); Receiver
// must already hold the type name.
func (m MethodCall) StaticMethod() MethodCall {
	m.IsStatic = true
	return m
}

// IsSelfCall reports whether the receiver is the self/this sentinel.
func (m MethodCall) IsSelfCall() bool {
	return m.HasReceiver && (m.Receiver == "self" || m.Receiver == "this")
}

// IsFunctionCall reports whether the call has no receiver at all.
func (m MethodCall) IsFunctionCall() bool {
	return !m.HasReceiver
}

// QualifiedName renders Type::method for static calls, receiver.method for
// instance calls, and the bare method name otherwise.
func (m MethodCall) QualifiedName() string {
	switch {
	case m.IsStatic && m.HasReceiver:
		return m.Receiver + "::" + m.Method
	case m.HasReceiver:
		return m.Receiver + "." + m.Method
	default:
		return m.Method
	}
}

// ToSimpleCall projects the structured call down to the legacy string
// format for compatibility with older consumers:
//   - self.method          (self call)
//   - Type::method         (static call)
//   - receiver@method      (instance call with a receiver hint)
//   - method               (plain function call)
func (m MethodCall) ToSimpleCall() string {
	switch {
	case m.IsSelfCall():
		return m.Receiver + "." + m.Method
	case m.IsStatic && m.HasReceiver:
		return m.Receiver + "::" + m.Method
	case m.HasReceiver:
		return m.Receiver + "@" + m.Method
	default:
		return m.Method
	}
}

// FromLegacyFormat parses a legacy call string back into a caller-less
// MethodCall (caller and range must be filled in by the caller). The
// bridge is total: anything that doesn't match a recognized pattern
// becomes a plain function call.
//
// Round-trip note: plain function calls and instance calls without a "@"
// hint lose the receiver on the legacy<->structured round trip; this is
// the only permitted information loss.
func FromLegacyFormat(legacy string) MethodCall {
	if rest, ok := cutPrefix(legacy, "self."); ok {
		return MethodCall{Method: rest, Receiver: "self", HasReceiver: true}
	}
	if parts := splitExactlyTwo(legacy, "::"); parts != nil {
		return MethodCall{Receiver: parts[0], Method: parts[1], HasReceiver: true, IsStatic: true}
	}
	if parts := splitExactlyTwo(legacy, "@"); parts != nil {
		return MethodCall{Receiver: parts[0], Method: parts[1], HasReceiver: true}
	}
	return MethodCall{Method: legacy}
}

func cutPrefix(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return s[len(prefix):], true
	}
	return "", false
}

// splitExactlyTwo returns the two sides of sep iff sep occurs exactly once.
func splitExactlyTwo(s, sep string) []string {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return nil
	}
	return parts
}
