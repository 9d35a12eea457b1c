package langparser

import "github.com/codegraph/codeintel/pkg/ids"

// CallTuple is (caller_function_or_script_scope, callee_name, range).
type CallTuple struct {
	Caller string
	Callee string
	Range  ids.Range
}

// ImplementsTuple is (type_name, interface_or_trait_name, range).
type ImplementsTuple struct {
	Type      string
	Interface string
	Range     ids.Range
}

// ExtendsTuple is (derived_name, base_name, range).
type ExtendsTuple struct {
	Derived string
	Base    string
	Range   ids.Range
}

// UsesTuple is (context_name, used_type_name, range).
type UsesTuple struct {
	Context string
	Type    string
	Range   ids.Range
}

// DefinesTuple is (definer_type_name, method_name, range).
type DefinesTuple struct {
	Type   string
	Method string
	Range  ids.Range
}

// VariableTypeTuple is (variable_name, type_name, range).
type VariableTypeTuple struct {
	Variable string
	Type     string
	Range    ids.Range
}

// InherentMethodTuple is (type_name, method_name) with owned strings, for
// constructed type names such as generic instantiations.
type InherentMethodTuple struct {
	Type   string
	Method string
}
