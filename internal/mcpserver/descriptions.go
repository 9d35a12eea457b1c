package mcpserver

// Tool descriptions optimized for LLM context efficiency.
// Keep descriptions concise - focus on what the tool does and when to use it.

func describeFindSymbol() string {
	return `Finds a symbol by exact name in a previously indexed source tree.

USE WHEN:
- Locating where a function, class, or variable is defined
- Checking whether a symbol already exists before adding one
- Resolving a name seen in a stack trace or log line to its source location

REQUIRES: the tree must have been indexed first (run the CLI's index command
against the same state directory).

RETURNS: every matching symbol's id, kind, file, and line/column.`
}

func describeFindCallers() string {
	return `Lists every function or method that calls the named function.

USE WHEN:
- Assessing the blast radius of changing a function's signature
- Finding all call sites before renaming or removing a function
- Understanding how a piece of code is actually used

RETURNS: a list of caller names, deduplicated.`
}

func describeFindCallees() string {
	return `Lists every function or method the named function calls.

USE WHEN:
- Understanding what a function depends on
- Tracing a call chain downward from an entry point

RETURNS: a list of callee names, deduplicated.`
}

func describeFindImplementations() string {
	return `Lists every type that implements the named interface or trait.

USE WHEN:
- Finding all implementations before changing an interface's contract
- Discovering the concrete types behind a polymorphic call

RETURNS: a list of implementing type names.`
}

func describeImpactOf() string {
	return `Computes the transitive closure of everything that would be affected by
changing the named symbol, by following the caller graph outward.

USE WHEN:
- Scoping a refactor: what else needs review if this function changes
- Estimating test coverage needed before a change

RETURNS: every name transitively reachable by following caller edges from
the given name, breadth-first.`
}

func describeAuditCoverage() string {
	return `Reports how much of a language grammar's key node kinds the production
parser actually extracts symbols/relationships for, given one sample file.

USE WHEN:
- Deciding whether a language's extractor needs more work
- Investigating why a symbol in a given language wasn't found by index

RETURNS: curated coverage percentage, a prioritized list of unhandled node
kinds, and the total distinct grammar node kinds seen in the sample (when
the language has a tree-sitter grammar backing it).`
}
