// Package grove builds structural inventories and call graphs for
// multi-language codebases using tree-sitter. It supports Solidity,
// Rust, C++, Move, and Go, and answers "who calls what" questions
// without compiling or type-checking any of them.
//
// # Pipeline
//
// A session runs in three phases:
//
//  1. Extract: walk the project tree, parse each supported file with its
//     tree-sitter grammar, and record modules, functions, and structs
//     plus the raw call names inside each function body.
//
//  2. Resolve: match raw call names against the session-wide function
//     inventory with same-module precedence, producing typed call graph
//     edges. Names that match nothing are kept verbatim as unresolved
//     callees.
//
//  3. Expand: build full upstream and downstream call trees for every
//     function that passes the engine's filter, with per-path cycle
//     markers.
//
// # Usage
//
// Create an Engine, parse, and query the resulting Analysis:
//
//	e := grove.New("path/to/project")
//	a, err := e.ParseProject(ctx)
//	if err != nil { ... }
//
//	callers := a.Callers("Token.transfer")
//	deps, err := a.Dependencies("Token.transfer", 5)
//	tree, err := a.ExtractCallTreeWithDepth("Token.transfer", 3)
//
// The resolution is heuristic and name-based: dynamic dispatch, function
// pointers, and cross-contract calls through interfaces stay unresolved.
// The unresolved names are preserved in each record's call list so
// downstream tooling can apply its own matching.
//
// # Configuration
//
// Options configure an Engine in code; a grove.yaml file under the
// project root carries the same settings for CLI use. [WithFilterExpr]
// accepts a Risor expression evaluated per function record, e.g.
// `language == "rust" && is_async`.
package grove
