package graph

import (
	"sort"
	"strings"

	"github.com/jward/grove/internal/lang"
)

// BuildEdges resolves every raw call name in every function to a best-guess
// callee and emits one edge per call. Resolution order:
//
//  1. The raw name is already a qualified name present in functions.
//  2. caller's module + separator + raw name (same-module precedence).
//  3. Unresolved: the raw name is kept verbatim as the callee.
//
// Unresolved callees still produce edges; they just have no known children.
// Output is sorted for deterministic downstream traversal.
func BuildEdges(functions map[string]*FunctionInfo) []CallGraphEdge {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)

	var edges []CallGraphEdge
	for _, name := range names {
		fn := functions[name]
		sep := SeparatorFor(fn.Language)
		mod := moduleOf(fn.FullName, sep)
		for _, raw := range fn.Calls {
			callee := resolveCallee(raw, mod, sep, functions)
			edges = append(edges, CallGraphEdge{
				Caller:   fn.FullName,
				Callee:   callee,
				CallType: classifyCall(fn, raw, callee, sep, functions),
				Language: fn.Language,
			})
		}
	}
	return edges
}

func resolveCallee(raw, callerModule, sep string, functions map[string]*FunctionInfo) string {
	if _, ok := functions[raw]; ok {
		return raw
	}
	if callerModule != "" {
		qualified := callerModule + sep + raw
		if _, ok := functions[qualified]; ok {
			return qualified
		}
	}
	return raw
}

// classifyCall applies the per-language decision table from the raw call
// text and the resolved callee. The result is metadata only.
func classifyCall(caller *FunctionInfo, raw, callee, sep string, functions map[string]*FunctionInfo) CallType {
	target := functions[callee]

	switch lang.Language(caller.Language) {
	case lang.Solidity:
		base := raw
		if idx := strings.LastIndex(base, "."); idx >= 0 {
			base = base[idx+1:]
		}
		for _, m := range caller.Modifiers {
			if m == base {
				return CallModifier
			}
		}
		if base == "constructor" || (target != nil && target.Name == "constructor") {
			return CallConstructor
		}
		if strings.Contains(raw, ".") {
			return CallExternal
		}
		return CallDirect

	case lang.Rust:
		if strings.HasSuffix(raw, "!") {
			return CallMacro
		}
		if target != nil && target.IsAsync {
			return CallAsync
		}
		if strings.Contains(raw, sep) || strings.Contains(raw, ".") {
			return CallTrait
		}
		return CallDirect

	case lang.Move:
		if strings.HasSuffix(raw, "!") {
			return CallMacro
		}
		if target != nil && target.IsEntry {
			return CallEntry
		}
		return CallDirect

	case lang.Cpp:
		if target != nil && target.IsVirtual {
			return CallVirtual
		}
		if strings.Contains(raw, sep) || strings.Contains(raw, ".") || strings.Contains(raw, "->") {
			return CallVirtual
		}
		return CallDirect

	case lang.Go:
		if target != nil && target.IsAsync {
			return CallAsync
		}
		if strings.Contains(raw, ".") {
			return CallVirtual
		}
		return CallDirect
	}
	return CallDirect
}

// Index is the frozen adjacency view of an edge list: one lookup per
// direction, built once after all edges exist and never mutated while
// traversals run.
type Index struct {
	byCaller map[string][]CallGraphEdge
	byCallee map[string][]CallGraphEdge
}

// NewIndex builds caller->edges and callee->edges adjacency maps.
// Neighbor lists keep the (sorted) order of the input edge list.
func NewIndex(edges []CallGraphEdge) *Index {
	idx := &Index{
		byCaller: make(map[string][]CallGraphEdge),
		byCallee: make(map[string][]CallGraphEdge),
	}
	for _, e := range edges {
		idx.byCaller[e.Caller] = append(idx.byCaller[e.Caller], e)
		idx.byCallee[e.Callee] = append(idx.byCallee[e.Callee], e)
	}
	return idx
}

// Callees returns the outgoing edges of a function.
func (idx *Index) Callees(name string) []CallGraphEdge {
	return idx.byCaller[name]
}

// Callers returns the incoming edges of a function.
func (idx *Index) Callers(name string) []CallGraphEdge {
	return idx.byCallee[name]
}

// CalleeNames returns the distinct callee names of a function, in first-seen
// order.
func (idx *Index) CalleeNames(name string) []string {
	return distinctEndpoints(idx.byCaller[name], func(e CallGraphEdge) string { return e.Callee })
}

// CallerNames returns the distinct caller names of a function, in first-seen
// order.
func (idx *Index) CallerNames(name string) []string {
	return distinctEndpoints(idx.byCallee[name], func(e CallGraphEdge) string { return e.Caller })
}

// Isolated reports whether a function has no incoming and no outgoing edges.
func (idx *Index) Isolated(name string) bool {
	return len(idx.byCaller[name]) == 0 && len(idx.byCallee[name]) == 0
}

func distinctEndpoints(edges []CallGraphEdge, pick func(CallGraphEdge) string) []string {
	if len(edges) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(edges))
	var out []string
	for _, e := range edges {
		name := pick(e)
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
