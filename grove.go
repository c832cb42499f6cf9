package grove

import "github.com/jward/grove/internal/graph"

// Public type aliases for the internal graph types that appear in the
// Analysis API. These are Go type aliases (=), identical to the internal
// types at compile time; external consumers use these names and need no
// conversion.

type FunctionInfo = graph.FunctionInfo
type ModuleInfo = graph.ModuleInfo
type StructInfo = graph.StructInfo
type CallGraphEdge = graph.CallGraphEdge
type CallTreeNode = graph.CallTreeNode
type CallType = graph.CallType
type LanguageStats = graph.LanguageStats
