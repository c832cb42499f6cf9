package grove

import (
	"errors"
	"fmt"
)

// DefaultMaxDepth is the traversal ceiling used when a dependency query
// does not specify one.
const DefaultMaxDepth = 15

// ErrFunctionNotFound reports a dependency query against a name absent
// from the session.
var ErrFunctionNotFound = errors.New("function not found")

// DependencyGraph is the transitive dependency view of one function:
// everything that can reach it and everything it can reach, each name
// annotated with its shortest distance from the target.
type DependencyGraph struct {
	TargetFunction    string         `json:"target_function"`
	Upstream          map[string]int `json:"upstream_functions"`
	Downstream        map[string]int `json:"downstream_functions"`
	TotalDependencies int            `json:"total_dependencies"`
}

// RecursiveUpstream returns every transitive caller of name within
// maxDepth, mapped to its shortest caller-distance (direct callers are
// 1). Cycles are absorbed by the visited set; nodes beyond the ceiling
// are simply absent. maxDepth <= 0 uses DefaultMaxDepth.
func (a *Analysis) RecursiveUpstream(name string, maxDepth int) (map[string]int, error) {
	if _, ok := a.Functions[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return a.walk(name, maxDepth, a.index.CallerNames), nil
}

// RecursiveDownstream returns every transitive callee of name within
// maxDepth, mapped to its shortest callee-distance.
func (a *Analysis) RecursiveDownstream(name string, maxDepth int) (map[string]int, error) {
	if _, ok := a.Functions[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return a.walk(name, maxDepth, a.index.CalleeNames), nil
}

// walk is a breadth-first traversal over one adjacency direction. BFS
// guarantees the recorded depth is the shortest distance; the visited
// set guarantees termination on cyclic graphs.
func (a *Analysis) walk(start string, maxDepth int, neighbors func(string) []string) map[string]int {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	result := make(map[string]int)
	visited := map[string]bool{start: true}
	type entry struct {
		name  string
		depth int
	}
	queue := []entry{{name: start, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= maxDepth {
			continue
		}
		for _, next := range neighbors(current.name) {
			if visited[next] {
				continue
			}
			visited[next] = true
			result[next] = current.depth + 1
			queue = append(queue, entry{name: next, depth: current.depth + 1})
		}
	}
	return result
}

// Dependencies builds both directions for one function in a single
// report. maxDepth <= 0 uses DefaultMaxDepth.
func (a *Analysis) Dependencies(name string, maxDepth int) (*DependencyGraph, error) {
	upstream, err := a.RecursiveUpstream(name, maxDepth)
	if err != nil {
		return nil, err
	}
	downstream, err := a.RecursiveDownstream(name, maxDepth)
	if err != nil {
		return nil, err
	}
	return &DependencyGraph{
		TargetFunction:    name,
		Upstream:          upstream,
		Downstream:        downstream,
		TotalDependencies: len(upstream) + len(downstream),
	}, nil
}
