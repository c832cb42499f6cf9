package grove

import (
	"context"
	"fmt"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jward/grove/internal/graph"
)

const (
	// defaultTreeDepthLimit is the hard safety valve on full tree
	// construction. It exists to bound degenerate graphs, not to shape
	// results; real call chains never get near it.
	defaultTreeDepthLimit = 512

	// defaultTreeCacheSize bounds the depth-limited view cache.
	defaultTreeCacheSize = 256
)

// FunctionCallTree is the full expansion of one function's call
// relationships in both directions. Upstream children are callers of
// callers; downstream children are callees of callees.
type FunctionCallTree struct {
	Function   *graph.FunctionInfo   `json:"function"`
	Upstream   []*graph.CallTreeNode `json:"upstream"`
	Downstream []*graph.CallTreeNode `json:"downstream"`
}

// CallTrees returns the trees for the filtered function set, in the
// filtered set's (name-sorted) order.
func (a *Analysis) CallTrees() []*FunctionCallTree {
	return a.trees
}

// CallTree returns the tree for one function, when the function passed
// the engine's filter.
func (a *Analysis) CallTree(name string) (*FunctionCallTree, bool) {
	t, ok := a.treeByName[name]
	return t, ok
}

// buildCallTrees expands a tree per filtered function. Each tree is an
// independent read over the immutable adjacency index, so they build in
// parallel; results land in a slice indexed by position to keep the
// ordering deterministic.
func (a *Analysis) buildCallTrees(ctx context.Context, depthLimit int) error {
	if depthLimit <= 0 {
		depthLimit = defaultTreeDepthLimit
	}

	a.trees = make([]*FunctionCallTree, len(a.Filtered))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, fn := range a.Filtered {
		g.Go(func() error {
			a.trees[i] = &FunctionCallTree{
				Function:   fn,
				Upstream:   a.expand(fn.FullName, a.index.CallerNames, depthLimit),
				Downstream: a.expand(fn.FullName, a.index.CalleeNames, depthLimit),
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	a.treeByName = make(map[string]*FunctionCallTree, len(a.trees))
	for _, t := range a.trees {
		a.treeByName[t.Function.FullName] = t
	}
	return nil
}

// treeFrame is one pending node expansion on the explicit work stack.
type treeFrame struct {
	name    string
	depth   int
	visited map[string]bool // names on the path from the root to here
	parent  *graph.CallTreeNode
}

// expand builds one direction of a call tree with an explicit stack.
// Cycle handling is per path: a name may appear in several branches, but
// a branch that revisits its own ancestor stops with a circular marker.
// Sibling frames share the parent's visited map; it is extended only by
// copying, never mutated, so the sharing is safe.
func (a *Analysis) expand(root string, neighbors func(string) []string, depthLimit int) []*graph.CallTreeNode {
	rootNode := &graph.CallTreeNode{Name: root}
	rootVisited := map[string]bool{root: true}

	var stack []treeFrame
	push := func(names []string, depth int, visited map[string]bool, parent *graph.CallTreeNode) {
		// Reverse push so children pop in adjacency order.
		for i := len(names) - 1; i >= 0; i-- {
			stack = append(stack, treeFrame{name: names[i], depth: depth, visited: visited, parent: parent})
		}
	}
	push(neighbors(root), 1, rootVisited, rootNode)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := &graph.CallTreeNode{Name: f.name, FunctionIndex: a.functionIndex(f.name)}
		f.parent.Children = append(f.parent.Children, node)

		if f.visited[f.name] {
			node.CircularReference = true
			continue
		}
		next := neighbors(f.name)
		if len(next) == 0 {
			continue
		}
		if f.depth >= depthLimit {
			node.Truncated = true
			continue
		}
		visited := make(map[string]bool, len(f.visited)+1)
		for k := range f.visited {
			visited[k] = true
		}
		visited[f.name] = true
		push(next, f.depth+1, visited, node)
	}
	return rootNode.Children
}

// functionIndex returns a node's position in the name-sorted inventory,
// or -1 for unresolved call names that have no record.
func (a *Analysis) functionIndex(name string) int {
	if i, ok := a.indexByName[name]; ok {
		return i
	}
	return -1
}

// ExtractCallTreeWithDepth returns a copy of a function's tree pruned to
// maxDepth levels. Nodes whose children were cut carry the truncation
// markers; the stored full trees are never mutated. maxDepth <= 0 uses
// DefaultMaxDepth. Views are cached per (name, depth).
func (a *Analysis) ExtractCallTreeWithDepth(name string, maxDepth int) (*FunctionCallTree, error) {
	full, ok := a.treeByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	key := fmt.Sprintf("%s\x00%d", name, maxDepth)
	if a.treeCache != nil {
		if view, ok := a.treeCache.get(key); ok {
			return view, nil
		}
	}

	view := &FunctionCallTree{
		Function:   full.Function,
		Upstream:   pruneLevel(full.Upstream, 1, maxDepth),
		Downstream: pruneLevel(full.Downstream, 1, maxDepth),
	}
	if a.treeCache != nil {
		a.treeCache.add(key, view)
	}
	return view, nil
}

// pruneLevel clones nodes down to maxDepth. A node at the boundary that
// still had children is kept, childless, with the markers set.
func pruneLevel(nodes []*graph.CallTreeNode, depth, maxDepth int) []*graph.CallTreeNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*graph.CallTreeNode, len(nodes))
	for i, n := range nodes {
		clone := *n
		if depth >= maxDepth && len(n.Children) > 0 {
			clone.Children = nil
			clone.Truncated = true
			clone.MaxDepthReached = true
		} else {
			clone.Children = pruneLevel(n.Children, depth+1, maxDepth)
		}
		out[i] = &clone
	}
	return out
}

// treeCache is a small LRU over depth-limited views. Views are immutable
// once built, so cached pointers are shared freely.
type treeCache struct {
	lru *lru.Cache[string, *FunctionCallTree]
}

func (a *Analysis) initTreeCache(size int) error {
	if size <= 0 {
		size = defaultTreeCacheSize
	}
	c, err := lru.New[string, *FunctionCallTree](size)
	if err != nil {
		return fmt.Errorf("grove: tree cache: %w", err)
	}
	a.treeCache = &treeCache{lru: c}
	return nil
}

func (c *treeCache) get(key string) (*FunctionCallTree, bool) {
	return c.lru.Get(key)
}

func (c *treeCache) add(key string, view *FunctionCallTree) {
	c.lru.Add(key, view)
}
