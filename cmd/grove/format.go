package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jward/grove"
)

func printReport(w io.Writer, r *grove.Report) {
	fmt.Fprintf(w, "project: %s\n", r.Root)
	fmt.Fprintf(w, "functions: %d  modules: %d  structs: %d  edges: %d\n\n",
		r.Functions, r.Modules, r.Structs, len(r.Edges))

	for _, s := range r.Languages {
		fmt.Fprintf(w, "[%s] modules=%d functions=%d structs=%d edges=%d isolated=%d\n",
			s.Language, s.Modules, s.Functions, s.Structs, s.Edges, len(s.Isolated))
		if len(s.Features) > 0 {
			features := make([]string, 0, len(s.Features))
			for name, count := range s.Features {
				features = append(features, fmt.Sprintf("%s=%d", name, count))
			}
			sort.Strings(features)
			fmt.Fprintf(w, "  features: %s\n", strings.Join(features, " "))
		}
	}

	if len(r.MostCalled) > 0 {
		fmt.Fprintln(w, "\nmost called:")
		for _, rk := range r.MostCalled {
			fmt.Fprintf(w, "  %4d  %s\n", rk.Count, rk.Name)
		}
	}
	if len(r.MostCalling) > 0 {
		fmt.Fprintln(w, "most calling:")
		for _, rk := range r.MostCalling {
			fmt.Fprintf(w, "  %4d  %s\n", rk.Count, rk.Name)
		}
	}
}

func printDependencies(w io.Writer, d *grove.DependencyGraph) {
	fmt.Fprintf(w, "%s (%d dependencies)\n", d.TargetFunction, d.TotalDependencies)
	fmt.Fprintln(w, "upstream:")
	printDepthMap(w, d.Upstream)
	fmt.Fprintln(w, "downstream:")
	printDepthMap(w, d.Downstream)
}

// printDepthMap lists names grouped by distance, nearest first.
func printDepthMap(w io.Writer, m map[string]int) {
	byDepth := map[int][]string{}
	maxDepth := 0
	for name, depth := range m {
		byDepth[depth] = append(byDepth[depth], name)
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	for depth := 1; depth <= maxDepth; depth++ {
		names := byDepth[depth]
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "  %s%s\n", strings.Repeat("  ", depth-1), n)
		}
	}
}

func printTree(w io.Writer, t *grove.FunctionCallTree) {
	fmt.Fprintln(w, t.Function.FullName)
	if len(t.Upstream) > 0 {
		fmt.Fprintln(w, "upstream:")
		printNodes(w, t.Upstream, 1)
	}
	if len(t.Downstream) > 0 {
		fmt.Fprintln(w, "downstream:")
		printNodes(w, t.Downstream, 1)
	}
}

func printNodes(w io.Writer, nodes []*grove.CallTreeNode, depth int) {
	for _, n := range nodes {
		suffix := ""
		if n.CircularReference {
			suffix = " (circular)"
		}
		if n.Truncated {
			suffix = " (truncated)"
		}
		fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), n.Name, suffix)
		printNodes(w, n.Children, depth+1)
	}
}
