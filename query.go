package grove

import (
	"sort"

	"github.com/jward/grove/internal/graph"
)

// Callers returns the distinct resolved callers of a function, in
// first-seen edge order. Unknown names return an empty slice.
func (a *Analysis) Callers(name string) []string {
	return a.index.CallerNames(name)
}

// Callees returns the distinct resolved callees of a function, in
// first-seen edge order. Unknown names return an empty slice.
func (a *Analysis) Callees(name string) []string {
	return a.index.CalleeNames(name)
}

// CallerEdges returns the full edges arriving at a function.
func (a *Analysis) CallerEdges(name string) []graph.CallGraphEdge {
	return a.index.Callers(name)
}

// CalleeEdges returns the full edges leaving a function.
func (a *Analysis) CalleeEdges(name string) []graph.CallGraphEdge {
	return a.index.Callees(name)
}

// Ranking pairs a function name with an edge count for top-N views.
type Ranking struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MostCalled returns the topN functions by distinct incoming callers,
// descending, names ascending on ties. topN <= 0 returns every ranked
// function.
func (a *Analysis) MostCalled(topN int) []Ranking {
	counts := make(map[string]int)
	for _, e := range a.Edges {
		counts[e.Callee]++
	}
	return topRankings(counts, topN)
}

// MostCalling returns the topN functions by outgoing resolved calls,
// descending, names ascending on ties.
func (a *Analysis) MostCalling(topN int) []Ranking {
	counts := make(map[string]int)
	for _, e := range a.Edges {
		counts[e.Caller]++
	}
	return topRankings(counts, topN)
}

func topRankings(counts map[string]int, topN int) []Ranking {
	rankings := make([]Ranking, 0, len(counts))
	for name, count := range counts {
		rankings = append(rankings, Ranking{Name: name, Count: count})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Count != rankings[j].Count {
			return rankings[i].Count > rankings[j].Count
		}
		return rankings[i].Name < rankings[j].Name
	})
	if topN > 0 && len(rankings) > topN {
		rankings = rankings[:topN]
	}
	return rankings
}

// Isolated returns the functions with no resolved edges in either
// direction, name-sorted.
func (a *Analysis) Isolated() []string {
	connected := make(map[string]bool, len(a.Edges)*2)
	for _, e := range a.Edges {
		connected[e.Caller] = true
		connected[e.Callee] = true
	}
	var isolated []string
	for _, fn := range a.All {
		if !connected[fn.FullName] {
			isolated = append(isolated, fn.FullName)
		}
	}
	return isolated
}

// Statistics aggregates per-language counts over the session. Languages
// appear in alphabetical order; a language with no records is absent.
func (a *Analysis) Statistics() []graph.LanguageStats {
	byLang := make(map[string]*graph.LanguageStats)
	statsFor := func(language string) *graph.LanguageStats {
		if s, ok := byLang[language]; ok {
			return s
		}
		s := &graph.LanguageStats{Language: language, Features: make(map[string]int)}
		byLang[language] = s
		return s
	}

	for _, m := range a.Modules {
		statsFor(m.Language).Modules++
	}
	for _, st := range a.Structs {
		statsFor(st.Language).Structs++
	}
	for _, fn := range a.All {
		s := statsFor(fn.Language)
		s.Functions++
		for _, feature := range featureFlags(fn) {
			s.Features[feature]++
		}
	}
	for _, e := range a.Edges {
		statsFor(e.Language).Edges++
	}
	for _, name := range a.Isolated() {
		if fn, ok := a.Functions[name]; ok {
			s := statsFor(fn.Language)
			s.Isolated = append(s.Isolated, name)
		}
	}

	languages := make([]string, 0, len(byLang))
	for l := range byLang {
		languages = append(languages, l)
	}
	sort.Strings(languages)

	out := make([]graph.LanguageStats, 0, len(languages))
	for _, l := range languages {
		out = append(out, *byLang[l])
	}
	return out
}

// featureFlags names the language-feature markers set on a record, using
// the exported field names.
func featureFlags(fn *graph.FunctionInfo) []string {
	var features []string
	flags := []struct {
		name string
		set  bool
	}{
		{"async", fn.IsAsync},
		{"unsafe", fn.IsUnsafe},
		{"const", fn.IsConst},
		{"payable", fn.IsPayable},
		{"view", fn.IsView},
		{"pure", fn.IsPure},
		{"virtual", fn.IsVirtual},
		{"override", fn.IsOverride},
		{"entry", fn.IsEntry},
		{"native", fn.IsNative},
		{"static", fn.IsStatic},
		{"inline", fn.IsInline},
		{"exported", fn.IsExported},
	}
	for _, f := range flags {
		if f.set {
			features = append(features, f.name)
		}
	}
	return features
}
