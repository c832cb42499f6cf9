package grove

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/zeebo/xxh3"

	"github.com/jward/grove/internal/extract"
	"github.com/jward/grove/internal/filter"
	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// FilterFunc decides whether a function belongs to the filtered analysis
// set. The full inventory always keeps every function; the filter only
// controls which functions get call trees built for them.
type FilterFunc func(*graph.FunctionInfo) bool

// DefaultFilter excludes constructor and fallback-style functions, the
// usual uninteresting roots for call-tree analysis.
func DefaultFilter(fn *graph.FunctionInfo) bool {
	switch fn.Name {
	case "constructor", "fallback", "receive":
		return false
	}
	return true
}

// skipDirs are directory names excluded from every walk, before any
// user-configured additions.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"build":        true,
	"out":          true,
	"__pycache__":  true,
}

// Engine walks a project tree, runs per-language structural extraction,
// and assembles the call graph and call trees for one analysis session.
// Re-running ParseProject rebuilds everything from scratch.
type Engine struct {
	root           string
	languages      map[lang.Language]bool // nil means all languages
	ignoreDirs     map[string]bool
	ignorePatterns []string
	filter         FilterFunc
	filterExpr     *filter.Expr
	useParallel    bool
	treeDepthLimit int
	treeCacheSize  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[lang.Language]bool, len(languages))
		for _, l := range languages {
			e.languages[lang.Language(strings.ToLower(strings.TrimSpace(l)))] = true
		}
	}
}

// WithIgnoreDirs adds directory names to skip during the walk, on top of
// the built-in set.
func WithIgnoreDirs(dirs ...string) Option {
	return func(e *Engine) {
		for _, d := range dirs {
			if d = strings.TrimSpace(d); d != "" {
				e.ignoreDirs[d] = true
			}
		}
	}
}

// WithIgnorePatterns adds glob patterns matched against root-relative
// file paths; matching files are skipped.
func WithIgnorePatterns(patterns ...string) Option {
	return func(e *Engine) {
		e.ignorePatterns = append(e.ignorePatterns, patterns...)
	}
}

// WithFilter replaces the default function filter.
func WithFilter(fn FilterFunc) Option {
	return func(e *Engine) {
		e.filter = fn
	}
}

// WithFilterExpr adds a filter expression evaluated against each function
// record, combined (AND) with the function filter. See internal/filter
// for the expression environment.
func WithFilterExpr(source string) Option {
	return func(e *Engine) {
		if source = strings.TrimSpace(source); source != "" {
			e.filterExpr = filter.New(source)
		}
	}
}

// WithParallel controls parallel extraction. When true (default), files
// are parsed by a bounded worker group and merged serially afterward.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithTreeDepthLimit sets the hard recursion safety valve for full call
// tree construction. This is not a query parameter; it bounds
// pathological graphs.
func WithTreeDepthLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.treeDepthLimit = limit
		}
	}
}

// WithTreeCacheSize sets the size of the depth-limited tree view cache.
func WithTreeCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.treeCacheSize = size
		}
	}
}

// New creates an Engine rooted at the given directory.
func New(root string, opts ...Option) *Engine {
	e := &Engine{
		root:           root,
		ignoreDirs:     make(map[string]bool),
		filter:         DefaultFilter,
		useParallel:    true,
		treeDepthLimit: defaultTreeDepthLimit,
		treeCacheSize:  defaultTreeCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseProject discovers source files under the root, extracts every
// file, and assembles the analysis session: function inventory, call
// graph, adjacency index, and call trees for the filtered set.
func (e *Engine) ParseProject(ctx context.Context) (*Analysis, error) {
	globs, err := e.compileIgnorePatterns()
	if err != nil {
		return nil, err
	}

	paths, err := e.discoverFiles(globs)
	if err != nil {
		return nil, fmt.Errorf("grove: discover files: %w", err)
	}

	var outcomes []fileOutcome
	if e.useParallel {
		outcomes, err = e.extractFilesParallel(ctx, paths)
	} else {
		outcomes, err = e.extractFilesSerial(ctx, paths)
	}
	if err != nil {
		return nil, err
	}

	a, err := e.mergeOutcomes(ctx, outcomes)
	if err != nil {
		return nil, err
	}

	a.Edges = graph.BuildEdges(a.Functions)
	a.index = graph.NewIndex(a.Edges)

	if err := a.buildCallTrees(ctx, e.treeDepthLimit); err != nil {
		return nil, err
	}
	if err := a.initTreeCache(e.treeCacheSize); err != nil {
		return nil, err
	}
	return a, nil
}

func (e *Engine) compileIgnorePatterns() ([]glob.Glob, error) {
	var globs []glob.Glob
	for _, p := range e.ignorePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("grove: ignore pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// discoverFiles walks the root, skipping ignored and hidden directories,
// and returns the paths whose extension maps to an enabled language.
// Unknown extensions are silently excluded; non-source files are
// expected in any project tree.
func (e *Engine) discoverFiles(globs []glob.Glob) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != e.root && (strings.HasPrefix(name, ".") || skipDirs[name] || e.ignoreDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		cfg, err := lang.ForFile(path)
		if err != nil {
			return nil // unsupported extension
		}
		if e.languages != nil && !e.languages[cfg.Language] {
			return nil
		}
		rel, relErr := filepath.Rel(e.root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		for _, g := range globs {
			if g.Match(rel) {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// fileOutcome is one file's extraction result, or the reason it was
// skipped.
type fileOutcome struct {
	path string
	res  *extract.Result
	err  error
}

func (e *Engine) extractFilesSerial(ctx context.Context, paths []string) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(paths))
	for i, path := range paths {
		outcomes[i] = e.extractFile(ctx, path)
	}
	return outcomes, nil
}

// extractFile parses a single file. A parse failure is recorded, not
// returned: one bad file must never abort the rest of the project.
func (e *Engine) extractFile(ctx context.Context, path string) fileOutcome {
	content, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{path: path, err: fmt.Errorf("read file: %w", err)}
	}
	ex, err := extract.ForFile(path)
	if err != nil {
		return fileOutcome{path: path, err: err}
	}
	res, err := ex.Extract(ctx, content, path)
	if err != nil {
		return fileOutcome{path: path, err: err}
	}
	return fileOutcome{path: path, res: res}
}

// mergeOutcomes folds per-file results into a single Analysis. This is
// the only writer of the shared maps; the parallel path hands it
// fully-extracted partial results in path order.
func (e *Engine) mergeOutcomes(ctx context.Context, outcomes []fileOutcome) (*Analysis, error) {
	a := newAnalysis(e.root, e.filter, e.filterExpr)
	for _, out := range outcomes {
		if out.err != nil {
			log.Printf("grove: skipping %s: %v", out.path, out.err)
			continue
		}
		if err := a.addFileResult(ctx, out.path, out.res); err != nil {
			return nil, err
		}
	}
	a.finalize()
	return a, nil
}

// addFileResult registers one file's records, assigning path metadata
// and keeping the full-name keyspace unique.
func (a *Analysis) addFileResult(ctx context.Context, path string, res *extract.Result) error {
	rel, err := filepath.Rel(a.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	for _, fn := range res.Functions {
		fn.FilePath = path
		fn.RelativeFilePath = rel
		fn.AbsoluteFilePath = abs
		fn.ContentHash = fmt.Sprintf("%016x", xxh3.HashString(fn.Content))

		key := fn.FullName
		if _, exists := a.Functions[key]; exists {
			// Same qualified name in two files; keep both, disambiguated
			// by relative path so the session keyspace stays unique.
			key = fn.FullName + "@" + rel
			fn.FullName = key
		}
		a.Functions[key] = fn

		keep := a.filter == nil || a.filter(fn)
		if keep && a.filterExpr != nil {
			ok, err := a.filterExpr.Match(ctx, fn)
			if err != nil {
				return fmt.Errorf("grove: filter expression: %w", err)
			}
			keep = ok
		}
		if keep {
			a.filteredNames[key] = true
		}
	}

	a.Modules = append(a.Modules, res.Modules...)
	a.Structs = append(a.Structs, res.Structs...)
	return nil
}

// Analysis is one completed parse session: the full inventory, the
// filtered subset, the call graph, and the per-function call trees.
type Analysis struct {
	Root string

	// Functions is the full inventory keyed by qualified name.
	Functions map[string]*graph.FunctionInfo
	// All is the inventory in deterministic (name-sorted) order.
	All []*graph.FunctionInfo
	// Filtered is the subset selected by the engine's filter, same order.
	Filtered []*graph.FunctionInfo

	Modules []*graph.ModuleInfo
	Structs []*graph.StructInfo
	Edges   []graph.CallGraphEdge

	filter        FilterFunc
	filterExpr    *filter.Expr
	filteredNames map[string]bool
	indexByName   map[string]int
	index         *graph.Index

	trees      []*FunctionCallTree
	treeByName map[string]*FunctionCallTree
	treeCache  *treeCache
}

func newAnalysis(root string, f FilterFunc, expr *filter.Expr) *Analysis {
	return &Analysis{
		Root:          root,
		Functions:     make(map[string]*graph.FunctionInfo),
		filter:        f,
		filterExpr:    expr,
		filteredNames: make(map[string]bool),
	}
}

// finalize freezes the deterministic orderings once every file is merged.
func (a *Analysis) finalize() {
	names := make([]string, 0, len(a.Functions))
	for name := range a.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	a.All = make([]*graph.FunctionInfo, 0, len(names))
	a.indexByName = make(map[string]int, len(names))
	for i, name := range names {
		a.All = append(a.All, a.Functions[name])
		a.indexByName[name] = i
		if a.filteredNames[name] {
			a.Filtered = append(a.Filtered, a.Functions[name])
		}
	}

	sort.Slice(a.Modules, func(i, j int) bool { return a.Modules[i].FullName < a.Modules[j].FullName })
	sort.Slice(a.Structs, func(i, j int) bool { return a.Structs[i].FullName < a.Structs[j].FullName })
}

// Function looks up a function record by qualified name.
func (a *Analysis) Function(name string) (*graph.FunctionInfo, bool) {
	fn, ok := a.Functions[name]
	return fn, ok
}
