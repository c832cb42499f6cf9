// Package extract turns one parsed syntax tree into module, function, and
// struct records plus the raw call-name list per function. One extractor
// per language, a closed set: adding a language means adding a variant and
// a lang.Config, not subclassing anything.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// Result is the structural inventory of a single file.
type Result struct {
	Modules   []*graph.ModuleInfo
	Functions []*graph.FunctionInfo
	Structs   []*graph.StructInfo
}

// Extractor parses source text and emits structural records.
type Extractor interface {
	Language() lang.Language
	Extract(ctx context.Context, src []byte, path string) (*Result, error)
}

// New returns the extractor for a language. The set is closed; unknown
// languages are an error, not an extension point.
func New(l lang.Language) (Extractor, error) {
	cfg := lang.ForLanguage(l)
	if cfg == nil {
		return nil, fmt.Errorf("extract: no config for language %q", l)
	}
	switch l {
	case lang.Solidity:
		return &solidityExtractor{cfg: cfg}, nil
	case lang.Rust:
		return &rustExtractor{cfg: cfg}, nil
	case lang.Cpp:
		return &cppExtractor{cfg: cfg}, nil
	case lang.Move:
		return &moveExtractor{cfg: cfg}, nil
	case lang.Go:
		return &goExtractor{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("extract: unsupported language %q", l)
}

// ForFile returns the extractor for a path based on its extension.
func ForFile(path string) (Extractor, error) {
	cfg, err := lang.ForFile(path)
	if err != nil {
		return nil, err
	}
	return New(cfg.Language)
}

// parse runs the language's tree-sitter grammar over src and returns the
// root node. A nil tree or parser error is a file-level parse failure.
func parse(ctx context.Context, l lang.Language, src []byte) (*sitter.Node, error) {
	grammar, ok := lang.Grammar(l)
	if !ok {
		return nil, fmt.Errorf("extract: no grammar for language %q", l)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("extract: parse: %w", err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("extract: parse produced no tree")
	}
	return tree.RootNode(), nil
}

// walk visits n and its named descendants in document order. visit returns
// false to skip the node's subtree.
func walk(n *sitter.Node, visit func(n *sitter.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), visit)
	}
}

// text returns the source slice of a node, nil-safe.
func text(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(src)
}

// fieldText returns the source slice of a node's named field, nil-safe.
func fieldText(n *sitter.Node, field string, src []byte) string {
	if n == nil {
		return ""
	}
	return text(n.ChildByFieldName(field), src)
}

// lineOf returns the 1-based start line of a node.
func lineOf(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func endLineOf(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

// qualify joins a module name and an unqualified name with the separator.
// An empty module yields the bare name.
func qualify(module, sep, name string) string {
	if module == "" {
		return name
	}
	return module + sep + name
}

// fileStem is the fallback module namespace for declarations with no
// enclosing module node: the file name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// nodeTypeSet builds a membership set from a node-type list.
func nodeTypeSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// callName extracts the invoked name from a call-expression node: the
// "function" field when present (identifier or member-access text), else
// the "macro"/"name" field, else the first named child. Macro invocations
// keep their trailing marker so the classifier can see it.
func callName(n *sitter.Node, src []byte) string {
	if fn := n.ChildByFieldName("function"); fn != nil {
		return strings.TrimSpace(text(fn, src))
	}
	if macro := n.ChildByFieldName("macro"); macro != nil {
		return strings.TrimSpace(text(macro, src)) + "!"
	}
	if name := n.ChildByFieldName("name"); name != nil {
		return strings.TrimSpace(text(name, src))
	}
	if n.NamedChildCount() > 0 {
		return strings.TrimSpace(text(n.NamedChild(0), src))
	}
	return ""
}

// nameOf returns a declaration's name: the "name" field when the grammar
// exposes one, else the first identifier child. Grammar revisions disagree
// on which they provide.
func nameOf(n *sitter.Node, src []byte) string {
	if name := fieldText(n, "name", src); name != "" {
		return name
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if strings.HasSuffix(c.Type(), "identifier") {
			return text(c, src)
		}
	}
	return ""
}

// collectCalls walks a function body and returns the raw call names of
// every node whose type is in the language's call set. Nested function
// bodies are not descended into by callers that pass the body node only.
func collectCalls(body *sitter.Node, src []byte, callTypes map[string]bool) []string {
	var calls []string
	walk(body, func(n *sitter.Node) bool {
		if callTypes[n.Type()] {
			if name := callName(n, src); name != "" {
				calls = append(calls, name)
			}
		}
		return true
	})
	return calls
}

// paramTexts returns the verbatim text of each named child of a parameter
// list node.
func paramTexts(params *sitter.Node, src []byte) []string {
	if params == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if t := strings.TrimSpace(text(p, src)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// tokenSet collects the unnamed leaf tokens of a node's direct children,
// used to detect keyword flags (pub, async, payable, ...).
func tokenSet(n *sitter.Node, src []byte) map[string]bool {
	set := map[string]bool{}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() {
			set[text(c, src)] = true
		}
	}
	return set
}
