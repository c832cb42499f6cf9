package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// cppExtractor walks namespaces, classes, and function definitions.
// Declarator chains are unwrapped to find the function name, following the
// approach of tree-sitter C++ entity extractors.
type cppExtractor struct {
	cfg *lang.Config
}

func (e *cppExtractor) Language() lang.Language { return lang.Cpp }

func (e *cppExtractor) Extract(ctx context.Context, src []byte, path string) (*Result, error) {
	root, err := parse(ctx, lang.Cpp, src)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	e.extractScope(root, src, path, fileStem(path), "public", res)
	return res, nil
}

// extractScope walks one declaration scope. module is the qualified prefix
// for declarations found here; access is the current member visibility.
func (e *cppExtractor) extractScope(scope *sitter.Node, src []byte, path, module, access string, res *Result) {
	callTypes := nodeTypeSet(e.cfg.CallNodeTypes)

	for i := 0; i < int(scope.NamedChildCount()); i++ {
		n := scope.NamedChild(i)
		switch n.Type() {
		case "access_specifier":
			access = strings.TrimSuffix(strings.TrimSpace(text(n, src)), ":")

		case "namespace_definition":
			name := fieldText(n, "name", src)
			full := qualify(module, e.cfg.Separator, name)
			if name == "" {
				full = module // anonymous namespace keeps the enclosing prefix
			}
			res.Modules = append(res.Modules, &graph.ModuleInfo{
				Name:       name,
				FullName:   full,
				Language:   string(lang.Cpp),
				LineNumber: lineOf(n),
				FilePath:   path,
				Kind:       "namespace",
			})
			if body := n.ChildByFieldName("body"); body != nil {
				e.extractScope(body, src, path, full, "public", res)
			}

		case "class_specifier", "struct_specifier":
			name := fieldText(n, "name", src)
			if name == "" {
				continue
			}
			st := &graph.StructInfo{
				Name:       name,
				FullName:   qualify(module, e.cfg.Separator, name),
				Language:   string(lang.Cpp),
				LineNumber: lineOf(n),
			}
			for j := 0; j < int(n.NamedChildCount()); j++ {
				if c := n.NamedChild(j); c.Type() == "base_class_clause" {
					for k := 0; k < int(c.NamedChildCount()); k++ {
						if b := strings.TrimSpace(text(c.NamedChild(k), src)); b != "" && !e.cfg.VisibilityKeywords[b] {
							st.BaseClasses = append(st.BaseClasses, b)
						}
					}
				}
			}
			body := n.ChildByFieldName("body")
			if body != nil {
				e.collectFields(body, src, st)
				memberAccess := "private"
				if n.Type() == "struct_specifier" {
					memberAccess = "public"
				}
				before := len(res.Functions)
				e.extractScope(body, src, path, st.FullName, memberAccess, res)
				for _, fn := range res.Functions[before:] {
					st.Methods = append(st.Methods, fn.Name)
				}
			}
			res.Structs = append(res.Structs, st)

		case "enum_specifier":
			if name := fieldText(n, "name", src); name != "" {
				res.Structs = append(res.Structs, &graph.StructInfo{
					Name:       name,
					FullName:   qualify(module, e.cfg.Separator, name),
					Language:   string(lang.Cpp),
					LineNumber: lineOf(n),
				})
			}

		case "template_declaration":
			// Recurse into the wrapped declaration with the same scope.
			e.extractScope(n, src, path, module, access, res)

		case "function_definition":
			if fn := e.extractFunction(n, src, module, access, callTypes); fn != nil {
				res.Functions = append(res.Functions, fn)
			}
		}
	}
}

func (e *cppExtractor) extractFunction(n *sitter.Node, src []byte, module, access string, callTypes map[string]bool) *graph.FunctionInfo {
	decl := functionDeclarator(n.ChildByFieldName("declarator"))
	if decl == nil {
		return nil
	}
	name := strings.TrimSpace(fieldText(decl, "declarator", src))
	if name == "" {
		return nil
	}

	fn := &graph.FunctionInfo{
		Name:       unqualifiedTail(name, e.cfg.Separator),
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Cpp),
		Content:    text(n, src),
		Visibility: access,
		Parameters: paramTexts(decl.ChildByFieldName("parameters"), src),
		ReturnType: strings.TrimSpace(fieldText(n, "type", src)),
		LineNumber: lineOf(n),
		StartLine:  lineOf(n),
		EndLine:    endLineOf(n),
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "virtual", "virtual_function_specifier":
			fn.IsVirtual = true
		case "storage_class_specifier":
			switch text(c, src) {
			case "static":
				fn.IsStatic = true
			case "inline":
				fn.IsInline = true
			}
		}
	}

	fn.Calls = collectCalls(n.ChildByFieldName("body"), src, callTypes)
	return fn
}

// functionDeclarator unwraps pointer/reference declarators down to the
// function_declarator node, or nil if there is none.
func functionDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil && d.Type() != "function_declarator" {
		d = d.ChildByFieldName("declarator")
	}
	return d
}

// unqualifiedTail returns the final segment of an already-qualified
// declarator name like Foo::bar.
func unqualifiedTail(name, sep string) string {
	if idx := strings.LastIndex(name, sep); idx >= 0 {
		return name[idx+len(sep):]
	}
	return name
}

func (e *cppExtractor) collectFields(body *sitter.Node, src []byte, st *graph.StructInfo) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() != "field_declaration" {
			continue
		}
		// Method prototypes are field_declarations with a function_declarator.
		if functionDeclarator(c.ChildByFieldName("declarator")) != nil {
			continue
		}
		if f := strings.TrimSpace(text(c, src)); f != "" {
			st.Fields = append(st.Fields, strings.TrimSuffix(f, ";"))
		}
	}
}
