package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// rustExtractor walks mod/impl items recursively. Top-level items are
// attributed to the file stem so crate-root functions in A.rs become A::foo.
type rustExtractor struct {
	cfg *lang.Config
}

func (e *rustExtractor) Language() lang.Language { return lang.Rust }

func (e *rustExtractor) Extract(ctx context.Context, src []byte, path string) (*Result, error) {
	root, err := parse(ctx, lang.Rust, src)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	stem := fileStem(path)
	res.Modules = append(res.Modules, &graph.ModuleInfo{
		Name:       stem,
		FullName:   stem,
		Language:   string(lang.Rust),
		LineNumber: 1,
		FilePath:   path,
		Kind:       "file",
	})
	e.extractItems(root, src, path, stem, res)
	return res, nil
}

func (e *rustExtractor) extractItems(container *sitter.Node, src []byte, path, module string, res *Result) {
	callTypes := nodeTypeSet(e.cfg.CallNodeTypes)
	var pendingDerives []string

	for i := 0; i < int(container.NamedChildCount()); i++ {
		n := container.NamedChild(i)
		switch n.Type() {
		case "attribute_item":
			pendingDerives = append(pendingDerives, parseDerives(text(n, src))...)
			continue

		case "mod_item":
			name := fieldText(n, "name", src)
			if name == "" {
				continue
			}
			full := qualify(module, e.cfg.Separator, name)
			mod := &graph.ModuleInfo{
				Name:       name,
				FullName:   full,
				Language:   string(lang.Rust),
				LineNumber: lineOf(n),
				FilePath:   path,
				Kind:       "mod",
			}
			res.Modules = append(res.Modules, mod)
			if body := n.ChildByFieldName("body"); body != nil {
				e.extractItems(body, src, path, full, res)
			}

		case "impl_item":
			typeName := fieldText(n, "type", src)
			if typeName == "" {
				continue
			}
			full := qualify(module, e.cfg.Separator, typeName)
			if body := n.ChildByFieldName("body"); body != nil {
				e.extractItems(body, src, path, full, res)
			}

		case "function_item", "function_signature_item":
			if fn := e.extractFunction(n, src, module, callTypes); fn != nil {
				res.Functions = append(res.Functions, fn)
			}

		case "struct_item", "enum_item", "trait_item", "union_item":
			if st := e.extractStruct(n, src, module); st != nil {
				st.Derives = pendingDerives
				res.Structs = append(res.Structs, st)
			}

		case "use_declaration":
			if len(res.Modules) > 0 {
				imp := strings.TrimSpace(fieldText(n, "argument", src))
				if imp != "" {
					res.Modules[0].Imports = append(res.Modules[0].Imports, imp)
				}
			}
		}
		pendingDerives = nil
	}
}

func (e *rustExtractor) extractFunction(n *sitter.Node, src []byte, module string, callTypes map[string]bool) *graph.FunctionInfo {
	name := fieldText(n, "name", src)
	if name == "" {
		return nil
	}

	fn := &graph.FunctionInfo{
		Name:       name,
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Rust),
		Content:    text(n, src),
		Visibility: "private",
		Parameters: paramTexts(n.ChildByFieldName("parameters"), src),
		ReturnType: strings.TrimSpace(fieldText(n, "return_type", src)),
		LineNumber: lineOf(n),
		StartLine:  lineOf(n),
		EndLine:    endLineOf(n),
	}
	if tp := fieldText(n, "type_parameters", src); tp != "" {
		fn.GenericParams = []string{tp}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "visibility_modifier":
			fn.Visibility = "public"
		case "function_modifiers":
			mods := tokenSet(c, src)
			fn.IsAsync = mods["async"]
			fn.IsUnsafe = mods["unsafe"]
			fn.IsConst = mods["const"]
		}
	}

	fn.Calls = collectCalls(n.ChildByFieldName("body"), src, callTypes)
	return fn
}

func (e *rustExtractor) extractStruct(n *sitter.Node, src []byte, module string) *graph.StructInfo {
	name := fieldText(n, "name", src)
	if name == "" {
		return nil
	}
	st := &graph.StructInfo{
		Name:        name,
		FullName:    qualify(module, e.cfg.Separator, name),
		Language:    string(lang.Rust),
		LineNumber:  lineOf(n),
		IsInterface: n.Type() == "trait_item",
	}
	walk(n, func(c *sitter.Node) bool {
		switch c.Type() {
		case "field_declaration", "enum_variant":
			st.Fields = append(st.Fields, strings.TrimSpace(text(c, src)))
			return false
		case "function_item", "function_signature_item":
			// Trait methods are listed by name, extracted separately only
			// for impl blocks.
			st.Methods = append(st.Methods, fieldText(c, "name", src))
			return false
		}
		return true
	})
	return st
}

// parseDerives pulls trait names out of a #[derive(...)] attribute; other
// attributes yield nothing.
func parseDerives(attr string) []string {
	idx := strings.Index(attr, "derive(")
	if idx < 0 {
		return nil
	}
	rest := attr[idx+len("derive("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return nil
	}
	var out []string
	for _, d := range strings.Split(rest[:end], ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
