package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// solidityExtractor walks contract/interface/library declarations and the
// functions, modifiers, and structs inside them.
type solidityExtractor struct {
	cfg *lang.Config
}

func (e *solidityExtractor) Language() lang.Language { return lang.Solidity }

func (e *solidityExtractor) Extract(ctx context.Context, src []byte, path string) (*Result, error) {
	root, err := parse(ctx, lang.Solidity, src)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	moduleTypes := nodeTypeSet(e.cfg.ModuleNodeTypes)
	callTypes := nodeTypeSet(e.cfg.CallNodeTypes)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch {
		case moduleTypes[n.Type()]:
			e.extractContract(n, src, path, res, callTypes)
		case n.Type() == "function_definition":
			// Free function outside any contract: attributed to the file stem.
			if fn := e.extractFunction(n, src, fileStem(path), callTypes); fn != nil {
				res.Functions = append(res.Functions, fn)
			}
		case n.Type() == "struct_declaration" || n.Type() == "enum_declaration":
			if st := e.extractStruct(n, src, fileStem(path)); st != nil {
				res.Structs = append(res.Structs, st)
			}
		}
	}
	return res, nil
}

func (e *solidityExtractor) extractContract(n *sitter.Node, src []byte, path string, res *Result, callTypes map[string]bool) {
	name := nameOf(n, src)
	if name == "" {
		return
	}

	mod := &graph.ModuleInfo{
		Name:       name,
		FullName:   name,
		Language:   string(lang.Solidity),
		LineNumber: lineOf(n),
		FilePath:   path,
		IsLibrary:  n.Type() == "library_declaration",
		Kind:       strings.TrimSuffix(n.Type(), "_declaration"),
	}
	walk(n, func(c *sitter.Node) bool {
		if c.Type() == "inheritance_specifier" {
			if base := strings.TrimSpace(text(c.NamedChild(0), src)); base != "" {
				mod.Inheritance = append(mod.Inheritance, base)
			}
			return false
		}
		return true
	})

	for i := 0; i < int(n.NamedChildCount()); i++ {
		body := n.NamedChild(i)
		if body.Type() != "contract_body" {
			continue
		}
		for j := 0; j < int(body.NamedChildCount()); j++ {
			decl := body.NamedChild(j)
			switch decl.Type() {
			case "function_definition", "constructor_definition",
				"fallback_receive_definition", "modifier_definition":
				if fn := e.extractFunction(decl, src, name, callTypes); fn != nil {
					res.Functions = append(res.Functions, fn)
					mod.Functions = append(mod.Functions, fn.Name)
				}
			case "struct_declaration", "enum_declaration":
				if st := e.extractStruct(decl, src, name); st != nil {
					res.Structs = append(res.Structs, st)
					mod.Structs = append(mod.Structs, st.Name)
				}
			}
		}
	}
	res.Modules = append(res.Modules, mod)
}

func (e *solidityExtractor) extractFunction(n *sitter.Node, src []byte, module string, callTypes map[string]bool) *graph.FunctionInfo {
	name := nameOf(n, src)
	switch n.Type() {
	case "constructor_definition":
		name = "constructor"
	case "fallback_receive_definition":
		// First token is "fallback" or "receive".
		if n.ChildCount() > 0 {
			name = text(n.Child(0), src)
		}
	}
	if name == "" {
		return nil
	}

	fn := &graph.FunctionInfo{
		Name:       name,
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Solidity),
		Content:    text(n, src),
		Visibility: "internal", // language default when no keyword appears
		LineNumber: lineOf(n),
		StartLine:  lineOf(n),
		EndLine:    endLineOf(n),
	}
	if n.Type() == "modifier_definition" {
		fn.Visibility = "modifier"
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "visibility":
			fn.Visibility = text(c, src)
		case "state_mutability":
			switch text(c, src) {
			case "payable":
				fn.IsPayable = true
			case "view":
				fn.IsView = true
			case "pure":
				fn.IsPure = true
			}
		case "virtual":
			fn.IsVirtual = true
		case "override_specifier":
			fn.IsOverride = true
		case "modifier_invocation":
			if mname := strings.TrimSpace(text(c.NamedChild(0), src)); mname != "" {
				fn.Modifiers = append(fn.Modifiers, mname)
			}
		case "parameter":
			if p := strings.TrimSpace(text(c, src)); p != "" {
				fn.Parameters = append(fn.Parameters, p)
			}
		case "return_type_definition":
			fn.ReturnType = strings.TrimSpace(strings.TrimPrefix(text(c, src), "returns"))
		}
	}

	// Modifier invocations sit in the signature, calls in the body; walking
	// the whole definition picks up both.
	fn.Calls = collectCalls(n, src, callTypes)
	return fn
}

func (e *solidityExtractor) extractStruct(n *sitter.Node, src []byte, module string) *graph.StructInfo {
	name := nameOf(n, src)
	if name == "" {
		return nil
	}
	st := &graph.StructInfo{
		Name:       name,
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Solidity),
		LineNumber: lineOf(n),
	}
	walk(n, func(c *sitter.Node) bool {
		if c.Type() == "struct_member" || c.Type() == "enum_value" {
			if f := strings.TrimSpace(text(c, src)); f != "" {
				st.Fields = append(st.Fields, strings.TrimSuffix(f, ";"))
			}
			return false
		}
		return true
	})
	return st
}
