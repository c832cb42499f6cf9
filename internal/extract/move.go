package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// moveExtractor walks module definitions and the functions and structs
// inside them. Function full names use the module name without the address
// prefix; the address is kept on the ModuleInfo.
type moveExtractor struct {
	cfg *lang.Config
}

func (e *moveExtractor) Language() lang.Language { return lang.Move }

func (e *moveExtractor) Extract(ctx context.Context, src []byte, path string) (*Result, error) {
	root, err := parse(ctx, lang.Move, src)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	moduleTypes := nodeTypeSet(e.cfg.ModuleNodeTypes)

	walk(root, func(n *sitter.Node) bool {
		if moduleTypes[n.Type()] {
			e.extractModule(n, src, path, res)
			return false
		}
		return true
	})

	// Scripts and test files may declare functions with no enclosing module.
	if len(res.Modules) == 0 {
		e.extractMembers(root, src, path, fileStem(path), nil, res)
	}
	return res, nil
}

func (e *moveExtractor) extractModule(n *sitter.Node, src []byte, path string, res *Result) {
	// Grammar revisions disagree on how "module 0x1::vault" is fielded, so
	// the identity is read from the header text: the token after "module",
	// split on the address separator.
	var name, address string
	header := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(signatureText(text(n, src))), "module"))
	if fields := strings.Fields(header); len(fields) > 0 {
		ident := fields[0]
		if idx := strings.LastIndex(ident, "::"); idx >= 0 {
			address, name = ident[:idx], ident[idx+2:]
		} else {
			name = ident
		}
	}
	if name == "" {
		return
	}

	mod := &graph.ModuleInfo{
		Name:       name,
		FullName:   name,
		Language:   string(lang.Move),
		LineNumber: lineOf(n),
		FilePath:   path,
		Address:    address,
		Kind:       "module",
	}
	res.Modules = append(res.Modules, mod)
	e.extractMembers(n, src, path, name, mod, res)
}

func (e *moveExtractor) extractMembers(container *sitter.Node, src []byte, path, module string, mod *graph.ModuleInfo, res *Result) {
	callTypes := nodeTypeSet(e.cfg.CallNodeTypes)
	functionTypes := nodeTypeSet(e.cfg.FunctionNodeTypes)
	structTypes := nodeTypeSet(e.cfg.StructNodeTypes)
	enumTypes := nodeTypeSet(e.cfg.EnumNodeTypes)

	walk(container, func(n *sitter.Node) bool {
		switch {
		case functionTypes[n.Type()]:
			if fn := e.extractFunction(n, src, module, callTypes); fn != nil {
				res.Functions = append(res.Functions, fn)
				if mod != nil {
					mod.Functions = append(mod.Functions, fn.Name)
				}
			}
			return false
		case structTypes[n.Type()] || enumTypes[n.Type()]:
			if st := e.extractStruct(n, src, module); st != nil {
				res.Structs = append(res.Structs, st)
				if mod != nil {
					mod.Structs = append(mod.Structs, st.Name)
				}
			}
			return false
		case n.Type() == "use_declaration":
			if mod != nil {
				if imp := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(text(n, src)), "use"), ";")); imp != "" {
					mod.Imports = append(mod.Imports, imp)
				}
			}
			return false
		}
		return true
	})
}

func (e *moveExtractor) extractFunction(n *sitter.Node, src []byte, module string, callTypes map[string]bool) *graph.FunctionInfo {
	name := nameOf(n, src)
	if name == "" {
		return nil
	}

	fn := &graph.FunctionInfo{
		Name:       name,
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Move),
		Content:    text(n, src),
		Visibility: "private",
		Parameters: paramTexts(n.ChildByFieldName("parameters"), src),
		ReturnType: strings.TrimSpace(fieldText(n, "return_type", src)),
		LineNumber: lineOf(n),
		StartLine:  lineOf(n),
		EndLine:    endLineOf(n),
	}

	sig := signatureText(fn.Content)
	if strings.Contains(sig, "public(friend)") {
		fn.Visibility = "friend"
	} else if strings.Contains(sig, "public") {
		fn.Visibility = "public"
	}
	fn.IsEntry = containsWord(sig, "entry")
	fn.IsNative = containsWord(sig, "native") || n.Type() == "native_function_definition"
	fn.Acquires = parseAcquires(sig)

	fn.Calls = collectCalls(n.ChildByFieldName("body"), src, callTypes)
	return fn
}

func (e *moveExtractor) extractStruct(n *sitter.Node, src []byte, module string) *graph.StructInfo {
	name := nameOf(n, src)
	if name == "" {
		return nil
	}
	st := &graph.StructInfo{
		Name:       name,
		FullName:   qualify(module, e.cfg.Separator, name),
		Language:   string(lang.Move),
		LineNumber: lineOf(n),
	}
	// Abilities appear as "has copy, drop, store, key" in the header.
	header := signatureText(text(n, src))
	if idx := strings.Index(header, " has "); idx >= 0 {
		for _, a := range strings.Split(header[idx+len(" has "):], ",") {
			if a = strings.TrimSpace(a); a != "" {
				st.Abilities = append(st.Abilities, a)
			}
		}
	}
	walk(n, func(c *sitter.Node) bool {
		if c.Type() == "field_annotation" || c.Type() == "field_declaration" {
			st.Fields = append(st.Fields, strings.TrimSpace(text(c, src)))
			return false
		}
		return true
	})
	return st
}

// signatureText returns the function/struct header: everything before the
// opening brace.
func signatureText(content string) string {
	if idx := strings.Index(content, "{"); idx >= 0 {
		return content[:idx]
	}
	return content
}

// parseAcquires reads the "acquires A, B" clause out of a signature.
func parseAcquires(sig string) []string {
	idx := strings.Index(sig, "acquires")
	if idx < 0 {
		return nil
	}
	var out []string
	for _, a := range strings.Split(sig[idx+len("acquires"):], ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func containsWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
