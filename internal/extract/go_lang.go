package extract

import (
	"context"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

// goExtractor walks function, method, and type declarations, attributing
// them to the file's package clause.
type goExtractor struct {
	cfg *lang.Config
}

func (e *goExtractor) Language() lang.Language { return lang.Go }

func (e *goExtractor) Extract(ctx context.Context, src []byte, path string) (*Result, error) {
	root, err := parse(ctx, lang.Go, src)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	callTypes := nodeTypeSet(e.cfg.CallNodeTypes)

	pkg := fileStem(path)
	var mod *graph.ModuleInfo
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "package_clause":
			if name := strings.TrimSpace(text(n.NamedChild(0), src)); name != "" {
				pkg = name
			}
			mod = &graph.ModuleInfo{
				Name:       pkg,
				FullName:   pkg,
				Language:   string(lang.Go),
				LineNumber: lineOf(n),
				FilePath:   path,
				Kind:       "package",
			}
			res.Modules = append(res.Modules, mod)

		case "import_declaration":
			if mod != nil {
				walk(n, func(c *sitter.Node) bool {
					if c.Type() == "import_spec" {
						mod.Imports = append(mod.Imports, strings.Trim(fieldText(c, "path", src), `"`))
						return false
					}
					return true
				})
			}

		case "function_declaration", "method_declaration":
			if fn := e.extractFunction(n, src, pkg, callTypes); fn != nil {
				res.Functions = append(res.Functions, fn)
				if mod != nil {
					mod.Functions = append(mod.Functions, fn.Name)
				}
			}

		case "type_declaration":
			for j := 0; j < int(n.NamedChildCount()); j++ {
				spec := n.NamedChild(j)
				if spec.Type() != "type_spec" {
					continue
				}
				if st := e.extractType(spec, src, pkg); st != nil {
					res.Structs = append(res.Structs, st)
					if mod != nil {
						mod.Structs = append(mod.Structs, st.Name)
					}
				}
			}
		}
	}
	return res, nil
}

func (e *goExtractor) extractFunction(n *sitter.Node, src []byte, pkg string, callTypes map[string]bool) *graph.FunctionInfo {
	name := fieldText(n, "name", src)
	if name == "" {
		return nil
	}

	qualifier := pkg
	var receiver string
	if n.Type() == "method_declaration" {
		receiver = strings.TrimSpace(fieldText(n, "receiver", src))
		if recvType := receiverType(receiver); recvType != "" {
			qualifier = qualify(pkg, e.cfg.Separator, recvType)
		}
	}

	fn := &graph.FunctionInfo{
		Name:       name,
		FullName:   qualify(qualifier, e.cfg.Separator, name),
		Language:   string(lang.Go),
		Content:    text(n, src),
		Visibility: "private",
		Parameters: paramTexts(n.ChildByFieldName("parameters"), src),
		ReturnType: strings.TrimSpace(fieldText(n, "result", src)),
		LineNumber: lineOf(n),
		StartLine:  lineOf(n),
		EndLine:    endLineOf(n),
		Receiver:   receiver,
	}
	if isExported(name) {
		fn.Visibility = "public"
		fn.IsExported = true
	}
	if tp := fieldText(n, "type_parameters", src); tp != "" {
		fn.GenericParams = []string{tp}
	}

	fn.Calls = collectCalls(n.ChildByFieldName("body"), src, callTypes)
	return fn
}

func (e *goExtractor) extractType(spec *sitter.Node, src []byte, pkg string) *graph.StructInfo {
	name := fieldText(spec, "name", src)
	typ := spec.ChildByFieldName("type")
	if name == "" || typ == nil {
		return nil
	}
	if typ.Type() != "struct_type" && typ.Type() != "interface_type" {
		return nil
	}

	st := &graph.StructInfo{
		Name:        name,
		FullName:    qualify(pkg, e.cfg.Separator, name),
		Language:    string(lang.Go),
		LineNumber:  lineOf(spec),
		IsInterface: typ.Type() == "interface_type",
	}
	walk(typ, func(c *sitter.Node) bool {
		switch c.Type() {
		case "field_declaration":
			st.Fields = append(st.Fields, strings.TrimSpace(text(c, src)))
			return false
		case "method_elem", "method_spec":
			st.Methods = append(st.Methods, fieldText(c, "name", src))
			return false
		}
		return true
	})
	return st
}

// receiverType strips parentheses, pointer markers, and the receiver
// variable from text like "(s *Server)".
func receiverType(receiver string) string {
	inner := strings.Trim(receiver, "()")
	fields := strings.Fields(inner)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	typ = strings.TrimPrefix(typ, "*")
	// Drop generic instantiation brackets: Server[T] -> Server.
	if idx := strings.Index(typ, "["); idx >= 0 {
		typ = typ[:idx]
	}
	return typ
}

func isExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
