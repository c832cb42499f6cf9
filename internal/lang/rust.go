package lang

func init() {
	Register(&Config{
		Language:   Rust,
		Name:       "Rust",
		Extensions: []string{".rs"},
		Separator:  "::",
		ModuleNodeTypes: []string{
			"mod_item",
			"impl_item",
		},
		FunctionNodeTypes: []string{
			"function_item",
			"function_signature_item",
		},
		StructNodeTypes:    []string{"struct_item", "union_item"},
		InterfaceNodeTypes: []string{"trait_item"},
		EnumNodeTypes:      []string{"enum_item"},
		CallNodeTypes: []string{
			"call_expression",
			"macro_invocation",
		},
		VisibilityKeywords: map[string]bool{
			"pub": true,
		},
		SpecialKeywords: map[string]bool{
			"async":  true,
			"unsafe": true,
			"const":  true,
			"extern": true,
		},
	})
}
