package lang

func init() {
	Register(&Config{
		Language:   Go,
		Name:       "Go",
		Extensions: []string{".go"},
		Separator:  ".",
		ModuleNodeTypes: []string{
			"package_clause",
		},
		FunctionNodeTypes: []string{
			"function_declaration",
			"method_declaration",
		},
		StructNodeTypes:    []string{"struct_type"},
		InterfaceNodeTypes: []string{"interface_type"},
		CallNodeTypes: []string{
			"call_expression",
		},
		// Go has no visibility keywords; exported status is derived from
		// identifier casing in the extractor.
		VisibilityKeywords: map[string]bool{},
		SpecialKeywords: map[string]bool{
			"go":    true,
			"defer": true,
		},
	})
}
