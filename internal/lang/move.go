package lang

func init() {
	Register(&Config{
		Language:   Move,
		Name:       "Move",
		Extensions: []string{".move"},
		Separator:  "::",
		ModuleNodeTypes: []string{
			"module_definition",
			"module",
		},
		FunctionNodeTypes: []string{
			"function_definition",
			"native_function_definition",
			"macro_function_definition",
		},
		StructNodeTypes: []string{"struct_definition"},
		EnumNodeTypes:   []string{"enum_definition"},
		CallNodeTypes: []string{
			"call_expression",
			"macro_call_expression",
			"receiver_call",
		},
		VisibilityKeywords: map[string]bool{
			"public": true,
			"friend": true,
		},
		SpecialKeywords: map[string]bool{
			"entry":    true,
			"native":   true,
			"inline":   true,
			"acquires": true,
		},
	})
}
