package lang

func init() {
	Register(&Config{
		Language:   Cpp,
		Name:       "C++",
		Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h"},
		Separator:  "::",
		ModuleNodeTypes: []string{
			"namespace_definition",
		},
		FunctionNodeTypes: []string{
			"function_definition",
		},
		StructNodeTypes: []string{"struct_specifier"},
		ClassNodeTypes:  []string{"class_specifier"},
		EnumNodeTypes:   []string{"enum_specifier"},
		CallNodeTypes: []string{
			"call_expression",
		},
		VisibilityKeywords: map[string]bool{
			"public":    true,
			"private":   true,
			"protected": true,
		},
		SpecialKeywords: map[string]bool{
			"virtual":   true,
			"static":    true,
			"inline":    true,
			"constexpr": true,
			"explicit":  true,
		},
	})
}
