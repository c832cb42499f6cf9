package lang

func init() {
	Register(&Config{
		Language:   Solidity,
		Name:       "Solidity",
		Extensions: []string{".sol"},
		Separator:  ".",
		ModuleNodeTypes: []string{
			"contract_declaration",
			"interface_declaration",
			"library_declaration",
		},
		FunctionNodeTypes: []string{
			"function_definition",
			"constructor_definition",
			"fallback_receive_definition",
			"modifier_definition",
		},
		StructNodeTypes:    []string{"struct_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		CallNodeTypes: []string{
			"call_expression",
			"modifier_invocation",
		},
		VisibilityKeywords: map[string]bool{
			"public":   true,
			"private":  true,
			"internal": true,
			"external": true,
		},
		SpecialKeywords: map[string]bool{
			"payable":  true,
			"view":     true,
			"pure":     true,
			"virtual":  true,
			"override": true,
		},
	})
}
