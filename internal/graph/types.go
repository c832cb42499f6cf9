// Package graph holds the structural inventory records produced by
// extraction and the call-graph construction that runs over them.
package graph

import (
	"strings"

	"github.com/jward/grove/internal/lang"
)

// FunctionInfo is the per-function record emitted by extraction. The JSON
// field names are a contract with downstream consumers and must not change.
type FunctionInfo struct {
	Name             string   `json:"name"`
	FullName         string   `json:"full_name"`
	Language         string   `json:"language"`
	Content          string   `json:"content"`
	Visibility       string   `json:"visibility"`
	Modifiers        []string `json:"modifiers"`
	Parameters       []string `json:"parameters"`
	ReturnType       string   `json:"return_type,omitempty"`
	Calls            []string `json:"calls"`
	LineNumber       int      `json:"line_number"`
	StartLine        int      `json:"start_line"`
	EndLine          int      `json:"end_line"`
	FilePath         string   `json:"file_path"`
	RelativeFilePath string   `json:"relative_file_path"`
	AbsoluteFilePath string   `json:"absolute_file_path"`
	ContentHash      string   `json:"content_hash,omitempty"`

	// Language-specific flags. Zero values are omitted from JSON so each
	// language's records only carry its own vocabulary.
	IsAsync       bool     `json:"is_async,omitempty"`
	IsUnsafe      bool     `json:"is_unsafe,omitempty"`
	IsConst       bool     `json:"is_const,omitempty"`
	IsPayable     bool     `json:"is_payable,omitempty"`
	IsView        bool     `json:"is_view,omitempty"`
	IsPure        bool     `json:"is_pure,omitempty"`
	IsVirtual     bool     `json:"is_virtual,omitempty"`
	IsOverride    bool     `json:"is_override,omitempty"`
	IsEntry       bool     `json:"is_entry,omitempty"`
	IsNative      bool     `json:"is_native,omitempty"`
	IsStatic      bool     `json:"is_static,omitempty"`
	IsInline      bool     `json:"is_inline,omitempty"`
	IsExported    bool     `json:"is_exported,omitempty"`
	Receiver      string   `json:"receiver,omitempty"`
	Acquires      []string `json:"acquires,omitempty"`
	GenericParams []string `json:"generic_params,omitempty"`
}

// Module returns the enclosing module portion of the qualified name, or ""
// for an unqualified name.
func (f *FunctionInfo) Module(sep string) string {
	return moduleOf(f.FullName, sep)
}

// StructInfo is the per-struct (or class/trait/interface/enum) record.
type StructInfo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Language    string   `json:"language"`
	Fields      []string `json:"fields"`
	Methods     []string `json:"methods"`
	LineNumber  int      `json:"line_number"`
	FilePath    string   `json:"file_path"`
	BaseClasses []string `json:"base_classes,omitempty"`
	Abilities   []string `json:"abilities,omitempty"`
	Derives     []string `json:"derives,omitempty"`
	IsInterface bool     `json:"is_interface,omitempty"`
	IsAbstract  bool     `json:"is_abstract,omitempty"`
}

// ModuleInfo is the per-module (contract/mod/namespace/package) record.
type ModuleInfo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Language    string   `json:"language"`
	Functions   []string `json:"functions"`
	Structs     []string `json:"structs"`
	Imports     []string `json:"imports"`
	LineNumber  int      `json:"line_number"`
	FilePath    string   `json:"file_path"`
	Inheritance []string `json:"inheritance,omitempty"`
	Address     string   `json:"address,omitempty"`
	IsLibrary   bool     `json:"is_library,omitempty"`
	Kind        string   `json:"kind,omitempty"`
}

// CallType classifies the nature of a call edge. Metadata only; it never
// affects graph connectivity.
type CallType string

const (
	CallDirect      CallType = "direct"
	CallVirtual     CallType = "virtual"
	CallAsync       CallType = "async"
	CallExternal    CallType = "external"
	CallEntry       CallType = "entry"
	CallTrait       CallType = "trait"
	CallMacro       CallType = "macro"
	CallConstructor CallType = "constructor"
	CallModifier    CallType = "modifier"
)

// CallGraphEdge is one caller-invokes-callee relationship. Callee may remain
// an unqualified raw name when resolution found no match; such edges still
// participate in graphs but cannot be expanded further.
type CallGraphEdge struct {
	Caller   string   `json:"caller"`
	Callee   string   `json:"callee"`
	CallType CallType `json:"call_type"`
	Language string   `json:"language"`
}

// CallTreeNode is one node of an upstream or downstream call tree.
// A circular-reference node marks a function already on the current path;
// its children list is empty and it is never expanded. A truncated node
// marks a cut made by depth-limited extraction, which is a different thing.
type CallTreeNode struct {
	Name              string          `json:"name"`
	FunctionIndex     int             `json:"function_index"` // index into the aggregate list, -1 if unresolved
	Children          []*CallTreeNode `json:"children"`
	CircularReference bool            `json:"circular_reference,omitempty"`
	Truncated         bool            `json:"truncated,omitempty"`
	MaxDepthReached   bool            `json:"max_depth_reached,omitempty"`
}

// LanguageStats aggregates per-language counts plus language-specific
// feature counts (payable functions, async functions, ...).
type LanguageStats struct {
	Language  string         `json:"language"`
	Modules   int            `json:"modules"`
	Functions int            `json:"functions"`
	Structs   int            `json:"structs"`
	Edges     int            `json:"edges"`
	Features  map[string]int `json:"features"`
	Isolated  []string       `json:"isolated_functions"`
}

// moduleOf strips the final separator segment from a qualified name.
func moduleOf(fullName, sep string) string {
	if sep == "" {
		return ""
	}
	idx := strings.LastIndex(fullName, sep)
	if idx < 0 {
		return ""
	}
	return fullName[:idx]
}

// SeparatorFor returns the namespace separator for a language tag,
// defaulting to "." for unknown tags.
func SeparatorFor(language string) string {
	if cfg := lang.ForLanguage(lang.Language(language)); cfg != nil {
		return cfg.Separator
	}
	return "."
}
