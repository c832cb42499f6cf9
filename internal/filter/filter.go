// Package filter evaluates user-supplied selection expressions against
// function records. Expressions run in a Risor interpreter with each
// record's fields bound as globals, so a command-line user can write
//
//	language == "rust" && is_async
//	visibility == "public" && len(calls) > 3
//
// without the host process growing a query language of its own.
package filter

import (
	"context"
	"fmt"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/jward/grove/internal/graph"
)

// Expr is a compiled-by-convention filter expression. Risor compiles on
// evaluation; Expr just carries the source and the shared options.
type Expr struct {
	source string
}

// New wraps an expression source. Syntax errors surface on first Match.
func New(source string) *Expr {
	return &Expr{source: source}
}

// Source returns the expression text.
func (e *Expr) Source() string { return e.source }

// Match evaluates the expression with the function's fields bound as
// globals and reports whether the result is truthy.
func (e *Expr) Match(ctx context.Context, fn *graph.FunctionInfo) (bool, error) {
	opts := make([]risor.Option, 0, len(globalBindings(fn)))
	for name, val := range globalBindings(fn) {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	result, err := risor.Eval(ctx, e.source, opts...)
	if err != nil {
		return false, fmt.Errorf("filter: eval %q: %w", e.source, err)
	}
	return result.IsTruthy(), nil
}

// globalBindings maps a function record to the expression environment.
// Names follow the exported field names of the record so expressions read
// the same as exported output.
func globalBindings(fn *graph.FunctionInfo) map[string]any {
	return map[string]any{
		"name":        fn.Name,
		"full_name":   fn.FullName,
		"language":    fn.Language,
		"visibility":  fn.Visibility,
		"return_type": fn.ReturnType,
		"file_path":   fn.RelativeFilePath,
		"line_number": int64(fn.LineNumber),
		"modifiers":   toList(fn.Modifiers),
		"parameters":  toList(fn.Parameters),
		"calls":       toList(fn.Calls),
		"is_async":    fn.IsAsync,
		"is_unsafe":   fn.IsUnsafe,
		"is_const":    fn.IsConst,
		"is_payable":  fn.IsPayable,
		"is_view":     fn.IsView,
		"is_pure":     fn.IsPure,
		"is_virtual":  fn.IsVirtual,
		"is_override": fn.IsOverride,
		"is_entry":    fn.IsEntry,
		"is_native":   fn.IsNative,
		"is_static":   fn.IsStatic,
		"is_exported": fn.IsExported,
	}
}

// toList converts a string slice to a Risor list. A nil slice becomes an
// empty list so len(calls) works on call-free functions.
func toList(items []string) *object.List {
	objs := make([]object.Object, 0, len(items))
	for _, s := range items {
		objs = append(objs, object.NewString(s))
	}
	return object.NewList(objs)
}
