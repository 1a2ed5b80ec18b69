// Package ir defines the shader intermediate representation consumed by the
// SPIR-V generator.
//
// The IR is a typed tree produced by a shading-language front end. It is
// treated as read-only input: translators record their results in side
// tables keyed by node identity and never write back into the tree.
//
// # Structure
//
// A Module carries:
//   - Stage: the shader stage the module is compiled for
//   - FloatPrecision / IntPrecision: module-wide default precision
//   - Decls: ordered top-level declarations (variables and functions)
//
// Every node implements Node. Nodes that produce a value additionally
// implement Value and report their result type:
//
//	x := &ir.Variable{Name: "x", Type: ir.Float(), Mode: ir.ModeAuto}
//	a := &ir.Variable{Name: "a", Type: ir.Float(), Mode: ir.ModeShaderIn}
//	b := &ir.Variable{Name: "b", Type: ir.Float(), Mode: ir.ModeShaderIn}
//	sum := ir.Binary(ir.OpAdd, ir.Float(), ir.Deref(a), ir.Deref(b))
//	body := []ir.Node{x, ir.Assign(ir.Deref(x), sum)}
//
// # Documents
//
// Modules can also be described as YAML documents and decoded with
// Unmarshal. See document.go for the schema.
package ir
