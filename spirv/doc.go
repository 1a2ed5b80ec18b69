// Package spirv generates SPIR-V binary modules from shader IR.
//
// SPIR-V is the standard intermediate language for GPU shaders,
// used by Vulkan, OpenCL, and other APIs.
//
// # Compiling
//
// Compile walks an ir.Module and returns the finished module together with
// its reflection data:
//
//	result, err := spirv.Compile(module, spirv.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	os.WriteFile("shader.spv", result.Bytes(), 0o644)
//
// Constructs the generator cannot express (struct member access, user
// function calls, geometry stream operations, most texture operations)
// are skipped and reported in Result.Diagnostics rather than failing the
// compile. Malformed IR fails with an *Error whose Kind classifies it.
//
// # Module Layout
//
// Instructions are buffered in per-section word streams and concatenated
// once the walk is done:
//   - Header (magic, version, generator, bound, schema)
//   - Capabilities
//   - GLSL.std.450 import and memory model
//   - Entry point and execution modes
//   - Source
//   - Debug names
//   - Decorations
//   - Types, constants and global variables
//   - Functions
//
// Every non-sampler uniform becomes a member of one block, named Global,
// laid out with 16-byte slots per column. UniformLayout reports the
// resulting offsets.
//
// # Reflection
//
// Samplers, uniforms and stage inputs and outputs are recorded in
// Result.Reflection. The same list is available in the word encoding used
// by GL-style program introspection through Result.ReflectionWords and can
// be read back with DecodeReflection.
//
// # Disassembly
//
// Disassemble prints a binary module one instruction per line, in the
// format of spirv-dis:
//
//	%1 = OpExtInstImport "GLSL.std.450"
//	     OpMemoryModel Logical GLSL450
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
