package spirv

import (
	"github.com/gogpu/spvgen/ir"
)

// Result is a compiled module together with its reflection data.
type Result struct {
	// Words is the complete module, header first.
	Words []uint32
	// Bound is the id bound written into the header; every id is below it.
	Bound uint32

	Reflection    []ReflectionEntry
	UniformLayout []UniformLayoutEntry
	Diagnostics   []Diagnostic

	reflectionWords []uint32
}

// Bytes returns the little-endian encoding of the module.
func (r *Result) Bytes() []byte {
	return wordsToBytes(r.Words)
}

// ReflectionWords returns the reflection list in its word encoding: for
// each entry the kind, the NUL-terminated name, the class and the offset.
func (r *Result) ReflectionWords() []uint32 {
	return r.reflectionWords
}

// stageModels maps shader stages to entry point execution models.
var stageModels = [...]ExecutionModel{
	ir.StageVertex:      ExecutionModelVertex,
	ir.StageTessControl: ExecutionModelTessellationControl,
	ir.StageTessEval:    ExecutionModelTessellationEvaluation,
	ir.StageGeometry:    ExecutionModelGeometry,
	ir.StageFragment:    ExecutionModelFragment,
	ir.StageCompute:     ExecutionModelGLCompute,
}

func (o Options) executionModel(stage ir.Stage) (ExecutionModel, error) {
	if !o.StageEntryPoint {
		return ExecutionModelFragment, nil
	}
	if int(stage) >= len(stageModels) {
		return 0, newError(ErrMalformedIR, "unknown stage %d", stage)
	}
	return stageModels[stage], nil
}

// Compile translates module into a SPIR-V binary.
//
// Constructs the generator cannot express are skipped and reported in
// Result.Diagnostics. Malformed IR fails the compile with an *Error.
func Compile(module *ir.Module, options Options) (*Result, error) {
	if module == nil {
		return nil, newError(ErrMalformedIR, "nil module")
	}
	options = options.withDefaults()
	if err := checkPrecision(module.FloatPrecision); err != nil {
		return nil, err
	}
	if err := checkPrecision(module.IntPrecision); err != nil {
		return nil, err
	}
	model, err := options.executionModel(module.Stage)
	if err != nil {
		return nil, err
	}

	b := NewModuleBuilder(module.Stage, options.Logger)
	for _, c := range options.Capabilities {
		b.RequireCapability(c)
	}
	switch model {
	case ExecutionModelGeometry:
		b.RequireCapability(CapabilityGeometry)
	case ExecutionModelTessellationControl, ExecutionModelTessellationEvaluation:
		b.RequireCapability(CapabilityTessellation)
	}

	// The extended instruction set import takes the first id.
	glslID := b.AllocID()
	b.extensions.PushInstruction(NewInstructionBuilder().AddWord(glslID).AddString(ExtInstSetGLSL).Build(OpExtInstImport))
	b.extensions.PushInstruction(inst(OpMemoryModel, uint32(AddressingModelLogical), uint32(MemoryModelGLSL450)))

	t := newTranslator(b, module, options, glslID)
	for _, decl := range module.Decls {
		if err := t.declaration(decl); err != nil {
			return nil, err
		}
	}
	if t.entryID == 0 {
		return nil, newError(ErrMissingEntryPoint, "no function named %q", options.EntryPoint)
	}

	b.finalizeUniformBlock()
	bound := b.AllocID()

	var out WordStream
	out.Push(MagicNumber)
	out.Push(versionToWord(options.Version))
	out.Push(GeneratorID)
	out.Push(bound)
	out.Push(0)

	out.PushInstruction(inst(OpCapability, uint32(CapabilityShader)))
	for _, c := range b.capabilities {
		out.PushInstruction(inst(OpCapability, uint32(c)))
	}
	out.Append(&b.extensions)

	entry := NewInstructionBuilder().AddWords(uint32(model), t.entryID).AddString(options.EntryPoint).AddWords(b.interfaces...)
	out.PushInstruction(entry.Build(OpEntryPoint))
	switch model {
	case ExecutionModelFragment:
		out.PushInstruction(inst(OpExecutionMode, t.entryID, uint32(ExecutionModeOriginUpperLeft)))
	case ExecutionModelGLCompute:
		out.PushInstruction(inst(OpExecutionMode, t.entryID, uint32(ExecutionModeLocalSize), 1, 1, 1))
	}
	out.PushInstruction(inst(OpSource, uint32(options.SourceLanguage), options.SourceVersion))

	out.Append(&b.names)
	out.Append(&b.decorations)
	out.Append(&b.types)
	out.Append(&b.functions)

	options.Logger.V(2).Info("assembled module",
		"words", out.Len(),
		"bound", bound,
		"reflection", len(b.reflections),
		"diagnostics", len(b.diagnostics))

	return &Result{
		Words:           out.Words(),
		Bound:           bound,
		Reflection:      b.reflections,
		UniformLayout:   b.UniformLayout(),
		Diagnostics:     b.diagnostics,
		reflectionWords: b.reflection.Words(),
	}, nil
}
