package spirv

import (
	"github.com/gogpu/spvgen/ir"
)

// loopScope is one entry of the enclosing-loop stack.
type loopScope struct {
	header uint32
	merge  uint32
}

// translator lowers IR nodes into the builder's streams.
type translator struct {
	b       *ModuleBuilder
	module  *ir.Module
	options Options

	glslID  uint32
	entryID uint32

	loops []loopScope

	// members maps non-sampler uniforms to their slot in the block.
	members map[*ir.Variable]uniformSlot
	// types holds the type id each variable was declared with. Array
	// types are not cached, so loads reuse this id.
	types map[*ir.Variable]uint32
	// classes records the storage class each variable was declared in.
	classes map[*ir.Variable]StorageClass
}

// uniformSlot is a member of the implicit uniform block.
type uniformSlot struct {
	index  uint32
	typeID uint32
}

func newTranslator(b *ModuleBuilder, module *ir.Module, options Options, glslID uint32) *translator {
	return &translator{
		b:       b,
		module:  module,
		options: options,
		glslID:  glslID,
		members: make(map[*ir.Variable]uniformSlot),
		types:   make(map[*ir.Variable]uint32),
		classes: make(map[*ir.Variable]StorageClass),
	}
}

// nodeName returns the kind name of n, or "" for kinds the translator
// does not know.
func nodeName(n ir.Node) string {
	switch n.(type) {
	case *ir.Variable:
		return "Variable"
	case *ir.Function:
		return "Function"
	case *ir.Expression:
		return "Expression"
	case *ir.Texture:
		return "Texture"
	case *ir.Swizzle:
		return "Swizzle"
	case *ir.DerefVariable:
		return "DerefVariable"
	case *ir.DerefArray:
		return "DerefArray"
	case *ir.DerefRecord:
		return "DerefRecord"
	case *ir.Constant:
		return "Constant"
	case *ir.Assignment:
		return "Assignment"
	case *ir.Call:
		return "Call"
	case *ir.Return:
		return "Return"
	case *ir.If:
		return "If"
	case *ir.Loop:
		return "Loop"
	case *ir.LoopJump:
		return "LoopJump"
	case *ir.Discard:
		return "Discard"
	case *ir.EmitVertex:
		return "EmitVertex"
	case *ir.EndPrimitive:
		return "EndPrimitive"
	case *ir.Barrier:
		return "Barrier"
	default:
		return ""
	}
}

// declaration translates one top-level declaration.
func (t *translator) declaration(n ir.Node) error {
	switch n := n.(type) {
	case *ir.Variable:
		return t.variable(n)
	case *ir.Function:
		return t.function(n)
	}
	if n == nil {
		return newError(ErrMalformedIR, "nil declaration")
	}
	if name := nodeName(n); name != "" {
		return newError(ErrMalformedIR, "%s is not a top-level declaration", name)
	}
	return newError(ErrUnknownNode, "unknown node kind %T", n)
}

// visit translates n inside a function body.
func (t *translator) visit(n ir.Node) error {
	switch n := n.(type) {
	case *ir.Variable:
		return t.variable(n)
	case *ir.Function:
		return newError(ErrMalformedIR, "nested function %q", n.Name)
	case *ir.Expression:
		return t.expression(n)
	case *ir.Texture:
		return t.texture(n)
	case *ir.Swizzle:
		return t.swizzle(n)
	case *ir.DerefVariable:
		return t.derefVariable(n)
	case *ir.DerefArray:
		return t.derefArray(n)
	case *ir.DerefRecord:
		t.b.Diagnose("DerefRecord", "struct member %q access is not supported", n.Field)
		return nil
	case *ir.Constant:
		return t.constant(n)
	case *ir.Assignment:
		return t.assignment(n)
	case *ir.Call:
		t.b.Diagnose("Call", "call to %q is not supported", n.Callee)
		return nil
	case *ir.Return:
		return t.ret(n)
	case *ir.If:
		return t.ifStatement(n)
	case *ir.Loop:
		return t.loop(n)
	case *ir.LoopJump:
		return t.jump(n)
	case *ir.Discard:
		return t.discard(n)
	case *ir.EmitVertex:
		t.b.Diagnose("EmitVertex", "geometry output is not supported")
		return nil
	case *ir.EndPrimitive:
		t.b.Diagnose("EndPrimitive", "geometry output is not supported")
		return nil
	case *ir.Barrier:
		t.b.Diagnose("Barrier", "barriers are not supported")
		return nil
	case nil:
		return newError(ErrMalformedIR, "nil node")
	default:
		return newError(ErrUnknownNode, "unknown node kind %T", n)
	}
}

// block translates a statement list.
func (t *translator) block(nodes []ir.Node) error {
	for _, n := range nodes {
		if err := t.visit(n); err != nil {
			return err
		}
	}
	return nil
}

// value translates v and returns the id it produced. A node that
// already has an id is not translated again.
func (t *translator) value(v ir.Value) (uint32, error) {
	if v == nil {
		return 0, newError(ErrMalformedIR, "missing operand")
	}
	if id := t.b.Value(v); id != 0 {
		return id, nil
	}
	return t.location(v)
}

// location translates v even when it already has an id. Assignment
// targets go through here since a store replaces their id.
func (t *translator) location(v ir.Value) (uint32, error) {
	if v == nil {
		return 0, newError(ErrMalformedIR, "missing operand")
	}
	if err := t.visit(v); err != nil {
		return 0, err
	}
	id := t.b.Value(v)
	if id == 0 {
		return 0, newError(ErrUnresolvedOperand, "%s produced no value", nodeName(v))
	}
	return id, nil
}

// optionalValue is value for operands that may be absent.
func (t *translator) optionalValue(v ir.Value) (uint32, error) {
	if v == nil {
		return 0, nil
	}
	return t.value(v)
}

// modeStorageClasses maps each storage mode, in declaration order, to its
// storage class.
var modeStorageClasses = [ir.ModeCount]StorageClass{
	ir.ModeAuto:          StorageClassFunction,
	ir.ModeUniform:       StorageClassUniform,
	ir.ModeShaderStorage: StorageClassWorkgroup,
	ir.ModeShared:        StorageClassCrossWorkgroup,
	ir.ModeShaderIn:      StorageClassInput,
	ir.ModeShaderOut:     StorageClassOutput,
	ir.ModeFunctionIn:    StorageClassInput,
	ir.ModeFunctionOut:   StorageClassOutput,
	ir.ModeFunctionInOut: StorageClassWorkgroup,
	ir.ModeConstIn:       StorageClassPushConstant,
	ir.ModeSystemValue:   StorageClassGeneric,
	ir.ModeTemporary:     StorageClassFunction,
}

// StorageClassFor returns the storage class of a variable in mode m.
func StorageClassFor(m ir.Mode) (StorageClass, error) {
	if int(m) >= len(modeStorageClasses) {
		return 0, newError(ErrModeOutOfRange, "storage mode %d out of range", m)
	}
	return modeStorageClasses[m], nil
}

func checkPrecision(p ir.Precision) error {
	if int(p) >= ir.PrecisionCount {
		return newError(ErrPrecisionOutOfRange, "precision %d out of range", p)
	}
	return nil
}

// variable declares v.
func (t *translator) variable(v *ir.Variable) error {
	class, err := StorageClassFor(v.Mode)
	if err != nil {
		return err
	}
	if err := checkPrecision(v.Precision); err != nil {
		return err
	}
	if v.Type == nil {
		return newError(ErrMalformedIR, "variable %q has no type", v.Name)
	}
	if _, declared := t.b.values[v]; declared {
		return nil
	}
	if _, declared := t.members[v]; declared {
		return nil
	}

	relaxed := v.Precision == ir.PrecisionMedium
	if v.Mode == ir.ModeUniform {
		if v.Type.IsSampler() {
			return t.samplerVariable(v, relaxed)
		}
		return t.uniformMember(v, relaxed)
	}

	if t.b.fn == nil && (v.Mode == ir.ModeAuto || v.Mode == ir.ModeTemporary) {
		class = StorageClassPrivate
	}

	typeID := t.b.ResolveType(v.Type)
	if typeID == 0 {
		return nil
	}
	pointer := t.b.PointerType(class, typeID)
	id := t.b.AllocID()
	if v.Name != "" {
		t.b.AddName(id, v.Name)
	}
	if relaxed {
		t.b.AddDecorate(id, DecorationRelaxedPrecision)
	}
	if class == StorageClassFunction {
		t.b.emitLocal(OpVariable, pointer, id, uint32(class))
	} else {
		t.b.emitType(OpVariable, pointer, id, uint32(class))
	}

	switch v.Mode {
	case ir.ModeShaderIn:
		t.b.AddInterface(id)
		t.b.AddReflection(ReflectionEntry{Kind: EntityProgramInput, Name: v.Name, Class: scalarClass(v.Type)})
	case ir.ModeShaderOut:
		t.b.AddInterface(id)
		t.b.AddReflection(ReflectionEntry{Kind: EntityProgramOutput, Name: v.Name, Class: scalarClass(v.Type)})
	case ir.ModeTemporary:
		t.b.AddInterface(id)
	}

	t.classes[v] = class
	t.types[v] = typeID
	t.b.setValue(v, id)
	return nil
}

func (t *translator) samplerVariable(v *ir.Variable, relaxed bool) error {
	typeID := t.b.ResolveType(v.Type)
	if typeID == 0 {
		return nil
	}
	pointer := t.b.PointerType(StorageClassUniformConstant, typeID)
	id := t.b.AllocID()
	t.b.emitType(OpVariable, pointer, id, uint32(StorageClassUniformConstant))
	t.b.AddName(id, v.Name)
	if relaxed {
		t.b.AddDecorate(id, DecorationRelaxedPrecision)
	}
	t.b.bind(id)
	t.b.AddReflection(ReflectionEntry{
		Kind:  EntitySampler,
		Name:  v.Name,
		Class: samplerClass(v.Type.Sampler.Dim),
	})
	t.b.setValue(v, id)
	return nil
}

// uniformMember folds a non-sampler uniform into the implicit block.
func (t *translator) uniformMember(v *ir.Variable, relaxed bool) error {
	typeID := t.b.ResolveType(v.Type)
	if typeID == 0 {
		return nil
	}

	slots := v.Type.Columns()
	matrix := v.Type.IsMatrix()
	if v.Type.IsArray() {
		elem := v.Type.Element
		slots = elem.Columns() * v.Type.Length
		matrix = elem.IsMatrix()
		t.b.AddDecorate(typeID, DecorationArrayStride, 16*elem.Columns())
	}

	index, offset := t.b.AddUniformMember(v.Name, typeID, slots, relaxed)
	if matrix {
		t.b.AddMemberDecorate(t.b.uniform.structID, index, DecorationColMajor)
		t.b.AddMemberDecorate(t.b.uniform.structID, index, DecorationMatrixStride, 16)
	}
	t.b.AddReflection(ReflectionEntry{
		Kind:   EntityUniform,
		Name:   v.Name,
		Class:  scalarClass(v.Type),
		Offset: offset,
	})
	t.members[v] = uniformSlot{index: index, typeID: typeID}
	return nil
}

// function translates a function definition. Only void functions are
// lowered; locals declared anywhere in the body are hoisted into the
// entry block.
func (t *translator) function(f *ir.Function) error {
	if !f.IsVoid() {
		t.b.Diagnose("Function", "function %q returns %s; only void functions are supported", f.Name, f.ReturnType)
		return nil
	}

	voidID := t.b.VoidType()
	fnType := t.b.voidFunctionType()
	id := t.b.AllocID()
	t.b.AddName(id, f.Name)
	if f.Name == t.options.EntryPoint {
		t.entryID = id
	}
	label := t.b.AllocID()

	t.b.fn = &functionState{}
	t.loops = t.loops[:0]
	defer func() { t.b.fn = nil }()

	for _, p := range f.Params {
		if err := t.variable(p); err != nil {
			return err
		}
	}
	if err := t.block(f.Body); err != nil {
		return err
	}

	fn := t.b.fn
	out := &t.b.functions
	out.PushInstruction(inst(OpFunction, voidID, id, uint32(FunctionControlNone), fnType))
	out.PushInstruction(inst(OpLabel, label))
	out.Append(&fn.locals)
	out.Append(&fn.body)
	out.PushInstruction(inst(OpReturn))
	out.PushInstruction(inst(OpFunctionEnd))
	return nil
}

// relax decorates id with RelaxedPrecision when the module default
// precision for t's scalar class is medium.
func (t *translator) relax(id uint32, typ *ir.Type) {
	if typ == nil {
		return
	}
	var p ir.Precision
	switch typ.Base {
	case ir.BaseFloat:
		p = t.module.FloatPrecision
	case ir.BaseInt, ir.BaseUint:
		p = t.module.IntPrecision
	default:
		return
	}
	if p == ir.PrecisionMedium {
		t.b.AddDecorate(id, DecorationRelaxedPrecision)
	}
}
