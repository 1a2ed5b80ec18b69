package spirv

import (
	"fmt"
	"math"

	"github.com/go-logr/logr"

	"github.com/gogpu/spvgen/ir"
)

// typeCacheSize is the number of vector/matrix shapes cached per scalar
// kind: four vector widths times four column counts.
const typeCacheSize = 16

// smallConstantCount bounds the int and float constant caches.
const smallConstantCount = 16

type pointerKey struct {
	class StorageClass
	base  uint32
}

type decorationKey struct {
	id         uint32
	member     uint32
	decoration Decoration
}

// memberNone marks a decoration key that applies to a whole id.
const memberNone = math.MaxUint32

// UniformLayoutEntry records the placement of one member of the implicit
// uniform block.
type UniformLayoutEntry struct {
	Index   uint32 `json:"index"`
	Offset  uint32 `json:"offset"`
	Name    string `json:"name"`
	Relaxed bool   `json:"relaxed"`
}

// uniformBlock accumulates the implicit "Global" block. Its struct,
// pointer and variable are written once every member is known.
type uniformBlock struct {
	structID   uint32
	pointerID  uint32
	variableID uint32

	offset  uint32
	members []uint32
	layout  []UniformLayoutEntry
}

// functionState buffers one function so hoisted locals can precede the
// body in the first block.
type functionState struct {
	locals WordStream
	body   WordStream
}

// ModuleBuilder holds the per-compile state: the section streams, the id
// allocator and the type and constant caches. A builder serves exactly one
// compile.
type ModuleBuilder struct {
	stage ir.Stage
	log   logr.Logger

	nextID uint32

	capabilities []Capability
	capSet       map[Capability]bool

	extensions  WordStream
	names       WordStream
	decorations WordStream
	types       WordStream
	functions   WordStream
	reflection  WordStream

	fn *functionState

	// Type caches. Index (elements-1) + (columns-1)*4.
	floatTypes [typeCacheSize]uint32
	intTypes   [typeCacheSize]uint32
	uintTypes  [typeCacheSize]uint32
	boolTypes  [4]uint32
	voidType   uint32
	voidFnType uint32
	pointers   map[pointerKey]uint32
	samplers   map[ir.SamplerType]samplerTypeIDs

	intConsts   [smallConstantCount]uint32
	floatConsts [smallConstantCount]uint32
	trueID      uint32
	falseID     uint32

	uniform uniformBlock
	binding uint32

	decorated   map[decorationKey]bool
	interfaces  []uint32
	reflections []ReflectionEntry
	diagnostics []Diagnostic

	// values is the side table from IR nodes to the ids they produced.
	values map[ir.Node]uint32
}

// NewModuleBuilder creates a builder for a module of the given stage.
func NewModuleBuilder(stage ir.Stage, log logr.Logger) *ModuleBuilder {
	return &ModuleBuilder{
		stage:     stage,
		log:       log,
		nextID:    1,
		capSet:    make(map[Capability]bool),
		pointers:  make(map[pointerKey]uint32),
		decorated: make(map[decorationKey]bool),
		values:    make(map[ir.Node]uint32),
	}
}

// AllocID returns the next unused id. Id 0 is never returned.
func (b *ModuleBuilder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// RequireCapability records a capability the module must declare.
// Shader is always declared and is ignored here.
func (b *ModuleBuilder) RequireCapability(c Capability) {
	if c == CapabilityShader || b.capSet[c] {
		return
	}
	b.capSet[c] = true
	b.capabilities = append(b.capabilities, c)
}

func inst(op OpCode, words ...uint32) Instruction {
	return Instruction{Opcode: op, Words: words}
}

func (b *ModuleBuilder) emitType(op OpCode, words ...uint32) {
	b.types.PushInstruction(inst(op, words...))
}

// emit appends an instruction to the current function body.
func (b *ModuleBuilder) emit(op OpCode, words ...uint32) {
	if b.fn == nil {
		b.functions.PushInstruction(inst(op, words...))
		return
	}
	b.fn.body.PushInstruction(inst(op, words...))
}

// emitLocal appends an instruction to the first block of the current
// function, or to the types section outside a function.
func (b *ModuleBuilder) emitLocal(op OpCode, words ...uint32) {
	if b.fn == nil {
		b.emitType(op, words...)
		return
	}
	b.fn.locals.PushInstruction(inst(op, words...))
}

func (b *ModuleBuilder) emitLabel(id uint32) {
	b.emit(OpLabel, id)
}

func typeSlot(elements, columns uint32) uint32 {
	return (elements - 1) + (columns-1)*4
}

// numericType resolves a scalar, vector or matrix type through cache.
// Matrices wider than four columns are not cached and are emitted anew on
// every call.
func (b *ModuleBuilder) numericType(cache *[typeCacheSize]uint32, scalar func(id uint32), elements, columns uint32) uint32 {
	if elements < 1 || elements > 4 || columns < 1 {
		return 0
	}
	if cache[0] == 0 {
		cache[0] = b.AllocID()
		scalar(cache[0])
	}
	if elements > 1 && cache[elements-1] == 0 {
		cache[elements-1] = b.AllocID()
		b.emitType(OpTypeVector, cache[elements-1], cache[0], elements)
	}
	column := cache[elements-1]

	switch {
	case columns > 4:
		id := b.AllocID()
		b.emitType(OpTypeMatrix, id, column, columns)
		return id
	case columns > 1:
		slot := typeSlot(elements, columns)
		if cache[slot] == 0 {
			cache[slot] = b.AllocID()
			b.emitType(OpTypeMatrix, cache[slot], column, columns)
		}
		return cache[slot]
	default:
		return column
	}
}

// FloatType returns the 32-bit float type with the given shape.
func (b *ModuleBuilder) FloatType(elements, columns uint32) uint32 {
	return b.numericType(&b.floatTypes, func(id uint32) {
		b.emitType(OpTypeFloat, id, 32)
	}, elements, columns)
}

// IntType returns the signed 32-bit integer type with the given shape.
func (b *ModuleBuilder) IntType(elements, columns uint32) uint32 {
	return b.numericType(&b.intTypes, func(id uint32) {
		b.emitType(OpTypeInt, id, 32, 1)
	}, elements, columns)
}

// UintType returns the unsigned 32-bit integer type with the given shape.
func (b *ModuleBuilder) UintType(elements, columns uint32) uint32 {
	return b.numericType(&b.uintTypes, func(id uint32) {
		b.emitType(OpTypeInt, id, 32, 0)
	}, elements, columns)
}

// BoolType returns the boolean scalar (elements == 1) or vector type.
func (b *ModuleBuilder) BoolType(elements uint32) uint32 {
	if elements < 1 || elements > 4 {
		return 0
	}
	if b.boolTypes[0] == 0 {
		b.boolTypes[0] = b.AllocID()
		b.emitType(OpTypeBool, b.boolTypes[0])
	}
	if elements > 1 && b.boolTypes[elements-1] == 0 {
		b.boolTypes[elements-1] = b.AllocID()
		b.emitType(OpTypeVector, b.boolTypes[elements-1], b.boolTypes[0], elements)
	}
	return b.boolTypes[elements-1]
}

// VoidType returns the void type.
func (b *ModuleBuilder) VoidType() uint32 {
	if b.voidType == 0 {
		b.voidType = b.AllocID()
		b.emitType(OpTypeVoid, b.voidType)
	}
	return b.voidType
}

// voidFunctionType returns the type of a parameterless void function.
func (b *ModuleBuilder) voidFunctionType() uint32 {
	if b.voidFnType == 0 {
		ret := b.VoidType()
		b.voidFnType = b.AllocID()
		b.emitType(OpTypeFunction, b.voidFnType, ret)
	}
	return b.voidFnType
}

// PointerType returns the pointer type to base in the given storage class.
func (b *ModuleBuilder) PointerType(class StorageClass, base uint32) uint32 {
	key := pointerKey{class: class, base: base}
	if id, ok := b.pointers[key]; ok {
		return id
	}
	id := b.AllocID()
	b.emitType(OpTypePointer, id, uint32(class), base)
	b.pointers[key] = id
	return id
}

// ConstInt returns the signed integer constant n, for n in [0,15].
func (b *ModuleBuilder) ConstInt(n int) uint32 {
	if n < 0 || n >= smallConstantCount {
		return b.constant(b.IntType(1, 1), uint32(int32(n)))
	}
	if b.intConsts[n] == 0 {
		b.intConsts[n] = b.constant(b.IntType(1, 1), uint32(n))
	}
	return b.intConsts[n]
}

// ConstFloat returns the float constant n, for n in [0,15].
func (b *ModuleBuilder) ConstFloat(n int) uint32 {
	if n < 0 || n >= smallConstantCount {
		return b.constant(b.FloatType(1, 1), math.Float32bits(float32(n)))
	}
	if b.floatConsts[n] == 0 {
		b.floatConsts[n] = b.constant(b.FloatType(1, 1), math.Float32bits(float32(n)))
	}
	return b.floatConsts[n]
}

// ConstBool returns the boolean constant v.
func (b *ModuleBuilder) ConstBool(v bool) uint32 {
	slot, op := &b.falseID, OpConstantFalse
	if v {
		slot, op = &b.trueID, OpConstantTrue
	}
	if *slot == 0 {
		typeID := b.BoolType(1)
		*slot = b.AllocID()
		b.emitType(op, typeID, *slot)
	}
	return *slot
}

// constant emits a fresh scalar OpConstant.
func (b *ModuleBuilder) constant(typeID, word uint32) uint32 {
	id := b.AllocID()
	b.emitType(OpConstant, typeID, id, word)
	return id
}

// DescriptorSet returns the descriptor set used for every binding of the
// module: 0 for vertex shaders, 1 otherwise.
func (b *ModuleBuilder) DescriptorSet() uint32 {
	if b.stage == ir.StageVertex {
		return 0
	}
	return 1
}

// nextBinding returns the next binding slot. The uniform block and the
// samplers share one counter.
func (b *ModuleBuilder) nextBinding() uint32 {
	n := b.binding
	b.binding++
	return n
}

// bind decorates id with the module descriptor set and the next binding.
func (b *ModuleBuilder) bind(id uint32) {
	b.AddDecorate(id, DecorationDescriptorSet, b.DescriptorSet())
	b.AddDecorate(id, DecorationBinding, b.nextBinding())
}

// AddUniformMember appends a member to the implicit uniform block and
// returns its index and byte offset. The block struct and its variable are
// created on first use. columns is the number of 16-byte slots the member
// occupies.
func (b *ModuleBuilder) AddUniformMember(name string, typeID, columns uint32, relaxed bool) (index, offset uint32) {
	u := &b.uniform
	if u.structID == 0 {
		u.structID = b.AllocID()
		b.AddName(u.structID, "Global")
		b.AddDecorate(u.structID, DecorationBlock)

		u.pointerID = b.AllocID()
		u.variableID = b.AllocID()
		b.AddName(u.variableID, "global")
		b.bind(u.variableID)
	}

	index = uint32(len(u.members))
	offset = u.offset
	b.AddMemberName(u.structID, index, name)
	if relaxed {
		b.AddMemberDecorate(u.structID, index, DecorationRelaxedPrecision)
	}
	b.AddMemberDecorate(u.structID, index, DecorationOffset, offset)

	u.members = append(u.members, typeID)
	u.layout = append(u.layout, UniformLayoutEntry{Index: index, Offset: offset, Name: name, Relaxed: relaxed})
	u.offset += columns * 16
	return index, offset
}

// UniformLayout returns the members of the implicit uniform block in
// declaration order.
func (b *ModuleBuilder) UniformLayout() []UniformLayoutEntry {
	return b.uniform.layout
}

// finalizeUniformBlock writes the block struct, its pointer type and its
// variable at the end of the types section.
func (b *ModuleBuilder) finalizeUniformBlock() {
	u := &b.uniform
	if len(u.members) == 0 {
		return
	}
	words := append([]uint32{u.structID}, u.members...)
	b.emitType(OpTypeStruct, words...)
	b.emitType(OpTypePointer, u.pointerID, uint32(StorageClassUniform), u.structID)
	b.emitType(OpVariable, u.pointerID, u.variableID, uint32(StorageClassUniform))
	b.pointers[pointerKey{class: StorageClassUniform, base: u.structID}] = u.pointerID
}

// AddName attaches a debug name to id.
func (b *ModuleBuilder) AddName(id uint32, name string) {
	b.names.PushInstruction(NewInstructionBuilder().AddWord(id).AddString(name).Build(OpName))
}

// AddMemberName attaches a debug name to member of struct id.
func (b *ModuleBuilder) AddMemberName(id, member uint32, name string) {
	b.names.PushInstruction(NewInstructionBuilder().AddWords(id, member).AddString(name).Build(OpMemberName))
}

// AddDecorate decorates id. A decoration already applied to id is not
// repeated.
func (b *ModuleBuilder) AddDecorate(id uint32, decoration Decoration, operands ...uint32) {
	key := decorationKey{id: id, member: memberNone, decoration: decoration}
	if b.decorated[key] {
		return
	}
	b.decorated[key] = true
	words := append([]uint32{id, uint32(decoration)}, operands...)
	b.decorations.PushInstruction(inst(OpDecorate, words...))
}

// AddMemberDecorate decorates member of struct id.
func (b *ModuleBuilder) AddMemberDecorate(id, member uint32, decoration Decoration, operands ...uint32) {
	key := decorationKey{id: id, member: member, decoration: decoration}
	if b.decorated[key] {
		return
	}
	b.decorated[key] = true
	words := append([]uint32{id, member, uint32(decoration)}, operands...)
	b.decorations.PushInstruction(inst(OpMemberDecorate, words...))
}

// AddInterface lists id in the entry point interface.
func (b *ModuleBuilder) AddInterface(id uint32) {
	b.interfaces = append(b.interfaces, id)
}

// AddReflection records a binding for the host driver.
func (b *ModuleBuilder) AddReflection(e ReflectionEntry) {
	b.reflections = append(b.reflections, e)
	encodeReflection(&b.reflection, e)
}

// Diagnose records an unsupported construct.
func (b *ModuleBuilder) Diagnose(node, format string, args ...any) {
	d := Diagnostic{Kind: DiagUnsupported, Node: node, Message: fmt.Sprintf(format, args...)}
	b.diagnostics = append(b.diagnostics, d)
	b.log.V(1).Info("unsupported construct", "node", node, "reason", d.Message)
}

// Diagnostics returns the diagnostics recorded so far.
func (b *ModuleBuilder) Diagnostics() []Diagnostic {
	return b.diagnostics
}

func (b *ModuleBuilder) setValue(n ir.Node, id uint32) {
	b.values[n] = id
}

// Value returns the id produced for n, or 0 if n produced none.
func (b *ModuleBuilder) Value(n ir.Node) uint32 {
	return b.values[n]
}
