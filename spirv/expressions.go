package spirv

import "github.com/gogpu/spvgen/ir"

// scalarKind selects the opcode column for an operation.
type scalarKind uint8

const (
	kindFloat scalarKind = iota
	kindSint
	kindUint
	kindBool
	kindCount
)

func kindOf(t *ir.Type) scalarKind {
	if t == nil {
		return kindFloat
	}
	if t.IsArray() && t.Element != nil {
		t = t.Element
	}
	switch t.Base {
	case ir.BaseInt:
		return kindSint
	case ir.BaseUint:
		return kindUint
	case ir.BaseBool:
		return kindBool
	default:
		return kindFloat
	}
}

// opRule lowers one operation. A direct opcode takes precedence over an
// extended instruction; OpNop and 0 mark an absent entry.
type opRule struct {
	op  [kindCount]OpCode
	ext [kindCount]uint32
}

func direct(f, s, u, b OpCode) opRule {
	return opRule{op: [kindCount]OpCode{f, s, u, b}}
}

func extended(f, s, u uint32) opRule {
	return opRule{ext: [kindCount]uint32{f, s, u, 0}}
}

var unaryRules = map[ir.Operation]opRule{
	ir.OpNeg:       direct(OpFNegate, OpSNegate, OpSNegate, OpNop),
	ir.OpAbs:       extended(GLSLstd450FAbs, GLSLstd450SAbs, 0),
	ir.OpSign:      extended(GLSLstd450FSign, GLSLstd450SSign, 0),
	ir.OpRsq:       extended(GLSLstd450InverseSqrt, 0, 0),
	ir.OpSqrt:      extended(GLSLstd450Sqrt, 0, 0),
	ir.OpExp:       extended(GLSLstd450Exp, 0, 0),
	ir.OpLog:       extended(GLSLstd450Log, 0, 0),
	ir.OpExp2:      extended(GLSLstd450Exp2, 0, 0),
	ir.OpLog2:      extended(GLSLstd450Log2, 0, 0),
	ir.OpTrunc:     extended(GLSLstd450Trunc, 0, 0),
	ir.OpCeil:      extended(GLSLstd450Ceil, 0, 0),
	ir.OpFloor:     extended(GLSLstd450Floor, 0, 0),
	ir.OpFract:     extended(GLSLstd450Fract, 0, 0),
	ir.OpRoundEven: extended(GLSLstd450RoundEven, 0, 0),
	ir.OpSin:       extended(GLSLstd450Sin, 0, 0),
	ir.OpCos:       extended(GLSLstd450Cos, 0, 0),
	ir.OpLogicNot:  direct(OpNop, OpNop, OpNop, OpLogicalNot),
	ir.OpBitNot:    direct(OpNop, OpNot, OpNot, OpNop),
	ir.OpF2I:       direct(OpConvertFToS, OpNop, OpNop, OpNop),
	ir.OpI2F:       direct(OpNop, OpConvertSToF, OpNop, OpNop),
	ir.OpF2U:       direct(OpConvertFToU, OpNop, OpNop, OpNop),
	ir.OpU2F:       direct(OpNop, OpNop, OpConvertUToF, OpNop),
	ir.OpDFdx:      direct(OpDPdx, OpNop, OpNop, OpNop),
	ir.OpDFdy:      direct(OpDPdy, OpNop, OpNop, OpNop),
}

var binaryRules = map[ir.Operation]opRule{
	ir.OpAdd:      direct(OpFAdd, OpIAdd, OpIAdd, OpNop),
	ir.OpSub:      direct(OpFSub, OpISub, OpISub, OpNop),
	ir.OpMul:      direct(OpFMul, OpIMul, OpIMul, OpNop),
	ir.OpDiv:      direct(OpFDiv, OpSDiv, OpUDiv, OpNop),
	ir.OpMod:      direct(OpFMod, OpSMod, OpUMod, OpNop),
	ir.OpLess:     direct(OpFOrdLessThan, OpSLessThan, OpULessThan, OpNop),
	ir.OpGreater:  direct(OpFOrdGreaterThan, OpSGreaterThan, OpUGreaterThan, OpNop),
	ir.OpLequal:   direct(OpFOrdLessThanEqual, OpSLessThanEqual, OpULessThanEqual, OpNop),
	ir.OpGequal:   direct(OpFOrdGreaterThanEqual, OpSGreaterThanEqual, OpUGreaterThanEqual, OpNop),
	ir.OpEqual:    direct(OpFOrdEqual, OpIEqual, OpIEqual, OpLogicalEqual),
	ir.OpNequal:   direct(OpFOrdNotEqual, OpINotEqual, OpINotEqual, OpLogicalNotEqual),
	ir.OpDot:      direct(OpDot, OpNop, OpNop, OpNop),
	ir.OpMin:      extended(GLSLstd450FMin, GLSLstd450SMin, GLSLstd450UMin),
	ir.OpMax:      extended(GLSLstd450FMax, GLSLstd450SMax, GLSLstd450UMax),
	ir.OpPow:      extended(GLSLstd450Pow, 0, 0),
	ir.OpLdexp:    extended(GLSLstd450Ldexp, 0, 0),
	ir.OpLogicAnd: direct(OpNop, OpNop, OpNop, OpLogicalAnd),
	ir.OpLogicOr:  direct(OpNop, OpNop, OpNop, OpLogicalOr),
	ir.OpLogicXor: direct(OpNop, OpNop, OpNop, OpLogicalNotEqual),
	ir.OpBitAnd:   direct(OpNop, OpBitwiseAnd, OpBitwiseAnd, OpNop),
	ir.OpBitOr:    direct(OpNop, OpBitwiseOr, OpBitwiseOr, OpNop),
	ir.OpBitXor:   direct(OpNop, OpBitwiseXor, OpBitwiseXor, OpNop),
	ir.OpLshift:   direct(OpNop, OpShiftLeftLogical, OpShiftLeftLogical, OpNop),
	ir.OpRshift:   direct(OpNop, OpShiftRightArithmetic, OpShiftRightLogical, OpNop),
}

var ternaryRules = map[ir.Operation]opRule{
	ir.OpFma: extended(GLSLstd450Fma, 0, 0),
	ir.OpLrp: extended(GLSLstd450FMix, 0, 0),
	// csel is keyed by its boolean condition.
	ir.OpCsel: direct(OpSelect, OpSelect, OpSelect, OpSelect),
}

func rulesFor(arity int) map[ir.Operation]opRule {
	switch arity {
	case 1:
		return unaryRules
	case 2:
		return binaryRules
	default:
		return ternaryRules
	}
}

// expression lowers an arithmetic, logic or conversion operation.
func (t *translator) expression(e *ir.Expression) error {
	arity := e.Op.Arity()
	if arity == 0 {
		return newError(ErrMalformedIR, "undefined operation %d", e.Op)
	}
	if len(e.Operands) != arity {
		return newError(ErrMalformedIR, "%s takes %d operands, got %d", e.Op, arity, len(e.Operands))
	}

	operands := make([]uint32, arity)
	for i, x := range e.Operands {
		id, err := t.value(x)
		if err != nil {
			return err
		}
		if x.Type() == nil {
			return newError(ErrMalformedIR, "operand %d of %s has no type", i, e.Op)
		}
		operands[i] = id
	}

	resultType := t.b.ResolveType(e.ResultType)
	if resultType == 0 {
		return nil
	}

	var id uint32
	switch {
	case e.Op == ir.OpRcp:
		id = t.b.AllocID()
		t.b.emit(OpFDiv, resultType, id, t.b.ConstFloat(1), operands[0])
	case e.Op == ir.OpMul:
		id = t.multiply(e, resultType, operands)
	default:
		rule, ok := rulesFor(arity)[e.Op]
		kind := kindOf(e.Operands[0].Type())
		switch {
		case !ok:
		case rule.op[kind] != OpNop:
			id = t.b.AllocID()
			t.b.emit(rule.op[kind], append([]uint32{resultType, id}, operands...)...)
		case rule.ext[kind] != 0:
			id = t.b.AllocID()
			t.b.emit(OpExtInst, append([]uint32{resultType, id, t.glslID, rule.ext[kind]}, operands...)...)
		}
	}
	if id == 0 {
		t.b.Diagnose("Expression", "operation %s on %s is not supported", e.Op, e.Operands[0].Type())
		return nil
	}

	t.relax(id, e.ResultType)
	t.b.setValue(e, id)
	return nil
}

// multiply picks the multiplication opcode from the operand shapes.
func (t *translator) multiply(e *ir.Expression, resultType uint32, operands []uint32) uint32 {
	x, y := e.Operands[0].Type(), e.Operands[1].Type()
	a, c := operands[0], operands[1]

	op := OpFMul
	if x.IsFloat() && y.IsFloat() {
		switch {
		case x.IsVector() && y.IsScalar():
			op = OpVectorTimesScalar
		case x.IsScalar() && y.IsVector():
			op, a, c = OpVectorTimesScalar, c, a
		case x.IsMatrix() && y.IsScalar():
			op = OpMatrixTimesScalar
		case x.IsScalar() && y.IsMatrix():
			op, a, c = OpMatrixTimesScalar, c, a
		case x.IsMatrix() && y.IsVector():
			op = OpMatrixTimesVector
		case x.IsVector() && y.IsMatrix():
			op = OpVectorTimesMatrix
		case x.IsMatrix() && y.IsMatrix():
			op = OpMatrixTimesMatrix
		}
	} else if x.IsInteger() {
		op = OpIMul
	} else {
		return 0
	}

	id := t.b.AllocID()
	t.b.emit(op, resultType, id, a, c)
	return id
}

// swizzle lowers a component selection to OpVectorShuffle.
func (t *translator) swizzle(s *ir.Swizzle) error {
	if n := len(s.Components); n < 1 || n > 4 {
		return newError(ErrMalformedIR, "swizzle selects %d components", n)
	}
	source, err := t.value(s.Val)
	if err != nil {
		return err
	}
	typeID := t.b.ResolveType(s.ResultType)
	if typeID == 0 {
		return nil
	}
	id := t.b.AllocID()
	t.b.emit(OpVectorShuffle, append([]uint32{typeID, id, source, source}, s.Components...)...)
	t.b.setValue(s, id)
	return nil
}

// derefVariable reads a variable. Uniforms and shader inputs are loaded;
// other variables forward their own id.
func (t *translator) derefVariable(d *ir.DerefVariable) error {
	v := d.Var
	if v == nil || v.Type == nil {
		return newError(ErrMalformedIR, "dereference of an untyped variable")
	}

	var id uint32
	switch {
	case v.Mode == ir.ModeUniform && !v.Type.IsSampler():
		slot, ok := t.members[v]
		if !ok {
			return newError(ErrUnresolvedOperand, "uniform %q used before declaration", v.Name)
		}
		pointer := t.b.PointerType(StorageClassUniform, slot.typeID)
		access := t.b.AllocID()
		t.b.emit(OpAccessChain, pointer, access, t.b.uniform.variableID, t.b.ConstInt(int(slot.index)))
		id = t.b.AllocID()
		t.b.emit(OpLoad, slot.typeID, id, access)

	case v.Mode == ir.ModeUniform || v.Mode == ir.ModeShaderIn:
		varID := t.b.Value(v)
		if varID == 0 {
			return newError(ErrUnresolvedOperand, "variable %q used before declaration", v.Name)
		}
		typeID, ok := t.types[v]
		if !ok {
			typeID = t.b.ResolveType(v.Type)
		}
		id = t.b.AllocID()
		t.b.emit(OpLoad, typeID, id, varID)

	default:
		id = t.b.Value(v)
		if id == 0 {
			return newError(ErrUnresolvedOperand, "variable %q used before declaration", v.Name)
		}
	}

	if v.Precision == ir.PrecisionMedium {
		t.b.AddDecorate(id, DecorationRelaxedPrecision)
	}
	t.b.setValue(d, id)
	return nil
}

// derefArray indexes an array, matrix or vector.
func (t *translator) derefArray(d *ir.DerefArray) error {
	array, err := t.value(d.Array)
	if err != nil {
		return err
	}
	index, err := t.value(d.Index)
	if err != nil {
		return err
	}
	typeID := t.b.ResolveType(d.Type())
	if typeID == 0 {
		return nil
	}
	id := t.b.AllocID()
	t.b.emit(OpAccessChain, typeID, id, array, index)
	t.b.setValue(d, id)
	return nil
}

// constant lowers a literal.
func (t *translator) constant(c *ir.Constant) error {
	typ := c.ResultType
	if typ == nil {
		return newError(ErrMalformedIR, "constant has no type")
	}

	var id uint32
	switch {
	case typ.IsStruct():
		t.b.Diagnose("Constant", "struct constant %s is not supported", typ)
		return nil
	case typ.IsArray():
		if uint32(len(c.Elements)) != typ.Length {
			return newError(ErrMalformedIR, "array constant %s has %d elements", typ, len(c.Elements))
		}
		elements := make([]uint32, len(c.Elements))
		for i, e := range c.Elements {
			elemID, err := t.value(e)
			if err != nil {
				return err
			}
			elements[i] = elemID
		}
		typeID := t.b.ResolveType(typ)
		if typeID == 0 {
			return nil
		}
		id = t.b.AllocID()
		t.b.emitType(OpConstantComposite, append([]uint32{typeID, id}, elements...)...)
	case typ.Components() == 0:
		t.b.Diagnose("Constant", "constant of type %s is not supported", typ)
		return nil
	default:
		if !hasComponents(c, int(typ.Components())) {
			return newError(ErrMalformedIR, "constant %s is missing components", typ)
		}
		var err error
		if id, err = t.valueConstant(c); err != nil || id == 0 {
			return err
		}
	}

	t.relax(id, typ)
	t.b.setValue(c, id)
	return nil
}

// valueConstant lowers a scalar, vector or matrix literal.
func (t *translator) valueConstant(c *ir.Constant) (uint32, error) {
	typ := c.ResultType
	if typ.IsScalar() {
		if typ.IsBool() {
			return t.b.ConstBool(c.Bools[0]), nil
		}
		if n, ok := c.SmallIndex(); ok {
			if typ.IsFloat() {
				return t.b.ConstFloat(n), nil
			}
			return t.b.ConstInt(n), nil
		}
		// Other scalars are materialized through a function variable.
		typeID := t.b.ResolveType(typ)
		if typeID == 0 {
			return 0, nil
		}
		value := t.b.constant(typeID, c.Word(0))
		pointer := t.b.PointerType(StorageClassFunction, typeID)
		id := t.b.AllocID()
		t.b.emitLocal(OpVariable, pointer, id, uint32(StorageClassFunction))
		t.b.emit(OpStore, id, value)
		return id, nil
	}

	scalarType := t.b.ResolveType(typ.ScalarType())
	component := func(i int) uint32 {
		if typ.IsBool() {
			return t.b.ConstBool(c.Bools[i])
		}
		return t.b.constant(scalarType, c.Word(i))
	}

	if typ.IsVector() {
		typeID := t.b.ResolveType(typ)
		ids := make([]uint32, typ.VectorElements)
		for i := range ids {
			ids[i] = component(i)
		}
		return t.composite(typeID, ids), nil
	}

	columnType := t.b.ResolveType(typ.ColumnType())
	typeID := t.b.ResolveType(typ)
	if columnType == 0 || typeID == 0 {
		return 0, nil
	}
	rows := int(typ.VectorElements)
	columns := make([]uint32, typ.MatrixColumns)
	for j := range columns {
		ids := make([]uint32, rows)
		for i := range ids {
			ids[i] = component(j*rows + i)
		}
		columns[j] = t.composite(columnType, ids)
	}
	return t.composite(typeID, columns), nil
}

func (t *translator) composite(typeID uint32, parts []uint32) uint32 {
	id := t.b.AllocID()
	t.b.emitType(OpConstantComposite, append([]uint32{typeID, id}, parts...)...)
	return id
}

// hasComponents reports whether c stores at least n components in the
// slice matching its base type.
func hasComponents(c *ir.Constant, n int) bool {
	switch c.ResultType.Base {
	case ir.BaseFloat:
		return len(c.Floats) >= n
	case ir.BaseInt:
		return len(c.Ints) >= n
	case ir.BaseUint:
		return len(c.Uints) >= n
	case ir.BaseBool:
		return len(c.Bools) >= n
	default:
		return false
	}
}
