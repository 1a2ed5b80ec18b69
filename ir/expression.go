package ir

import "math"

// Operation is the operator of an Expression.
type Operation uint16

// Unary operations.
const (
	OpNeg Operation = iota
	OpRcp
	OpAbs
	OpSign
	OpRsq
	OpSqrt
	OpExp
	OpLog
	OpExp2
	OpLog2
	OpTrunc
	OpCeil
	OpFloor
	OpFract
	OpRoundEven
	OpSin
	OpCos
	OpLogicNot
	OpBitNot
	OpF2I
	OpI2F
	OpF2U
	OpU2F
	OpDFdx
	OpDFdy

	// Binary operations.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpLess
	OpGreater
	OpLequal
	OpGequal
	OpEqual
	OpNequal
	OpDot
	OpMin
	OpMax
	OpPow
	OpLdexp
	OpLogicAnd
	OpLogicOr
	OpLogicXor
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLshift
	OpRshift

	// Ternary operations.
	OpFma
	OpLrp
	OpCsel

	operationCount
)

var operationNames = [operationCount]string{
	OpNeg: "neg", OpRcp: "rcp", OpAbs: "abs", OpSign: "sign", OpRsq: "rsq",
	OpSqrt: "sqrt", OpExp: "exp", OpLog: "log", OpExp2: "exp2", OpLog2: "log2",
	OpTrunc: "trunc", OpCeil: "ceil", OpFloor: "floor", OpFract: "fract",
	OpRoundEven: "round_even", OpSin: "sin", OpCos: "cos",
	OpLogicNot: "logic_not", OpBitNot: "bit_not",
	OpF2I: "f2i", OpI2F: "i2f", OpF2U: "f2u", OpU2F: "u2f",
	OpDFdx: "dFdx", OpDFdy: "dFdy",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod",
	OpLess: "less", OpGreater: "greater", OpLequal: "lequal", OpGequal: "gequal",
	OpEqual: "equal", OpNequal: "nequal", OpDot: "dot",
	OpMin: "min", OpMax: "max", OpPow: "pow", OpLdexp: "ldexp",
	OpLogicAnd: "logic_and", OpLogicOr: "logic_or", OpLogicXor: "logic_xor",
	OpBitAnd: "bit_and", OpBitOr: "bit_or", OpBitXor: "bit_xor",
	OpLshift: "lshift", OpRshift: "rshift",
	OpFma: "fma", OpLrp: "lrp", OpCsel: "csel",
}

func (op Operation) String() string {
	if op < operationCount {
		return operationNames[op]
	}
	return "unknown"
}

// Arity returns the number of operands the operation takes, or 0 for an
// undefined operation.
func (op Operation) Arity() int {
	switch {
	case op <= OpDFdy:
		return 1
	case op <= OpRshift:
		return 2
	case op < operationCount:
		return 3
	default:
		return 0
	}
}

// ParseOperation looks up an operation by its name.
func ParseOperation(name string) (Operation, bool) {
	for op, n := range operationNames {
		if n == name {
			return Operation(op), true
		}
	}
	return 0, false
}

// Expression applies an operation to one, two or three operands.
type Expression struct {
	Op         Operation
	ResultType *Type
	Operands   []Value
}

func (*Expression) irNode()       {}
func (e *Expression) Type() *Type { return e.ResultType }

// Unary builds a one-operand expression.
func Unary(op Operation, t *Type, x Value) *Expression {
	return &Expression{Op: op, ResultType: t, Operands: []Value{x}}
}

// Binary builds a two-operand expression.
func Binary(op Operation, t *Type, x, y Value) *Expression {
	return &Expression{Op: op, ResultType: t, Operands: []Value{x, y}}
}

// Ternary builds a three-operand expression.
func Ternary(op Operation, t *Type, x, y, z Value) *Expression {
	return &Expression{Op: op, ResultType: t, Operands: []Value{x, y, z}}
}

// TextureOp is the kind of a texture operation.
type TextureOp uint8

const (
	TexSample TextureOp = iota // tex: implicit LOD
	TexBias                    // txb: implicit LOD with bias
	TexLod                     // txl: explicit LOD
	TexFetch                   // txf: texel fetch
	TexFetchMS                 // txf_ms: multisample fetch
	TexSize                    // txs: size query
	TexGrad                    // txd: explicit gradients
	TexGather                  // tg4: gather
	TexQueryLod                // lod: LOD query
	TexQueryLevels
	TexSamples
	TexSamplesIdentical

	textureOpCount
)

var textureOpNames = [textureOpCount]string{
	TexSample: "tex", TexBias: "txb", TexLod: "txl", TexFetch: "txf",
	TexFetchMS: "txf_ms", TexSize: "txs", TexGrad: "txd", TexGather: "tg4",
	TexQueryLod: "lod", TexQueryLevels: "query_levels", TexSamples: "samples",
	TexSamplesIdentical: "samples_identical",
}

func (op TextureOp) String() string {
	if op < textureOpCount {
		return textureOpNames[op]
	}
	return "unknown"
}

// ParseTextureOp looks up a texture operation by its name.
func ParseTextureOp(name string) (TextureOp, bool) {
	for op, n := range textureOpNames {
		if n == name {
			return TextureOp(op), true
		}
	}
	return 0, false
}

// Texture is a sampling or query operation on a sampler.
type Texture struct {
	Op         TextureOp
	ResultType *Type

	Sampler    Value
	Coordinate Value
	Offset     Value
	Projector  Value

	// Operation-specific trailing operands.
	Bias        Value
	Lod         Value
	SampleIndex Value
	DPdx        Value
	DPdy        Value
	Component   Value
}

func (*Texture) irNode()       {}
func (t *Texture) Type() *Type { return t.ResultType }

// Swizzle selects and reorders up to four components of a vector.
type Swizzle struct {
	Val        Value
	Components []uint32
	ResultType *Type
}

func (*Swizzle) irNode()       {}
func (s *Swizzle) Type() *Type { return s.ResultType }

// NewSwizzle builds a swizzle whose result type is derived from the source.
func NewSwizzle(val Value, components ...uint32) *Swizzle {
	base := val.Type()
	return &Swizzle{
		Val:        val,
		Components: components,
		ResultType: numeric(base.Base, uint32(len(components)), 1),
	}
}

// DerefVariable reads or names a variable.
type DerefVariable struct {
	Var *Variable
}

func (*DerefVariable) irNode()       {}
func (d *DerefVariable) Type() *Type { return d.Var.Type }

// Deref returns a dereference of v.
func Deref(v *Variable) *DerefVariable { return &DerefVariable{Var: v} }

// DerefArray indexes an array, matrix or vector.
type DerefArray struct {
	Array Value
	Index Value
}

func (*DerefArray) irNode()       {}
func (d *DerefArray) Type() *Type { return d.Array.Type().ElementType() }

// DerefRecord selects a struct member.
type DerefRecord struct {
	Record Value
	Field  string
}

func (*DerefRecord) irNode() {}

func (d *DerefRecord) Type() *Type {
	t, _ := d.Record.Type().Field(d.Field)
	return t
}

// Constant is a literal value. Scalar, vector and matrix constants store
// their components in the slice matching the base type; arrays and structs
// store one Constant per element.
type Constant struct {
	ResultType *Type

	Floats []float32
	Ints   []int32
	Uints  []uint32
	Bools  []bool

	Elements []*Constant
}

func (*Constant) irNode()       {}
func (c *Constant) Type() *Type { return c.ResultType }

// ConstFloat returns a float scalar constant.
func ConstFloat(v float32) *Constant {
	return &Constant{ResultType: Float(), Floats: []float32{v}}
}

// ConstInt returns a signed integer scalar constant.
func ConstInt(v int32) *Constant {
	return &Constant{ResultType: Int(), Ints: []int32{v}}
}

// ConstUint returns an unsigned integer scalar constant.
func ConstUint(v uint32) *Constant {
	return &Constant{ResultType: Uint(), Uints: []uint32{v}}
}

// ConstBool returns a boolean scalar constant.
func ConstBool(v bool) *Constant {
	return &Constant{ResultType: Bool(), Bools: []bool{v}}
}

// ConstFloats returns a float vector or matrix constant in column order.
func ConstFloats(t *Type, v ...float32) *Constant {
	return &Constant{ResultType: t, Floats: v}
}

// ConstArray returns an array constant.
func ConstArray(element *Type, elements ...*Constant) *Constant {
	return &Constant{ResultType: ArrayOf(element, uint32(len(elements))), Elements: elements}
}

// Word returns the 32-bit literal encoding of component i.
func (c *Constant) Word(i int) uint32 {
	switch c.ResultType.Base {
	case BaseFloat:
		return math.Float32bits(c.Floats[i])
	case BaseInt:
		return uint32(c.Ints[i])
	case BaseUint:
		return c.Uints[i]
	case BaseBool:
		if c.Bools[i] {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// SmallIndex reports whether c is a scalar holding an integral value in
// [0,15], and returns that value. Negative zero is not a small index.
func (c *Constant) SmallIndex() (int, bool) {
	t := c.ResultType
	if t == nil || !t.IsScalar() {
		return 0, false
	}
	switch t.Base {
	case BaseInt:
		if len(c.Ints) > 0 && c.Ints[0] >= 0 && c.Ints[0] <= 15 {
			return int(c.Ints[0]), true
		}
	case BaseUint:
		if len(c.Uints) > 0 && c.Uints[0] <= 15 {
			return int(c.Uints[0]), true
		}
	case BaseFloat:
		if len(c.Floats) > 0 {
			f := c.Floats[0]
			if f >= 0 && f <= 15 && !math.Signbit(float64(f)) && float32(math.Trunc(float64(f))) == f {
				return int(f), true
			}
		}
	}
	return 0, false
}
