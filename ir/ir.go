package ir

import "strconv"

// Stage identifies the shader stage a module is compiled for.
type Stage uint8

const (
	StageVertex Stage = iota
	StageTessControl
	StageTessEval
	StageGeometry
	StageFragment
	StageCompute
)

var stageNames = [...]string{
	StageVertex:      "vertex",
	StageTessControl: "tess_control",
	StageTessEval:    "tess_eval",
	StageGeometry:    "geometry",
	StageFragment:    "fragment",
	StageCompute:     "compute",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "stage(" + strconv.Itoa(int(s)) + ")"
}

// Precision is a minimum-precision hint attached to variables and to the
// module-wide defaults.
type Precision uint8

const (
	PrecisionNone Precision = iota
	PrecisionHigh
	PrecisionMedium
	PrecisionLow
)

// PrecisionCount is the number of defined precision values.
const PrecisionCount = 4

var precisionNames = [...]string{
	PrecisionNone:   "none",
	PrecisionHigh:   "high",
	PrecisionMedium: "medium",
	PrecisionLow:    "low",
}

func (p Precision) String() string {
	if int(p) < len(precisionNames) {
		return precisionNames[p]
	}
	return "precision(" + strconv.Itoa(int(p)) + ")"
}

// Mode is the storage mode of a variable.
type Mode uint8

const (
	ModeAuto Mode = iota
	ModeUniform
	ModeShaderStorage
	ModeShared
	ModeShaderIn
	ModeShaderOut
	ModeFunctionIn
	ModeFunctionOut
	ModeFunctionInOut
	ModeConstIn
	ModeSystemValue
	ModeTemporary
)

// ModeCount is the number of defined storage modes.
const ModeCount = 12

var modeNames = [...]string{
	ModeAuto:          "auto",
	ModeUniform:       "uniform",
	ModeShaderStorage: "storage",
	ModeShared:        "shared",
	ModeShaderIn:      "in",
	ModeShaderOut:     "out",
	ModeFunctionIn:    "fn_in",
	ModeFunctionOut:   "fn_out",
	ModeFunctionInOut: "fn_inout",
	ModeConstIn:       "const_in",
	ModeSystemValue:   "system_value",
	ModeTemporary:     "temporary",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Module is one compilation unit.
type Module struct {
	Stage Stage

	// Default precision for float and integer results, as established by
	// the source's precision statements.
	FloatPrecision Precision
	IntPrecision   Precision

	// Decls holds the top-level declarations in source order.
	Decls []Node
}

// Node is implemented by every IR node kind.
type Node interface {
	irNode()
}

// Value is a node that produces a typed value.
type Value interface {
	Node
	Type() *Type
}

// Variable declares a named storage location. Variables are referenced
// through DerefVariable.
type Variable struct {
	Name      string
	Type      *Type
	Mode      Mode
	Precision Precision
}

func (*Variable) irNode() {}

// Function is a function definition. A nil ReturnType means void.
type Function struct {
	Name       string
	ReturnType *Type
	Params     []*Variable
	Body       []Node
}

func (*Function) irNode() {}

// IsVoid reports whether the function returns nothing.
func (f *Function) IsVoid() bool {
	return f.ReturnType == nil || f.ReturnType.Base == BaseVoid
}
