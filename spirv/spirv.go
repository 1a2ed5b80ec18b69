package spirv

import (
	"fmt"

	"github.com/go-logr/logr"
)

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses a "major.minor" version string.
func ParseVersion(s string) (Version, error) {
	var v Version
	if _, err := fmt.Sscanf(s, "%d.%d", &v.Major, &v.Minor); err != nil {
		return Version{}, fmt.Errorf("invalid SPIR-V version %q: %w", s, err)
	}
	if v.Major != 1 || v.Minor > 6 {
		return Version{}, fmt.Errorf("unsupported SPIR-V version %q", s)
	}
	return v, nil
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Options configures SPIR-V generation.
type Options struct {
	// Version is the SPIR-V version written into the header.
	Version Version

	// Capabilities are declared in addition to Shader.
	Capabilities []Capability

	// EntryPoint names the function exported as the entry point.
	EntryPoint string

	// StageEntryPoint derives the entry point execution model from the
	// module stage. When false the entry point is a fragment entry.
	StageEntryPoint bool

	// SourceLanguage and SourceVersion are recorded with OpSource.
	SourceLanguage SourceLanguage
	SourceVersion  uint32

	// Logger receives diagnostics at V(1) and assembly summaries at V(2).
	Logger logr.Logger
}

// DefaultOptions returns the options used by the reference pipeline:
// SPIR-V 1.0, entry point "main", ESSL 310.
func DefaultOptions() Options {
	return Options{
		Version:        Version1_0,
		EntryPoint:     "main",
		SourceLanguage: SourceLanguageESSL,
		SourceVersion:  310,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Version == (Version{}) {
		o.Version = d.Version
	}
	if o.EntryPoint == "" {
		o.EntryPoint = d.EntryPoint
	}
	if o.SourceLanguage == SourceLanguageUnknown && o.SourceVersion == 0 {
		o.SourceLanguage = d.SourceLanguage
		o.SourceVersion = d.SourceVersion
	}
	return o
}

// SPIR-V magic number and constants
const (
	MagicNumber = 0x07230203
	GeneratorID = 0x00100000
	// WordCountShift positions the word count in an instruction's first word.
	WordCountShift = 16
	// ExtInstSetGLSL is the name of the standard extended instruction set.
	ExtInstSetGLSL = "GLSL.std.450"
)

// Capability represents a SPIR-V capability.
type Capability uint32

const (
	CapabilityMatrix              Capability = 0
	CapabilityShader              Capability = 1
	CapabilityGeometry            Capability = 2
	CapabilityTessellation        Capability = 3
	CapabilityFloat64             Capability = 10
	CapabilityImageGatherExtended Capability = 25
	CapabilitySampledRect         Capability = 37
	CapabilityInputAttachment     Capability = 40
	CapabilitySampled1D           Capability = 43
	CapabilitySampledBuffer       Capability = 46
	CapabilityImageQuery          Capability = 50
	CapabilityDerivativeControl   Capability = 51
)

// SourceLanguage is the OpSource language operand.
type SourceLanguage uint32

const (
	SourceLanguageUnknown SourceLanguage = 0
	SourceLanguageESSL    SourceLanguage = 1
	SourceLanguageGLSL    SourceLanguage = 2
	SourceLanguageOpenCLC SourceLanguage = 3
	SourceLanguageHLSL    SourceLanguage = 5
)

// AddressingModel is the OpMemoryModel addressing operand.
type AddressingModel uint32

const (
	AddressingModelLogical    AddressingModel = 0
	AddressingModelPhysical32 AddressingModel = 1
	AddressingModelPhysical64 AddressingModel = 2
)

// MemoryModel is the OpMemoryModel memory operand.
type MemoryModel uint32

const (
	MemoryModelSimple  MemoryModel = 0
	MemoryModelGLSL450 MemoryModel = 1
	MemoryModelOpenCL  MemoryModel = 2
	MemoryModelVulkan  MemoryModel = 3
)

// ExecutionModel is the stage of an entry point.
type ExecutionModel uint32

const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
)

// ExecutionMode is an entry point execution mode.
type ExecutionMode uint32

const (
	ExecutionModeOriginUpperLeft ExecutionMode = 7
	ExecutionModeOriginLowerLeft ExecutionMode = 8
	ExecutionModeLocalSize       ExecutionMode = 17
)

// StorageClass is the storage class of a pointer or variable.
type StorageClass uint32

const (
	StorageClassUniformConstant StorageClass = 0
	StorageClassInput           StorageClass = 1
	StorageClassUniform         StorageClass = 2
	StorageClassOutput          StorageClass = 3
	StorageClassWorkgroup       StorageClass = 4
	StorageClassCrossWorkgroup  StorageClass = 5
	StorageClassPrivate         StorageClass = 6
	StorageClassFunction        StorageClass = 7
	StorageClassGeneric         StorageClass = 8
	StorageClassPushConstant    StorageClass = 9
	StorageClassAtomicCounter   StorageClass = 10
	StorageClassImage           StorageClass = 11
	StorageClassStorageBuffer   StorageClass = 12
)

// Dim is the dimensionality operand of OpTypeImage.
type Dim uint32

const (
	Dim1D          Dim = 0
	Dim2D          Dim = 1
	Dim3D          Dim = 2
	DimCube        Dim = 3
	DimRect        Dim = 4
	DimBuffer      Dim = 5
	DimSubpassData Dim = 6
)

// ImageFormatUnknown is the only image format used for sampled images.
const ImageFormatUnknown = 0

// ImageOperands is the mask preceding optional image instruction operands.
type ImageOperands uint32

const (
	ImageOperandsNone        ImageOperands = 0x0
	ImageOperandsBias        ImageOperands = 0x1
	ImageOperandsLod         ImageOperands = 0x2
	ImageOperandsGrad        ImageOperands = 0x4
	ImageOperandsConstOffset ImageOperands = 0x8
	ImageOperandsOffset      ImageOperands = 0x10
	ImageOperandsSample      ImageOperands = 0x40
)

// SelectionControl is the OpSelectionMerge control mask.
type SelectionControl uint32

const (
	SelectionControlNone        SelectionControl = 0
	SelectionControlFlatten     SelectionControl = 1
	SelectionControlDontFlatten SelectionControl = 2
)

// LoopControl is the OpLoopMerge control mask.
type LoopControl uint32

const (
	LoopControlNone       LoopControl = 0
	LoopControlUnroll     LoopControl = 1
	LoopControlDontUnroll LoopControl = 2
)

// FunctionControl is the OpFunction control mask.
type FunctionControl uint32

const (
	FunctionControlNone FunctionControl = 0
)

// Decoration represents a SPIR-V decoration.
type Decoration uint32

const (
	DecorationRelaxedPrecision Decoration = 0
	DecorationBlock            Decoration = 2
	DecorationRowMajor         Decoration = 4
	DecorationColMajor         Decoration = 5
	DecorationArrayStride      Decoration = 6
	DecorationMatrixStride     Decoration = 7
	DecorationBuiltIn          Decoration = 11
	DecorationLocation         Decoration = 30
	DecorationBinding          Decoration = 33
	DecorationDescriptorSet    Decoration = 34
	DecorationOffset           Decoration = 35
)

// OpCode represents a SPIR-V opcode.
type OpCode uint16

const (
	OpNop                        OpCode = 0
	OpSource                     OpCode = 3
	OpName                       OpCode = 5
	OpMemberName                 OpCode = 6
	OpExtension                  OpCode = 10
	OpExtInstImport              OpCode = 11
	OpExtInst                    OpCode = 12
	OpMemoryModel                OpCode = 14
	OpEntryPoint                 OpCode = 15
	OpExecutionMode              OpCode = 16
	OpCapability                 OpCode = 17
	OpTypeVoid                   OpCode = 19
	OpTypeBool                   OpCode = 20
	OpTypeInt                    OpCode = 21
	OpTypeFloat                  OpCode = 22
	OpTypeVector                 OpCode = 23
	OpTypeMatrix                 OpCode = 24
	OpTypeImage                  OpCode = 25
	OpTypeSampler                OpCode = 26
	OpTypeSampledImage           OpCode = 27
	OpTypeArray                  OpCode = 28
	OpTypeStruct                 OpCode = 30
	OpTypePointer                OpCode = 32
	OpTypeFunction               OpCode = 33
	OpConstantTrue               OpCode = 41
	OpConstantFalse              OpCode = 42
	OpConstant                   OpCode = 43
	OpConstantComposite          OpCode = 44
	OpFunction                   OpCode = 54
	OpFunctionParameter          OpCode = 55
	OpFunctionEnd                OpCode = 56
	OpFunctionCall               OpCode = 57
	OpVariable                   OpCode = 59
	OpLoad                       OpCode = 61
	OpStore                      OpCode = 62
	OpAccessChain                OpCode = 65
	OpDecorate                   OpCode = 71
	OpMemberDecorate             OpCode = 72
	OpVectorShuffle              OpCode = 79
	OpCompositeConstruct         OpCode = 80
	OpCompositeExtract           OpCode = 81
	OpSampledImage               OpCode = 86
	OpImageSampleImplicitLod     OpCode = 87
	OpImageSampleExplicitLod     OpCode = 88
	OpImageSampleProjImplicitLod OpCode = 91
	OpImageSampleProjExplicitLod OpCode = 92
	OpImageFetch                 OpCode = 95
	OpImageGather                OpCode = 96
	OpImageQuerySizeLod          OpCode = 103
	OpImageQueryLod              OpCode = 105
	OpImageQueryLevels           OpCode = 106
	OpImageQuerySamples          OpCode = 107
	OpConvertFToU                OpCode = 109
	OpConvertFToS                OpCode = 110
	OpConvertSToF                OpCode = 111
	OpConvertUToF                OpCode = 112
	OpSNegate                    OpCode = 126
	OpFNegate                    OpCode = 127
	OpIAdd                       OpCode = 128
	OpFAdd                       OpCode = 129
	OpISub                       OpCode = 130
	OpFSub                       OpCode = 131
	OpIMul                       OpCode = 132
	OpFMul                       OpCode = 133
	OpUDiv                       OpCode = 134
	OpSDiv                       OpCode = 135
	OpFDiv                       OpCode = 136
	OpUMod                       OpCode = 137
	OpSRem                       OpCode = 138
	OpSMod                       OpCode = 139
	OpFRem                       OpCode = 140
	OpFMod                       OpCode = 141
	OpVectorTimesScalar          OpCode = 142
	OpMatrixTimesScalar          OpCode = 143
	OpVectorTimesMatrix          OpCode = 144
	OpMatrixTimesVector          OpCode = 145
	OpMatrixTimesMatrix          OpCode = 146
	OpDot                        OpCode = 148
	OpLogicalEqual               OpCode = 164
	OpLogicalNotEqual            OpCode = 165
	OpLogicalOr                  OpCode = 166
	OpLogicalAnd                 OpCode = 167
	OpLogicalNot                 OpCode = 168
	OpSelect                     OpCode = 169
	OpIEqual                     OpCode = 170
	OpINotEqual                  OpCode = 171
	OpUGreaterThan               OpCode = 172
	OpSGreaterThan               OpCode = 173
	OpUGreaterThanEqual          OpCode = 174
	OpSGreaterThanEqual          OpCode = 175
	OpULessThan                  OpCode = 176
	OpSLessThan                  OpCode = 177
	OpULessThanEqual             OpCode = 178
	OpSLessThanEqual             OpCode = 179
	OpFOrdEqual                  OpCode = 180
	OpFOrdNotEqual               OpCode = 182
	OpFOrdLessThan               OpCode = 184
	OpFOrdGreaterThan            OpCode = 186
	OpFOrdLessThanEqual          OpCode = 188
	OpFOrdGreaterThanEqual       OpCode = 190
	OpShiftRightLogical          OpCode = 194
	OpShiftRightArithmetic       OpCode = 195
	OpShiftLeftLogical           OpCode = 196
	OpBitwiseOr                  OpCode = 197
	OpBitwiseXor                 OpCode = 198
	OpBitwiseAnd                 OpCode = 199
	OpNot                        OpCode = 200
	OpDPdx                       OpCode = 207
	OpDPdy                       OpCode = 208
	OpLoopMerge                  OpCode = 246
	OpSelectionMerge             OpCode = 247
	OpLabel                      OpCode = 248
	OpBranch                     OpCode = 249
	OpBranchConditional          OpCode = 250
	OpKill                       OpCode = 252
	OpReturn                     OpCode = 253
	OpReturnValue                OpCode = 254
	OpUnreachable                OpCode = 255
)

// GLSL.std.450 extended instruction numbers.
const (
	GLSLstd450Round       uint32 = 1
	GLSLstd450RoundEven   uint32 = 2
	GLSLstd450Trunc       uint32 = 3
	GLSLstd450FAbs        uint32 = 4
	GLSLstd450SAbs        uint32 = 5
	GLSLstd450FSign       uint32 = 6
	GLSLstd450SSign       uint32 = 7
	GLSLstd450Floor       uint32 = 8
	GLSLstd450Ceil        uint32 = 9
	GLSLstd450Fract       uint32 = 10
	GLSLstd450Sin         uint32 = 13
	GLSLstd450Cos         uint32 = 14
	GLSLstd450Pow         uint32 = 26
	GLSLstd450Exp         uint32 = 27
	GLSLstd450Log         uint32 = 28
	GLSLstd450Exp2        uint32 = 29
	GLSLstd450Log2        uint32 = 30
	GLSLstd450Sqrt        uint32 = 31
	GLSLstd450InverseSqrt uint32 = 32
	GLSLstd450FMin        uint32 = 37
	GLSLstd450UMin        uint32 = 38
	GLSLstd450SMin        uint32 = 39
	GLSLstd450FMax        uint32 = 40
	GLSLstd450UMax        uint32 = 41
	GLSLstd450SMax        uint32 = 42
	GLSLstd450FMix        uint32 = 46
	GLSLstd450Fma         uint32 = 50
	GLSLstd450Ldexp       uint32 = 53
)
