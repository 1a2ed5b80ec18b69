package spirv

import (
	"fmt"
	"strconv"
	"strings"
)

var opcodeNames = map[OpCode]string{
	0: "OpNop", 1: "OpUndef", 2: "OpSourceContinued", 3: "OpSource",
	4: "OpSourceExtension", 5: "OpName", 6: "OpMemberName", 7: "OpString",
	10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 32: "OpTypePointer", 33: "OpTypeFunction",
	41: "OpConstantTrue", 42: "OpConstantFalse", 43: "OpConstant",
	44: "OpConstantComposite", 46: "OpConstantNull",
	54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
	57: "OpFunctionCall", 59: "OpVariable", 61: "OpLoad", 62: "OpStore",
	65: "OpAccessChain", 71: "OpDecorate", 72: "OpMemberDecorate",
	77: "OpVectorExtractDynamic", 78: "OpVectorInsertDynamic",
	79: "OpVectorShuffle", 80: "OpCompositeConstruct", 81: "OpCompositeExtract",
	82: "OpCompositeInsert", 83: "OpCopyObject", 84: "OpTranspose",
	86: "OpSampledImage", 87: "OpImageSampleImplicitLod",
	88: "OpImageSampleExplicitLod", 89: "OpImageSampleDrefImplicitLod",
	90: "OpImageSampleDrefExplicitLod", 91: "OpImageSampleProjImplicitLod",
	92: "OpImageSampleProjExplicitLod", 95: "OpImageFetch",
	96: "OpImageGather", 97: "OpImageDrefGather",
	103: "OpImageQuerySizeLod", 104: "OpImageQuerySize",
	105: "OpImageQueryLod", 106: "OpImageQueryLevels", 107: "OpImageQuerySamples",
	109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
	112: "OpConvertUToF", 124: "OpBitcast",
	126: "OpSNegate", 127: "OpFNegate", 128: "OpIAdd", 129: "OpFAdd",
	130: "OpISub", 131: "OpFSub", 132: "OpIMul", 133: "OpFMul",
	134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv", 137: "OpUMod",
	138: "OpSRem", 139: "OpSMod", 140: "OpFRem", 141: "OpFMod",
	142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
	144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
	146: "OpMatrixTimesMatrix", 147: "OpOuterProduct", 148: "OpDot",
	154: "OpAny", 155: "OpAll", 156: "OpIsNan", 157: "OpIsInf",
	164: "OpLogicalEqual", 165: "OpLogicalNotEqual", 166: "OpLogicalOr",
	167: "OpLogicalAnd", 168: "OpLogicalNot", 169: "OpSelect",
	170: "OpIEqual", 171: "OpINotEqual", 172: "OpUGreaterThan",
	173: "OpSGreaterThan", 174: "OpUGreaterThanEqual", 175: "OpSGreaterThanEqual",
	176: "OpULessThan", 177: "OpSLessThan", 178: "OpULessThanEqual",
	179: "OpSLessThanEqual", 180: "OpFOrdEqual", 181: "OpFUnordEqual",
	182: "OpFOrdNotEqual", 183: "OpFUnordNotEqual", 184: "OpFOrdLessThan",
	185: "OpFUnordLessThan", 186: "OpFOrdGreaterThan", 187: "OpFUnordGreaterThan",
	188: "OpFOrdLessThanEqual", 189: "OpFUnordLessThanEqual",
	190: "OpFOrdGreaterThanEqual", 191: "OpFUnordGreaterThanEqual",
	194: "OpShiftRightLogical", 195: "OpShiftRightArithmetic",
	196: "OpShiftLeftLogical", 197: "OpBitwiseOr", 198: "OpBitwiseXor",
	199: "OpBitwiseAnd", 200: "OpNot", 207: "OpDPdx", 208: "OpDPdy",
	209: "OpFwidth", 218: "OpEmitVertex", 219: "OpEndPrimitive",
	224: "OpControlBarrier", 225: "OpMemoryBarrier",
	245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
	255: "OpUnreachable",
}

// OpcodeName returns the mnemonic of op, e.g. "OpFAdd".
func OpcodeName(op OpCode) string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "Op" + strconv.Itoa(int(op))
}

func (op OpCode) String() string { return OpcodeName(op) }

var capabilityNames = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	4: "Addresses", 5: "Linkage", 6: "Kernel", 7: "Vector16",
	8: "Float16Buffer", 9: "Float16", 10: "Float64", 11: "Int64",
	12: "Int64Atomics", 13: "ImageBasic", 14: "ImageReadWrite", 15: "ImageMipmap",
	17: "Pipes", 18: "Groups", 19: "DeviceEnqueue", 20: "LiteralSampler",
	21: "AtomicStorage", 22: "Int16", 23: "TessellationPointSize",
	24: "GeometryPointSize", 25: "ImageGatherExtended", 27: "StorageImageMultisample",
	28: "UniformBufferArrayDynamicIndexing", 29: "SampledImageArrayDynamicIndexing",
	30: "StorageBufferArrayDynamicIndexing", 31: "StorageImageArrayDynamicIndexing",
	32: "ClipDistance", 33: "CullDistance", 34: "ImageCubeArray",
	35: "SampleRateShading", 36: "ImageRect", 37: "SampledRect",
	38: "GenericPointer", 39: "Int8", 40: "InputAttachment",
	41: "SparseResidency", 42: "MinLod", 43: "Sampled1D", 44: "Image1D",
	45: "SampledCubeArray", 46: "SampledBuffer", 47: "ImageBuffer",
	48: "ImageMSArray", 49: "StorageImageExtendedFormats",
	50: "ImageQuery", 51: "DerivativeControl", 52: "InterpolationFunction",
	53: "TransformFeedback", 54: "GeometryStreams",
}

func (c Capability) String() string { return lookup(capabilityNames, uint32(c)) }

var storageClassNames = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

func (s StorageClass) String() string { return lookup(storageClassNames, uint32(s)) }

var decorationNames = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	8: "GLSLShared", 9: "GLSLPacked", 10: "CPacked", 11: "BuiltIn",
	13: "NoPerspective", 14: "Flat", 15: "Patch", 16: "Centroid",
	17: "Sample", 18: "Invariant", 19: "Restrict", 20: "Aliased",
	21: "Volatile", 22: "Constant", 23: "Coherent", 24: "NonWritable",
	25: "NonReadable", 26: "Uniform", 30: "Location", 31: "Component",
	32: "Index", 33: "Binding", 34: "DescriptorSet", 35: "Offset",
}

func (d Decoration) String() string { return lookup(decorationNames, uint32(d)) }

var executionModeNames = map[uint32]string{
	0: "Invocations", 6: "PixelCenterInteger", 7: "OriginUpperLeft",
	8: "OriginLowerLeft", 9: "EarlyFragmentTests", 17: "LocalSize",
}

var executionModelNames = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

func (m ExecutionModel) String() string { return lookup(executionModelNames, uint32(m)) }

var sourceLanguageNames = map[uint32]string{
	0: "Unknown", 1: "ESSL", 2: "GLSL", 3: "OpenCL_C", 4: "OpenCL_CPP", 5: "HLSL",
}

var addressingModelNames = map[uint32]string{0: "Logical", 1: "Physical32", 2: "Physical64"}

var memoryModelNames = map[uint32]string{0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan"}

var dimNames = map[uint32]string{
	0: "1D", 1: "2D", 2: "3D", 3: "Cube", 4: "Rect", 5: "Buffer", 6: "SubpassData",
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}

// ParseCapability returns the capability with the given name, e.g. "Sampled1D".
func ParseCapability(name string) (Capability, error) {
	for v, s := range capabilityNames {
		if s == name {
			return Capability(v), nil
		}
	}
	return 0, fmt.Errorf("spirv: unknown capability %q", name)
}

// ParseSourceLanguage returns the OpSource language with the given name.
// Matching ignores case, so "essl" and "ESSL" are equivalent.
func ParseSourceLanguage(name string) (SourceLanguage, error) {
	for v, s := range sourceLanguageNames {
		if strings.EqualFold(s, name) {
			return SourceLanguage(v), nil
		}
	}
	return 0, fmt.Errorf("spirv: unknown source language %q", name)
}
