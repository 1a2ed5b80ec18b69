package spirv

import "github.com/gogpu/spvgen/ir"

// ResolveType returns the id of the SPIR-V type for t, emitting whatever
// declarations are missing. Shapes with no SPIR-V rendition here yield 0
// and an Unsupported diagnostic.
func (b *ModuleBuilder) ResolveType(t *ir.Type) uint32 {
	if t == nil {
		b.Diagnose("Type", "missing type")
		return 0
	}

	var id uint32
	switch t.Base {
	case ir.BaseArray:
		return b.arrayType(t)
	case ir.BaseFloat:
		id = b.FloatType(t.VectorElements, t.MatrixColumns)
	case ir.BaseInt:
		id = b.IntType(t.VectorElements, t.MatrixColumns)
	case ir.BaseUint:
		id = b.UintType(t.VectorElements, t.MatrixColumns)
	case ir.BaseBool:
		if t.MatrixColumns <= 1 {
			id = b.BoolType(t.VectorElements)
		}
	case ir.BaseSampler:
		_, id = b.samplerTypes(t.Sampler)
	default:
		b.Diagnose("Type", "type %s has no SPIR-V mapping", t)
		return 0
	}
	if id == 0 {
		b.Diagnose("Type", "invalid shape %s", t)
	}
	return id
}

// arrayType emits a fresh OpTypeArray. Arrays are never cached.
func (b *ModuleBuilder) arrayType(t *ir.Type) uint32 {
	if t.Element == nil || t.Length == 0 {
		b.Diagnose("Type", "array %s has no element type or length", t)
		return 0
	}
	elem := b.ResolveType(t.Element)
	if elem == 0 {
		return 0
	}
	var length uint32
	if t.Length < smallConstantCount {
		length = b.ConstInt(int(t.Length))
	} else {
		length = b.constant(b.IntType(1, 1), t.Length)
	}
	id := b.AllocID()
	b.emitType(OpTypeArray, id, elem, length)
	return id
}

type samplerTypeIDs struct {
	image   uint32
	sampled uint32
}

// samplerDims maps sampler dimensionality to the image Dim operand.
// External and multisample samplers are approximated as 1D.
var samplerDims = [...]Dim{
	ir.Dim1D:       Dim1D,
	ir.Dim2D:       Dim2D,
	ir.Dim3D:       Dim3D,
	ir.DimCube:     DimCube,
	ir.DimRect:     DimRect,
	ir.DimBuffer:   DimBuffer,
	ir.DimExternal: Dim1D,
	ir.DimMS:       Dim1D,
	ir.DimSubpass:  DimSubpassData,
}

// samplerTypes returns the image and sampled-image types for s, declaring
// the capability its dimensionality needs.
func (b *ModuleBuilder) samplerTypes(s ir.SamplerType) (image, sampled uint32) {
	if int(s.Dim) >= len(samplerDims) {
		return 0, 0
	}
	if b.samplers == nil {
		b.samplers = make(map[ir.SamplerType]samplerTypeIDs)
	}
	if ids, ok := b.samplers[s]; ok {
		return ids.image, ids.sampled
	}

	var scalar uint32
	switch s.Result {
	case ir.BaseInt:
		scalar = b.IntType(1, 1)
	case ir.BaseUint:
		scalar = b.UintType(1, 1)
	default:
		scalar = b.FloatType(1, 1)
	}

	dim := samplerDims[s.Dim]
	switch dim {
	case Dim1D:
		b.RequireCapability(CapabilitySampled1D)
	case DimRect:
		b.RequireCapability(CapabilitySampledRect)
	case DimBuffer:
		b.RequireCapability(CapabilitySampledBuffer)
	case DimSubpassData:
		b.RequireCapability(CapabilityInputAttachment)
	}

	var depth, arrayed uint32
	if s.Shadow {
		depth = 1
	}
	if s.Arrayed {
		arrayed = 1
	}
	// Subpass inputs are read without a sampler.
	usage := uint32(1)
	if dim == DimSubpassData {
		usage = 2
	}

	image = b.AllocID()
	b.emitType(OpTypeImage, image, scalar, uint32(dim), depth, arrayed, 0, usage, ImageFormatUnknown)
	sampled = b.AllocID()
	b.emitType(OpTypeSampledImage, sampled, image)
	b.samplers[s] = samplerTypeIDs{image: image, sampled: sampled}
	return image, sampled
}
