package spirv

import "github.com/gogpu/spvgen/ir"

// textureOperands holds the ids visited for one texture operation.
type textureOperands struct {
	sampler    uint32
	coordinate uint32
	offset     uint32
	projector  uint32
	bias       uint32
	trailing   []uint32
}

func hasCoordinate(op ir.TextureOp) bool {
	switch op {
	case ir.TexSize, ir.TexQueryLevels, ir.TexSamples:
		return false
	}
	return true
}

func hasProjector(op ir.TextureOp) bool {
	switch op {
	case ir.TexFetch, ir.TexFetchMS, ir.TexSize, ir.TexGather, ir.TexQueryLevels, ir.TexSamples:
		return false
	}
	return true
}

// textureOpcode returns the image instruction for op, or OpNop when the
// operation has none.
func textureOpcode(op ir.TextureOp, projected bool) OpCode {
	switch op {
	case ir.TexSample, ir.TexBias:
		if projected {
			return OpImageSampleProjImplicitLod
		}
		return OpImageSampleImplicitLod
	case ir.TexLod:
		if projected {
			return OpImageSampleProjExplicitLod
		}
		return OpImageSampleExplicitLod
	case ir.TexGrad:
		return OpImageGather
	case ir.TexFetch:
		return OpImageFetch
	default:
		return OpNop
	}
}

// textureOperands visits the operands of x in their fixed order: sampler,
// coordinate, offset, projector, then the operation-specific one.
func (t *translator) textureOperands(x *ir.Texture) (textureOperands, error) {
	var ops textureOperands
	var err error

	if ops.sampler, err = t.value(x.Sampler); err != nil {
		return ops, err
	}
	if hasCoordinate(x.Op) {
		if ops.coordinate, err = t.value(x.Coordinate); err != nil {
			return ops, err
		}
		if ops.offset, err = t.optionalValue(x.Offset); err != nil {
			return ops, err
		}
	}
	if hasProjector(x.Op) {
		if ops.projector, err = t.optionalValue(x.Projector); err != nil {
			return ops, err
		}
	}

	var trailing []ir.Value
	switch x.Op {
	case ir.TexBias:
		trailing = []ir.Value{x.Bias}
	case ir.TexLod, ir.TexFetch, ir.TexSize:
		trailing = []ir.Value{x.Lod}
	case ir.TexFetchMS:
		trailing = []ir.Value{x.SampleIndex}
	case ir.TexGrad:
		trailing = []ir.Value{x.DPdx, x.DPdy}
	case ir.TexGather:
		trailing = []ir.Value{x.Component}
	}
	for _, v := range trailing {
		id, err := t.value(v)
		if err != nil {
			return ops, err
		}
		ops.trailing = append(ops.trailing, id)
	}
	if x.Op == ir.TexBias {
		ops.bias = ops.trailing[0]
	}
	return ops, nil
}

// texture lowers a sampling operation. Only implicit-LOD sampling is
// serialized; the other operations are reported as unsupported once their
// operands have been visited.
func (t *translator) texture(x *ir.Texture) error {
	if x.Op == ir.TexSamplesIdentical {
		if _, err := t.value(x.Sampler); err != nil {
			return err
		}
		if _, err := t.value(x.Coordinate); err != nil {
			return err
		}
		t.b.Diagnose("Texture", "%s is not supported", x.Op)
		return nil
	}

	ops, err := t.textureOperands(x)
	if err != nil {
		return err
	}

	projected := ops.projector != 0
	opcode := textureOpcode(x.Op, projected)
	if x.Op != ir.TexSample && x.Op != ir.TexBias {
		if opcode == OpNop {
			t.b.Diagnose("Texture", "%s is not supported", x.Op)
		} else {
			t.b.Diagnose("Texture", "%s (%s) is not supported", x.Op, OpcodeName(opcode))
		}
		return nil
	}

	resultType := t.b.ResolveType(x.ResultType)
	if resultType == 0 {
		return nil
	}

	coordinate := ops.coordinate
	if projected {
		coordinate, err = t.projectedCoordinate(x, ops)
		if err != nil || coordinate == 0 {
			return err
		}
	}

	words := []uint32{resultType, 0, ops.sampler, coordinate}
	var mask ImageOperands
	var operands []uint32
	if ops.bias != 0 {
		mask |= ImageOperandsBias
		operands = append(operands, ops.bias)
	}
	if ops.offset != 0 {
		if _, isConst := x.Offset.(*ir.Constant); isConst {
			mask |= ImageOperandsConstOffset
		} else {
			mask |= ImageOperandsOffset
			t.b.RequireCapability(CapabilityImageGatherExtended)
		}
		operands = append(operands, ops.offset)
	}
	if mask != ImageOperandsNone {
		words = append(words, uint32(mask))
		words = append(words, operands...)
	}

	id := t.b.AllocID()
	words[1] = id
	t.b.emit(opcode, words...)

	if d, ok := x.Sampler.(*ir.DerefVariable); ok && d.Var.Precision == ir.PrecisionMedium {
		t.b.AddDecorate(id, DecorationRelaxedPrecision)
	}
	t.b.setValue(x, id)
	return nil
}

// projectedCoordinate appends the projector to the coordinate.
func (t *translator) projectedCoordinate(x *ir.Texture, ops textureOperands) (uint32, error) {
	coordType := x.Coordinate.Type()
	if coordType == nil || coordType.Components() == 0 || coordType.Components() > 3 {
		return 0, newError(ErrMalformedIR, "projected coordinate of type %s", coordType)
	}
	typeID := t.b.ResolveType(ir.Vec(coordType.Components() + 1))
	id := t.b.AllocID()
	t.b.emit(OpCompositeConstruct, typeID, id, ops.coordinate, ops.projector)
	return id, nil
}
