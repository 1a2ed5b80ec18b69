package spirv

import (
	"strings"
	"testing"

	"github.com/gogpu/spvgen/ir"
)

type textureFixture struct {
	sampler *ir.Variable
	uv      *ir.Variable
	scalar  *ir.Variable
	offset  *ir.Variable
	color   *ir.Variable
}

func newTextureFixture() *textureFixture {
	return &textureFixture{
		sampler: variable("tex", ir.Sampler(ir.Dim2D), ir.ModeUniform),
		uv:      variable("uv", ir.Vec(2), ir.ModeShaderIn),
		scalar:  variable("w", ir.Float(), ir.ModeShaderIn),
		offset:  variable("off", ir.IVec(2), ir.ModeShaderIn),
		color:   variable("color", ir.Vec(4), ir.ModeShaderOut),
	}
}

func (f *textureFixture) sample(op ir.TextureOp) *ir.Texture {
	return &ir.Texture{
		Op:         op,
		ResultType: ir.Vec(4),
		Sampler:    ir.Deref(f.sampler),
		Coordinate: ir.Deref(f.uv),
	}
}

func (f *textureFixture) module(body ...ir.Node) *ir.Module {
	return fragment(f.sampler, f.uv, f.scalar, f.offset, f.color, mainFunction(body...))
}

func (f *textureFixture) assign(x *ir.Texture) *ir.Module {
	return f.module(ir.Assign(ir.Deref(f.color), x))
}

func TestTextureSample(t *testing.T) {
	f := newTextureFixture()
	res, insts := mustCompile(t, f.assign(f.sample(ir.TexSample)))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}

	samples := findOpcode(insts, OpImageSampleImplicitLod)
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	ops := samples[0].Operands
	if len(ops) != 4 {
		t.Errorf("sample has %d operands, want 4 (no image operands)", len(ops))
	}
	loads := findOpcode(insts, OpLoad)
	if len(loads) != 2 {
		t.Fatalf("got %d loads, want 2 (sampler and coordinate)", len(loads))
	}
	if ops[2] != loads[0].Operands[1] || ops[3] != loads[1].Operands[1] {
		t.Errorf("sample reads %v, want sampler %d and coordinate %d", ops[2:4], loads[0].Operands[1], loads[1].Operands[1])
	}
}

func TestTextureImageOperands(t *testing.T) {
	tests := []struct {
		name     string
		build    func(f *textureFixture) *ir.Texture
		mask     ImageOperands
		operands int
		cap      bool
	}{
		{
			name: "bias",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexBias)
				x.Bias = ir.Deref(f.scalar)
				return x
			},
			mask:     ImageOperandsBias,
			operands: 1,
		},
		{
			name: "constant offset",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexSample)
				x.Offset = &ir.Constant{ResultType: ir.IVec(2), Ints: []int32{1, -1}}
				return x
			},
			mask:     ImageOperandsConstOffset,
			operands: 1,
		},
		{
			name: "dynamic offset",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexSample)
				x.Offset = ir.Deref(f.offset)
				return x
			},
			mask:     ImageOperandsOffset,
			operands: 1,
			cap:      true,
		},
		{
			name: "bias and offset",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexBias)
				x.Bias = ir.Deref(f.scalar)
				x.Offset = &ir.Constant{ResultType: ir.IVec(2), Ints: []int32{2, 2}}
				return x
			},
			mask:     ImageOperandsBias | ImageOperandsConstOffset,
			operands: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTextureFixture()
			_, insts := mustCompile(t, f.assign(tt.build(f)))
			sample := findOpcode(insts, OpImageSampleImplicitLod)
			if len(sample) != 1 {
				t.Fatalf("got %d samples, want 1", len(sample))
			}
			ops := sample[0].Operands
			if len(ops) != 5+tt.operands {
				t.Fatalf("sample operands = %v, want mask and %d operands", ops, tt.operands)
			}
			if ImageOperands(ops[4]) != tt.mask {
				t.Errorf("mask = 0x%X, want 0x%X", ops[4], tt.mask)
			}
			gather := false
			for _, c := range findOpcode(insts, OpCapability) {
				if Capability(c.Operands[0]) == CapabilityImageGatherExtended {
					gather = true
				}
			}
			if gather != tt.cap {
				t.Errorf("ImageGatherExtended declared = %v, want %v", gather, tt.cap)
			}
		})
	}
}

func TestTextureProjected(t *testing.T) {
	f := newTextureFixture()
	x := f.sample(ir.TexSample)
	x.Projector = ir.Deref(f.scalar)
	_, insts := mustCompile(t, f.assign(x))

	construct := findOpcode(insts, OpCompositeConstruct)
	if len(construct) != 1 {
		t.Fatalf("got %d composite constructs, want 1", len(construct))
	}
	proj := findOpcode(insts, OpImageSampleProjImplicitLod)
	if len(proj) != 1 {
		t.Fatalf("got %d projected samples, want 1", len(proj))
	}
	if proj[0].Operands[3] != construct[0].Operands[1] {
		t.Errorf("projected sample coordinate %d, want the constructed vector %d", proj[0].Operands[3], construct[0].Operands[1])
	}
	if n := countOpcode(insts, OpImageSampleImplicitLod); n != 0 {
		t.Errorf("got %d unprojected samples, want 0", n)
	}
}

func TestTextureUnsupportedOperations(t *testing.T) {
	tests := []struct {
		name    string
		build   func(f *textureFixture) *ir.Texture
		message string
	}{
		{
			name: "txl",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexLod)
				x.Lod = ir.Deref(f.scalar)
				return x
			},
			message: "OpImageSampleExplicitLod",
		},
		{
			name: "tg4",
			build: func(f *textureFixture) *ir.Texture {
				x := f.sample(ir.TexGather)
				x.Component = ir.ConstInt(0)
				return x
			},
			message: "tg4",
		},
		{
			name: "samples_identical",
			build: func(f *textureFixture) *ir.Texture {
				return f.sample(ir.TexSamplesIdentical)
			},
			message: "samples_identical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTextureFixture()
			res, insts := mustCompile(t, f.module(tt.build(f)))
			if len(res.Diagnostics) != 1 {
				t.Fatalf("diagnostics = %v, want 1", res.Diagnostics)
			}
			if !strings.Contains(res.Diagnostics[0].Message, tt.message) {
				t.Errorf("diagnostic %q does not mention %q", res.Diagnostics[0].Message, tt.message)
			}
			if n := countOpcode(insts, OpImageSampleExplicitLod); n != 0 {
				t.Errorf("unsupported operation emitted %d samples", n)
			}
		})
	}
}

func TestTextureMissingOperand(t *testing.T) {
	f := newTextureFixture()
	x := f.sample(ir.TexBias)
	e := compileError(t, f.assign(x))
	if e.Kind != ErrMalformedIR {
		t.Errorf("error kind = %s, want MalformedIR", e.Kind)
	}
}

func TestTextureRelaxedSampler(t *testing.T) {
	f := newTextureFixture()
	f.sampler.Precision = ir.PrecisionMedium
	_, insts := mustCompile(t, f.assign(f.sample(ir.TexSample)))
	id := findOpcode(insts, OpImageSampleImplicitLod)[0].Operands[1]
	if !hasDecoration(insts, id, DecorationRelaxedPrecision) {
		t.Error("sample through a medium precision sampler not decorated")
	}
}
