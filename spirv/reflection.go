package spirv

import (
	"strconv"

	"github.com/gogpu/spvgen/ir"
)

// EntityKind is the kind of a reflected binding. Values are the GL program
// interface enums the host driver expects.
type EntityKind uint32

const (
	EntitySampler       EntityKind = 0x82E6 // GL_SAMPLER
	EntityUniform       EntityKind = 0x92E1 // GL_UNIFORM
	EntityProgramInput  EntityKind = 0x92E3 // GL_PROGRAM_INPUT
	EntityProgramOutput EntityKind = 0x92E4 // GL_PROGRAM_OUTPUT
)

func (k EntityKind) String() string {
	switch k {
	case EntitySampler:
		return "Sampler"
	case EntityUniform:
		return "Uniform"
	case EntityProgramInput:
		return "ProgramInput"
	case EntityProgramOutput:
		return "ProgramOutput"
	default:
		return "0x" + strconv.FormatUint(uint64(k), 16)
	}
}

// ComponentClass is the scalar class or sampler type of a reflected entry,
// encoded as the matching GL type enum.
type ComponentClass uint32

const (
	ClassFloat           ComponentClass = 0x1406 // GL_FLOAT
	ClassInt             ComponentClass = 0x1404 // GL_INT
	ClassSampler1D       ComponentClass = 0x8B5D // GL_SAMPLER_1D
	ClassSampler2D       ComponentClass = 0x8B5E // GL_SAMPLER_2D
	ClassSampler3D       ComponentClass = 0x8B5F // GL_SAMPLER_3D
	ClassSamplerCube     ComponentClass = 0x8B60 // GL_SAMPLER_CUBE
	ClassSamplerRect     ComponentClass = 0x8B63 // GL_SAMPLER_2D_RECT
	ClassSamplerBuffer   ComponentClass = 0x8DC2 // GL_SAMPLER_BUFFER
	ClassSamplerExternal ComponentClass = 0x8D66 // GL_SAMPLER_EXTERNAL_OES
	ClassSamplerMS       ComponentClass = 0x9108 // GL_SAMPLER_2D_MULTISAMPLE
)

var classNames = map[ComponentClass]string{
	ClassFloat:           "Float",
	ClassInt:             "Int",
	ClassSampler1D:       "Sampler1D",
	ClassSampler2D:       "Sampler2D",
	ClassSampler3D:       "Sampler3D",
	ClassSamplerCube:     "SamplerCube",
	ClassSamplerRect:     "SamplerRect",
	ClassSamplerBuffer:   "SamplerBuffer",
	ClassSamplerExternal: "SamplerExternal",
	ClassSamplerMS:       "SamplerMS",
}

func (c ComponentClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "0x" + strconv.FormatUint(uint64(c), 16)
}

// samplerClass maps a sampler dimensionality to its reflection class.
// Subpass inputs have no GL sampler type and are reported as 2D.
func samplerClass(dim ir.SamplerDim) ComponentClass {
	switch dim {
	case ir.Dim1D:
		return ClassSampler1D
	case ir.Dim3D:
		return ClassSampler3D
	case ir.DimCube:
		return ClassSamplerCube
	case ir.DimRect:
		return ClassSamplerRect
	case ir.DimBuffer:
		return ClassSamplerBuffer
	case ir.DimExternal:
		return ClassSamplerExternal
	case ir.DimMS:
		return ClassSamplerMS
	default:
		return ClassSampler2D
	}
}

// scalarClass reports Float for float shapes (and arrays of them) and Int
// for everything else.
func scalarClass(t *ir.Type) ComponentClass {
	if t.IsFloat() || (t.IsArray() && t.Element.IsFloat()) {
		return ClassFloat
	}
	return ClassInt
}

// ReflectionEntry describes one external binding of a module.
type ReflectionEntry struct {
	Kind   EntityKind     `json:"kind"`
	Name   string         `json:"name"`
	Class  ComponentClass `json:"class"`
	Offset uint32         `json:"offset"`
}

// encodeReflection appends e as: kind, name string, class, offset.
func encodeReflection(s *WordStream, e ReflectionEntry) {
	s.Push(uint32(e.Kind))
	s.PushString(e.Name)
	s.Push(uint32(e.Class))
	s.Push(e.Offset)
}

// DecodeReflection parses a reflection word stream.
func DecodeReflection(words []uint32) ([]ReflectionEntry, error) {
	var entries []ReflectionEntry
	for i := 0; i < len(words); {
		if i+1 >= len(words) {
			return nil, newError(ErrMalformedIR, "truncated reflection entry at word %d", i)
		}
		e := ReflectionEntry{Kind: EntityKind(words[i])}
		name, n := readString(words[i+1:])
		if n == 0 || i+1+n+2 > len(words) {
			return nil, newError(ErrMalformedIR, "truncated reflection entry at word %d", i)
		}
		e.Name = name
		i += 1 + n
		e.Class = ComponentClass(words[i])
		e.Offset = words[i+1]
		i += 2
		entries = append(entries, e)
	}
	return entries, nil
}
