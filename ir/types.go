package ir

import (
	"strconv"
	"strings"
)

// BaseType is the fundamental kind of a type descriptor.
type BaseType uint8

const (
	BaseFloat BaseType = iota
	BaseInt
	BaseUint
	BaseBool
	BaseSampler
	BaseStruct
	BaseArray
	BaseVoid
)

// String returns the GLSL-style spelling of the base type.
func (b BaseType) String() string {
	switch b {
	case BaseFloat:
		return "float"
	case BaseInt:
		return "int"
	case BaseUint:
		return "uint"
	case BaseBool:
		return "bool"
	case BaseSampler:
		return "sampler"
	case BaseStruct:
		return "struct"
	case BaseArray:
		return "array"
	case BaseVoid:
		return "void"
	default:
		return "base(" + strconv.Itoa(int(b)) + ")"
	}
}

// SamplerDim is the dimensionality of a sampler type.
type SamplerDim uint8

const (
	Dim1D SamplerDim = iota
	Dim2D
	Dim3D
	DimCube
	DimRect
	DimBuffer
	DimExternal
	DimMS
	DimSubpass
)

var samplerDimNames = [...]string{
	Dim1D:       "1D",
	Dim2D:       "2D",
	Dim3D:       "3D",
	DimCube:     "Cube",
	DimRect:     "2DRect",
	DimBuffer:   "Buffer",
	DimExternal: "External",
	DimMS:       "2DMS",
	DimSubpass:  "Subpass",
}

func (d SamplerDim) String() string {
	if int(d) < len(samplerDimNames) {
		return samplerDimNames[d]
	}
	return "dim(" + strconv.Itoa(int(d)) + ")"
}

// SamplerType describes the opaque part of a sampler type.
type SamplerType struct {
	Dim     SamplerDim
	Shadow  bool
	Arrayed bool
	// Result is the scalar kind returned by a sample (float, int or uint).
	Result BaseType
}

// StructField is one member of a struct type.
type StructField struct {
	Name string
	Type *Type
}

// Type is a shape descriptor. Two descriptors denote the same type iff
// Equal reports true; pointer identity carries no meaning.
type Type struct {
	Base BaseType

	// VectorElements is the number of components per column (1 for scalars).
	VectorElements uint32
	// MatrixColumns is the number of columns (1 for non-matrix types).
	MatrixColumns uint32

	// Element and Length describe arrays.
	Element *Type
	Length  uint32

	// Name and Fields describe structs.
	Name   string
	Fields []StructField

	Sampler SamplerType
}

func numeric(base BaseType, elements, columns uint32) *Type {
	return &Type{Base: base, VectorElements: elements, MatrixColumns: columns}
}

// Float returns the float scalar type.
func Float() *Type { return numeric(BaseFloat, 1, 1) }

// Vec returns a float vector type with n components.
func Vec(n uint32) *Type { return numeric(BaseFloat, n, 1) }

// Mat returns a float matrix type with the given column and row counts.
func Mat(columns, rows uint32) *Type { return numeric(BaseFloat, rows, columns) }

// Int returns the signed integer scalar type.
func Int() *Type { return numeric(BaseInt, 1, 1) }

// IVec returns a signed integer vector type with n components.
func IVec(n uint32) *Type { return numeric(BaseInt, n, 1) }

// Uint returns the unsigned integer scalar type.
func Uint() *Type { return numeric(BaseUint, 1, 1) }

// UVec returns an unsigned integer vector type with n components.
func UVec(n uint32) *Type { return numeric(BaseUint, n, 1) }

// Bool returns the boolean scalar type.
func Bool() *Type { return numeric(BaseBool, 1, 1) }

// BVec returns a boolean vector type with n components.
func BVec(n uint32) *Type { return numeric(BaseBool, n, 1) }

// Void returns the void type.
func Void() *Type { return &Type{Base: BaseVoid} }

// ArrayOf returns a fixed-size array type.
func ArrayOf(element *Type, length uint32) *Type {
	return &Type{Base: BaseArray, Element: element, Length: length}
}

// Sampler returns a float-result sampler type of the given dimensionality.
func Sampler(dim SamplerDim) *Type {
	return &Type{Base: BaseSampler, Sampler: SamplerType{Dim: dim, Result: BaseFloat}}
}

// Struct returns a struct type.
func Struct(name string, fields ...StructField) *Type {
	return &Type{Base: BaseStruct, Name: name, Fields: fields}
}

func (t *Type) isValueBase() bool {
	return t.Base == BaseFloat || t.Base == BaseInt || t.Base == BaseUint || t.Base == BaseBool
}

// IsScalar reports whether t is a single numeric or boolean component.
func (t *Type) IsScalar() bool {
	return t.isValueBase() && t.VectorElements == 1 && t.MatrixColumns == 1
}

// IsVector reports whether t is a vector (not a matrix).
func (t *Type) IsVector() bool {
	return t.isValueBase() && t.VectorElements > 1 && t.MatrixColumns == 1
}

// IsMatrix reports whether t has more than one column.
func (t *Type) IsMatrix() bool {
	return t.isValueBase() && t.MatrixColumns > 1
}

func (t *Type) IsArray() bool   { return t.Base == BaseArray }
func (t *Type) IsSampler() bool { return t.Base == BaseSampler }
func (t *Type) IsStruct() bool  { return t.Base == BaseStruct }
func (t *Type) IsFloat() bool   { return t.Base == BaseFloat }
func (t *Type) IsBool() bool    { return t.Base == BaseBool }

// IsInteger reports whether t is a signed or unsigned integer shape.
func (t *Type) IsInteger() bool { return t.Base == BaseInt || t.Base == BaseUint }

// Components returns the number of scalar components of a numeric or
// boolean shape, or 0 for other types.
func (t *Type) Components() uint32 {
	if !t.isValueBase() {
		return 0
	}
	return t.VectorElements * t.MatrixColumns
}

// Columns returns the matrix column count, treating scalars and vectors as
// one column and arrays by their element.
func (t *Type) Columns() uint32 {
	switch {
	case t.IsArray():
		return t.Element.Columns()
	case t.isValueBase():
		return t.MatrixColumns
	default:
		return 1
	}
}

// ScalarType returns the scalar type of a numeric or boolean shape.
func (t *Type) ScalarType() *Type {
	return numeric(t.Base, 1, 1)
}

// ColumnType returns the type of one matrix column.
func (t *Type) ColumnType() *Type {
	return numeric(t.Base, t.VectorElements, 1)
}

// ElementType returns the type produced by indexing t: the element of an
// array, the column of a matrix or the component of a vector.
func (t *Type) ElementType() *Type {
	switch {
	case t.IsArray():
		return t.Element
	case t.IsMatrix():
		return t.ColumnType()
	case t.IsVector():
		return t.ScalarType()
	default:
		return nil
	}
}

// Field returns the named struct member type and its index.
func (t *Type) Field(name string) (*Type, int) {
	for i, f := range t.Fields {
		if f.Name == name {
			return f.Type, i
		}
	}
	return nil, -1
}

// Equal reports whether two descriptors have identical shape parameters.
func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.Base != o.Base {
		return false
	}
	switch t.Base {
	case BaseArray:
		return t.Length == o.Length && t.Element.Equal(o.Element)
	case BaseStruct:
		if t.Name != o.Name || len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if t.Fields[i].Name != o.Fields[i].Name || !t.Fields[i].Type.Equal(o.Fields[i].Type) {
				return false
			}
		}
		return true
	case BaseSampler:
		return t.Sampler == o.Sampler
	case BaseVoid:
		return true
	default:
		return t.VectorElements == o.VectorElements && t.MatrixColumns == o.MatrixColumns
	}
}

var vectorPrefix = map[BaseType]string{
	BaseFloat: "vec",
	BaseInt:   "ivec",
	BaseUint:  "uvec",
	BaseBool:  "bvec",
}

// String returns the GLSL spelling of the type, e.g. "vec3", "mat2x4",
// "float[4]" or "sampler2D".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Base {
	case BaseArray:
		return t.Element.String() + "[" + strconv.FormatUint(uint64(t.Length), 10) + "]"
	case BaseStruct:
		return "struct " + t.Name
	case BaseVoid:
		return "void"
	case BaseSampler:
		var sb strings.Builder
		switch t.Sampler.Result {
		case BaseInt:
			sb.WriteByte('i')
		case BaseUint:
			sb.WriteByte('u')
		}
		sb.WriteString("sampler")
		sb.WriteString(t.Sampler.Dim.String())
		if t.Sampler.Arrayed {
			sb.WriteString("Array")
		}
		if t.Sampler.Shadow {
			sb.WriteString("Shadow")
		}
		return sb.String()
	}

	switch {
	case t.IsScalar():
		return t.Base.String()
	case t.IsVector():
		return vectorPrefix[t.Base] + strconv.FormatUint(uint64(t.VectorElements), 10)
	case t.IsMatrix():
		cols := strconv.FormatUint(uint64(t.MatrixColumns), 10)
		if t.MatrixColumns == t.VectorElements {
			return "mat" + cols
		}
		return "mat" + cols + "x" + strconv.FormatUint(uint64(t.VectorElements), 10)
	default:
		return t.Base.String()
	}
}
