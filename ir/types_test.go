package ir

import (
	"math"
	"testing"
)

func TestParseTypeRoundTrip(t *testing.T) {
	spellings := []string{
		"float", "int", "uint", "bool", "void",
		"vec2", "vec4", "ivec3", "uvec2", "bvec4",
		"mat2", "mat4", "mat2x4", "mat3x2",
		"float[4]", "vec3[2]",
		"struct Light",
		"sampler2D", "sampler3D", "samplerCube", "sampler2DShadow",
		"sampler2DArray", "sampler2DArrayShadow", "isampler2D", "usamplerBuffer",
		"sampler2DMS", "samplerExternal",
	}
	for _, s := range spellings {
		t.Run(s, func(t *testing.T) {
			typ, err := ParseType(s)
			if err != nil {
				t.Fatalf("ParseType(%q): %v", s, err)
			}
			if got := typ.String(); got != s {
				t.Errorf("String() = %q, want %q", got, s)
			}
			again, err := ParseType(typ.String())
			if err != nil {
				t.Fatalf("ParseType(%q): %v", typ.String(), err)
			}
			if !typ.Equal(again) {
				t.Errorf("%s does not equal its reparse", s)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, s := range []string{
		"", "double", "vec1", "vec5", "mat1", "mat2x5", "float[0]", "float[x]",
		"sampler4D", "ivecx", "float]",
	} {
		if _, err := ParseType(s); err == nil {
			t.Errorf("ParseType(%q) succeeded", s)
		}
	}
}

func TestTypeShape(t *testing.T) {
	tests := []struct {
		typ        *Type
		components uint32
		columns    uint32
		scalar     bool
		vector     bool
		matrix     bool
	}{
		{Float(), 1, 1, true, false, false},
		{Vec(3), 3, 1, false, true, false},
		{BVec(2), 2, 1, false, true, false},
		{Mat(3, 3), 9, 3, false, false, true},
		{Mat(2, 4), 8, 2, false, false, true},
		{ArrayOf(Mat(2, 2), 4), 0, 2, false, false, false},
		{Sampler(Dim2D), 0, 1, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.Components(); got != tt.components {
				t.Errorf("Components() = %d, want %d", got, tt.components)
			}
			if got := tt.typ.Columns(); got != tt.columns {
				t.Errorf("Columns() = %d, want %d", got, tt.columns)
			}
			if tt.typ.IsScalar() != tt.scalar || tt.typ.IsVector() != tt.vector || tt.typ.IsMatrix() != tt.matrix {
				t.Errorf("scalar/vector/matrix = %v/%v/%v, want %v/%v/%v",
					tt.typ.IsScalar(), tt.typ.IsVector(), tt.typ.IsMatrix(),
					tt.scalar, tt.vector, tt.matrix)
			}
		})
	}
}

func TestElementType(t *testing.T) {
	if got := ArrayOf(Vec(4), 3).ElementType(); !got.Equal(Vec(4)) {
		t.Errorf("array element = %s, want vec4", got)
	}
	if got := Mat(3, 2).ElementType(); !got.Equal(Vec(2)) {
		t.Errorf("matrix element = %s, want vec2", got)
	}
	if got := IVec(3).ElementType(); !got.Equal(Int()) {
		t.Errorf("vector element = %s, want int", got)
	}
	if got := Float().ElementType(); got != nil {
		t.Errorf("scalar element = %s, want nil", got)
	}
}

func TestTypeEqual(t *testing.T) {
	light := Struct("Light", StructField{Name: "color", Type: Vec(3)})
	tests := []struct {
		name string
		a, b *Type
		want bool
	}{
		{"same scalar", Float(), Float(), true},
		{"different base", Float(), Int(), false},
		{"vector width", Vec(3), Vec(4), false},
		{"matrix shape", Mat(2, 3), Mat(3, 2), false},
		{"array length", ArrayOf(Float(), 2), ArrayOf(Float(), 3), false},
		{"array element", ArrayOf(Vec(2), 2), ArrayOf(Vec(2), 2), true},
		{"struct fields", light, Struct("Light", StructField{Name: "color", Type: Vec(3)}), true},
		{"struct field type", light, Struct("Light", StructField{Name: "color", Type: Vec(4)}), false},
		{"sampler shadow", Sampler(Dim2D), &Type{Base: BaseSampler, Sampler: SamplerType{Dim: Dim2D, Shadow: true}}, false},
		{"nil", Float(), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructField(t *testing.T) {
	s := Struct("Material",
		StructField{Name: "albedo", Type: Vec(4)},
		StructField{Name: "roughness", Type: Float()},
	)
	typ, idx := s.Field("roughness")
	if idx != 1 || !typ.Equal(Float()) {
		t.Errorf("Field(roughness) = %s, %d", typ, idx)
	}
	if _, idx := s.Field("missing"); idx != -1 {
		t.Errorf("Field(missing) index = %d, want -1", idx)
	}
}

func TestFullMask(t *testing.T) {
	tests := []struct {
		typ  *Type
		want uint32
	}{
		{Float(), 0x1},
		{Vec(3), 0x7},
		{Vec(4), 0xF},
		{Mat(4, 4), 0xFFFF},
		{Sampler(Dim2D), 0},
	}
	for _, tt := range tests {
		if got := FullMask(tt.typ); got != tt.want {
			t.Errorf("FullMask(%s) = %#x, want %#x", tt.typ, got, tt.want)
		}
	}
}

func TestConstantWord(t *testing.T) {
	tests := []struct {
		name string
		c    *Constant
		want uint32
	}{
		{"float one", ConstFloat(1), 0x3F800000},
		{"negative int", ConstInt(-1), 0xFFFFFFFF},
		{"uint", ConstUint(7), 7},
		{"true", ConstBool(true), 1},
		{"false", ConstBool(false), 0},
	}
	for _, tt := range tests {
		if got := tt.c.Word(0); got != tt.want {
			t.Errorf("%s: Word(0) = %#x, want %#x", tt.name, got, tt.want)
		}
	}
}

func TestSmallIndex(t *testing.T) {
	tests := []struct {
		c    *Constant
		want int
		ok   bool
	}{
		{ConstInt(3), 3, true},
		{ConstUint(15), 15, true},
		{ConstInt(16), 0, false},
		{ConstInt(-1), 0, false},
		{ConstFloat(2), 2, true},
		{ConstFloat(2.5), 0, false},
		{ConstFloat(15), 15, true},
		{ConstFloat(16), 0, false},
		{ConstFloat(float32(math.Copysign(0, -1))), 0, false},
		{ConstFloat(0), 0, true},
		{ConstFloats(Vec(2), 1, 2), 0, false},
	}
	for i, tt := range tests {
		got, ok := tt.c.SmallIndex()
		if got != tt.want || ok != tt.ok {
			t.Errorf("case %d: SmallIndex() = %d, %v, want %d, %v", i, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSwizzleType(t *testing.T) {
	v := &Variable{Name: "color", Type: Vec(4)}
	s := NewSwizzle(Deref(v), 2, 1)
	if !s.Type().Equal(Vec(2)) {
		t.Errorf("swizzle type = %s, want vec2", s.Type())
	}
	if !NewSwizzle(Deref(v), 3).Type().Equal(Float()) {
		t.Error("single component swizzle should be scalar")
	}
}

func TestOperationArity(t *testing.T) {
	tests := []struct {
		op   Operation
		want int
	}{
		{OpNeg, 1},
		{OpDFdy, 1},
		{OpAdd, 2},
		{OpRshift, 2},
		{OpFma, 3},
		{OpCsel, 3},
		{operationCount, 0},
	}
	for _, tt := range tests {
		if got := tt.op.Arity(); got != tt.want {
			t.Errorf("%s.Arity() = %d, want %d", tt.op, got, tt.want)
		}
	}
}
