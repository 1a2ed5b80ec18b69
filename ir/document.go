package ir

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"sigs.k8s.io/yaml"
)

// A module document is a YAML description of a Module:
//
//	stage: fragment
//	precision: {float: medium, int: high}
//	variables:
//	  - {name: a, type: float, mode: in}
//	  - {name: color, type: vec4, mode: out}
//	functions:
//	  - name: main
//	    body:
//	      - declare: {name: x, type: float}
//	      - assign:
//	          lhs: {var: x}
//	          rhs: {op: add, type: float, args: [{var: a}, {const: [1]}]}
//	      - assign: {lhs: {var: color}, mask: xy, rhs: {swizzle: xx, of: {var: x}}}
//	      - loop:
//	          - if: {cond: {var: done}, then: [{break: true}]}
//
// Values are one of: var, op (with type and args), const (with optional
// type, default float), swizzle (with of), index (with of), field (with of)
// or texture.
type document struct {
	Stage     string        `json:"stage"`
	Precision precisionDoc  `json:"precision,omitempty"`
	Variables []variableDoc `json:"variables,omitempty"`
	Functions []functionDoc `json:"functions,omitempty"`
}

type precisionDoc struct {
	Float string `json:"float,omitempty"`
	Int   string `json:"int,omitempty"`
}

type variableDoc struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Mode      string `json:"mode,omitempty"`
	Precision string `json:"precision,omitempty"`
}

type functionDoc struct {
	Name   string        `json:"name"`
	Return string        `json:"return,omitempty"`
	Params []variableDoc `json:"params,omitempty"`
	Body   []stmtDoc     `json:"body,omitempty"`
}

type stmtDoc struct {
	Declare      *variableDoc `json:"declare,omitempty"`
	Assign       *assignDoc   `json:"assign,omitempty"`
	If           *ifDoc       `json:"if,omitempty"`
	Loop         []stmtDoc    `json:"loop,omitempty"`
	Break        bool         `json:"break,omitempty"`
	Continue     bool         `json:"continue,omitempty"`
	Discard      *discardDoc  `json:"discard,omitempty"`
	Return       *returnDoc   `json:"return,omitempty"`
	Call         *callDoc     `json:"call,omitempty"`
	EmitVertex   bool         `json:"emit_vertex,omitempty"`
	EndPrimitive bool         `json:"end_primitive,omitempty"`
	Barrier      bool         `json:"barrier,omitempty"`
}

type assignDoc struct {
	LHS  *valueDoc `json:"lhs"`
	RHS  *valueDoc `json:"rhs"`
	Mask string    `json:"mask,omitempty"`
	Cond *valueDoc `json:"cond,omitempty"`
}

type ifDoc struct {
	Cond *valueDoc `json:"cond"`
	Then []stmtDoc `json:"then,omitempty"`
	Else []stmtDoc `json:"else,omitempty"`
}

type discardDoc struct {
	Cond *valueDoc `json:"cond,omitempty"`
}

type returnDoc struct {
	Value *valueDoc `json:"value,omitempty"`
}

type callDoc struct {
	Name   string      `json:"name"`
	Args   []*valueDoc `json:"args,omitempty"`
	Result *valueDoc   `json:"result,omitempty"`
}

type valueDoc struct {
	Var     string      `json:"var,omitempty"`
	Op      string      `json:"op,omitempty"`
	Type    string      `json:"type,omitempty"`
	Args    []*valueDoc `json:"args,omitempty"`
	Const   []float64   `json:"const,omitempty"`
	Swizzle string      `json:"swizzle,omitempty"`
	Index   *valueDoc   `json:"index,omitempty"`
	Field   string      `json:"field,omitempty"`
	Of      *valueDoc   `json:"of,omitempty"`
	Texture *textureDoc `json:"texture,omitempty"`
}

type textureDoc struct {
	Op        string    `json:"op"`
	Type      string    `json:"type"`
	Sampler   *valueDoc `json:"sampler"`
	Coord     *valueDoc `json:"coord,omitempty"`
	Offset    *valueDoc `json:"offset,omitempty"`
	Projector *valueDoc `json:"projector,omitempty"`
	Bias      *valueDoc `json:"bias,omitempty"`
	Lod       *valueDoc `json:"lod,omitempty"`
	Sample    *valueDoc `json:"sample,omitempty"`
	DPdx      *valueDoc `json:"dpdx,omitempty"`
	DPdy      *valueDoc `json:"dpdy,omitempty"`
	Component *valueDoc `json:"component,omitempty"`
}

// Unmarshal decodes a YAML module document.
func Unmarshal(data []byte) (*Module, error) {
	var doc document
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal module document: %w", err)
	}

	d := &decoder{}
	return d.module(&doc)
}

type decoder struct {
	scopes []map[string]*Variable
}

func (d *decoder) push() { d.scopes = append(d.scopes, map[string]*Variable{}) }
func (d *decoder) pop()  { d.scopes = d.scopes[:len(d.scopes)-1] }

func (d *decoder) lookup(name string) (*Variable, error) {
	for i := len(d.scopes) - 1; i >= 0; i-- {
		if v, ok := d.scopes[i][name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("undeclared variable %q", name)
}

func (d *decoder) module(doc *document) (*Module, error) {
	m := &Module{}
	var err error
	if m.Stage, err = ParseStage(doc.Stage); err != nil {
		return nil, err
	}
	if m.FloatPrecision, err = ParsePrecision(doc.Precision.Float); err != nil {
		return nil, err
	}
	if m.IntPrecision, err = ParsePrecision(doc.Precision.Int); err != nil {
		return nil, err
	}

	d.push()
	for i := range doc.Variables {
		v, err := d.declare(&doc.Variables[i], ModeAuto)
		if err != nil {
			return nil, err
		}
		m.Decls = append(m.Decls, v)
	}
	for i := range doc.Functions {
		fn, err := d.function(&doc.Functions[i])
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", doc.Functions[i].Name, err)
		}
		m.Decls = append(m.Decls, fn)
	}
	return m, nil
}

func (d *decoder) declare(doc *variableDoc, defaultMode Mode) (*Variable, error) {
	if doc.Name == "" {
		return nil, errors.New("variable without a name")
	}
	t, err := ParseType(doc.Type)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", doc.Name, err)
	}
	mode := defaultMode
	if doc.Mode != "" {
		if mode, err = ParseMode(doc.Mode); err != nil {
			return nil, fmt.Errorf("variable %q: %w", doc.Name, err)
		}
	}
	precision, err := ParsePrecision(doc.Precision)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", doc.Name, err)
	}
	v := &Variable{Name: doc.Name, Type: t, Mode: mode, Precision: precision}
	d.scopes[len(d.scopes)-1][doc.Name] = v
	return v, nil
}

func (d *decoder) function(doc *functionDoc) (*Function, error) {
	fn := &Function{Name: doc.Name}
	if doc.Return != "" {
		t, err := ParseType(doc.Return)
		if err != nil {
			return nil, err
		}
		fn.ReturnType = t
	}

	d.push()
	defer d.pop()
	for i := range doc.Params {
		p, err := d.declare(&doc.Params[i], ModeFunctionIn)
		if err != nil {
			return nil, err
		}
		fn.Params = append(fn.Params, p)
	}
	body, err := d.block(doc.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

func (d *decoder) block(docs []stmtDoc) ([]Node, error) {
	d.push()
	defer d.pop()

	nodes := make([]Node, 0, len(docs))
	for i := range docs {
		n, err := d.statement(&docs[i])
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

//nolint:gocyclo,cyclop // one case per statement kind
func (d *decoder) statement(doc *stmtDoc) (Node, error) {
	switch {
	case doc.Declare != nil:
		return d.declare(doc.Declare, ModeAuto)

	case doc.Assign != nil:
		lhs, err := d.value(doc.Assign.LHS)
		if err != nil {
			return nil, fmt.Errorf("lhs: %w", err)
		}
		rhs, err := d.value(doc.Assign.RHS)
		if err != nil {
			return nil, fmt.Errorf("rhs: %w", err)
		}
		a := &Assignment{LHS: lhs, RHS: rhs}
		if doc.Assign.Mask != "" {
			for _, c := range doc.Assign.Mask {
				idx, err := componentIndex(c)
				if err != nil {
					return nil, err
				}
				a.WriteMask |= 1 << idx
			}
		}
		if doc.Assign.Cond != nil {
			if a.Condition, err = d.value(doc.Assign.Cond); err != nil {
				return nil, fmt.Errorf("cond: %w", err)
			}
		}
		return a, nil

	case doc.If != nil:
		cond, err := d.value(doc.If.Cond)
		if err != nil {
			return nil, fmt.Errorf("cond: %w", err)
		}
		then, err := d.block(doc.If.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.block(doc.If.Else)
		if err != nil {
			return nil, err
		}
		return &If{Condition: cond, Then: then, Else: els}, nil

	case doc.Loop != nil:
		body, err := d.block(doc.Loop)
		if err != nil {
			return nil, err
		}
		return &Loop{Body: body}, nil

	case doc.Break:
		return &LoopJump{Kind: JumpBreak}, nil

	case doc.Continue:
		return &LoopJump{Kind: JumpContinue}, nil

	case doc.Discard != nil:
		dis := &Discard{}
		if doc.Discard.Cond != nil {
			cond, err := d.value(doc.Discard.Cond)
			if err != nil {
				return nil, err
			}
			dis.Condition = cond
		}
		return dis, nil

	case doc.Return != nil:
		ret := &Return{}
		if doc.Return.Value != nil {
			v, err := d.value(doc.Return.Value)
			if err != nil {
				return nil, err
			}
			ret.Value = v
		}
		return ret, nil

	case doc.Call != nil:
		call := &Call{Callee: doc.Call.Name}
		for _, a := range doc.Call.Args {
			v, err := d.value(a)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, v)
		}
		if doc.Call.Result != nil {
			v, err := d.value(doc.Call.Result)
			if err != nil {
				return nil, err
			}
			call.Result = v
		}
		return call, nil

	case doc.EmitVertex:
		return &EmitVertex{}, nil
	case doc.EndPrimitive:
		return &EndPrimitive{}, nil
	case doc.Barrier:
		return &Barrier{}, nil
	}
	return nil, errors.New("empty statement")
}

//nolint:gocyclo,cyclop // one case per value kind
func (d *decoder) value(doc *valueDoc) (Value, error) {
	if doc == nil {
		return nil, errors.New("missing value")
	}
	switch {
	case doc.Var != "":
		v, err := d.lookup(doc.Var)
		if err != nil {
			return nil, err
		}
		return Deref(v), nil

	case doc.Op != "":
		op, ok := ParseOperation(doc.Op)
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", doc.Op)
		}
		if len(doc.Args) != op.Arity() {
			return nil, fmt.Errorf("operation %s takes %d operands, got %d", op, op.Arity(), len(doc.Args))
		}
		t, err := ParseType(doc.Type)
		if err != nil {
			return nil, err
		}
		e := &Expression{Op: op, ResultType: t}
		for _, a := range doc.Args {
			v, err := d.value(a)
			if err != nil {
				return nil, err
			}
			e.Operands = append(e.Operands, v)
		}
		return e, nil

	case doc.Const != nil:
		typeName := doc.Type
		if typeName == "" {
			typeName = "float"
		}
		t, err := ParseType(typeName)
		if err != nil {
			return nil, err
		}
		return constant(t, doc.Const)

	case doc.Swizzle != "":
		src, err := d.value(doc.Of)
		if err != nil {
			return nil, err
		}
		comps := make([]uint32, 0, len(doc.Swizzle))
		for _, c := range doc.Swizzle {
			idx, err := componentIndex(c)
			if err != nil {
				return nil, err
			}
			comps = append(comps, idx)
		}
		if len(comps) > 4 {
			return nil, fmt.Errorf("swizzle %q has more than four components", doc.Swizzle)
		}
		return NewSwizzle(src, comps...), nil

	case doc.Index != nil:
		arr, err := d.value(doc.Of)
		if err != nil {
			return nil, err
		}
		idx, err := d.value(doc.Index)
		if err != nil {
			return nil, err
		}
		return &DerefArray{Array: arr, Index: idx}, nil

	case doc.Field != "":
		rec, err := d.value(doc.Of)
		if err != nil {
			return nil, err
		}
		return &DerefRecord{Record: rec, Field: doc.Field}, nil

	case doc.Texture != nil:
		return d.texture(doc.Texture)
	}
	return nil, errors.New("empty value")
}

func (d *decoder) texture(doc *textureDoc) (Value, error) {
	op, ok := ParseTextureOp(doc.Op)
	if !ok {
		return nil, fmt.Errorf("unknown texture operation %q", doc.Op)
	}
	t, err := ParseType(doc.Type)
	if err != nil {
		return nil, err
	}
	tex := &Texture{Op: op, ResultType: t}

	operands := []struct {
		doc *valueDoc
		dst *Value
	}{
		{doc.Sampler, &tex.Sampler},
		{doc.Coord, &tex.Coordinate},
		{doc.Offset, &tex.Offset},
		{doc.Projector, &tex.Projector},
		{doc.Bias, &tex.Bias},
		{doc.Lod, &tex.Lod},
		{doc.Sample, &tex.SampleIndex},
		{doc.DPdx, &tex.DPdx},
		{doc.DPdy, &tex.DPdy},
		{doc.Component, &tex.Component},
	}
	for _, o := range operands {
		if o.doc == nil {
			continue
		}
		v, err := d.value(o.doc)
		if err != nil {
			return nil, err
		}
		*o.dst = v
	}
	if tex.Sampler == nil {
		return nil, errors.New("texture without a sampler")
	}
	return tex, nil
}

func constant(t *Type, values []float64) (*Constant, error) {
	if t.IsArray() {
		per := int(t.Element.Components())
		if per == 0 || len(values) != per*int(t.Length) {
			return nil, fmt.Errorf("constant of type %s needs %d values, got %d", t, per*int(t.Length), len(values))
		}
		c := &Constant{ResultType: t}
		for i := 0; i < int(t.Length); i++ {
			e, err := constant(t.Element, values[i*per:(i+1)*per])
			if err != nil {
				return nil, err
			}
			c.Elements = append(c.Elements, e)
		}
		return c, nil
	}

	n := int(t.Components())
	if n == 0 || len(values) != n {
		return nil, fmt.Errorf("constant of type %s needs %d values, got %d", t, n, len(values))
	}
	c := &Constant{ResultType: t}
	for _, v := range values {
		switch t.Base {
		case BaseFloat:
			c.Floats = append(c.Floats, float32(v))
		case BaseInt:
			if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
				return nil, fmt.Errorf("constant %v is not a valid %s", v, t)
			}
			c.Ints = append(c.Ints, int32(v))
		case BaseUint:
			if v != math.Trunc(v) || v < 0 || v > math.MaxUint32 {
				return nil, fmt.Errorf("constant %v is not a valid %s", v, t)
			}
			c.Uints = append(c.Uints, uint32(v))
		case BaseBool:
			c.Bools = append(c.Bools, v != 0)
		}
	}
	return c, nil
}

func componentIndex(c rune) (uint32, error) {
	switch c {
	case 'x', 'r', 's':
		return 0, nil
	case 'y', 'g', 't':
		return 1, nil
	case 'z', 'b', 'p':
		return 2, nil
	case 'w', 'a', 'q':
		return 3, nil
	}
	return 0, fmt.Errorf("invalid component %q", c)
}

// ParseStage parses a stage name. The empty string means fragment.
func ParseStage(s string) (Stage, error) {
	if s == "" {
		return StageFragment, nil
	}
	for i, n := range stageNames {
		if n == s {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", s)
}

// ParsePrecision parses a precision name. The empty string means none.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "none":
		return PrecisionNone, nil
	case "high", "highp":
		return PrecisionHigh, nil
	case "medium", "mediump":
		return PrecisionMedium, nil
	case "low", "lowp":
		return PrecisionLow, nil
	}
	return 0, fmt.Errorf("unknown precision %q", s)
}

// ParseMode parses a storage mode name.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if n == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown storage mode %q", s)
}

var samplerDims = map[string]SamplerDim{
	"1D": Dim1D, "2D": Dim2D, "3D": Dim3D, "Cube": DimCube, "2DRect": DimRect,
	"Buffer": DimBuffer, "External": DimExternal, "ExternalOES": DimExternal,
	"2DMS": DimMS, "Subpass": DimSubpass,
}

// ParseType parses a GLSL type spelling as produced by Type.String.
//
//nolint:gocyclo,cyclop // GLSL type grammar
func ParseType(s string) (*Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("missing type")
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open < 0 {
			return nil, fmt.Errorf("malformed array type %q", s)
		}
		n, err := strconv.ParseUint(s[open+1:len(s)-1], 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("malformed array length in %q", s)
		}
		elem, err := ParseType(s[:open])
		if err != nil {
			return nil, err
		}
		return ArrayOf(elem, uint32(n)), nil
	}

	switch s {
	case "float":
		return Float(), nil
	case "int":
		return Int(), nil
	case "uint":
		return Uint(), nil
	case "bool":
		return Bool(), nil
	case "void":
		return Void(), nil
	}

	if rest, ok := strings.CutPrefix(s, "struct "); ok {
		return Struct(rest), nil
	}

	for base, prefix := range vectorPrefix {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			n, err := strconv.ParseUint(rest, 10, 32)
			if err != nil || n < 2 || n > 4 {
				return nil, fmt.Errorf("malformed vector type %q", s)
			}
			return numeric(base, uint32(n), 1), nil
		}
	}

	if rest, ok := strings.CutPrefix(s, "mat"); ok {
		cols, rows := rest, rest
		if c, r, found := strings.Cut(rest, "x"); found {
			cols, rows = c, r
		}
		c, err1 := strconv.ParseUint(cols, 10, 32)
		r, err2 := strconv.ParseUint(rows, 10, 32)
		if err1 != nil || err2 != nil || c < 2 || r < 2 || r > 4 {
			return nil, fmt.Errorf("malformed matrix type %q", s)
		}
		return Mat(uint32(c), uint32(r)), nil
	}

	result := BaseFloat
	rest := s
	switch {
	case strings.HasPrefix(s, "isampler"):
		result, rest = BaseInt, s[1:]
	case strings.HasPrefix(s, "usampler"):
		result, rest = BaseUint, s[1:]
	}
	if rest, ok := strings.CutPrefix(rest, "sampler"); ok {
		st := SamplerType{Result: result}
		if r, ok := strings.CutSuffix(rest, "Shadow"); ok {
			st.Shadow, rest = true, r
		}
		if r, ok := strings.CutSuffix(rest, "Array"); ok {
			st.Arrayed, rest = true, r
		}
		dim, ok := samplerDims[rest]
		if !ok {
			return nil, fmt.Errorf("unknown sampler dimensionality in %q", s)
		}
		st.Dim = dim
		return &Type{Base: BaseSampler, Sampler: st}, nil
	}

	return nil, fmt.Errorf("unknown type %q", s)
}
