package spirv

import (
	"testing"

	"github.com/gogpu/spvgen/ir"
)

func TestCompileErrors(t *testing.T) {
	o := variable("o", ir.Float(), ir.ModeShaderOut)

	tests := []struct {
		name   string
		module func() *ir.Module
		want   ErrorKind
	}{
		{
			name:   "unknown node in body",
			module: func() *ir.Module { return fragment(mainFunction(&alien{})) },
			want:   ErrUnknownNode,
		},
		{
			name:   "unknown top-level node",
			module: func() *ir.Module { return fragment(&alien{}, mainFunction()) },
			want:   ErrUnknownNode,
		},
		{
			name: "statement at top level",
			module: func() *ir.Module {
				return fragment(o, ir.Assign(ir.Deref(o), ir.ConstFloat(1)), mainFunction())
			},
			want: ErrMalformedIR,
		},
		{
			name:   "nil statement",
			module: func() *ir.Module { return fragment(mainFunction(nil)) },
			want:   ErrMalformedIR,
		},
		{
			name: "nested function",
			module: func() *ir.Module {
				return fragment(mainFunction(&ir.Function{Name: "inner"}))
			},
			want: ErrMalformedIR,
		},
		{
			name:   "break outside loop",
			module: func() *ir.Module { return fragment(mainFunction(&ir.LoopJump{Kind: ir.JumpBreak})) },
			want:   ErrJumpOutsideLoop,
		},
		{
			name: "continue after loop",
			module: func() *ir.Module {
				return fragment(mainFunction(&ir.Loop{}, &ir.LoopJump{Kind: ir.JumpContinue}))
			},
			want: ErrJumpOutsideLoop,
		},
		{
			name:   "missing entry point",
			module: func() *ir.Module { return fragment(&ir.Function{Name: "other"}) },
			want:   ErrMissingEntryPoint,
		},
		{
			name: "mode out of range",
			module: func() *ir.Module {
				return fragment(variable("v", ir.Float(), ir.Mode(ir.ModeCount+3)), mainFunction())
			},
			want: ErrModeOutOfRange,
		},
		{
			name: "variable precision out of range",
			module: func() *ir.Module {
				v := &ir.Variable{Name: "v", Type: ir.Float(), Precision: ir.Precision(ir.PrecisionCount)}
				return fragment(v, mainFunction())
			},
			want: ErrPrecisionOutOfRange,
		},
		{
			name: "module precision out of range",
			module: func() *ir.Module {
				m := fragment(mainFunction())
				m.IntPrecision = ir.Precision(9)
				return m
			},
			want: ErrPrecisionOutOfRange,
		},
		{
			name: "use before declaration",
			module: func() *ir.Module {
				a := variable("a", ir.Float(), ir.ModeShaderIn)
				return fragment(o, mainFunction(ir.Assign(ir.Deref(o), ir.Deref(a))))
			},
			want: ErrUnresolvedOperand,
		},
		{
			name: "untyped variable",
			module: func() *ir.Module {
				return fragment(&ir.Variable{Name: "v", Mode: ir.ModeShaderIn}, mainFunction())
			},
			want: ErrMalformedIR,
		},
		{
			name: "wrong operand count",
			module: func() *ir.Module {
				a := variable("a", ir.Float(), ir.ModeShaderIn)
				e := &ir.Expression{Op: ir.OpAdd, ResultType: ir.Float(), Operands: []ir.Value{ir.Deref(a)}}
				return fragment(a, mainFunction(e))
			},
			want: ErrMalformedIR,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := compileError(t, tt.module())
			if e.Kind != tt.want {
				t.Errorf("error kind = %s, want %s (%v)", e.Kind, tt.want, e)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := newError(ErrJumpOutsideLoop, "%s outside of a loop", ir.JumpBreak)
	if got, want := err.Error(), "spirv JumpOutsideLoop: break outside of a loop"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		ErrUnknownNode:         "UnknownNode",
		ErrModeOutOfRange:      "ModeOutOfRange",
		ErrPrecisionOutOfRange: "PrecisionOutOfRange",
		ErrJumpOutsideLoop:     "JumpOutsideLoop",
		ErrMissingEntryPoint:   "MissingEntryPoint",
		ErrUnresolvedOperand:   "UnresolvedOperand",
		ErrMalformedIR:         "MalformedIR",
		ErrorKind(200):         "Unknown",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
