package spirv

import (
	"errors"
	"testing"

	"github.com/gogpu/spvgen/ir"
)

// alien is a node kind the translator does not know.
type alien struct{ ir.Node }

func fragment(decls ...ir.Node) *ir.Module {
	return &ir.Module{Stage: ir.StageFragment, Decls: decls}
}

func mainFunction(body ...ir.Node) *ir.Function {
	return &ir.Function{Name: "main", Body: body}
}

func variable(name string, t *ir.Type, mode ir.Mode) *ir.Variable {
	return &ir.Variable{Name: name, Type: t, Mode: mode}
}

func mustCompile(t *testing.T, m *ir.Module) (*Result, []DecodedInstruction) {
	t.Helper()
	res, err := Compile(m, DefaultOptions())
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	_, insts, err := Decode(res.Words)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	return res, insts
}

func compileError(t *testing.T, m *ir.Module) *Error {
	t.Helper()
	_, err := Compile(m, DefaultOptions())
	if err == nil {
		t.Fatal("expected Compile to fail")
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return e
}

func countOpcode(insts []DecodedInstruction, op OpCode) int {
	n := 0
	for _, in := range insts {
		if in.Opcode == op {
			n++
		}
	}
	return n
}

func findOpcode(insts []DecodedInstruction, op OpCode) []DecodedInstruction {
	var found []DecodedInstruction
	for _, in := range insts {
		if in.Opcode == op {
			found = append(found, in)
		}
	}
	return found
}

func firstIndex(insts []DecodedInstruction, op OpCode) int {
	for i, in := range insts {
		if in.Opcode == op {
			return i
		}
	}
	return -1
}

// functionBody returns the instructions between the first OpFunction and
// its OpFunctionEnd.
func functionBody(insts []DecodedInstruction) []DecodedInstruction {
	start := firstIndex(insts, OpFunction)
	if start < 0 {
		return nil
	}
	for i := start; i < len(insts); i++ {
		if insts[i].Opcode == OpFunctionEnd {
			return insts[start+1 : i]
		}
	}
	return insts[start+1:]
}

func equalWords(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countInstructions(s *WordStream) int {
	n := 0
	for i := 0; i < s.Len(); i += int(s.At(i) >> WordCountShift) {
		n++
	}
	return n
}
