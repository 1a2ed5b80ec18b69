package spirv

import (
	"fmt"
	"io"
	"strings"
)

// Disassemble writes a textual listing of a binary module to w.
func Disassemble(w io.Writer, data []byte) error {
	if len(data)%4 != 0 {
		return fmt.Errorf("spirv: module size %d is not a multiple of 4", len(data))
	}
	return DisassembleWords(w, BytesToWords(data))
}

// DisassembleWords is Disassemble for a decoded word slice.
func DisassembleWords(w io.Writer, words []uint32) error {
	h, insts, err := Decode(words)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %d.%d\n", h.Version.Major, h.Version.Minor)
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", h.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", h.Bound)
	fmt.Fprintf(&sb, "; Schema: %d\n\n", h.Schema)
	for _, in := range insts {
		safeFormat(&sb, in)
		sb.WriteByte('\n')
	}
	_, err = io.WriteString(w, sb.String())
	return err
}

// safeFormat formats in, falling back to raw words when the operand count
// does not match the opcode.
func safeFormat(sb *strings.Builder, in DecodedInstruction) {
	var line strings.Builder
	defer func() {
		if recover() != nil {
			line.Reset()
			fmt.Fprintf(&line, "%15s%s ; malformed", "", OpcodeName(in.Opcode))
			literals(&line, in.Operands)
		}
		sb.WriteString(line.String())
	}()
	formatInstruction(&line, in)
}

func ref(n uint32) string {
	return fmt.Sprintf("%%%d", n)
}

func refs(sb *strings.Builder, words []uint32) {
	for _, n := range words {
		sb.WriteByte(' ')
		sb.WriteString(ref(n))
	}
}

func literals(sb *strings.Builder, words []uint32) {
	for _, n := range words {
		fmt.Fprintf(sb, " %d", n)
	}
}

// formatInstruction renders one instruction without a trailing newline.
//
//nolint:gocyclo,cyclop,funlen // one case per opcode family
func formatInstruction(sb *strings.Builder, in DecodedInstruction) {
	name := OpcodeName(in.Opcode)
	ops := in.Operands

	if hasType, hasResult := resultLayout(in.Opcode); hasResult {
		result := 0
		if hasType {
			result = 1
		}
		if len(ops) <= result {
			fmt.Fprintf(sb, "%15s%s", "", name)
			return
		}
		fmt.Fprintf(sb, "%12s = %s", ref(ops[result]), name)
		if hasType {
			sb.WriteByte(' ')
			sb.WriteString(ref(ops[0]))
		}
		formatResultOperands(sb, in, ops[result+1:])
		return
	}

	fmt.Fprintf(sb, "%15s%s", "", name)
	switch in.Opcode {
	case OpCapability:
		sb.WriteString(" " + lookup(capabilityNames, ops[0]))
	case OpMemoryModel:
		sb.WriteString(" " + lookup(addressingModelNames, ops[0]) + " " + lookup(memoryModelNames, ops[1]))
	case OpEntryPoint:
		str, next := in.String(2)
		fmt.Fprintf(sb, " %s %s %q", lookup(executionModelNames, ops[0]), ref(ops[1]), str)
		refs(sb, ops[next:])
	case OpExecutionMode:
		fmt.Fprintf(sb, " %s %s", ref(ops[0]), lookup(executionModeNames, ops[1]))
		literals(sb, ops[2:])
	case OpSource:
		fmt.Fprintf(sb, " %s", lookup(sourceLanguageNames, ops[0]))
		literals(sb, ops[1:])
	case OpName:
		str, _ := in.String(1)
		fmt.Fprintf(sb, " %s %q", ref(ops[0]), str)
	case OpMemberName:
		str, _ := in.String(2)
		fmt.Fprintf(sb, " %s %d %q", ref(ops[0]), ops[1], str)
	case OpDecorate:
		fmt.Fprintf(sb, " %s %s", ref(ops[0]), lookup(decorationNames, ops[1]))
		literals(sb, ops[2:])
	case OpMemberDecorate:
		fmt.Fprintf(sb, " %s %d %s", ref(ops[0]), ops[1], lookup(decorationNames, ops[2]))
		literals(sb, ops[3:])
	case OpLoopMerge, OpSelectionMerge:
		n := 1
		if in.Opcode == OpLoopMerge {
			n = 2
		}
		refs(sb, ops[:n])
		if ops[n] == 0 {
			sb.WriteString(" None")
		} else {
			literals(sb, ops[n:])
		}
	default:
		refs(sb, ops)
	}
}

// formatResultOperands renders the operands after the result id.
func formatResultOperands(sb *strings.Builder, in DecodedInstruction, rest []uint32) {
	switch in.Opcode {
	case OpExtInstImport:
		str, _ := in.String(1)
		fmt.Fprintf(sb, " %q", str)
	case OpTypeInt, OpTypeFloat:
		literals(sb, rest)
	case OpTypeVector, OpTypeMatrix:
		fmt.Fprintf(sb, " %s %d", ref(rest[0]), rest[1])
	case OpTypeImage:
		fmt.Fprintf(sb, " %s %s", ref(rest[0]), lookup(dimNames, rest[1]))
		literals(sb, rest[2:6])
		sb.WriteString(" Unknown")
	case OpTypePointer:
		fmt.Fprintf(sb, " %s %s", lookup(storageClassNames, rest[0]), ref(rest[1]))
	case OpConstant:
		literals(sb, rest)
	case OpVariable:
		sb.WriteString(" " + lookup(storageClassNames, rest[0]))
		refs(sb, rest[1:])
	case OpFunction:
		if rest[0] == 0 {
			sb.WriteString(" None")
		} else {
			literals(sb, rest[:1])
		}
		refs(sb, rest[1:])
	case OpVectorShuffle:
		refs(sb, rest[:2])
		literals(sb, rest[2:])
	case OpCompositeExtract:
		refs(sb, rest[:1])
		literals(sb, rest[1:])
	case OpExtInst:
		fmt.Fprintf(sb, " %s %d", ref(rest[0]), rest[1])
		refs(sb, rest[2:])
	case OpImageSampleImplicitLod, OpImageSampleExplicitLod,
		OpImageSampleProjImplicitLod, OpImageSampleProjExplicitLod:
		refs(sb, rest[:2])
		if len(rest) > 2 {
			fmt.Fprintf(sb, " 0x%X", rest[2])
			refs(sb, rest[3:])
		}
	default:
		refs(sb, rest)
	}
}
