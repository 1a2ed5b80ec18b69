package spirv

import "fmt"

// HeaderWords is the length of the module header.
const HeaderWords = 5

// Header is the decoded module header.
type Header struct {
	Magic     uint32
	Version   Version
	Generator uint32
	Bound     uint32
	Schema    uint32
}

// DecodedInstruction is one instruction of a decoded module.
type DecodedInstruction struct {
	Opcode   OpCode
	Operands []uint32
	// Offset is the word offset of the instruction header in the module.
	Offset int
}

// String returns the operand string starting at operand i and the index of
// the first operand after it.
func (d DecodedInstruction) String(i int) (string, int) {
	if i >= len(d.Operands) {
		return "", i
	}
	s, n := readString(d.Operands[i:])
	return s, i + n
}

// Decode splits a module into its header and instructions.
func Decode(words []uint32) (Header, []DecodedInstruction, error) {
	var h Header
	if len(words) < HeaderWords {
		return h, nil, fmt.Errorf("spirv: module too short (%d words)", len(words))
	}
	h = Header{
		Magic:     words[0],
		Version:   Version{Major: uint8(words[1] >> 16), Minor: uint8(words[1] >> 8)},
		Generator: words[2],
		Bound:     words[3],
		Schema:    words[4],
	}
	if h.Magic != MagicNumber {
		return h, nil, fmt.Errorf("spirv: invalid magic 0x%08X", h.Magic)
	}

	var insts []DecodedInstruction
	for offset := HeaderWords; offset < len(words); {
		word := words[offset]
		count := int(word >> WordCountShift)
		if count == 0 || offset+count > len(words) {
			return h, insts, fmt.Errorf("spirv: invalid word count %d at word %d", count, offset)
		}
		insts = append(insts, DecodedInstruction{
			Opcode:   OpCode(word & 0xFFFF),
			Operands: words[offset+1 : offset+count],
			Offset:   offset,
		})
		offset += count
	}
	return h, insts, nil
}

// resultLayout reports where an instruction keeps its result type and
// result id: (true, true) means operands[0] is the type and operands[1]
// the id; (false, true) means operands[0] is the id.
func resultLayout(op OpCode) (hasType, hasResult bool) {
	switch op {
	case OpExtInstImport, OpLabel, OpTypeVoid, OpTypeBool, OpTypeInt, OpTypeFloat,
		OpTypeVector, OpTypeMatrix, OpTypeImage, OpTypeSampler, OpTypeSampledImage,
		OpTypeArray, OpTypeStruct, OpTypePointer, OpTypeFunction:
		return false, true
	case OpNop, OpSource, OpName, OpMemberName, OpExtension, OpMemoryModel, OpEntryPoint,
		OpExecutionMode, OpCapability, OpFunctionEnd, OpStore, OpDecorate, OpMemberDecorate,
		OpLoopMerge, OpSelectionMerge, OpBranch, OpBranchConditional, OpKill, OpReturn,
		OpReturnValue, OpUnreachable:
		return false, false
	}
	return true, true
}

// ResultID returns the id an instruction defines, if any.
func (d DecodedInstruction) ResultID() (uint32, bool) {
	hasType, hasResult := resultLayout(d.Opcode)
	switch {
	case !hasResult:
		return 0, false
	case hasType && len(d.Operands) > 1:
		return d.Operands[1], true
	case !hasType && len(d.Operands) > 0:
		return d.Operands[0], true
	}
	return 0, false
}
