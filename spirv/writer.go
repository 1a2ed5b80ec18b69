package spirv

import "math"

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// header returns the leading word: word count in the high half, opcode in
// the low half.
func (i Instruction) header() uint32 {
	wordCount := uint32(len(i.Words) + 1) // +1 for opcode word
	return wordCount<<WordCountShift | uint32(i.Opcode)
}

// Encode encodes the instruction to binary.
func (i Instruction) Encode() []uint32 {
	result := make([]uint32, 0, len(i.Words)+1)
	result = append(result, i.header())
	result = append(result, i.Words...)
	return result
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) *InstructionBuilder {
	b.words = append(b.words, word)
	return b
}

// AddWords adds several words to the instruction.
func (b *InstructionBuilder) AddWords(words ...uint32) *InstructionBuilder {
	b.words = append(b.words, words...)
	return b
}

// AddFloat adds a 32-bit float literal.
func (b *InstructionBuilder) AddFloat(v float32) *InstructionBuilder {
	return b.AddWord(math.Float32bits(v))
}

// AddString adds a null-terminated UTF-8 string.
func (b *InstructionBuilder) AddString(s string) *InstructionBuilder {
	b.words = appendString(b.words, s)
	return b
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}
