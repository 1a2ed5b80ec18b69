package spirv

import "encoding/binary"

// WordStream is an append-only sequence of 32-bit words.
type WordStream struct {
	words []uint32
}

// Push appends one word.
func (s *WordStream) Push(word uint32) {
	s.words = append(s.words, word)
}

// PushString appends text as a NUL-terminated little-endian string,
// zero-padding the final word. A string whose length is a multiple of four
// is followed by a whole zero word.
func (s *WordStream) PushString(text string) {
	s.words = appendString(s.words, text)
}

// PushInstruction appends the encoded form of inst.
func (s *WordStream) PushInstruction(inst Instruction) {
	s.words = append(s.words, inst.header())
	s.words = append(s.words, inst.Words...)
}

// Append appends every word of other.
func (s *WordStream) Append(other *WordStream) {
	s.words = append(s.words, other.words...)
}

// Len returns the number of words.
func (s *WordStream) Len() int { return len(s.words) }

// At returns the word at offset i.
func (s *WordStream) At(i int) uint32 { return s.words[i] }

// Words returns the underlying words. The slice must not be modified.
func (s *WordStream) Words() []uint32 { return s.words }

// Bytes returns the little-endian byte encoding of the stream.
func (s *WordStream) Bytes() []byte {
	return wordsToBytes(s.words)
}

func appendString(words []uint32, text string) []uint32 {
	var word uint32
	for i := 0; i < len(text); i++ {
		word |= uint32(text[i]) << (8 * (i % 4))
		if i%4 == 3 {
			words = append(words, word)
			word = 0
		}
	}
	// The terminating NUL lives in this word, together with any padding.
	return append(words, word)
}

// readString decodes a NUL-terminated string from the front of words and
// reports how many words it occupied. It returns 0 words if no NUL is found.
func readString(words []uint32) (string, int) {
	var buf []byte
	for i, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(buf), i + 1
			}
			buf = append(buf, c)
		}
	}
	return "", 0
}

// stringWords returns the number of words PushString uses for text.
func stringWords(text string) int {
	return len(text)/4 + 1
}

func wordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

// BytesToWords decodes little-endian bytes into words. Trailing bytes that
// do not fill a whole word are ignored.
func BytesToWords(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}
