package succinct

// Builder accumulates a bit sequence with PushBack and packs it into an
// immutable dictionary. It is single-use: after Build the packed words are
// owned by the dictionary and the builder must not be reused.
type Builder struct {
	words []uint64
	num   uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// PushBack appends bit to the end of the sequence.
func (b *Builder) PushBack(bit bool) {
	if b.num%wordBits == 0 {
		b.words = append(b.words, 0)
	}
	if bit {
		b.words[b.num/wordBits] |= 1 << (b.num % wordBits)
	}
	b.num++
}

// Num returns the number of bits pushed so far.
func (b *Builder) Num() uint64 {
	return b.num
}

// Build constructs the dictionary over the accumulated bits.
func (b *Builder) Build() *BitDict {
	return Build(&BitVector{words: b.words, num: b.num})
}
