package succinct

import "fmt"

const wordBits = 64

// BitVector is an immutable bit sequence packed into 64-bit words.
//
// Bit i lives in words[i/64] at offset i%64, so bit 0 of a word is its least
// significant bit. Bits beyond Num() in the last word are always zero; the
// rank and select directories count whole words and rely on this invariant.
type BitVector struct {
	words []uint64
	num   uint64
}

// NewBitVectorFromBools packs an explicit bit sequence into a BitVector.
func NewBitVectorFromBools(bs []bool) *BitVector {
	num := uint64(len(bs))
	words := make([]uint64, (num+wordBits-1)/wordBits)
	for i, b := range bs {
		if b {
			words[i/wordBits] |= 1 << (uint(i) % wordBits)
		}
	}
	return &BitVector{words: words, num: num}
}

// NewBitVectorFromWords adopts pre-packed words without copying them; the
// vector takes ownership of the slice. num is the number of valid bits.
// It fails when num exceeds the capacity of words. Words beyond the last
// valid bit are dropped and padding bits are cleared.
func NewBitVectorFromWords(words []uint64, num uint64) (*BitVector, error) {
	if num > uint64(len(words))*wordBits {
		return nil, fmt.Errorf("%w: %d bits in %d words", ErrInvalidBitCount, num, len(words))
	}
	words = words[:(num+wordBits-1)/wordBits]
	if r := num % wordBits; r != 0 {
		words[num/wordBits] &= 1<<r - 1
	}
	return &BitVector{words: words, num: num}, nil
}

// NewUniformBitVector returns a vector of num copies of bit.
func NewUniformBitVector(bit bool, num uint64) *BitVector {
	words := make([]uint64, (num+wordBits-1)/wordBits)
	if bit {
		for i := range words {
			words[i] = ^uint64(0)
		}
		if r := num % wordBits; r != 0 {
			words[len(words)-1] = 1<<r - 1
		}
	}
	return &BitVector{words: words, num: num}
}

// Num returns the number of bits.
func (bv *BitVector) Num() uint64 {
	return bv.num
}

// Bit returns the bit at position pos.
func (bv *BitVector) Bit(pos uint64) (bool, error) {
	if pos >= bv.num {
		return false, &ErrOutOfRange{Pos: pos, Num: bv.num}
	}
	return bv.getBit(pos), nil
}

func (bv *BitVector) getBit(pos uint64) bool {
	return bv.words[pos/wordBits]>>(pos%wordBits)&1 == 1
}

func (bv *BitVector) word(i uint64) uint64 {
	return bv.words[i]
}

func (bv *BitVector) wordCount() uint64 {
	return uint64(len(bv.words))
}

// complementWord returns the i-th word with every bit flipped and the
// padding beyond num cleared, so zero-side scans see the same invariant
// as one-side scans.
func (bv *BitVector) complementWord(i uint64) uint64 {
	w := ^bv.words[i]
	if i == uint64(len(bv.words))-1 {
		if r := bv.num % wordBits; r != 0 {
			w &= 1<<r - 1
		}
	}
	return w
}
