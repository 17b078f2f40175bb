package succinct

import "math/bits"

// Directory granularities. A large block carries an absolute cumulative
// count, a small block carries a count relative to its large block, so the
// small entries fit in 16 bits. The rest of a query is at most seven whole
// word popcounts plus one masked popcount.
const (
	smallBlockBits = 512
	largeBlockBits = 4096
	smallPerLarge  = largeBlockBits / smallBlockBits
	wordsPerSmall  = smallBlockBits / wordBits
)

// rankIndex is the two-level cumulative directory over a BitVector.
// large[j] is the number of set bits before large block j; small[s] is the
// number of set bits before small block s counted from the start of its
// enclosing large block.
type rankIndex struct {
	bv    *BitVector
	large []uint64
	small []uint16
	ones  uint64
}

// newRankIndex builds the directory in one pass over the packed words.
// The final blocks may be shorter than their nominal width; padding bits
// are zero so counting whole words stays exact.
func newRankIndex(bv *BitVector) *rankIndex {
	numSmall := (bv.num + smallBlockBits - 1) / smallBlockBits
	numLarge := (bv.num + largeBlockBits - 1) / largeBlockBits
	ri := &rankIndex{
		bv:    bv,
		large: make([]uint64, numLarge),
		small: make([]uint16, numSmall),
	}

	var total uint64
	var inLarge uint16
	for s := uint64(0); s < numSmall; s++ {
		if s%smallPerLarge == 0 {
			ri.large[s/smallPerLarge] = total
			inLarge = 0
		}
		ri.small[s] = inLarge

		var c uint16
		end := s*wordsPerSmall + wordsPerSmall
		if end > bv.wordCount() {
			end = bv.wordCount()
		}
		for w := s * wordsPerSmall; w < end; w++ {
			c += uint16(bits.OnesCount64(bv.word(w)))
		}
		total += uint64(c)
		inLarge += c
	}
	ri.ones = total
	return ri
}

// rank1 returns the number of set bits in [0, pos). pos may equal the bit
// count, in which case the total is returned.
func (ri *rankIndex) rank1(pos uint64) (uint64, error) {
	if pos > ri.bv.num {
		return 0, &ErrOutOfRange{Pos: pos, Num: ri.bv.num}
	}
	if pos == ri.bv.num {
		return ri.ones, nil
	}

	rank := ri.large[pos/largeBlockBits] + uint64(ri.small[pos/smallBlockBits])
	wordPos := pos / wordBits
	for w := pos / smallBlockBits * wordsPerSmall; w < wordPos; w++ {
		rank += uint64(bits.OnesCount64(ri.bv.word(w)))
	}
	if off := pos % wordBits; off != 0 {
		rank += uint64(bits.OnesCount64(ri.bv.word(wordPos) & (1<<off - 1)))
	}
	return rank, nil
}

// rank0 is derived from rank1; no separate directory is stored.
func (ri *rankIndex) rank0(pos uint64) (uint64, error) {
	r1, err := ri.rank1(pos)
	if err != nil {
		return 0, err
	}
	return pos - r1, nil
}

// zerosBeforeLarge returns the number of unset bits before large block j.
func (ri *rankIndex) zerosBeforeLarge(j uint64) uint64 {
	return j*largeBlockBits - ri.large[j]
}
