package succinct

import "math/bits"

// selectSampleRate is the number of occurrences between stored samples.
// It bounds the worst-case scan to one sample interval while keeping both
// sample arrays o(n) bits.
const selectSampleRate = 4096

// selectIndex holds position samples for both bit values: ones[j] is the
// exact position of the (j*selectSampleRate + 1)-th set bit, zeros[j] the
// analogue for unset bits. Queries narrow from a sample to a large block
// via binary search on the rank directory, then to a small block, then to
// a word.
type selectIndex struct {
	bv    *BitVector
	rank  *rankIndex
	ones  []uint64
	zeros []uint64
}

// newSelectIndex records the samples in one pass over the packed words.
// An empty vector yields empty sample arrays and every select fails.
func newSelectIndex(bv *BitVector, rank *rankIndex) *selectIndex {
	si := &selectIndex{bv: bv, rank: rank}
	var seenOnes, seenZeros uint64
	nextOne := uint64(1)
	nextZero := uint64(1)
	for w := uint64(0); w < bv.wordCount(); w++ {
		word := bv.word(w)
		c := uint64(bits.OnesCount64(word))
		for seenOnes+c >= nextOne {
			si.ones = append(si.ones, w*wordBits+selectWord(word, nextOne-seenOnes))
			nextOne += selectSampleRate
		}
		seenOnes += c

		cw := bv.complementWord(w)
		cz := uint64(bits.OnesCount64(cw))
		for seenZeros+cz >= nextZero {
			si.zeros = append(si.zeros, w*wordBits+selectWord(cw, nextZero-seenZeros))
			nextZero += selectSampleRate
		}
		seenZeros += cz
	}
	return si
}

// select1 returns the position of the k-th (1-indexed) set bit.
func (si *selectIndex) select1(k uint64) (uint64, error) {
	if k < 1 || k > si.rank.ones {
		return 0, &ErrRankOutOfRange{Rank: k, Max: si.rank.ones, Bit: true}
	}

	// The sample below k gives a large block whose prefix count is < k;
	// the sample above bounds the search interval.
	sample := (k - 1) / selectSampleRate
	lo := si.ones[sample] / largeBlockBits
	hi := uint64(len(si.rank.large))
	if next := sample + 1; next < uint64(len(si.ones)) {
		hi = si.ones[next]/largeBlockBits + 1
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if si.rank.large[mid] < k {
			lo = mid
		} else {
			hi = mid
		}
	}

	remain := k - si.rank.large[lo]
	sb := lo * smallPerLarge
	sbEnd := sb + smallPerLarge
	if n := uint64(len(si.rank.small)); sbEnd > n {
		sbEnd = n
	}
	for sb+1 < sbEnd && uint64(si.rank.small[sb+1]) < remain {
		sb++
	}
	remain -= uint64(si.rank.small[sb])

	for w := sb * wordsPerSmall; ; w++ {
		word := si.bv.word(w)
		c := uint64(bits.OnesCount64(word))
		if c >= remain {
			return w*wordBits + selectWord(word, remain), nil
		}
		remain -= c
	}
}

// select0 returns the position of the k-th (1-indexed) unset bit. Zero
// counts are derived from block widths minus the one counts, with padding
// masked out of the complemented words.
func (si *selectIndex) select0(k uint64) (uint64, error) {
	zeros := si.bv.num - si.rank.ones
	if k < 1 || k > zeros {
		return 0, &ErrRankOutOfRange{Rank: k, Max: zeros, Bit: false}
	}

	sample := (k - 1) / selectSampleRate
	lo := si.zeros[sample] / largeBlockBits
	hi := uint64(len(si.rank.large))
	if next := sample + 1; next < uint64(len(si.zeros)) {
		hi = si.zeros[next]/largeBlockBits + 1
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if si.rank.zerosBeforeLarge(mid) < k {
			lo = mid
		} else {
			hi = mid
		}
	}

	remain := k - si.rank.zerosBeforeLarge(lo)
	sbStart := lo * smallPerLarge
	sb := sbStart
	sbEnd := sb + smallPerLarge
	if n := uint64(len(si.rank.small)); sbEnd > n {
		sbEnd = n
	}
	for sb+1 < sbEnd && (sb+1-sbStart)*smallBlockBits-uint64(si.rank.small[sb+1]) < remain {
		sb++
	}
	remain -= (sb-sbStart)*smallBlockBits - uint64(si.rank.small[sb])

	for w := sb * wordsPerSmall; ; w++ {
		cw := si.bv.complementWord(w)
		c := uint64(bits.OnesCount64(cw))
		if c >= remain {
			return w*wordBits + selectWord(cw, remain), nil
		}
		remain -= c
	}
}

// sampleCount returns the number of samples stored for total occurrences
// of one bit value.
func sampleCount(total uint64) uint64 {
	if total == 0 {
		return 0
	}
	return (total-1)/selectSampleRate + 1
}

// selectWord returns the offset of the k-th (1-indexed) set bit of w.
// The caller guarantees w has at least k set bits.
func selectWord(w uint64, k uint64) uint64 {
	for ; k > 1; k-- {
		w &= w - 1
	}
	return uint64(bits.TrailingZeros64(w))
}
