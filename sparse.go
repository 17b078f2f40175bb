package succinct

import (
	"fmt"
	"math/bits"

	"github.com/ugorji/go/codec"
)

// SparseDict is an indexable dictionary tuned for vectors with few set
// bits. The set positions are Elias-Fano coded: each position is split
// into lowBits low bits stored at fixed width and a high part coded in
// unary inside a dense BitDict, whose select directories answer the bucket
// lookups. Space is count*(2 + lowBits) bits plus directory overhead
// instead of one bit per position in the universe.
//
// Select1 stays near-constant time. Rank1 scans one high-bits bucket, and
// Select0 binary-searches Rank0, so both are logarithmic in the worst
// case; that is the trade-off this backing makes for its size.
type SparseDict struct {
	num     uint64
	count   uint64
	lowBits uint
	low     []uint64
	high    *BitDict
}

var _ Dictionary = (*SparseDict)(nil)

// BuildSparse re-encodes the set positions of bv into a SparseDict.
func BuildSparse(bv *BitVector) *SparseDict {
	positions := make([]uint64, 0)
	for w := uint64(0); w < bv.wordCount(); w++ {
		word := bv.word(w)
		for word != 0 {
			positions = append(positions, w*wordBits+uint64(bits.TrailingZeros64(word)))
			word &= word - 1
		}
	}
	return newSparse(positions, bv.num)
}

// NewSparseFromPositions builds a SparseDict from the strictly increasing
// positions of the set bits within a universe of num bits. It fails when
// the positions are unsorted or reach num.
func NewSparseFromPositions(positions []uint64, num uint64) (*SparseDict, error) {
	for i, p := range positions {
		if p >= num {
			return nil, fmt.Errorf("%w: position %d with %d bits", ErrInvalidPositions, p, num)
		}
		if i > 0 && p <= positions[i-1] {
			return nil, fmt.Errorf("%w: %d after %d", ErrInvalidPositions, p, positions[i-1])
		}
	}
	return newSparse(positions, num), nil
}

// newSparse encodes already-validated positions.
func newSparse(positions []uint64, num uint64) *SparseDict {
	count := uint64(len(positions))
	s := &SparseDict{num: num, count: count}
	if count == 0 {
		s.high = Build(&BitVector{})
		return s
	}

	if ratio := num / count; ratio >= 2 {
		s.lowBits = uint(bits.Len64(ratio)) - 1
	}

	if s.lowBits > 0 {
		s.low = make([]uint64, (count*uint64(s.lowBits)+wordBits-1)/wordBits)
		for i, p := range positions {
			s.setLow(uint64(i), p&(1<<s.lowBits-1))
		}
	}

	highNum := count + num>>s.lowBits + 1
	highWords := make([]uint64, (highNum+wordBits-1)/wordBits)
	for i, p := range positions {
		q := p>>s.lowBits + uint64(i)
		highWords[q/wordBits] |= 1 << (q % wordBits)
	}
	s.high = Build(&BitVector{words: highWords, num: highNum})
	return s
}

// Num returns the number of bits in the universe.
func (s *SparseDict) Num() uint64 {
	return s.num
}

// OneNum returns the number of set bits.
func (s *SparseDict) OneNum() uint64 {
	return s.count
}

// ZeroNum returns the number of unset bits.
func (s *SparseDict) ZeroNum() uint64 {
	return s.num - s.count
}

// Bit returns the bit at position pos.
func (s *SparseDict) Bit(pos uint64) (bool, error) {
	if pos >= s.num {
		return false, &ErrOutOfRange{Pos: pos, Num: s.num}
	}
	before, err := s.Rank1(pos)
	if err != nil {
		return false, err
	}
	at, err := s.Rank1(pos + 1)
	if err != nil {
		return false, err
	}
	return at == before+1, nil
}

// Rank1 returns the number of set bits in [0, pos); pos may equal Num().
// It locates the high-bits bucket of pos via select0 on the unary coding,
// then counts the bucket entries whose low bits stay below pos.
func (s *SparseDict) Rank1(pos uint64) (uint64, error) {
	if pos > s.num {
		return 0, &ErrOutOfRange{Pos: pos, Num: s.num}
	}
	if s.count == 0 {
		return 0, nil
	}
	if pos == s.num {
		return s.count, nil
	}

	h := pos >> s.lowBits
	var i uint64
	if h > 0 {
		// Everything before the h-th bucket separator has a smaller
		// high part.
		z, err := s.high.Select0(h)
		if err != nil {
			return 0, err
		}
		i = z - h + 1
	}
	pLow := pos & (1<<s.lowBits - 1)
	for i < s.count && s.high.bv.getBit(h+i) && s.getLow(i) < pLow {
		i++
	}
	return i, nil
}

// Rank0 returns the number of unset bits in [0, pos); pos may equal Num().
func (s *SparseDict) Rank0(pos uint64) (uint64, error) {
	r1, err := s.Rank1(pos)
	if err != nil {
		return 0, err
	}
	return pos - r1, nil
}

// Select1 returns the position of the k-th (1-indexed) set bit by joining
// the k-th unary-coded high part with the k-th fixed-width low part.
func (s *SparseDict) Select1(k uint64) (uint64, error) {
	if k < 1 || k > s.count {
		return 0, &ErrRankOutOfRange{Rank: k, Max: s.count, Bit: true}
	}
	hpos, err := s.high.Select1(k)
	if err != nil {
		return 0, err
	}
	h := hpos - (k - 1)
	return h<<s.lowBits | s.getLow(k-1), nil
}

// Select0 returns the position of the k-th (1-indexed) unset bit via
// binary search on Rank0.
func (s *SparseDict) Select0(k uint64) (uint64, error) {
	zeros := s.num - s.count
	if k < 1 || k > zeros {
		return 0, &ErrRankOutOfRange{Rank: k, Max: zeros, Bit: false}
	}

	// Smallest pos with rank0(pos) >= k is one past the answer.
	lo, hi := uint64(0), s.num
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		r0, err := s.Rank0(mid)
		if err != nil {
			return 0, err
		}
		if r0 >= k {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo, nil
}

// Sizes enumerates the element count and element width of each component;
// the nested dense dictionary reports its own.
func (s *SparseDict) Sizes() []ComponentSize {
	sizes := []ComponentSize{
		{Name: "low", Count: len(s.low), Width: 8},
	}
	for _, hs := range s.high.Sizes() {
		sizes = append(sizes, ComponentSize{Name: "high." + hs.Name, Count: hs.Count, Width: hs.Width})
	}
	return sizes
}

// AllocSize returns the allocated size in bytes.
func (s *SparseDict) AllocSize() int {
	return len(s.low)*8 + s.high.AllocSize()
}

// MarshalBinary encodes the SparseDict into a binary form and returns the
// result.
func (s *SparseDict) MarshalBinary() (out []byte, err error) {
	var bh codec.MsgpackHandle
	enc := codec.NewEncoderBytes(&out, &bh)
	err = enc.Encode(s.num)
	if err != nil {
		return
	}
	err = enc.Encode(s.count)
	if err != nil {
		return
	}
	err = enc.Encode(uint64(s.lowBits))
	if err != nil {
		return
	}
	err = enc.Encode(s.low)
	if err != nil {
		return
	}
	err = enc.Encode(s.high)
	if err != nil {
		return
	}
	return
}

// UnmarshalBinary decodes a SparseDict from a binary form generated by
// MarshalBinary.
func (s *SparseDict) UnmarshalBinary(in []byte) error {
	var bh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(in, &bh)
	if err := dec.Decode(&s.num); err != nil {
		return err
	}
	if err := dec.Decode(&s.count); err != nil {
		return err
	}
	var lowBits uint64
	if err := dec.Decode(&lowBits); err != nil {
		return err
	}
	if lowBits >= wordBits {
		return fmt.Errorf("low bit width %d out of range", lowBits)
	}
	s.lowBits = uint(lowBits)
	if err := dec.Decode(&s.low); err != nil {
		return err
	}
	s.high = new(BitDict)
	if err := dec.Decode(s.high); err != nil {
		return err
	}
	if s.count > s.num {
		return fmt.Errorf("set bit count %d exceeds %d bits", s.count, s.num)
	}
	if s.count > 0 && s.high.OneNum() != s.count {
		return fmt.Errorf("high bits hold %d entries, expected %d", s.high.OneNum(), s.count)
	}
	if lowWords := (s.count*uint64(s.lowBits) + wordBits - 1) / wordBits; uint64(len(s.low)) != lowWords {
		return fmt.Errorf("low array holds %d words, expected %d", len(s.low), lowWords)
	}
	if s.count > 0 {
		if highNum := s.count + s.num>>s.lowBits + 1; s.high.Num() != highNum {
			return fmt.Errorf("high bits span %d positions, expected %d", s.high.Num(), highNum)
		}
	}
	return nil
}

// getLow returns the i-th fixed-width low part.
func (s *SparseDict) getLow(i uint64) uint64 {
	if s.lowBits == 0 {
		return 0
	}
	bitPos := i * uint64(s.lowBits)
	word, off := bitPos/wordBits, bitPos%wordBits
	v := s.low[word] >> off
	if off+uint64(s.lowBits) > wordBits {
		v |= s.low[word+1] << (wordBits - off)
	}
	return v & (1<<s.lowBits - 1)
}

func (s *SparseDict) setLow(i, v uint64) {
	bitPos := i * uint64(s.lowBits)
	word, off := bitPos/wordBits, bitPos%wordBits
	s.low[word] |= v << off
	if off+uint64(s.lowBits) > wordBits {
		s.low[word+1] |= v >> (wordBits - off)
	}
}
