// Package succinct provides indexable dictionaries over immutable bit
// sequences, answering membership, rank and select queries in near-constant
// time with auxiliary indexes asymptotically smaller than the raw bits.
package succinct

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// Dictionary is the query capability set shared by every indexable
// dictionary backing. Positions are 0-indexed; select ranks are 1-indexed.
type Dictionary interface {
	// Num returns the number of bits.
	Num() uint64
	// Bit returns the bit at position pos.
	Bit(pos uint64) (bool, error)
	// Rank0 returns the number of unset bits in [0, pos).
	Rank0(pos uint64) (uint64, error)
	// Rank1 returns the number of set bits in [0, pos).
	Rank1(pos uint64) (uint64, error)
	// Select0 returns the position of the k-th unset bit.
	Select0(k uint64) (uint64, error)
	// Select1 returns the position of the k-th set bit.
	Select1(k uint64) (uint64, error)
}

// BitDict is a plain indexable dictionary: the packed bits, a two-level
// rank directory and select position samples. It is immutable once built
// and safe for concurrent readers; every query is a pure function over
// state precomputed by Build.
type BitDict struct {
	bv   *BitVector
	rank *rankIndex
	sel  *selectIndex
}

var _ Dictionary = (*BitDict)(nil)

// Build constructs the rank and select directories over bv and returns the
// dictionary wrapping them. Construction is one linear pass per directory;
// the select pass reuses the rank directory's block layout at query time
// rather than keeping its own. The dictionary takes ownership of bv.
func Build(bv *BitVector) *BitDict {
	rank := newRankIndex(bv)
	return &BitDict{
		bv:   bv,
		rank: rank,
		sel:  newSelectIndex(bv, rank),
	}
}

// Num returns the number of bits.
func (d *BitDict) Num() uint64 {
	return d.bv.num
}

// OneNum returns the number of set bits.
func (d *BitDict) OneNum() uint64 {
	return d.rank.ones
}

// ZeroNum returns the number of unset bits.
func (d *BitDict) ZeroNum() uint64 {
	return d.bv.num - d.rank.ones
}

// Bit returns the bit at position pos.
func (d *BitDict) Bit(pos uint64) (bool, error) {
	return d.bv.Bit(pos)
}

// Rank1 returns the number of set bits in [0, pos); pos may equal Num().
func (d *BitDict) Rank1(pos uint64) (uint64, error) {
	return d.rank.rank1(pos)
}

// Rank0 returns the number of unset bits in [0, pos); pos may equal Num().
func (d *BitDict) Rank0(pos uint64) (uint64, error) {
	return d.rank.rank0(pos)
}

// Select1 returns the position of the k-th (1-indexed) set bit.
func (d *BitDict) Select1(k uint64) (uint64, error) {
	return d.sel.select1(k)
}

// Select0 returns the position of the k-th (1-indexed) unset bit.
func (d *BitDict) Select0(k uint64) (uint64, error) {
	return d.sel.select0(k)
}

// Equal reports whether both dictionaries hold the same bit content.
// Directory layout is not compared: dictionaries built with different
// tuning over identical bits are equal.
func (d *BitDict) Equal(o *BitDict) bool {
	if d.bv.num != o.bv.num {
		return false
	}
	for i, w := range d.bv.words {
		if w != o.bv.words[i] {
			return false
		}
	}
	return true
}

// ComponentSize describes one internal array so an external reporter can
// compute byte totals without the dictionary depending on it.
type ComponentSize struct {
	Name  string
	Count int
	Width int
}

// Sizes enumerates the element count and element width of each component.
func (d *BitDict) Sizes() []ComponentSize {
	return []ComponentSize{
		{Name: "words", Count: len(d.bv.words), Width: 8},
		{Name: "rankLarge", Count: len(d.rank.large), Width: 8},
		{Name: "rankSmall", Count: len(d.rank.small), Width: 2},
		{Name: "selectOnes", Count: len(d.sel.ones), Width: 8},
		{Name: "selectZeros", Count: len(d.sel.zeros), Width: 8},
	}
}

// AllocSize returns the allocated size in bytes.
func (d *BitDict) AllocSize() int {
	total := 0
	for _, s := range d.Sizes() {
		total += s.Count * s.Width
	}
	return total
}

// MarshalBinary encodes the BitDict into a binary form and returns the
// result. The directories travel with the bits, so decoding never rebuilds
// them.
func (d *BitDict) MarshalBinary() (out []byte, err error) {
	var bh codec.MsgpackHandle
	enc := codec.NewEncoderBytes(&out, &bh)
	err = enc.Encode(d.bv.words)
	if err != nil {
		return
	}
	err = enc.Encode(d.bv.num)
	if err != nil {
		return
	}
	err = enc.Encode(d.rank.large)
	if err != nil {
		return
	}
	err = enc.Encode(d.rank.small)
	if err != nil {
		return
	}
	err = enc.Encode(d.rank.ones)
	if err != nil {
		return
	}
	err = enc.Encode(d.sel.ones)
	if err != nil {
		return
	}
	err = enc.Encode(d.sel.zeros)
	if err != nil {
		return
	}
	return
}

// UnmarshalBinary decodes a BitDict from a binary form generated by
// MarshalBinary. It validates the structural invariants before the
// dictionary becomes queryable.
func (d *BitDict) UnmarshalBinary(in []byte) error {
	var bh codec.MsgpackHandle
	dec := codec.NewDecoderBytes(in, &bh)
	bv := &BitVector{}
	rank := &rankIndex{bv: bv}
	sel := &selectIndex{bv: bv, rank: rank}
	if err := dec.Decode(&bv.words); err != nil {
		return err
	}
	if err := dec.Decode(&bv.num); err != nil {
		return err
	}
	if err := dec.Decode(&rank.large); err != nil {
		return err
	}
	if err := dec.Decode(&rank.small); err != nil {
		return err
	}
	if err := dec.Decode(&rank.ones); err != nil {
		return err
	}
	if err := dec.Decode(&sel.ones); err != nil {
		return err
	}
	if err := dec.Decode(&sel.zeros); err != nil {
		return err
	}

	if bv.wordCount() != (bv.num+wordBits-1)/wordBits {
		return fmt.Errorf("%w: %d bits in %d words", ErrInvalidBitCount, bv.num, bv.wordCount())
	}
	numSmall := (bv.num + smallBlockBits - 1) / smallBlockBits
	numLarge := (bv.num + largeBlockBits - 1) / largeBlockBits
	if uint64(len(rank.large)) != numLarge || uint64(len(rank.small)) != numSmall {
		return fmt.Errorf("rank directory size mismatch: %d large, %d small for %d bits",
			len(rank.large), len(rank.small), bv.num)
	}
	if rank.ones > bv.num {
		return fmt.Errorf("set bit count %d exceeds %d bits", rank.ones, bv.num)
	}
	if uint64(len(sel.ones)) != sampleCount(rank.ones) ||
		uint64(len(sel.zeros)) != sampleCount(bv.num-rank.ones) {
		return fmt.Errorf("select sample count mismatch: %d one samples, %d zero samples for %d/%d bits",
			len(sel.ones), len(sel.zeros), rank.ones, bv.num-rank.ones)
	}
	if !validSamples(sel.ones, bv.num) || !validSamples(sel.zeros, bv.num) {
		return fmt.Errorf("select samples out of order or beyond %d bits", bv.num)
	}

	d.bv = bv
	d.rank = rank
	d.sel = sel
	return nil
}

// validSamples reports whether every select sample is a position below num
// and the samples are strictly increasing, so the block narrowing they seed
// stays inside the rank directory.
func validSamples(samples []uint64, num uint64) bool {
	for i, p := range samples {
		if p >= num || (i > 0 && p <= samples[i-1]) {
			return false
		}
	}
	return true
}
