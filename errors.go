package succinct

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBitCount is returned when a declared bit count exceeds the
	// capacity of the supplied words.
	ErrInvalidBitCount = errors.New("bit count exceeds word capacity")
	// ErrInvalidPositions is returned when a position sequence is not
	// strictly increasing or exceeds the declared universe.
	ErrInvalidPositions = errors.New("positions must be strictly increasing and below the bit count")
)

// ErrOutOfRange indicates a position argument beyond the vector bounds.
// Bit accepts positions in [0, Num()), rank accepts positions in [0, Num()].
type ErrOutOfRange struct {
	Pos uint64
	Num uint64
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("position %d out of range for %d bits", e.Pos, e.Num)
}

// ErrRankOutOfRange indicates a select argument outside [1, total], where
// total is the number of occurrences of the requested bit value.
type ErrRankOutOfRange struct {
	Rank uint64
	Max  uint64
	Bit  bool
}

func (e *ErrRankOutOfRange) Error() string {
	return fmt.Sprintf("rank %d out of range: vector holds %d %v bits", e.Rank, e.Max, e.Bit)
}
