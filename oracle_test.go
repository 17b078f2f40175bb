package succinct

import (
	"math/rand"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
)

// TestRankSelectRoaringOracle cross-checks rank and select against an
// independent implementation built from the same positions.
func TestRankSelectRoaringOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	n := uint64(2*selectSampleRate + 321)
	bits := randomBits(n, 0.2, rng)

	rb := roaring.New()
	for i, b := range bits {
		if b {
			rb.Add(uint32(i))
		}
	}

	for _, d := range []Dictionary{
		Build(NewBitVectorFromBools(bits)),
		BuildSparse(NewBitVectorFromBools(bits)),
	} {
		if got, want := d.Num(), n; got != want {
			t.Fatalf("Num() = %d, want %d", got, want)
		}

		// roaring Rank(x) counts values <= x, ours counts values < pos.
		for pos := uint64(0); pos < n; pos++ {
			r1, err := d.Rank1(pos + 1)
			if err != nil {
				t.Fatalf("Rank1(%d): %v", pos+1, err)
			}
			if want := rb.Rank(uint32(pos)); r1 != want {
				t.Fatalf("Rank1(%d) = %d, roaring says %d", pos+1, r1, want)
			}
		}

		for k := uint64(1); k <= rb.GetCardinality(); k++ {
			pos, err := d.Select1(k)
			if err != nil {
				t.Fatalf("Select1(%d): %v", k, err)
			}
			want, err := rb.Select(uint32(k - 1))
			if err != nil {
				t.Fatalf("roaring Select(%d): %v", k-1, err)
			}
			if pos != uint64(want) {
				t.Fatalf("Select1(%d) = %d, roaring says %d", k, pos, want)
			}
		}
	}
}
