package atlas

import (
	"fmt"
	"math"
	"math/bits"
)

// MaxDimension is the largest candidate accepted by [Candidates.Validate].
const MaxDimension = 1 << 15

// Candidates is an ascending list of power-of-two atlas dimensions.
type Candidates []uint32

// DefaultCandidates are the dimensions tried when none are configured.
var DefaultCandidates = Candidates{8, 16, 32, 64, 128, 256, 512, 1024}

// Validate checks that c is non-empty, strictly ascending, and contains only
// powers of two no larger than [MaxDimension].
func (c Candidates) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: list is empty", ErrInvalidCandidates)
	}
	for i, d := range c {
		if d == 0 || bits.OnesCount32(d) != 1 {
			return fmt.Errorf("%w: %d is not a power of two", ErrInvalidCandidates, d)
		}
		if d > MaxDimension {
			return fmt.Errorf("%w: %d exceeds %d", ErrInvalidCandidates, d, MaxDimension)
		}
		if i > 0 && d <= c[i-1] {
			return fmt.Errorf("%w: %d does not follow %d in ascending order", ErrInvalidCandidates, d, c[i-1])
		}
	}
	return nil
}

// Max returns the largest candidate, or 0 for an empty list.
func (c Candidates) Max() uint32 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

// RequiredArea returns the total area of sizes once each rectangle is padded
// by border pixels on every side. The sum saturates at math.MaxUint64.
func RequiredArea(sizes []Size, border uint32) uint64 {
	pad := 2 * uint64(border)
	var total uint64
	for _, s := range sizes {
		hi, area := bits.Mul64(uint64(s.Width)+pad, uint64(s.Height)+pad)
		if hi != 0 {
			return math.MaxUint64
		}
		var carry uint64
		if total, carry = bits.Add64(total, area, 0); carry != 0 {
			return math.MaxUint64
		}
	}
	return total
}

// SelectSize returns the smallest candidate D with D*D >= required.
// It returns a [*TooLargeError] when no candidate is big enough.
func SelectSize(required uint64, candidates Candidates) (uint32, error) {
	for _, d := range candidates {
		if uint64(d)*uint64(d) >= required {
			return d, nil
		}
	}
	return 0, &TooLargeError{Required: required, Max: candidates.Max()}
}
