package atlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for packing operations.
var (
	// ErrAtlasTooLarge is matched by [*TooLargeError].
	ErrAtlasTooLarge = errors.New("atlas: required area exceeds largest candidate")

	// ErrPlacementFailure is matched by [*PlacementError].
	ErrPlacementFailure = errors.New("atlas: rectangle could not be placed")

	// ErrEmptyInput is returned when Pack is called with no rectangles.
	ErrEmptyInput = errors.New("atlas: no rectangles to pack")

	// ErrInvalidSize is returned for rectangles with zero width or height.
	ErrInvalidSize = errors.New("atlas: rectangle has zero width or height")

	// ErrInvalidCandidates is returned when a candidate list is empty,
	// unsorted, or contains a value that is not a power of two.
	ErrInvalidCandidates = errors.New("atlas: invalid candidate dimensions")

	// ErrInvalidBorder is returned when the border exceeds [MaxBorder].
	ErrInvalidBorder = errors.New("atlas: invalid border")
)

// TooLargeError reports that the bordered input area exceeds the largest
// candidate atlas.
type TooLargeError struct {
	Required uint64 // sum of bordered rectangle areas
	Max      uint32 // largest candidate dimension
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("atlas: required area %d exceeds largest candidate %dx%d (%d)",
		e.Required, e.Max, e.Max, uint64(e.Max)*uint64(e.Max))
}

// Is reports whether target is [ErrAtlasTooLarge].
func (e *TooLargeError) Is(target error) bool { return target == ErrAtlasTooLarge }

// PlacementError reports the first rectangle that could not be placed even
// though the aggregate area fit the chosen dimension.
type PlacementError struct {
	ID        int    // input index of the rectangle
	Width     uint32 // unbordered width
	Height    uint32 // unbordered height
	Dimension uint32 // atlas dimension that was tried
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("atlas: rectangle %d (%dx%d) does not fit in %dx%d atlas",
		e.ID, e.Width, e.Height, e.Dimension, e.Dimension)
}

// Is reports whether target is [ErrPlacementFailure].
func (e *PlacementError) Is(target error) bool { return target == ErrPlacementFailure }
