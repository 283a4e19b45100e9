package atlas

import (
	"fmt"
	"image"
)

// Size is the pixel size of one input image. Its position in the slice
// passed to Pack is its identity.
type Size struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Area returns Width*Height.
func (s Size) Area() uint64 { return uint64(s.Width) * uint64(s.Height) }

// Entry is where one input landed in the atlas.
type Entry struct {
	ID     int    `json:"id"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`

	// X and Y are the pixel offset of the image inside its border.
	X uint32 `json:"x"`
	Y uint32 `json:"y"`

	// U and V are X and Y divided by the atlas dimension.
	U float32 `json:"u"`
	V float32 `json:"v"`

	// UW and VH are Width and Height divided by the atlas dimension.
	UW float32 `json:"uw"`
	VH float32 `json:"vh"`
}

// Rect returns the pixel rectangle the source image should be copied into.
func (e Entry) Rect() image.Rectangle {
	return image.Rect(int(e.X), int(e.Y), int(e.X+e.Width), int(e.Y+e.Height))
}

// Layout is the result of a successful pack.
type Layout struct {
	Dimension uint32  `json:"dimension"`
	Border    uint32  `json:"border"`
	Entries   []Entry `json:"entries"` // parallel to the input slice
}

func newEntry(id int, w, h uint32, n node, dim, border uint32) Entry {
	x := uint32(n.x) + border
	y := uint32(n.y) + border
	d := float32(dim)
	return Entry{
		ID:     id,
		Width:  w,
		Height: h,
		X:      x,
		Y:      y,
		U:      float32(x) / d,
		V:      float32(y) / d,
		UW:     float32(w) / d,
		VH:     float32(h) / d,
	}
}

// Bounds returns the atlas rectangle.
func (l *Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(l.Dimension), int(l.Dimension))
}

// Rect returns the pixel rectangle for input id.
func (l *Layout) Rect(id int) image.Rectangle {
	return l.Entries[id].Rect()
}

// Bordered returns the rectangle of entry e including its border.
func (l *Layout) Bordered(e Entry) image.Rectangle {
	b := int(l.Border)
	return e.Rect().Inset(-b)
}

// Utilization returns the fraction of atlas pixels covered by images,
// excluding borders.
func (l *Layout) Utilization() float64 {
	if l.Dimension == 0 {
		return 0
	}
	var used uint64
	for _, e := range l.Entries {
		used += uint64(e.Width) * uint64(e.Height)
	}
	return float64(used) / (float64(l.Dimension) * float64(l.Dimension))
}

// Validate checks that every bordered entry lies inside the atlas, that no
// two bordered entries overlap, and that entry IDs match their index.
func (l *Layout) Validate() error {
	bounds := l.Bounds()
	rects := make([]image.Rectangle, len(l.Entries))
	for i, e := range l.Entries {
		if e.ID != i {
			return fmt.Errorf("entry %d has id %d", i, e.ID)
		}
		r := l.Bordered(e)
		if !r.In(bounds) {
			return fmt.Errorf("entry %d %v outside atlas %v", i, r, bounds)
		}
		rects[i] = r
	}
	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) {
				return fmt.Errorf("entries %d %v and %d %v overlap", i, rects[i], j, rects[j])
			}
		}
	}
	return nil
}
