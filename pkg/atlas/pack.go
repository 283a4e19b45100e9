package atlas

import "fmt"

const (
	// DefaultBorder is the padding in pixels added on each side of every
	// rectangle before it is inserted.
	DefaultBorder = 1

	// MaxBorder is the largest border accepted by [WithBorder].
	MaxBorder = 16
)

// Option configures a [Packer].
type Option func(*Packer)

// WithCandidates replaces the candidate atlas dimensions.
func WithCandidates(c Candidates) Option {
	return func(p *Packer) { p.candidates = append(Candidates(nil), c...) }
}

// WithBorder sets the per-side padding in pixels.
func WithBorder(b uint32) Option {
	return func(p *Packer) { p.border = b }
}

// Packer packs rectangles into a square atlas. The zero value is not usable;
// create one with [New].
type Packer struct {
	candidates Candidates
	border     uint32
}

// New creates a Packer with [DefaultCandidates] and [DefaultBorder] unless
// overridden by opts. It returns an error if the resulting configuration is
// invalid.
func New(opts ...Option) (*Packer, error) {
	p := &Packer{
		candidates: DefaultCandidates,
		border:     DefaultBorder,
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.candidates.Validate(); err != nil {
		return nil, err
	}
	if p.border > MaxBorder {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidBorder, p.border, MaxBorder)
	}
	return p, nil
}

// Candidates returns a copy of the configured candidate dimensions.
func (p *Packer) Candidates() Candidates { return append(Candidates(nil), p.candidates...) }

// Border returns the configured per-side padding.
func (p *Packer) Border() uint32 { return p.border }

// Pack places every rectangle in sizes and returns the resulting layout.
// Entries in the layout are in the same order as sizes.
func (p *Packer) Pack(sizes []Size) (*Layout, error) {
	l, _, err := p.pack(sizes)
	return l, err
}

// PackTree is like Pack but also returns a snapshot of the packing tree.
func (p *Packer) PackTree(sizes []Size) (*Layout, *Tree, error) {
	l, t, err := p.pack(sizes)
	if err != nil {
		return nil, nil, err
	}
	return l, t.snapshot(l.Dimension, p.border), nil
}

func (p *Packer) pack(sizes []Size) (*Layout, *tree, error) {
	if len(sizes) == 0 {
		return nil, nil, ErrEmptyInput
	}
	for i, s := range sizes {
		if s.Width == 0 || s.Height == 0 {
			return nil, nil, fmt.Errorf("%w: rectangle %d is %dx%d", ErrInvalidSize, i, s.Width, s.Height)
		}
	}

	pad := 2 * uint64(p.border)

	// A rectangle wider or taller than the largest candidate can never fit,
	// whatever the area sum says.
	maxDim := uint64(p.candidates.Max())
	for _, s := range sizes {
		if uint64(s.Width)+pad > maxDim || uint64(s.Height)+pad > maxDim {
			return nil, nil, &TooLargeError{Required: RequiredArea(sizes, p.border), Max: p.candidates.Max()}
		}
	}

	dim, err := SelectSize(RequiredArea(sizes, p.border), p.candidates)
	if err != nil {
		return nil, nil, err
	}

	t := newTree(dim, 2*len(sizes)+1)
	placed := make([]int32, len(sizes))
	for _, img := range sortByArea(sizes) {
		leaf := t.insert(0, int64(img.w)+int64(pad), int64(img.h)+int64(pad), img.id)
		if leaf == noChild {
			return nil, nil, &PlacementError{ID: img.id, Width: img.w, Height: img.h, Dimension: dim}
		}
		placed[img.id] = leaf
	}

	l := &Layout{
		Dimension: dim,
		Border:    p.border,
		Entries:   make([]Entry, len(sizes)),
	}
	for id, leaf := range placed {
		s := sizes[id]
		l.Entries[id] = newEntry(id, s.Width, s.Height, t.nodes[leaf], dim, p.border)
	}
	return l, t, nil
}

// Pack packs sizes with a Packer configured by opts.
func Pack(sizes []Size, opts ...Option) (*Layout, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return p.Pack(sizes)
}
