package atlas

import (
	"errors"
	"math"
	"math/rand/v2"
	"reflect"
	"testing"
)

func sizes(dims ...uint32) []Size {
	out := make([]Size, 0, len(dims)/2)
	for i := 0; i+1 < len(dims); i += 2 {
		out = append(out, Size{Width: dims[i], Height: dims[i+1]})
	}
	return out
}

func TestPackScenario(t *testing.T) {
	in := sizes(64, 64, 32, 32, 32, 32, 16, 16)

	l, err := Pack(in)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	if l.Dimension != 128 {
		t.Errorf("Dimension = %d, want 128", l.Dimension)
	}
	if len(l.Entries) != len(in) {
		t.Fatalf("got %d entries, want %d", len(l.Entries), len(in))
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// The largest rectangle is inserted first into the empty root.
	if e := l.Entries[0]; e.X != 1 || e.Y != 1 {
		t.Errorf("64x64 placed at (%d,%d), want (1,1)", e.X, e.Y)
	}

	want := [][2]uint32{{1, 1}, {67, 1}, {1, 67}, {101, 1}}
	for i, w := range want {
		e := l.Entries[i]
		if e.X != w[0] || e.Y != w[1] {
			t.Errorf("entry %d at (%d,%d), want (%d,%d)", i, e.X, e.Y, w[0], w[1])
		}
		if e.Width != in[i].Width || e.Height != in[i].Height {
			t.Errorf("entry %d size %dx%d, want %dx%d", i, e.Width, e.Height, in[i].Width, in[i].Height)
		}
	}
}

func TestPackTooLarge(t *testing.T) {
	_, err := Pack(sizes(2000, 2000))
	if !errors.Is(err, ErrAtlasTooLarge) {
		t.Fatalf("err = %v, want ErrAtlasTooLarge", err)
	}
	var tl *TooLargeError
	if !errors.As(err, &tl) {
		t.Fatalf("err should be *TooLargeError, got %T", err)
	}
	if tl.Required != 2002*2002 {
		t.Errorf("Required = %d, want %d", tl.Required, 2002*2002)
	}
	if tl.Max != 1024 {
		t.Errorf("Max = %d, want 1024", tl.Max)
	}
}

func TestPackThreeHalfAtlasSquares(t *testing.T) {
	// 3 x 514^2 fits the 1024^2 area, but no two 514-pixel squares fit side
	// by side in 1024 pixels, so the second insert fragments.
	in := sizes(512, 512, 512, 512, 512, 512)

	d, err := SelectSize(RequiredArea(in, DefaultBorder), DefaultCandidates)
	if err != nil || d != 1024 {
		t.Fatalf("SelectSize = %d, %v; want 1024", d, err)
	}

	l, err := Pack(in)
	if !errors.Is(err, ErrPlacementFailure) {
		t.Fatalf("err = %v, want ErrPlacementFailure", err)
	}
	if l != nil {
		t.Error("failed pack must not return a layout")
	}
	var pe *PlacementError
	if !errors.As(err, &pe) {
		t.Fatalf("err should be *PlacementError, got %T", err)
	}
	if pe.ID != 1 || pe.Dimension != 1024 {
		t.Errorf("PlacementError = %+v, want ID 1 in 1024", pe)
	}
}

func TestPackThreeQuarterAtlasSquares(t *testing.T) {
	// Bordered 512x512 squares tile the 1024 atlas exactly.
	l, err := Pack(sizes(510, 510, 510, 510, 510, 510))
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	if l.Dimension != 1024 {
		t.Errorf("Dimension = %d, want 1024", l.Dimension)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	want := [][2]uint32{{1, 1}, {513, 1}, {1, 513}}
	for i, w := range want {
		if e := l.Entries[i]; e.X != w[0] || e.Y != w[1] {
			t.Errorf("entry %d at (%d,%d), want (%d,%d)", i, e.X, e.Y, w[0], w[1])
		}
	}
}

func TestPackExactCandidate(t *testing.T) {
	tests := []struct {
		side uint32
		want uint32
	}{
		{6, 8},
		{14, 16},
		{30, 32},
		{62, 64},
		{1022, 1024},
	}

	for _, tt := range tests {
		l, err := Pack(sizes(tt.side, tt.side))
		if err != nil {
			t.Errorf("Pack(%d) error: %v", tt.side, err)
			continue
		}
		if l.Dimension != tt.want {
			t.Errorf("Pack(%d) dimension = %d, want %d", tt.side, l.Dimension, tt.want)
		}
		if e := l.Entries[0]; e.X != 1 || e.Y != 1 {
			t.Errorf("Pack(%d) placed at (%d,%d), want (1,1)", tt.side, e.X, e.Y)
		}
	}
}

func TestPackErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []Size
		want error
	}{
		{"empty", nil, ErrEmptyInput},
		{"zero width", sizes(0, 4), ErrInvalidSize},
		{"zero height", sizes(4, 4, 4, 0), ErrInvalidSize},
		{"too large", sizes(1023, 1023), ErrAtlasTooLarge},
		{"wide strip", sizes(200, 1), ErrPlacementFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Pack(tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if l != nil {
				t.Error("expected nil layout on error")
			}
		})
	}
}

func TestPackOverflowingSizes(t *testing.T) {
	tests := []struct {
		name string
		in   []Size
	}{
		{"area wraps to zero", sizes(1<<32-2, 1<<32-2)},
		{"sum wraps to zero", sizes(1<<31-2, 1<<32-2, 1<<31-2, 1<<32-2)},
		{"side over max", sizes(1023, 1, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pack(tt.in)
			var tl *TooLargeError
			if !errors.As(err, &tl) {
				t.Fatalf("err = %v, want *TooLargeError", err)
			}
			if tl.Max != 1024 {
				t.Errorf("Max = %d, want 1024", tl.Max)
			}
		})
	}
}

func TestRequiredAreaSaturates(t *testing.T) {
	if got := RequiredArea(sizes(1<<32-2, 1<<32-2), DefaultBorder); got != math.MaxUint64 {
		t.Errorf("RequiredArea = %d, want MaxUint64", got)
	}
	if got := RequiredArea(sizes(1<<31-2, 1<<32-2, 1<<31-2, 1<<32-2), DefaultBorder); got != math.MaxUint64 {
		t.Errorf("RequiredArea = %d, want MaxUint64", got)
	}
	if got := RequiredArea(sizes(62, 62), DefaultBorder); got != 64*64 {
		t.Errorf("RequiredArea = %d, want %d", got, 64*64)
	}
}

func TestPackUVRoundTrip(t *testing.T) {
	l, err := Pack(sizes(100, 20, 7, 300, 33, 33, 1, 1, 250, 64))
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	d := float32(l.Dimension)
	for _, e := range l.Entries {
		if e.U*d != float32(e.X) || e.V*d != float32(e.Y) {
			t.Errorf("entry %d: uv offset (%v,%v)*%v != (%d,%d)", e.ID, e.U, e.V, d, e.X, e.Y)
		}
		if e.UW*d != float32(e.Width) || e.VH*d != float32(e.Height) {
			t.Errorf("entry %d: uv extent (%v,%v)*%v != (%d,%d)", e.ID, e.UW, e.VH, d, e.Width, e.Height)
		}
	}
}

func TestPackRandomInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	packed := 0

	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(40)
		in := make([]Size, n)
		for i := range in {
			in[i] = Size{Width: 1 + rng.Uint32N(120), Height: 1 + rng.Uint32N(120)}
		}

		l, err := Pack(in)
		if errors.Is(err, ErrAtlasTooLarge) || errors.Is(err, ErrPlacementFailure) {
			continue
		}
		if err != nil {
			t.Fatalf("round %d: unexpected error %v", round, err)
		}
		packed++

		if err := l.Validate(); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if RequiredArea(in, l.Border) > uint64(l.Dimension)*uint64(l.Dimension) {
			t.Fatalf("round %d: bordered area exceeds atlas", round)
		}
		if !containsDim(DefaultCandidates, l.Dimension) {
			t.Fatalf("round %d: dimension %d is not a candidate", round, l.Dimension)
		}
	}

	if packed == 0 {
		t.Fatal("no random input packed successfully")
	}
}

func containsDim(c Candidates, d uint32) bool {
	for _, v := range c {
		if v == d {
			return true
		}
	}
	return false
}

func TestPackDeterministic(t *testing.T) {
	in := sizes(10, 10, 20, 5, 5, 20, 10, 10, 8, 12, 12, 8, 3, 3)
	first, err := Pack(in)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Pack(in)
		if err != nil {
			t.Fatalf("Pack error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different layout", i)
		}
	}
}

func TestPackBorder(t *testing.T) {
	tests := []struct {
		border  uint32
		wantDim uint32
		wantX   uint32
	}{
		{0, 32, 0},
		{1, 64, 1},
		{4, 64, 4},
	}

	for _, tt := range tests {
		l, err := Pack(sizes(32, 32), WithBorder(tt.border))
		if err != nil {
			t.Errorf("border %d: %v", tt.border, err)
			continue
		}
		if l.Dimension != tt.wantDim {
			t.Errorf("border %d: dimension %d, want %d", tt.border, l.Dimension, tt.wantDim)
		}
		if l.Entries[0].X != tt.wantX {
			t.Errorf("border %d: x %d, want %d", tt.border, l.Entries[0].X, tt.wantX)
		}
		if l.Border != tt.border {
			t.Errorf("layout border %d, want %d", l.Border, tt.border)
		}
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(WithBorder(MaxBorder + 1)); !errors.Is(err, ErrInvalidBorder) {
		t.Errorf("oversized border: err = %v", err)
	}
	if _, err := New(WithCandidates(Candidates{64, 32})); !errors.Is(err, ErrInvalidCandidates) {
		t.Errorf("descending candidates: err = %v", err)
	}
	p, err := New(WithCandidates(Candidates{2048, 4096}))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	l, err := p.Pack(sizes(2000, 2000))
	if err != nil {
		t.Fatalf("Pack with raised ceiling: %v", err)
	}
	if l.Dimension != 2048 {
		t.Errorf("Dimension = %d, want 2048", l.Dimension)
	}
}

func TestPackerCandidatesCopy(t *testing.T) {
	c := Candidates{16, 32}
	p, err := New(WithCandidates(c))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c[0] = 3
	got := p.Candidates()
	got[1] = 5
	if !reflect.DeepEqual(p.Candidates(), Candidates{16, 32}) {
		t.Errorf("packer candidates changed: %v", p.Candidates())
	}
}

func TestLayoutUtilization(t *testing.T) {
	l, err := Pack(sizes(30, 30))
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	want := float64(30*30) / float64(32*32)
	if got := l.Utilization(); got != want {
		t.Errorf("Utilization = %v, want %v", got, want)
	}
	if (&Layout{}).Utilization() != 0 {
		t.Error("empty layout utilization should be 0")
	}
}

func TestLayoutValidateDetectsOverlap(t *testing.T) {
	l := &Layout{
		Dimension: 16,
		Border:    1,
		Entries: []Entry{
			{ID: 0, X: 1, Y: 1, Width: 4, Height: 4},
			{ID: 1, X: 5, Y: 1, Width: 4, Height: 4},
		},
	}
	if err := l.Validate(); err == nil {
		t.Error("touching borders should overlap")
	}

	l.Entries[1].X = 7
	if err := l.Validate(); err != nil {
		t.Errorf("separated entries: %v", err)
	}

	l.Entries[1].X = 12
	if err := l.Validate(); err == nil {
		t.Error("entry past the atlas edge should fail")
	}
}
