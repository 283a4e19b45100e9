package atlas

import (
	"errors"
	"testing"
)

func TestRequiredArea(t *testing.T) {
	in := sizes(64, 64, 32, 32, 32, 32, 16, 16)
	if got := RequiredArea(in, 1); got != 9304 {
		t.Errorf("RequiredArea = %d, want 9304", got)
	}
	if got := RequiredArea(in, 0); got != 64*64+2*32*32+16*16 {
		t.Errorf("RequiredArea without border = %d", got)
	}
	if got := RequiredArea(nil, 1); got != 0 {
		t.Errorf("RequiredArea(nil) = %d, want 0", got)
	}
}

func TestSelectSize(t *testing.T) {
	tests := []struct {
		required uint64
		want     uint32
		wantErr  bool
	}{
		{1, 8, false},
		{64, 8, false},
		{65, 16, false},
		{4096, 64, false},
		{4097, 128, false},
		{9304, 128, false},
		{792588, 1024, false},
		{1024 * 1024, 1024, false},
		{1024*1024 + 1, 0, true},
	}

	for _, tt := range tests {
		got, err := SelectSize(tt.required, DefaultCandidates)
		if (err != nil) != tt.wantErr {
			t.Errorf("SelectSize(%d) error = %v, wantErr %v", tt.required, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("SelectSize(%d) = %d, want %d", tt.required, got, tt.want)
		}
	}
}

func TestSelectSizeCustomCandidates(t *testing.T) {
	c := Candidates{256, 4096}
	if d, err := SelectSize(100, c); err != nil || d != 256 {
		t.Errorf("SelectSize(100) = %d, %v; want 256", d, err)
	}
	if d, err := SelectSize(300*300, c); err != nil || d != 4096 {
		t.Errorf("SelectSize(90000) = %d, %v; want 4096", d, err)
	}
	_, err := SelectSize(5000*5000, c)
	var tl *TooLargeError
	if !errors.As(err, &tl) || tl.Max != 4096 {
		t.Errorf("err = %v, want TooLargeError with Max 4096", err)
	}
}

func TestCandidatesValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Candidates
		wantErr bool
	}{
		{"default", DefaultCandidates, false},
		{"single", Candidates{512}, false},
		{"max", Candidates{MaxDimension}, false},
		{"empty", Candidates{}, true},
		{"zero", Candidates{0, 8}, true},
		{"not power of two", Candidates{8, 24}, true},
		{"descending", Candidates{16, 8}, true},
		{"duplicate", Candidates{8, 8}, true},
		{"too large", Candidates{MaxDimension * 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCandidates) {
				t.Errorf("error should wrap ErrInvalidCandidates: %v", err)
			}
		})
	}
}
