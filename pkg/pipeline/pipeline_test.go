package pipeline

import (
	"reflect"
	"testing"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/config"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"json", false},
		{"svg", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"png", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"png", "gif"}); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with INVALID_FORMAT, got %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if !reflect.DeepEqual(opts.Candidates, []uint32(atlas.DefaultCandidates)) {
		t.Errorf("Candidates = %v", opts.Candidates)
	}
	if !reflect.DeepEqual(opts.Formats, []string{"png", "json"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Compression != "default" {
		t.Errorf("Compression = %q", opts.Compression)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	if opts.Border != 0 {
		t.Errorf("Border should be used as given, got %d", opts.Border)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"valid", Options{Border: 1}, ""},
		{"bad candidates", Options{Candidates: []uint32{8, 24}}, apperrors.ErrCodeInvalidInput},
		{"bad border", Options{Border: 17}, apperrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"bmp"}}, apperrors.ErrCodeInvalidFormat},
		{"bad compression", Options{Compression: "max"}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Atlas.Border = 3
	cfg.Atlas.Bleed = true
	cfg.Output.PNGCompression = "best"

	opts := FromConfig(cfg)
	if opts.Border != 3 || !opts.Bleed || opts.Compression != "best" {
		t.Errorf("FromConfig = %+v", opts)
	}

	opts.Candidates[0] = 2
	if cfg.Atlas.Candidates[0] == 2 {
		t.Error("FromConfig must copy candidates")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Bleed: true, Compression: "best"}
	png := opts.ArtifactKeyOpts(FormatPNG, "abc")
	if png.Compression != "best" || !png.Bleed || png.SourceHash != "abc" {
		t.Errorf("png key opts = %+v", png)
	}
	// Compression never changes the JSON manifest.
	if js := opts.ArtifactKeyOpts(FormatJSON, "abc"); js.Compression != "" {
		t.Errorf("json key opts = %+v", js)
	}
}
