package sink

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

func testLayout(t *testing.T) *atlas.Layout {
	t.Helper()
	l, err := atlas.Pack([]atlas.Size{{Width: 64, Height: 64}, {Width: 32, Height: 32}, {Width: 32, Height: 32}, {Width: 16, Height: 16}})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestRenderJSON(t *testing.T) {
	l := testLayout(t)

	data, err := RenderJSON(l, WithNames([]string{"hero", "coin", "gem"}), WithSource("atlas.png"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out Manifest
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Dimension != 128 || out.Border != 1 {
		t.Errorf("dimension/border = %d/%d, want 128/1", out.Dimension, out.Border)
	}
	if out.Utilization != 0.390625 {
		t.Errorf("Utilization = %v, want 0.390625", out.Utilization)
	}
	if out.Image != "atlas.png" {
		t.Errorf("Image = %q", out.Image)
	}
	if len(out.Entries) != 4 {
		t.Fatalf("Entries count = %d, want 4", len(out.Entries))
	}
	if out.Entries[0].Name != "hero" || out.Entries[3].Name != "" {
		t.Errorf("names = %v", out.Names())
	}
	if e := out.Entries[0]; e.X != 1 || e.Y != 1 || e.UW != 0.5 {
		t.Errorf("entry 0 = %+v", e)
	}
}

func TestRenderJSONKeys(t *testing.T) {
	data, err := RenderJSON(testLayout(t))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, key := range []string{`"dimension"`, `"border"`, `"utilization"`, `"entries"`, `"uw"`, `"vh"`} {
		if !strings.Contains(s, key) {
			t.Errorf("missing key %s", key)
		}
	}
	for _, key := range []string{`"name"`, `"image"`} {
		if strings.Contains(s, key) {
			t.Errorf("unexpected key %s without options", key)
		}
	}
}

func TestReadJSONRoundTrip(t *testing.T) {
	l := testLayout(t)
	names := []string{"a", "b", "c", "d"}
	data, err := RenderJSON(l, WithNames(names))
	if err != nil {
		t.Fatal(err)
	}

	m, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !reflect.DeepEqual(m.Layout(), l) {
		t.Errorf("layout mismatch:\n got %+v\nwant %+v", m.Layout(), l)
	}
	if !reflect.DeepEqual(m.Names(), names) {
		t.Errorf("Names() = %v", m.Names())
	}
	if e, ok := m.Lookup("c"); !ok || e.ID != 2 {
		t.Errorf("Lookup(c) = %+v, %v", e, ok)
	}
	if _, ok := m.Lookup("zzz"); ok {
		t.Error("Lookup of unknown name succeeded")
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"dimension":`},
		{"out of bounds", `{"dimension":8,"border":1,"entries":[{"id":0,"x":1,"y":1,"width":16,"height":16}]}`},
		{"overlap", `{"dimension":64,"border":1,"entries":[{"id":0,"x":1,"y":1,"width":8,"height":8},{"id":1,"x":2,"y":2,"width":8,"height":8}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.data))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadJSONFile(t *testing.T) {
	dir := t.TempDir()
	data, err := RenderJSON(testLayout(t))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "atlas.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadJSONFile(path)
	if err != nil {
		t.Fatalf("ReadJSONFile() error: %v", err)
	}
	if m.Dimension != 128 {
		t.Errorf("Dimension = %d", m.Dimension)
	}

	if _, err := ReadJSONFile(filepath.Join(dir, "missing.json")); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}
