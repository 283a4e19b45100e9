package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/texatlas/pkg/atlas"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	names  []string
	source string
}

// WithNames labels entries. names[i] belongs to entry i; missing names are
// left empty.
func WithNames(names []string) JSONOption { return func(r *jsonRenderer) { r.names = names } }

// WithSource records the atlas image file the manifest describes.
func WithSource(path string) JSONOption { return func(r *jsonRenderer) { r.source = path } }

// Manifest is the JSON document written by [RenderJSON].
type Manifest struct {
	Dimension   uint32          `json:"dimension"`
	Border      uint32          `json:"border"`
	Utilization float64         `json:"utilization"`
	Image       string          `json:"image,omitempty"`
	Entries     []ManifestEntry `json:"entries"`
}

// ManifestEntry is one placed sprite.
type ManifestEntry struct {
	ID     int     `json:"id"`
	Name   string  `json:"name,omitempty"`
	X      uint32  `json:"x"`
	Y      uint32  `json:"y"`
	Width  uint32  `json:"width"`
	Height uint32  `json:"height"`
	U      float32 `json:"u"`
	V      float32 `json:"v"`
	UW     float32 `json:"uw"`
	VH     float32 `json:"vh"`
}

// NewManifest builds the manifest for l.
func NewManifest(l *atlas.Layout, opts ...JSONOption) Manifest {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	m := Manifest{
		Dimension:   l.Dimension,
		Border:      l.Border,
		Utilization: l.Utilization(),
		Image:       r.source,
		Entries:     make([]ManifestEntry, len(l.Entries)),
	}
	for i, e := range l.Entries {
		me := ManifestEntry{
			ID: e.ID, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			U: e.U, V: e.V, UW: e.UW, VH: e.VH,
		}
		if i < len(r.names) {
			me.Name = r.names[i]
		}
		m.Entries[i] = me
	}
	return m
}

// Layout converts the manifest back into a layout.
func (m Manifest) Layout() *atlas.Layout {
	l := &atlas.Layout{
		Dimension: m.Dimension,
		Border:    m.Border,
		Entries:   make([]atlas.Entry, len(m.Entries)),
	}
	for i, e := range m.Entries {
		l.Entries[i] = atlas.Entry{
			ID: e.ID, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
			U: e.U, V: e.V, UW: e.UW, VH: e.VH,
		}
	}
	return l
}

// Names returns the entry names in ID order.
func (m Manifest) Names() []string {
	names := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry named name.
func (m Manifest) Lookup(name string) (ManifestEntry, bool) {
	for _, e := range m.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// RenderJSON exports the layout as a pretty-printed JSON manifest.
// It does not modify l and is safe to call concurrently.
func RenderJSON(l *atlas.Layout, opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(NewManifest(l, opts...), "", "  ")
}

// ReadJSON parses a manifest and checks that its layout is consistent.
func ReadJSON(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse manifest")
	}
	if err := m.Layout().Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "invalid manifest")
	}
	return &m, nil
}

// ReadJSONFile reads a manifest from path.
func ReadJSONFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()

	m, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
