package cache

import "fmt"

// LayoutKeyOpts are the packer settings that change a layout.
type LayoutKeyOpts struct {
	Candidates []uint32 `json:"candidates"`
	Border     uint32   `json:"border"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Bleed       bool   `json:"bleed,omitempty"`
	Compression string `json:"compression,omitempty"`
	SourceHash  string `json:"source_hash,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the inputs hashed as sizesHash.
	LayoutKey(sizesHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "<type>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(sizesHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", sizesHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix so several tenants can share one
// backend, e.g. the server's "api:" namespace next to CLI entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// If inner is nil the default keyer is used.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(sizesHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(sizesHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// String describes the keyer for debug logs.
func (k *ScopedKeyer) String() string {
	return fmt.Sprintf("scoped(%q)", k.prefix)
}
