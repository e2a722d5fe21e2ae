package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys. Keys are stable across processes: the same
// inputs always produce the same key.
type Keyer interface {
	// DocumentKey identifies a rendered mxGraph document.
	DocumentKey(diagramHash string, opts DocumentKeyOpts) string
	// PreviewKey identifies a rendered Graphviz preview.
	PreviewKey(diagramHash string, opts PreviewKeyOpts) string
	// VariantKey identifies a stored diagram looked up by variant name.
	VariantKey(store, variant string) string
}

// DocumentKeyOpts lists the options that change a rendered document.
type DocumentKeyOpts struct {
	Indent      string  `json:"indent"`
	Compact     bool    `json:"compact"`
	Declaration bool    `json:"declaration"`
	StartX      float64 `json:"start_x"`
	StartY      float64 `json:"start_y"`
	OffsetX     float64 `json:"offset_x"`
	OffsetY     float64 `json:"offset_y"`
	BlockWidth  float64 `json:"block_width"`
	BlockHeight float64 `json:"block_height"`
	StandOff    float64 `json:"stand_off"`
}

// PreviewKeyOpts lists the options that change a preview.
type PreviewKeyOpts struct {
	Format    string  `json:"format"`
	Direction string  `json:"direction"`
	ShowRoles bool    `json:"show_roles"`
	Scale     float64 `json:"scale"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:<sha256>".
func (DefaultKeyer) DocumentKey(diagramHash string, opts DocumentKeyOpts) string {
	return digestKey("doc", diagramHash, opts)
}

// PreviewKey returns "preview:<sha256>".
func (DefaultKeyer) PreviewKey(diagramHash string, opts PreviewKeyOpts) string {
	return digestKey("preview", diagramHash, opts)
}

// VariantKey returns "variant:<store>:<name>". Variant names are validated
// before they reach the keyer, so they are used verbatim.
func (DefaultKeyer) VariantKey(store, variant string) string {
	return "variant:" + store + ":" + variant
}

var _ Keyer = DefaultKeyer{}

// digestKey returns kind + ":" + the SHA-256 of the diagram hash followed by
// the JSON encoding of opts. Struct fields encode in declaration order, so
// the digest is stable.
func digestKey(kind, diagramHash string, opts any) string {
	h := sha256.New()
	h.Write([]byte(diagramHash))
	h.Write([]byte{0})
	_ = json.NewEncoder(h).Encode(opts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
