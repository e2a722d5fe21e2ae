package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
)

// =============================================================================
// Diagram Serialization API
// =============================================================================

// MarshalDiagram converts a diagram to indented JSON bytes.
func MarshalDiagram(d *idef0.Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDiagramTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDiagram deserializes JSON bytes into the wire form without
// validating it. Use [ToDiagram] to validate and convert.
func UnmarshalDiagram(data []byte) (Diagram, error) {
	var g Diagram
	if err := json.Unmarshal(data, &g); err != nil {
		return Diagram{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode diagram JSON")
	}
	return g, nil
}

// WriteDiagramFile writes a diagram to a JSON file.
// The file is created with 0644 permissions.
func WriteDiagramFile(d *idef0.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDiagramTo(d, f)
}

// WriteDiagram writes a diagram as JSON to an io.Writer.
func WriteDiagram(d *idef0.Diagram, w io.Writer) error {
	return writeDiagramTo(d, w)
}

// ReadDiagramFile reads a JSON file and returns the validated diagram.
func ReadDiagramFile(path string) (*idef0.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDiagramFrom(f)
}

// ReadDiagram decodes a JSON diagram from an io.Reader and validates it.
func ReadDiagram(r io.Reader) (*idef0.Diagram, error) {
	return readDiagramFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDiagramTo(d *idef0.Diagram, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDiagram(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDiagramFrom(r io.Reader) (*idef0.Diagram, error) {
	var data Diagram
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode diagram JSON")
	}
	return ToDiagram(data)
}
