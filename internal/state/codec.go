package state

import (
	"encoding/json"
	"fmt"
	"io"
)

// Marshal encodes l as the document format: a JSON array of shape records
// with absent optional fields omitted.
func Marshal(l ShapeList) ([]byte, error) {
	return json.Marshal(l.Clone())
}

// MarshalIndent is Marshal with indentation, used for files on disk.
func MarshalIndent(l ShapeList) ([]byte, error) {
	return json.MarshalIndent(l.Clone(), "", "  ")
}

// Unmarshal decodes a document. Null records are dropped and records of an
// unknown kind fail with ErrUnknownKind. Records missing kind-specific
// fields are accepted; the renderer skips what it cannot draw.
func Unmarshal(data []byte) (ShapeList, error) {
	var l ShapeList
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return validate(l)
}

// Encode writes l to w as a single JSON document.
func Encode(w io.Writer, l ShapeList) error {
	return json.NewEncoder(w).Encode(l.Clone())
}

// Decode reads one document from r.
func Decode(r io.Reader) (ShapeList, error) {
	var l ShapeList
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return validate(l)
}

func validate(l ShapeList) (ShapeList, error) {
	out := make(ShapeList, 0, len(l))
	for i, s := range l {
		if s == nil {
			continue
		}
		if !s.Kind.Valid() {
			return nil, fmt.Errorf("shape %d: %w: %q", i, ErrUnknownKind, s.Kind)
		}
		out = append(out, s)
	}
	return out, nil
}
