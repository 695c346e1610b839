package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-read with [ReadJSON] without loss.
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Encode is WriteJSON into a byte slice.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes doc to the file at path, replacing it.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
