package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// ReadJSON decodes a layout document from r.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, and an
// INVALID_LAYOUT error if an item is null, lacks an id or repeats one.
// Documents without a version are treated as version 1. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout document")
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	seen := make(map[string]bool, len(doc.Items))
	for i, it := range doc.Items {
		switch {
		case it == nil:
			return nil, errors.New(errors.ErrCodeInvalidLayout, "item %d is null", i)
		case it.ID == "":
			return nil, errors.New(errors.ErrCodeInvalidLayout, "item %d has no id", i)
		case seen[it.ID]:
			return nil, errors.New(errors.ErrCodeInvalidLayout, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return &doc, nil
}

// Decode is ReadJSON over a byte slice.
func Decode(data []byte) (*Document, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads the layout document at path.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
