package io

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/layout"
)

// Version is the document format version written by this package.
const Version = 1

// Document is a persisted layout.
type Document struct {
	Name     string         `json:"name"`
	Items    []*layout.Item `json:"items"`
	Metadata Metadata       `json:"metadata"`
	Version  int            `json:"version"`
}

// Metadata describes a persisted layout.
type Metadata struct {
	TotalItems        int         `json:"totalItems"`
	CroppedDimensions layout.Size `json:"croppedDimensions"`
	OrgUnit           string      `json:"orgUnit,omitempty"`
	OrgMap            string      `json:"orgMap,omitempty"`
	Timestamp         time.Time   `json:"timestamp"`

	// Extra holds metadata fields this package does not know about.
	Extra map[string]json.RawMessage `json:"-"`
}

var metadataFields = map[string]bool{
	"totalItems": true, "croppedDimensions": true, "orgUnit": true, "orgMap": true, "timestamp": true,
}

// MarshalJSON encodes the metadata with any preserved unknown fields.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata
	data, err := json.Marshal(plain(m))
	if err != nil || len(m.Extra) == 0 {
		return data, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if !metadataFields[k] {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes metadata and keeps unknown fields in Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	maps.DeleteFunc(fields, func(k string, _ json.RawMessage) bool { return metadataFields[k] })
	*m = Metadata(p)
	m.Extra = nil
	if len(fields) > 0 {
		m.Extra = fields
	}
	return nil
}

// Options set the descriptive fields of a new document.
type Options struct {
	OrgUnit string
	OrgMap  string
	Now     func() time.Time
}

// NewDocument builds a document from a crop result. The document shares the
// result's items.
func NewDocument(name string, res crop.Result, opts Options) *Document {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	items := res.Items
	if items == nil {
		items = []*layout.Item{}
	}
	return &Document{
		Name:  name,
		Items: items,
		Metadata: Metadata{
			TotalItems:        len(items),
			CroppedDimensions: layout.Size{Width: res.Bounds.Width, Height: res.Bounds.Height},
			OrgUnit:           opts.OrgUnit,
			OrgMap:            opts.OrgMap,
			Timestamp:         now().UTC(),
		},
		Version: Version,
	}
}
