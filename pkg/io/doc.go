// Package io reads and writes persisted layout documents.
//
// # Overview
//
// A layout is persisted as one JSON document holding the cropped items and
// a small metadata block:
//
//	{
//	  "name": "north-dc",
//	  "items": [
//	    {"id": "b1", "type": "boundary", "x": 10, "y": 10, "width": 480, "height": 450, ...}
//	  ],
//	  "metadata": {
//	    "totalItems": 1,
//	    "croppedDimensions": {"width": 480, "height": 450},
//	    "orgUnit": "acme",
//	    "orgMap": "north",
//	    "timestamp": "2024-05-01T10:00:00Z"
//	  },
//	  "version": 1
//	}
//
// Items use the field names of [layout.Item]. Fields this package does not
// know about, on items and in metadata, are carried through a read/write
// cycle unchanged so documents written by newer tools survive older ones.
//
// # Import
//
// Use [ImportJSON] to read a document from a file path, or [ReadJSON] to read
// from any io.Reader. Both check that every item has a unique id; they do
// not check containment or identifier uniqueness, which belong to the
// engine that loads the items.
//
// # Export
//
// [NewDocument] builds a document from a crop result. [WriteJSON] and
// [ExportJSON] encode it with stable indentation.
//
// [layout.Item]: github.com/matzehuels/floorplan/pkg/layout.Item
package io
