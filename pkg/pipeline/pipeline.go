// Package pipeline provides the persistence and export pipeline for
// floorplan layouts.
//
// This package implements the save → load → export path that is used by the
// CLI and the API server. By centralizing this logic, both entry points share
// the same key space, validation and export caching.
//
// # Architecture
//
// A layout is persisted as a [fpio.Document] blob under a key derived from
// its organisation unit and name. Exports are derived data: the document is
// cropped, rendered by [sink.Render], and cached under a key built from the
// document's content hash and the render options, so an unchanged layout is
// never rendered twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(store, nil, logger)
//	if err := runner.Save(ctx, "acme", "north-dc", doc); err != nil {
//	    return err
//	}
//	doc, err := runner.Load(ctx, "acme", "north-dc")
//	svg, err := runner.Export(ctx, doc, pipeline.ExportOptions{Format: "svg"})
//
// [fpio.Document]: github.com/matzehuels/floorplan/pkg/io.Document
// [sink.Render]: github.com/matzehuels/floorplan/pkg/render/sink.Render
package pipeline

import (
	"slices"

	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPadding is the crop padding applied to exports.
	DefaultPadding = 20

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultFormat is the export format when none is given.
	DefaultFormat = sink.FormatSVG
)

// FormatHierarchy exports the containment tree diagram instead of the floor
// plan.
const FormatHierarchy = "hierarchy"

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	sink.FormatSVG:  true,
	sink.FormatJSON: true,
	sink.FormatCSV:  true,
	sink.FormatPNG:  true,
	sink.FormatPDF:  true,
	FormatHierarchy: true,
}

// ExportOptions selects how a layout is exported.
type ExportOptions struct {
	Format  string
	Padding int
	Labels  bool
	Codes   bool
	Scale   float64

	// Refresh bypasses the export cache.
	Refresh bool
}

// DefaultExportOptions returns options with labels on and default padding.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Format: DefaultFormat, Padding: DefaultPadding, Labels: true, Scale: DefaultScale}
}

// ValidateAndSetDefaults fills zero values and rejects unknown formats.
func (o *ExportOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative, got %d", o.Padding)
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return ValidateFormat(o.Format)
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (valid: %v)", format, FormatNames())
	}
	return nil
}

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	if format == FormatHierarchy {
		return sink.ContentType(sink.FormatSVG)
	}
	return sink.ContentType(format)
}
