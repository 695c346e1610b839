package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/matzehuels/floorplan/pkg/errors"
)

// Converter is the external tool used for SVG conversion.
const Converter = "rsvg-convert"

// ToPDF converts SVG to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "-f", "pdf")
}

// ToPNG converts SVG to PNG at the given scale (1.0 = native size).
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	z := strconv.FormatFloat(scale, 'f', -1, 64)
	return convert(svg, "-f", "png", "-z", z)
}

// Available reports whether the converter is installed.
func Available() bool {
	_, err := exec.LookPath(Converter)
	return err == nil
}

func convert(svg []byte, args ...string) ([]byte, error) {
	path, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err,
			"%s not found; install librsvg to export PDF or PNG", Converter)
	}
	cmd := exec.Command(path, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", Converter, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
