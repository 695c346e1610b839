// Package hierarchy renders the containment tree of a layout as a
// node-link diagram.
//
// Boundaries, zones and units become boxes; edges run from each container to
// the items it holds. Items without a container hang off a synthetic facility
// root so the diagram is always a single tree. Unit nodes show how many
// location identifiers are bound to them.
//
// [ToDOT] produces Graphviz DOT text; [RenderSVG] lays it out with the
// embedded Graphviz (github.com/goccy/go-graphviz), and [RenderPDF] and
// [RenderPNG] convert that SVG with rsvg-convert.
package hierarchy
