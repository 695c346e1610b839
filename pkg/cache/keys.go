package cache

// Keyer builds store keys.
type Keyer interface {
	// LayoutKey is the key of a saved layout document.
	LayoutKey(org, name string) string

	// LayoutPrefix is the common prefix of every layout key of org. An empty
	// org matches all organisations.
	LayoutPrefix(org string) string

	// ExportKey is the key of a rendered export of a layout revision.
	ExportKey(revision string, opts ExportKeyOpts) string
}

// ExportKeyOpts are the render options that distinguish exports of the same
// layout revision.
type ExportKeyOpts struct {
	Format  string  `json:"format"`
	Padding int     `json:"padding"`
	Labels  bool    `json:"labels"`
	Codes   bool    `json:"codes"`
	Scale   float64 `json:"scale"`
}

// DefaultKeyer produces plain, human-readable layout keys and hashed export
// keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(org, name string) string {
	return "layout:" + org + ":" + name
}

// LayoutPrefix implements Keyer.
func (DefaultKeyer) LayoutPrefix(org string) string {
	if org == "" {
		return "layout:"
	}
	return "layout:" + org + ":"
}

// ExportKey implements Keyer.
func (DefaultKeyer) ExportKey(revision string, opts ExportKeyOpts) string {
	return hashKey("export", revision, opts)
}
