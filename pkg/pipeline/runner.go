package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/render/hierarchy"
	"github.com/matzehuels/floorplan/pkg/render/sink"
)

// Runner persists and exports layouts through a blob store.
// Both CLI and API use it so keys, validation and export caching agree.
//
// The Runner is stateless except for the store and logger. Multiple
// goroutines can safely use the same Runner; serializing writes to one
// layout is the caller's job.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given store and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (nothing persists).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Save stores doc as org/name. The document name is set to name.
func (r *Runner) Save(ctx context.Context, org, name string, doc *fpio.Document) (err error) {
	if err := validateRef(org, name); err != nil {
		return err
	}
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to save")
	}
	key := r.Keyer.LayoutKey(org, name)
	start := time.Now()
	observability.Pipeline().OnSaveStart(ctx, key, len(doc.Items))
	defer func() { observability.Pipeline().OnSaveComplete(ctx, key, time.Since(start), err) }()

	doc.Name = name
	doc.Metadata.TotalItems = len(doc.Items)
	if doc.Metadata.OrgUnit == "" {
		doc.Metadata.OrgUnit = org
	}
	data, err := fpio.Encode(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layout %s", name)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, cache.LayoutTTL)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save layout %s/%s", org, name)
	}
	observability.Store().OnStoreSet(ctx, "layout", len(data))
	r.Logger.Debug("saved layout", "key", key, "items", len(doc.Items), "bytes", len(data))
	return nil
}

// Load returns the layout saved as org/name. A missing layout yields
// LAYOUT_NOT_FOUND.
func (r *Runner) Load(ctx context.Context, org, name string) (doc *fpio.Document, err error) {
	if err := validateRef(org, name); err != nil {
		return nil, err
	}
	key := r.Keyer.LayoutKey(org, name)
	start := time.Now()
	defer func() {
		n := 0
		if doc != nil {
			n = len(doc.Items)
		}
		observability.Pipeline().OnLoadComplete(ctx, key, n, time.Since(start), err)
	}()

	var (
		data []byte
		hit  bool
	)
	err = cache.RetryWithBackoff(ctx, func() error {
		var gerr error
		data, hit, gerr = r.Cache.Get(ctx, key)
		return gerr
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "load layout %s/%s", org, name)
	}
	if !hit {
		observability.Store().OnStoreMiss(ctx, "layout")
		return nil, errors.New(errors.ErrCodeLayoutNotFound, "layout %s/%s not found", org, name)
	}
	observability.Store().OnStoreHit(ctx, "layout")
	return fpio.Decode(data)
}

// Delete removes the layout saved as org/name. Deleting a missing layout is
// not an error.
func (r *Runner) Delete(ctx context.Context, org, name string) error {
	if err := validateRef(org, name); err != nil {
		return err
	}
	key := r.Keyer.LayoutKey(org, name)
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Delete(ctx, key)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete layout %s/%s", org, name)
	}
	r.Logger.Debug("deleted layout", "key", key)
	return nil
}

// List returns the names of the layouts saved for org, sorted. The store
// must implement [cache.Lister].
func (r *Runner) List(ctx context.Context, org string) ([]string, error) {
	if err := errors.ValidateOrgUnit(org); err != nil {
		return nil, err
	}
	lister, ok := r.Cache.(cache.Lister)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "store cannot list layouts")
	}
	prefix := r.Keyer.LayoutPrefix(org)
	var keys []string
	err := cache.RetryWithBackoff(ctx, func() error {
		var lerr error
		keys, lerr = lister.List(ctx, prefix)
		return lerr
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list layouts of %s", org)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if name := strings.TrimPrefix(k, prefix); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// Export renders doc in opts.Format. Results are cached by document content
// and options.
func (r *Runner) Export(ctx context.Context, doc *fpio.Document, opts ExportOptions) ([]byte, error) {
	data, _, err := r.ExportWithCacheInfo(ctx, doc, opts)
	return data, err
}

// ExportWithCacheInfo is Export that also reports whether the result came
// from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, doc *fpio.Document, opts ExportOptions) (out []byte, hit bool, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if doc == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "nothing to export")
	}

	encoded, err := fpio.Encode(doc)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "encode layout for cache key")
	}
	key := r.Keyer.ExportKey(cache.Hash(encoded), cache.ExportKeyOpts{
		Format:  opts.Format,
		Padding: opts.Padding,
		Labels:  opts.Labels,
		Codes:   opts.Codes,
		Scale:   opts.Scale,
	})

	if !opts.Refresh {
		if data, ok, gerr := r.Cache.Get(ctx, key); gerr == nil && ok {
			observability.Store().OnStoreHit(ctx, "export")
			return data, true, nil
		}
		observability.Store().OnStoreMiss(ctx, "export")
	}

	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Format)
	defer func() {
		observability.Pipeline().OnExportComplete(ctx, opts.Format, len(out), time.Since(start), err)
	}()

	out, err = r.render(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Info("rendered export", "layout", doc.Name, "format", opts.Format, "bytes", len(out), "duration", time.Since(start))

	if serr := r.Cache.Set(ctx, key, out, cache.ExportTTL); serr != nil {
		r.Logger.Warn("export not cached", "error", serr)
	} else {
		observability.Store().OnStoreSet(ctx, "export", len(out))
	}
	return out, false, nil
}

func (r *Runner) render(ctx context.Context, doc *fpio.Document, opts ExportOptions) ([]byte, error) {
	if opts.Format == FormatHierarchy {
		dot := hierarchy.ToDOT(doc.Items, hierarchy.Options{Detailed: opts.Labels})
		return hierarchy.RenderSVG(ctx, dot)
	}
	res := crop.Crop(doc.Items, opts.Padding)
	return sink.Render(res, opts.Format, sink.Options{
		Name:   doc.Name,
		Labels: opts.Labels,
		Codes:  opts.Codes,
		Scale:  opts.Scale,
	})
}

// Close releases resources held by the runner (primarily the store).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func validateRef(org, name string) error {
	if err := errors.ValidateOrgUnit(org); err != nil {
		return err
	}
	return errors.ValidateLayoutName(name)
}
