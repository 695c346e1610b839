package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorplan/pkg/batch"
	"github.com/matzehuels/floorplan/pkg/crop"
	"github.com/matzehuels/floorplan/pkg/designer"
	"github.com/matzehuels/floorplan/pkg/errors"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.runner.List(r.Context(), chi.URLParam(r, "org"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"layouts": names})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	doc, err := s.runner.Load(r.Context(), org, name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

// handlePut stores a document after checking it opens cleanly: unique ids,
// no identifier bound twice and consistent containment. Like every other
// mutation the stored layout is cropped with the server padding and its
// metadata restamped; unknown metadata is kept.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	in, err := fpio.ReadJSON(r.Body)
	if err != nil {
		s.respondError(w, err)
		return
	}
	sess := s.session()
	if err := sess.Open(in.Items); err != nil {
		s.respondError(w, err)
		return
	}
	if err := sess.Validate(); err != nil {
		s.respondError(w, err)
		return
	}
	doc := sess.Save(name, s.padding, fpio.Options{OrgUnit: in.Metadata.OrgUnit, OrgMap: in.Metadata.OrgMap})
	doc.Metadata.Extra = in.Metadata.Extra

	defer s.locks.Lock(org + "/" + name)()
	if err := s.runner.Save(r.Context(), org, name, doc); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	defer s.locks.Lock(org + "/" + name)()
	if err := s.runner.Delete(r.Context(), org, name); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cropRequest struct {
	Padding *int `json:"padding"`
}

// handleCrop returns the layout cropped with the requested padding without
// saving it.
func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	var req cropRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	padding := s.padding
	if req.Padding != nil {
		padding = *req.Padding
	}
	if padding < 0 {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "padding must be non-negative"))
		return
	}
	doc, err := s.runner.Load(r.Context(), org, name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := fpio.NewDocument(name, crop.Crop(doc.Items, padding), fpio.Options{
		OrgUnit: doc.Metadata.OrgUnit,
		OrgMap:  doc.Metadata.OrgMap,
	})
	out.Metadata.Extra = doc.Metadata.Extra
	s.respondJSON(w, http.StatusOK, out)
}

type fillRequest struct {
	// ZoneID selects a single zone to fill with Template. Empty means
	// auto-fill every zone from the catalog.
	ZoneID   string           `json:"zoneId"`
	Template *layout.Template `json:"template"`
	Rows     int              `json:"rows"`
	Columns  int              `json:"columns"`
	Spacing  *int             `json:"spacing"`
}

type fillResponse struct {
	Added    []*layout.Item `json:"added"`
	Document *fpio.Document `json:"document"`
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	var req fillRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	var opts []batch.Option
	if req.Rows > 0 {
		opts = append(opts, batch.WithRows(req.Rows))
	}
	if req.Columns > 0 {
		opts = append(opts, batch.WithColumns(req.Columns))
	}
	if req.Spacing != nil {
		opts = append(opts, batch.WithSpacing(*req.Spacing))
	}

	var added []*layout.Item
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		var err error
		if req.ZoneID == "" {
			added, err = sess.AutoFill(ctx, opts...)
			return err
		}
		if req.Template == nil {
			return errors.New(errors.ErrCodeInvalidInput, "template is required to fill zone %s", req.ZoneID)
		}
		added, err = sess.Generate(ctx, req.ZoneID, *req.Template, opts...)
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	if added == nil {
		added = []*layout.Item{}
	}
	s.respondJSON(w, http.StatusOK, fillResponse{Added: added, Document: doc})
}

type assignRequest struct {
	ItemID     string `json:"itemId"`
	LocationID string `json:"locationId"`
	Category   string `json:"category"`
	Row        *int   `json:"row"`
	Col        *int   `json:"col"`
}

type itemResponse struct {
	Item     *layout.Item   `json:"item"`
	Document *fpio.Document `json:"document"`
}

// handleAssign binds a location identifier to a single-slot item, or to a
// compartment when row and col are given.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.ItemID == "" {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "itemId is required"))
		return
	}
	if (req.Row == nil) != (req.Col == nil) {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "row and col must be given together"))
		return
	}

	var item *layout.Item
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		var err error
		if req.Row != nil {
			item, err = sess.AssignCompartment(ctx, req.ItemID, *req.Row, *req.Col, req.LocationID)
		} else {
			item, err = sess.AssignSingle(ctx, req.ItemID, req.LocationID, req.Category)
		}
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, itemResponse{Item: item, Document: doc})
}

type levelsRequest struct {
	ItemID   string                 `json:"itemId"`
	Key      string                 `json:"key"`
	Mappings []layout.LevelLocation `json:"mappings"`

	// Count generates that many fresh level mappings when Mappings is empty.
	Count int `json:"count"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	var req levelsRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.ItemID == "" {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "itemId is required"))
		return
	}

	var item *layout.Item
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		mappings := req.Mappings
		if len(mappings) == 0 && req.Count > 0 {
			var err error
			if mappings, err = sess.SuggestLevels(req.Count); err != nil {
				return err
			}
		}
		var err error
		item, err = sess.AssignMultiLevel(ctx, req.ItemID, req.Key, mappings)
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, itemResponse{Item: item, Document: doc})
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	key := r.URL.Query().Get("key")

	var item *layout.Item
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		var err error
		item, err = sess.RemoveAssignment(ctx, itemID, key)
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, itemResponse{Item: item, Document: doc})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	opts, err := s.exportOptions(r)
	if err != nil {
		s.respondError(w, err)
		return
	}
	doc, err := s.runner.Load(r.Context(), org, name)
	if err != nil {
		s.respondError(w, err)
		return
	}
	data, hit, err := s.runner.ExportWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentType(opts.Format))
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) exportOptions(r *http.Request) (pipeline.ExportOptions, error) {
	opts := pipeline.DefaultExportOptions()
	opts.Format = chi.URLParam(r, "format")
	opts.Padding = s.padding
	q := r.URL.Query()
	var err error
	if v := q.Get("padding"); v != "" {
		if opts.Padding, err = strconv.Atoi(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid padding %q", v)
		}
	}
	if v := q.Get("labels"); v != "" {
		if opts.Labels, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid labels %q", v)
		}
	}
	if v := q.Get("codes"); v != "" {
		if opts.Codes, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid codes %q", v)
		}
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
	}
	return opts, opts.ValidateAndSetDefaults()
}

// mutate runs fn on a session opened on the stored layout and saves the
// result. The layout is locked for the whole load-apply-save cycle.
func (s *Server) mutate(r *http.Request, fn func(context.Context, *designer.Session) error) (*fpio.Document, error) {
	ctx := r.Context()
	org, name := chi.URLParam(r, "org"), chi.URLParam(r, "name")
	defer s.locks.Lock(org + "/" + name)()

	prev, err := s.runner.Load(ctx, org, name)
	if err != nil {
		return nil, err
	}
	sess := s.session()
	if err := sess.Open(prev.Items); err != nil {
		return nil, err
	}
	if err := fn(ctx, sess); err != nil {
		return nil, err
	}

	doc := sess.Save(name, s.padding, fpio.Options{OrgUnit: prev.Metadata.OrgUnit, OrgMap: prev.Metadata.OrgMap})
	doc.Metadata.Extra = prev.Metadata.Extra
	if err := s.runner.Save(ctx, org, name, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Server) session() *designer.Session {
	opts := []designer.Option{
		designer.WithCatalog(s.catalog),
		designer.WithLogger(s.logger),
		designer.WithUndoDepth(0),
	}
	if s.hierarchy != nil {
		opts = append(opts, designer.WithHierarchy(s.hierarchy))
	}
	return designer.New(opts...)
}
