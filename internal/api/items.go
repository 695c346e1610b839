package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorplan/pkg/codegen"
	"github.com/matzehuels/floorplan/pkg/designer"
	"github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/facility"
	fpio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/layout"
)

type facilityRef struct {
	ZoneID string `json:"zoneId"`
	Name   string `json:"name"`
}

type placeRequest struct {
	Template layout.Template `json:"template"`
	X        int             `json:"x"`
	Y        int             `json:"y"`

	// Facility selects hierarchical location codes.
	Facility *facilityRef `json:"facility"`
}

// handlePlace drops a new item onto the layout.
func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	var fc *codegen.FacilityContext
	if req.Facility != nil && req.Facility.ZoneID != "" {
		fc = &codegen.FacilityContext{
			ZoneID:     req.Facility.ZoneID,
			Name:       req.Facility.Name,
			Dimensions: layout.Size{Width: req.Template.Width, Height: req.Template.Height},
		}
	}

	var item *layout.Item
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		var err error
		item, err = sess.Drop(ctx, req.Template, layout.Point{X: req.X, Y: req.Y}, fc)
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	// Saving crops the layout; report the item as stored.
	s.respondJSON(w, http.StatusCreated, itemResponse{Item: findItem(doc.Items, item.ID), Document: doc})
}

type editItemRequest struct {
	X      *int `json:"x"`
	Y      *int `json:"y"`
	Width  *int `json:"width"`
	Height *int `json:"height"`
}

// handleEditItem moves and/or resizes an item. Locked attributes are left
// as they are.
func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	var req editItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	move, resize := req.X != nil || req.Y != nil, req.Width != nil || req.Height != nil
	if !move && !resize {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "nothing to change"))
		return
	}

	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		it, err := sess.Get(itemID)
		if err != nil {
			return err
		}
		if move {
			to := layout.Point{X: valueOr(req.X, it.X), Y: valueOr(req.Y, it.Y)}
			if it, err = sess.Move(ctx, itemID, to); err != nil {
				return err
			}
		}
		if resize {
			_, err = sess.Resize(ctx, itemID, valueOr(req.Width, it.Width), valueOr(req.Height, it.Height))
		}
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, itemResponse{Item: findItem(doc.Items, itemID), Document: doc})
}

type deleteItemResponse struct {
	Removed  []string       `json:"removed"`
	Document *fpio.Document `json:"document"`
}

// handleDeleteItem removes an item and its contents.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	var removed []string
	doc, err := s.mutate(r, func(ctx context.Context, sess *designer.Session) error {
		items, err := sess.Delete(ctx, itemID)
		for _, it := range items {
			removed = append(removed, it.ID)
		}
		return err
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, deleteItemResponse{Removed: removed, Document: doc})
}

// handleCreateFacility adds a node to the server's facility hierarchy.
func (s *Server) handleCreateFacility(w http.ResponseWriter, r *http.Request) {
	if s.hierarchy == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no facility hierarchy configured"))
		return
	}
	var req facility.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	node, err := s.hierarchy.CreateFacility(r.Context(), req)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, node)
}

func (s *Server) handleGetFacility(w http.ResponseWriter, r *http.Request) {
	if s.hierarchy == nil {
		s.respondError(w, errors.New(errors.ErrCodeUnsupported, "no facility hierarchy configured"))
		return
	}
	node, err := s.hierarchy.GetFacility(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, node)
}

func findItem(items []*layout.Item, id string) *layout.Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
