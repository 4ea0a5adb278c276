package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/layoutwriter/pkg/emit"
	"github.com/matzehuels/layoutwriter/pkg/emit/record"
	"github.com/matzehuels/layoutwriter/pkg/errors"
	"github.com/matzehuels/layoutwriter/pkg/geom"
	pkgio "github.com/matzehuels/layoutwriter/pkg/io"
	"github.com/matzehuels/layoutwriter/pkg/pipeline"
	"github.com/matzehuels/layoutwriter/pkg/tech"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: s.version})
}

type techResponse struct {
	Name     string            `json:"name"`
	Units    geom.Units        `json:"units"`
	Layers   map[string]uint32 `json:"layers"`
	Purposes map[string]uint32 `json:"purposes"`
	Vias     []tech.ViaDef     `json:"vias"`
}

func (s *Server) handleTech(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, techResponse{
		Name:     s.tech.Name,
		Units:    s.tech.Units(),
		Layers:   s.tech.Layers(),
		Purposes: s.tech.Purposes(),
		Vias:     s.tech.ViaDefs(),
	})
}

// emitRequest carries a layout in the layout file format plus the target
// cell and view.
type emitRequest struct {
	Cell    string          `json:"cell"`
	View    string          `json:"view,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
	Layout  json.RawMessage `json:"layout"`
}

type emitResponse struct {
	Result *pipeline.Result `json:"result"`
	Design *record.Design   `json:"design"`
}

func (s *Server) handleEmit(w http.ResponseWriter, r *http.Request) {
	var req emitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Layout) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "layout is required"))
		return
	}
	l, err := pkgio.ReadJSON(bytes.NewReader(req.Layout))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = emit.WithRunID(ctx, id)
	}
	backend := record.New()
	opts := pipeline.Options{Cell: req.Cell, View: req.View, Refresh: req.Refresh}
	res, err := s.runner.EmitCached(ctx, backend, s.tech, opts, l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	design, _ := backend.Design(res.Cell, res.View)
	writeJSON(w, http.StatusOK, emitResponse{Result: res, Design: design})
}
