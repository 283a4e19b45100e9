package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/texatlas/pkg/atlas"
	"github.com/matzehuels/texatlas/pkg/buildinfo"
	apperrors "github.com/matzehuels/texatlas/pkg/errors"
	"github.com/matzehuels/texatlas/pkg/store"
)

// LayoutRequest is the body of POST /v1/layouts.
type LayoutRequest struct {
	Sizes      []SizeRequest `json:"sizes"`
	Border     *uint32       `json:"border,omitempty"`
	Candidates []uint32      `json:"candidates,omitempty"`
}

// SizeRequest is one rectangle to pack, optionally named.
type SizeRequest struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Name   string `json:"name,omitempty"`
}

// LayoutResponse is a stored record plus derived fields.
type LayoutResponse struct {
	*store.Record
	Utilization float64 `json:"utilization"`
	Cached      bool    `json:"cached"`
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Sizes) > s.maxSprites {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "too many sizes: %d (max %d)", len(req.Sizes), s.maxSprites))
		return
	}

	sizes := make([]atlas.Size, len(req.Sizes))
	var names []string
	for i, sz := range req.Sizes {
		sizes[i] = atlas.Size{Width: sz.Width, Height: sz.Height}
		if sz.Name == "" {
			continue
		}
		if err := apperrors.ValidateSpriteName(sz.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
		if names == nil {
			names = make([]string, len(req.Sizes))
		}
		names[i] = sz.Name
	}

	opts := s.defaults
	if req.Border != nil {
		opts.Border = *req.Border
	}
	if len(req.Candidates) > 0 {
		opts.Candidates = req.Candidates
	}

	layout, cached, err := s.runner.PackWithCacheInfo(r.Context(), sizes, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := &store.Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Names:     names,
		Layout:    layout,
	}
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store layout"))
		return
	}

	s.logger.Info("packed layout", "id", rec.ID, "sprites", len(sizes), "dimension", layout.Dimension, "cached", cached)
	writeJSON(w, http.StatusCreated, LayoutResponse{Record: rec, Utilization: layout.Utilization(), Cached: cached})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid layout id %q", id))
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{Record: rec, Utilization: rec.Layout.Utilization()})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]LayoutResponse, len(recs))
	for i, rec := range recs {
		out[i] = LayoutResponse{Record: rec, Utilization: rec.Layout.Utilization()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		err = apperrors.Wrap(apperrors.ErrCodeNotFound, err, "layout not found")
	}
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := apperrors.HTTPStatus(code)
	msg := apperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
