package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/matzehuels/kklayout/pkg/buildinfo"
	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/graph"
	"github.com/matzehuels/kklayout/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is the body of a successful POST /v1/layout.
type LayoutResponse struct {
	RunID     string       `json:"run_id"`
	GraphHash string       `json:"graph_hash"`
	CacheHit  bool         `json:"cache_hit"`
	Duration  float64      `json:"duration_ms"`
	Layout    graph.Layout `json:"layout"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Options: s.cfg.Defaults}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "INVALID_SIZE", "request body too large")
			return
		}
		writeError(w, r, http.StatusBadRequest, string(errors.ErrCodeInvalidFormat), "invalid request body: "+err.Error())
		return
	}

	if s.cfg.MaxNodes > 0 && len(req.Graph.Nodes) > s.cfg.MaxNodes {
		writeAPIError(w, r, errors.New(errors.ErrCodeInvalidSize, "graph has %d nodes, limit is %d", len(req.Graph.Nodes), s.cfg.MaxNodes))
		return
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	req.Options.Logger = s.logger.With("request_id", RequestIDFrom(r.Context()))
	start := time.Now()
	res, err := s.runner.ComputeLayout(ctx, req.Graph, req.Options)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:     res.RunID.String(),
		GraphHash: res.GraphHash,
		CacheHit:  res.CacheHit,
		Duration:  float64(time.Since(start).Microseconds()) / 1000,
		Layout:    res.Layout,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"date":    buildinfo.Date,
	})
}
