package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cssgraph/pkg/buildinfo"
	"github.com/matzehuels/cssgraph/pkg/errors"
	"github.com/matzehuels/cssgraph/pkg/graph"
	"github.com/matzehuels/cssgraph/pkg/pipeline"
	"github.com/matzehuels/cssgraph/pkg/store"
)

// =============================================================================
// Requests and Responses
// =============================================================================

// CreateRequest selects the generator and layout of a new graph. Zero
// fields use the server configuration.
type CreateRequest struct {
	Nodes  int    `json:"nodes,omitempty"`
	Seed   uint64 `json:"seed,omitempty"`
	Layout string `json:"layout,omitempty"`
}

// CreateResponse describes a created graph.
type CreateResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Seed   uint64 `json:"seed"`
	Layout string `json:"layout"`
}

// createRequestFromQuery reads a CreateRequest from URL query parameters.
func createRequestFromQuery(q url.Values) (CreateRequest, error) {
	var req CreateRequest
	if v := q.Get("nodes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, errors.New(errors.ErrCodeInvalidInput, "nodes must be an integer, got %q", v)
		}
		req.Nodes = n
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		req.Seed = seed
	}
	req.Layout = q.Get("layout")
	return req, nil
}

// =============================================================================
// Graph Creation
// =============================================================================

// options returns pipeline options rendering for the browser of r. The
// browser is classified through the server's detector.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts, err := pipeline.OptionsFromConfig(s.cfg, r.UserAgent(), s.detector.Classify)
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInternal, err, "server configuration")
	}
	opts.Logger = s.logger
	return opts, nil
}

// create generates, lays out and stores a graph. The stored graph keeps
// its initial positions so viewers can replay the transition.
func (s *Server) create(ctx context.Context, r *http.Request, req CreateRequest) (*store.Record, error) {
	opts, err := s.options(r)
	if err != nil {
		return nil, err
	}
	if req.Nodes != 0 {
		opts.Generator.Nodes = req.Nodes
	}
	if req.Seed != 0 {
		opts.Generator.Seed = req.Seed
	}
	if req.Layout != "" {
		opts.Layout.Algorithm = req.Layout
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	g, err := s.runner.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	l, err := s.runner.Layout(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	rec := store.NewRecord(graph.FromGraph(g), l, opts.Generator.Seed, s.RecordTTL)
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "store graph")
	}
	s.logger.Debug("created graph", "id", rec.ID, "nodes", g.NodeCount(), "seed", rec.Seed)
	return rec, nil
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	req, err := createRequestFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.create(r.Context(), r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, pageURL(rec.ID), http.StatusSeeOther)
}

func (s *Server) handleCreateAPI(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil && err != io.EOF {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	rec, err := s.create(r.Context(), r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:     rec.ID,
		URL:    pageURL(rec.ID),
		Nodes:  len(rec.Graph.Nodes),
		Edges:  len(rec.Graph.Edges),
		Seed:   rec.Seed,
		Layout: rec.Layout.Algorithm,
	})
}

// =============================================================================
// Stored Graphs
// =============================================================================

type recordKey struct{}

// loadRecord resolves the {id} route parameter to a stored record.
func (s *Server) loadRecord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := errors.ValidateGraphID(id); err != nil {
			s.fail(w, r, err)
			return
		}
		rec, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), recordKey{}, rec)))
	})
}

func recordFrom(ctx context.Context) *store.Record {
	rec, _ := ctx.Value(recordKey{}).(*store.Record)
	return rec
}

// render paints the record at its final layout in one format.
func (s *Server) render(r *http.Request, rec *store.Record, format string) ([]byte, error) {
	g, err := graph.ToGraph(rec.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode stored graph")
	}
	rec.Layout.Apply(g)

	opts, err := s.options(r)
	if err != nil {
		return nil, err
	}
	opts.Formats = []string{format}
	opts.StreamURL = streamURL(rec.ID)
	opts.JSONURL = dataURL(rec.ID)

	artifacts, err := s.runner.Render(r.Context(), g, rec.Layout, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return artifacts[format], nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data, err := s.render(r, recordFrom(r.Context()), pipeline.FormatHTML)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeDocument(w, r, "text/html; charset=utf-8", data)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	data, err := s.render(r, recordFrom(r.Context()), pipeline.FormatSVG)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeDocument(w, r, "image/svg+xml", data)
}

// writeDocument writes a rendered document with a content ETag. Documents
// differ per browser, so caches must key on the User-Agent too.
func writeDocument(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	etag := `"` + strconv.FormatUint(xxhash.Sum64(data), 16) + `"`
	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Vary", "User-Agent")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recordFrom(r.Context()))
}

// =============================================================================
// Misc
// =============================================================================

// handleUserAgent classifies the caller, or the ua query parameter when
// given.
func (s *Server) handleUserAgent(w http.ResponseWriter, r *http.Request) {
	ua := r.UserAgent()
	if q := r.URL.Query().Get("ua"); q != "" {
		ua = q
	}
	writeJSON(w, http.StatusOK, s.detector.Classify(ua))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func pageURL(id string) string   { return "/graphs/" + id }
func streamURL(id string) string { return "/graphs/" + id + "/ws" }
func dataURL(id string) string   { return "/api/graphs/" + id }
