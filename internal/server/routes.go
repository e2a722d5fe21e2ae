package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/httputil"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/render/mxgraph"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

// Response headers describing how a document was produced.
const (
	CacheHeader = "X-Cache"
	HashHeader  = "X-Diagram-Hash"
)

// Handler returns the routed HTTP handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.corsHandler())

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/diagram", s.getDiagram)
		r.Get("/diagrams", s.listDiagrams)
		r.Post("/diagram/convert", s.convert)
		r.Post("/diagram/preview", s.preview)
		r.Post("/diagram/layout", s.layout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, r, errors.New(errors.ErrCodeNotFound, "Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Detail: "Method Not Allowed"})
	})

	return r
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

// getDiagram serves a stored document as a download.
func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	variant := r.URL.Query().Get("variant")
	if err := s.checkVariant(variant); err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := s.store.Get(r.Context(), variant)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteDocument(w, mxgraph.MediaType, store.Filename(variant), data)
}

func (s *Server) listDiagrams(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	allowed := make([]string, 0, len(names))
	for _, n := range names {
		if s.cfg.AllowsVariant(n) {
			allowed = append(allowed, n)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"variants": allowed})
}

// convert renders a posted diagram as an mxGraph document.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	d, err := s.decodeDiagram(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.documentOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.runner.Convert(r.Context(), d, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	filename := ""
	if flag, _ := strconv.ParseBool(r.URL.Query().Get("download")); flag {
		filename = "diagram.xml"
	}
	w.Header().Set(HashHeader, result.DiagramHash)
	w.Header().Set(CacheHeader, cacheStatus(result.CacheHit))
	httputil.WriteDocument(w, mxgraph.MediaType, filename, result.Document)
}

// preview renders a posted diagram with Graphviz.
func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	d, err := s.decodeDiagram(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		Format:    q.Get("format"),
		Direction: strings.ToUpper(q.Get("direction")),
	}
	if opts.ShowRoles, err = boolParam(q.Get("roles")); err != nil {
		s.fail(w, r, err)
		return
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil || opts.Scale <= 0 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale: %q", v))
			return
		}
	}

	data, hit, err := s.runner.PreviewWithCacheInfo(r.Context(), d, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Format == "" {
		opts.Format = pipeline.DefaultFormat
	}
	w.Header().Set(CacheHeader, cacheStatus(hit))
	httputil.WriteDocument(w, pipeline.MediaType(opts.Format), "", data)
}

// layout returns the computed geometry as JSON.
func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	d, err := s.decodeDiagram(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := s.documentOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	l, err := s.runner.Layout(r.Context(), d, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

// =============================================================================
// Helpers
// =============================================================================

// checkVariant validates a variant name against the safe-name rules and the
// configured allow list.
func (s *Server) checkVariant(variant string) error {
	if variant == "" {
		return errors.New(errors.ErrCodeInvalidVariant, "query parameter 'variant' is required")
	}
	if err := errors.ValidateVariant(variant); err != nil {
		return err
	}
	if !s.cfg.AllowsVariant(variant) {
		return errors.New(errors.ErrCodeInvalidVariant, "variant must be one of: %s", strings.Join(s.cfg.Store.Variants, ", "))
	}
	return nil
}

func (s *Server) decodeDiagram(r *http.Request) (*idef0.Diagram, error) {
	var wire graph.Diagram
	if err := httputil.DecodeJSON(r.Body, s.cfg.Server.MaxBodyBytes, &wire); err != nil {
		return nil, err
	}
	return graph.ToDiagram(wire)
}

// documentOptions starts from the configured document defaults and applies
// the compact, declaration and indent query parameters.
func (s *Server) documentOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.PipelineOptions()
	q := r.URL.Query()

	var err error
	if opts.Compact, err = boolParam(q.Get("compact")); err != nil {
		return opts, err
	}
	if v := q.Get("declaration"); v != "" {
		if opts.Declaration, err = boolParam(v); err != nil {
			return opts, err
		}
	}
	if v := q.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 8 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "indent must be between 0 and 8")
		}
		if n == 0 {
			opts.Compact = true
		}
		opts.Indent = strings.Repeat(" ", n)
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean: %q", v)
	}
	return b, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// fail writes err and logs it; server errors at error level, client errors
// at debug level.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	reqID := chimiddleware.GetReqID(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", reqID, "error", err)
		return
	}
	s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "request_id", reqID, "error", err)
}
