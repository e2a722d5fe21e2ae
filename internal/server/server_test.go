package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/config"
	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/httputil"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/store"
)

const simpleXML = `<mxGraphModel><root><mxCell id="0"></mxCell></root></mxGraphModel>`

const orderDiagram = `{
  "name": "Order Handling",
  "nodes": [
    {"id": 1, "label": "Register Order", "node_number": "A1"},
    {"id": 2, "label": "Check Availability", "node_number": "A2"}
  ],
  "edges": [
    {"source_id": null, "target_id": 1, "type": "Input", "label": "Order"},
    {"source_id": 1, "target_id": 2, "type": "input", "label": "Registered"},
    {"source_id": null, "target_id": 2, "type": "Control", "label": "Policy"},
    {"source_id": 2, "target_id": null, "type": "Output", "label": "Confirmation"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "simple.xml"), []byte(simpleXML), 0o644))

	cfg := config.Default()
	cfg.Store.DataDir = dir

	st, err := store.NewFileStore(dir)
	require.NoError(t, err)

	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	return New(cfg, runner, st, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var body httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Reused(t *testing.T) {
	s := newTestServer(t)
	const id = "5f0c7a1e-8d6b-4f43-9a52-1f4a2d6f9b10"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}

func TestGetDiagram(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v1/diagram?variant=simple", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="simple.xml"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, simpleXML, rec.Body.String())
}

func TestGetDiagram_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{
			name:       "missing file",
			target:     "/api/v1/diagram?variant=complex",
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantDetail: "Diagram 'complex.xml' not found",
		},
		{
			name:       "missing variant",
			target:     "/api/v1/diagram",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_VARIANT",
		},
		{
			name:       "unknown variant",
			target:     "/api/v1/diagram?variant=huge",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_VARIANT",
		},
		{
			name:       "traversal",
			target:     "/api/v1/diagram?variant=..%2F..%2Fetc%2Fpasswd",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_VARIANT",
		},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body.Detail)
			}
		})
	}
}

func TestListDiagrams(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.Store.DataDir, "draft.xml"), []byte(simpleXML), 0o644))

	rec := do(t, s, http.MethodGet, "/api/v1/diagrams", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"simple"}, body["variants"])
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/api/v1/diagram/convert", orderDiagram)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get(CacheHeader))
	assert.NotEmpty(t, rec.Header().Get(HashHeader))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	doc := rec.Body.String()
	assert.True(t, strings.HasPrefix(doc, "<mxGraphModel "))
	assert.Contains(t, doc, `<mxCell id="edge_1"`)
	assert.Contains(t, doc, `<mxCell id="edge_4"`)
	assert.Contains(t, doc, `as="sourcePoint"`)
	assert.Contains(t, doc, "\n  <root>")
}

func TestConvert_CacheHeader(t *testing.T) {
	s := newTestServer(t)
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	s.runner = pipeline.NewRunner(fc, nil, log.New(io.Discard))

	first := do(t, s, http.MethodPost, "/api/v1/diagram/convert", orderDiagram)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "miss", first.Header().Get(CacheHeader))

	second := do(t, s, http.MethodPost, "/api/v1/diagram/convert", orderDiagram)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get(CacheHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestConvert_QueryOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/diagram/convert?compact=true&declaration=true&download=1", orderDiagram)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := rec.Body.String()
	assert.True(t, strings.HasPrefix(doc, "<?xml"))
	assert.NotContains(t, doc, "\n  <root>")
	assert.Equal(t, `attachment; filename="diagram.xml"`, rec.Header().Get("Content-Disposition"))

	rec = do(t, s, http.MethodPost, "/api/v1/diagram/convert?indent=4", orderDiagram)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\n    <root>")

	rec = do(t, s, http.MethodPost, "/api/v1/diagram/convert?indent=twelve", orderDiagram)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = do(t, s, http.MethodPost, "/api/v1/diagram/convert?compact=maybe", orderDiagram)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestConvert_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "dangling reference",
			body:     `{"name":"d","nodes":[{"id":1,"label":"A"}],"edges":[{"source_id":1,"target_id":9,"type":"Input","label":""}]}`,
			wantCode: "DANGLING_REFERENCE",
		},
		{
			name:     "duplicate node",
			body:     `{"name":"d","nodes":[{"id":1,"label":"A"},{"id":1,"label":"B"}],"edges":[]}`,
			wantCode: "DUPLICATE_NODE",
		},
		{
			name:     "unknown role",
			body:     `{"name":"d","nodes":[{"id":1,"label":"A"}],"edges":[{"source_id":null,"target_id":1,"type":"Feedback","label":""}]}`,
			wantCode: "UNKNOWN_ROLE",
		},
		{
			name:     "unanchored edge",
			body:     `{"name":"d","nodes":[{"id":1,"label":"A"}],"edges":[{"source_id":null,"target_id":null,"type":"Input","label":""}]}`,
			wantCode: "UNANCHORED_EDGE",
		},
		{
			name:     "label too long",
			body:     `{"name":"d","nodes":[{"id":1,"label":"` + strings.Repeat("x", 513) + `"}],"edges":[]}`,
			wantCode: "INVALID_DIAGRAM",
		},
		{
			name:     "malformed json",
			body:     `{"name":`,
			wantCode: "INVALID_INPUT",
		},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/diagram/convert", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Detail)
		})
	}
}

func TestConvert_BodyLimit(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.MaxBodyBytes = 64

	rec := do(t, s, http.MethodPost, "/api/v1/diagram/convert", orderDiagram)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestPreview_DOT(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/diagram/preview?format=dot&direction=tb&roles=true", orderDiagram)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, pipeline.MediaType(pipeline.FormatDOT), rec.Header().Get("Content-Type"))

	dot := rec.Body.String()
	assert.True(t, strings.HasPrefix(dot, "digraph G {"))
	assert.Contains(t, dot, "rankdir=TB")
	assert.Contains(t, dot, "Policy (Control)")
}

func TestPreview_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := map[string]string{
		"format":    "/api/v1/diagram/preview?format=gif",
		"direction": "/api/v1/diagram/preview?format=dot&direction=RL",
		"scale":     "/api/v1/diagram/preview?format=png&scale=-1",
		"roles":     "/api/v1/diagram/preview?format=dot&roles=perhaps",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, target, orderDiagram)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func TestLayout(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/v1/diagram/layout", orderDiagram)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var l graph.Layout
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&l))
	require.Len(t, l.Blocks, 2)
	require.Len(t, l.Arrows, 4)

	assert.Equal(t, graph.Block{ID: 2, Label: "Check Availability", Number: "A2", X: 300, Y: 220, Width: 140, Height: 80}, l.Blocks[1])
	require.NotNil(t, l.Arrows[0].SourcePoint)
	assert.Equal(t, graph.Point{X: 60, Y: 140}, *l.Arrows[0].SourcePoint)
	require.NotNil(t, l.Arrows[2].SourcePoint)
	assert.Equal(t, graph.Point{X: 370, Y: 160}, *l.Arrows[2].SourcePoint)
}

func TestNotFoundRoute(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/v2/anything", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, newTestServer(t), http.MethodDelete, "/api/v1/diagram", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/diagram/convert", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
