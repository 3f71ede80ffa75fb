package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dissect/pkg/cache"
	"github.com/matzehuels/dissect/pkg/core/dyck"
	"github.com/matzehuels/dissect/pkg/core/poly"
	"github.com/matzehuels/dissect/pkg/errors"
	"github.com/matzehuels/dissect/pkg/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	opts := DefaultOptions()
	opts.MaxLength = 1000
	opts.MaxSides = 50
	srv := httptest.NewServer(New(opts, nil, log.New(io.Discard)))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestRandomPath(t *testing.T) {
	srv := newTestServer(t)

	var body pathBody
	code := do(t, http.MethodGet, srv.URL+"/v1/paths/random?arity=3&length=31", "", &body)
	require.Equal(t, http.StatusOK, code)

	p, err := dyck.Parse(body.Path)
	require.NoError(t, err)
	assert.Len(t, p, 31)
	assert.True(t, dyck.IsRAry(p, 3))
}

func TestRandomPath_BadParams(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name  string
		query string
	}{
		{"missing arity", "length=5"},
		{"not a number", "arity=x&length=5"},
		{"wrong length", "arity=3&length=6"},
		{"too long", "arity=2&length=2001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorBody
			code := do(t, http.MethodGet, srv.URL+"/v1/paths/random?"+tt.query, "", &e)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, errors.ErrCodeInvalidInput, e.Code)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestDecodePath(t *testing.T) {
	srv := newTestServer(t)

	var got decodeResponse
	code := do(t, http.MethodPost, srv.URL+"/v1/paths/decode", `{"path": "2 0 2 0 0"}`, &got)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, got.Valid)
	assert.Equal(t, 2, got.Arity)
	assert.Equal(t, 5, got.Nodes)
	assert.Equal(t, "(.(..))", got.Tree)

	var e errorBody
	code = do(t, http.MethodPost, srv.URL+"/v1/paths/decode", `{"path": "2 0 0 0"}`, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, errors.ErrCodeInvalidPath, e.Code)

	code = do(t, http.MethodPost, srv.URL+"/v1/paths/decode", `{"path": "9000000000000000000"}`, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, errors.ErrCodeInvalidPath, e.Code)

	code = do(t, http.MethodPost, srv.URL+"/v1/paths/decode", `{"path": "2 x"}`, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errors.ErrCodeInvalidFormat, e.Code)

	code = do(t, http.MethodPost, srv.URL+"/v1/paths/decode", `not json`, &e)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRandomDissection(t *testing.T) {
	srv := newTestServer(t)

	var doc struct {
		Sides     int      `json:"sides"`
		Diagonals [][2]int `json:"diagonals"`
	}
	code := do(t, http.MethodGet, srv.URL+"/v1/dissections/random?sides=12", "", &doc)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 12, doc.Sides)
	require.Len(t, doc.Diagonals, 9)

	edges := make([]poly.Edge, len(doc.Diagonals))
	for i, pair := range doc.Diagonals {
		edges[i] = poly.NewEdge(pair[0], pair[1])
	}
	assert.True(t, poly.IsValid(edges, 12))

	var e errorBody
	code = do(t, http.MethodGet, srv.URL+"/v1/dissections/random?sides=51", "", &e)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestValidateDissection(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"fan", `{"sides": 6, "diagonals": [[0,2],[0,3],[0,4]]}`, true},
		{"crossing", `{"sides": 6, "diagonals": [[0,2],[1,3],[0,4]]}`, false},
		{"too few", `{"sides": 6, "diagonals": [[0,2]]}`, false},
		{"boundary", `{"sides": 5, "diagonals": [[0,2],[3,4]]}`, false},
		{"triangle", `{"sides": 3, "diagonals": []}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got validateResponse
			code := do(t, http.MethodPost, srv.URL+"/v1/dissections/validate", tt.body, &got)
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.valid, got.Valid)
			if !tt.valid {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}

	var e errorBody
	code := do(t, http.MethodPost, srv.URL+"/v1/dissections/validate", `{"sides": 6, "diagonals": [[0,9]]}`, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errors.ErrCodeInvalidInput, e.Code)
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var sess sessionResponse
	code := do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"sides": 4, "diagonals": [[0,2]]}`, &sess)
	require.Equal(t, http.StatusCreated, code)
	require.NotEmpty(t, sess.ID)
	base := srv.URL + "/v1/sessions/" + sess.ID

	var f flipResponse
	code = do(t, http.MethodPost, base+"/flip/1", "", &f)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, [2]int{0, 2}, f.Old)
	assert.Equal(t, [2]int{1, 3}, f.New)

	code = do(t, http.MethodGet, base, "", &sess)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, sess.Flips)
	assert.Equal(t, [][2]int{{1, 3}}, sess.Diagonals)

	var e errorBody
	code = do(t, http.MethodPost, base+"/flip/2", "", &e)
	assert.Equal(t, http.StatusBadRequest, code)
	code = do(t, http.MethodPost, base+"/flip/one", "", &e)
	assert.Equal(t, http.StatusBadRequest, code)

	code = do(t, http.MethodDelete, base, "", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code = do(t, http.MethodGet, base, "", &e)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, errors.ErrCodeNotFound, e.Code)
}

func TestCreateSession_Random(t *testing.T) {
	srv := newTestServer(t)

	var sess sessionResponse
	code := do(t, http.MethodPost, srv.URL+"/v1/sessions?sides=9", "", &sess)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 9, sess.Sides)
	assert.Len(t, sess.Diagonals, 6)
	assert.Zero(t, sess.Flips)
}

func TestCreateSession_NotATriangulation(t *testing.T) {
	srv := newTestServer(t)

	var e errorBody
	code := do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"sides": 6, "diagonals": [[0,2]]}`, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, errors.ErrCodeInvalidDissection, e.Code)
}

func TestSessionPlot(t *testing.T) {
	srv := newTestServer(t)

	var sess sessionResponse
	do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"sides": 4, "diagonals": [[0,2]]}`, &sess)

	resp, err := http.Get(srv.URL + "/v1/sessions/" + sess.ID + "/plot")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "4", lines[0])
	assert.Equal(t, "0,2", lines[len(lines)-1])
}

func TestSessionSVG_ServedFromCache(t *testing.T) {
	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	dot := render.PolygonDOT(poly.New(4, poly.NewEdge(0, 2)), render.Options{})
	require.NoError(t, store.Set(context.Background(), cache.ArtifactKey(dot, "svg"), []byte("<svg>cached</svg>"), time.Hour))

	opts := DefaultOptions()
	opts.Cache = store
	srv := httptest.NewServer(New(opts, nil, log.New(io.Discard)))
	t.Cleanup(srv.Close)

	var sess sessionResponse
	do(t, http.MethodPost, srv.URL+"/v1/sessions", `{"sides": 4, "diagonals": [[0,2]]}`, &sess)

	resp, err := http.Get(srv.URL + "/v1/sessions/" + sess.ID + "/svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "<svg>cached</svg>", string(data))
}

func TestNextDissection(t *testing.T) {
	srv := newTestServer(t)

	var doc struct {
		Sides     int      `json:"sides"`
		Diagonals [][2]int `json:"diagonals"`
	}
	code := do(t, http.MethodPost, srv.URL+"/v1/dissections/next", `{"sides": 4, "diagonals": [[1,3]]}`, &doc)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 4, doc.Sides)
	assert.Equal(t, [][2]int{{0, 2}}, doc.Diagonals)

	var e errorBody
	code = do(t, http.MethodPost, srv.URL+"/v1/dissections/next", `{"sides": 4, "diagonals": [[0,2]]}`, &e)
	assert.Equal(t, http.StatusNotFound, code)

	code = do(t, http.MethodPost, srv.URL+"/v1/dissections/next", `{"sides": 5, "diagonals": [[0,2]]}`, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, status(errors.ErrCodeInvalidFormat))
	assert.Equal(t, http.StatusUnprocessableEntity, status(errors.ErrCodeInvalidDissection))
	assert.Equal(t, http.StatusNotFound, status(errors.ErrCodeNotFound))
	assert.Equal(t, http.StatusBadGateway, status(errors.ErrCodeIO))
	assert.Equal(t, http.StatusInternalServerError, status(errors.ErrCodeInternal))
}
