package backup

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/stockmaster-pro/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-pro/stockmaster/internal/store"
)

func newHandlerServer(t *testing.T, st *store.Store) *httptest.Server {
	t.Helper()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(st))
	r := chi.NewRouter()
	r.Route("/backup", h.MountRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandlerExport(t *testing.T) {
	st := newTestStore(t)
	seed(t, st)
	srv := newHandlerServer(t, st)

	resp, err := http.Get(srv.URL + "/backup/export")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Disposition"), `attachment; filename="stockmaster_db_`))

	var doc Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Equal(t, store.SnapshotVersion, doc.Version)
	require.Len(t, doc.Products, 1)
}

func TestHandlerRestoreFieldErrors(t *testing.T) {
	st := newTestStore(t)
	srv := newHandlerServer(t, st)

	resp, err := http.Post(srv.URL+"/backup/restore", "application/json",
		bytes.NewReader([]byte(`{"clients":[]}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var problem httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	require.Contains(t, problem.Fields, "products")
}

func TestHandlerRestoreAndReset(t *testing.T) {
	st := newTestStore(t)
	srv := newHandlerServer(t, st)

	resp, err := http.Post(srv.URL+"/backup/restore", "application/json",
		bytes.NewReader([]byte(`{"products":[{"id":"prod-1","name":"Écran"}]}`)))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Len(t, st.Snapshot().Products, 1)

	resp, err = http.Post(srv.URL+"/backup/reset", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, st.Snapshot().Products)
}
