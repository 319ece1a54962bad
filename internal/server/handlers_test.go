package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicdev/mosaic/internal/auth"
	"github.com/mosaicdev/mosaic/internal/provision"
	"github.com/mosaicdev/mosaic/internal/store/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	runner := memory.NewRunner(
		memory.NewDocumentStore(),
		memory.NewRoleStore(),
		memory.NewSpaceStore(),
	)
	authority, err := auth.NewAuthority([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return New(provision.NewService(runner), authority).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, handler http.Handler, subject string) string {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/login", "", map[string]string{"subject": subject})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestServer_PublicRoutes(t *testing.T) {
	handler := newTestServer(t)

	t.Run("health needs no credentials", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/healthz", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("login rejects an empty subject", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/login", "", map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("api routes are gated", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/system/init", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ProvisioningFlow(t *testing.T) {
	handler := newTestServer(t)
	token := login(t, handler, "user-1")

	// Before init.
	rec := doJSON(t, handler, http.MethodGet, "/system/init", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"initialized":false}`, rec.Body.String())

	// Initialize.
	rec = doJSON(t, handler, http.MethodPost, "/system/init", token, map[string]string{"organization": "org-1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Re-initialization conflicts.
	rec = doJSON(t, handler, http.MethodPost, "/system/init", token, map[string]string{"organization": "org-1"})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Default templates exist.
	rec = doJSON(t, handler, http.MethodGet, "/orgs/org-1/templates", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var templates []struct {
		ID   string `json:"identifier"`
		Name string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&templates))
	require.Len(t, templates, 2)

	// Create a project from one of them.
	rec = doJSON(t, handler, http.MethodPost, "/projects", token, map[string]string{
		"name":         "Apollo",
		"organization": "org-1",
		"template":     templates[0].ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var project struct {
		ID       string `json:"identifier"`
		StatusID string `json:"status_identifier"`
		Creator  string `json:"creator"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&project))
	require.Equal(t, "NotStarted", project.StatusID)
	require.Equal(t, "user-1", project.Creator)

	// Members round trip.
	rec = doJSON(t, handler, http.MethodPost, "/spaces/project/"+project.ID+"/members", token,
		map[string][]string{"user_ids": {"u1", "u2"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/spaces/"+project.ID+"/members", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var members struct {
		UserIDs []string `json:"user_ids"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&members))
	require.ElementsMatch(t, []string{"u1", "u2"}, members.UserIDs)
}

func TestServer_ErrorMapping(t *testing.T) {
	handler := newTestServer(t)
	token := login(t, handler, "user-1")

	t.Run("missing template is 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/orgs/org-1/templates/nope", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unprovisioned organization is 409", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPost, "/orgs/org-1/templates", token,
			map[string]string{"name": "Kanban"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("bad argument is 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/spaces/folder/x/status-flow", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
