package compositions

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernmaestros/maestro/internal/auth"
)

func newTestRouter(t *testing.T) (http.Handler, *auth.Issuer, *mockRepository) {
	t.Helper()
	issuer := auth.NewIssuer("compositions-secret", time.Hour, nil)
	guard := auth.Guard{Issuer: issuer}
	repo := newMockRepository()
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), newTestService(repo), guard)

	router := chi.NewRouter()
	router.Use(guard.Authenticate)
	router.Route("/compositions", handler.MountRoutes)
	return router, issuer, repo
}

func authHeader(t *testing.T, issuer *auth.Issuer, userID int64, username string, isAdmin bool) string {
	t.Helper()
	token, err := issuer.Issue(userID, username, isAdmin)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateCompositionRequiresLogin(t *testing.T) {
	router, issuer, _ := newTestRouter(t)

	body := `{"title":"Work","composerId":1}`
	req := httptest.NewRequest(http.MethodPost, "/compositions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/compositions", strings.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, issuer, 5, "clara", false))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]Composition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Work", resp["composition"].Title)
}

func TestCreateCompositionUnknownComposer(t *testing.T) {
	router, issuer, _ := newTestRouter(t)

	body := `{"title":"Work","composerId":99}`
	req := httptest.NewRequest(http.MethodPost, "/compositions", strings.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, issuer, 5, "clara", false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "composer 99 does not exist")
}

func TestDeleteCompositionAdminOnly(t *testing.T) {
	router, issuer, _ := newTestRouter(t)

	body := `{"title":"Work","composerId":1}`
	req := httptest.NewRequest(http.MethodPost, "/compositions", strings.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, issuer, 5, "clara", false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/compositions/1", nil)
	req.Header.Set("Authorization", authHeader(t, issuer, 5, "clara", false))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/compositions/1", nil)
	req.Header.Set("Authorization", authHeader(t, issuer, 1, "root", true))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":1`)
}

func TestListCompositionsPublic(t *testing.T) {
	router, issuer, _ := newTestRouter(t)

	body := `{"title":"Work","composerId":1,"year":2020}`
	req := httptest.NewRequest(http.MethodPost, "/compositions", strings.NewReader(body))
	req.Header.Set("Authorization", authHeader(t, issuer, 5, "clara", false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compositions?year=2020", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Compositions []Composition `json:"compositions"`
		Total        int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compositions?year=banana", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShowCompositionNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compositions/404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
