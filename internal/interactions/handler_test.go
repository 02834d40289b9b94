package interactions

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

func newTestRouter(t *testing.T) (http.Handler, *auth.Issuer) {
	t.Helper()
	issuer := auth.NewIssuer("interactions-secret", time.Hour, nil)
	guard := auth.Guard{Issuer: issuer}
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewService(newMockRepository()), guard)

	router := chi.NewRouter()
	router.Use(guard.Authenticate)
	router.Route("/interactions", handler.MountRoutes)
	return router, issuer
}

func bearer(t *testing.T, issuer *auth.Issuer, claims *auth.Claims) string {
	t.Helper()
	token, err := issuer.Issue(claims.UserID, claims.Username, claims.IsAdmin)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateInteractionEndpoint(t *testing.T) {
	router, issuer := newTestRouter(t)

	body := `{"targetId":1,"targetType":"composition","interactionType":"rating","rating":4}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, issuer, clara()))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Interaction Interaction `json:"interaction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "composition", resp.Interaction.TargetType)
	assert.Equal(t, "rating", resp.Interaction.InteractionType)
	require.NotNil(t, resp.Interaction.Rating)
	assert.Equal(t, 4, *resp.Interaction.Rating)
	require.NotNil(t, resp.Interaction.UserID)
	assert.Equal(t, clara().UserID, *resp.Interaction.UserID)
}

func TestCreateInteractionEndpointValidation(t *testing.T) {
	router, issuer := newTestRouter(t)

	cases := []string{
		`{"targetId":1,"targetType":"playlist","interactionType":"like"}`,
		`{"targetId":1,"targetType":"composition","interactionType":"rating","rating":6}`,
		`{"targetType":"composition","interactionType":"like"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/interactions", strings.NewReader(body))
		req.Header.Set("Authorization", bearer(t, issuer, clara()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}
