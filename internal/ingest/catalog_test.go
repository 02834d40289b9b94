package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchArtistTracks(t *testing.T) {
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		require.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","expires_in":3600}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "track", r.URL.Query().Get("type"))
		assert.Contains(t, r.URL.Query().Get("q"), "artist:Du Yun")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tracks":{"items":[
			{"name":"Angel's Bone","artists":[{"name":"Du Yun"}],"album":{"name":"Angel's Bone","release_date":"2017-03-10"},"duration_ms":183500},
			{"name":"","artists":[{"name":"Du Yun"}],"album":{"name":"X","release_date":"2017"},"duration_ms":1000}
		]}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewCatalogClient(CatalogConfig{
		TokenURL:     server.URL + "/token",
		APIURL:       server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, server.Client())

	candidates, err := client.SearchArtistTracks(context.Background(), "Du Yun")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "Angel's Bone", c.Title)
	assert.Equal(t, "Du Yun", c.Composer)
	require.NotNil(t, c.Year)
	assert.Equal(t, 2017, *c.Year)
	require.NotNil(t, c.DurationSeconds)
	assert.Equal(t, 184, *c.DurationSeconds)
	require.NotNil(t, c.Description)
	assert.Equal(t, "Angel's Bone from the album Angel's Bone by Du Yun.", *c.Description)
	assert.Equal(t, "www.spotify.com", c.Source)

	// Token is cached between searches.
	_, err = client.SearchArtistTracks(context.Background(), "Du Yun")
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
}

func TestMapTracksFallsBackToTrackArtist(t *testing.T) {
	tracks := []track{{Name: "Partita"}}
	tracks[0].Artists = []struct {
		Name string `json:"name"`
	}{{Name: "Caroline Shaw"}}
	tracks[0].Album.Name = "Partita for 8 Voices"
	tracks[0].Album.ReleaseDate = "2013"

	candidates := mapTracks(tracks, "")
	require.Len(t, candidates, 1)
	assert.Equal(t, "Caroline Shaw", candidates[0].Composer)
}

func TestReleaseYear(t *testing.T) {
	assert.Equal(t, 2017, releaseYear("2017-03-10"))
	assert.Equal(t, 2013, releaseYear("2013"))
	assert.Equal(t, 0, releaseYear("n/a"))
	assert.Equal(t, 0, releaseYear(""))
}
