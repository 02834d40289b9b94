package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CatalogConfig carries the external music-catalog API settings.
type CatalogConfig struct {
	TokenURL     string
	APIURL       string
	ClientID     string
	ClientSecret string
}

// CatalogClient talks to the external music-catalog API. Authentication is
// OAuth2 client credentials; tokens are cached until shortly before expiry.
type CatalogClient struct {
	cfg    CatalogConfig
	client *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewCatalogClient constructs a CatalogClient. httpClient may be nil.
func NewCatalogClient(cfg CatalogConfig, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CatalogClient{cfg: cfg, client: httpClient}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *CatalogClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ingest: catalog token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ingest: catalog token: unexpected status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("ingest: catalog token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("ingest: catalog token: empty access_token")
	}
	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - 30*time.Second)
	return c.token, nil
}

type trackSearchResponse struct {
	Tracks struct {
		Items []track `json:"items"`
	} `json:"tracks"`
}

type track struct {
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
	} `json:"album"`
	DurationMS int `json:"duration_ms"`
}

// SearchArtistTracks queries the catalog for an artist's tracks from the
// last ten years and maps them to Candidates. The artist name overrides
// whatever the track credits say, so collaborations still file under the
// requested composer.
func (c *CatalogClient) SearchArtistTracks(ctx context.Context, artist string) ([]Candidate, error) {
	currentYear := time.Now().Year()
	query := fmt.Sprintf("artist:%s year:%d-%d", artist, currentYear-10, currentYear)
	tracks, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	return mapTracks(tracks, artist), nil
}

// SearchTracks queries the catalog with a raw query string. Each candidate
// is credited to the track's first listed artist.
func (c *CatalogClient) SearchTracks(ctx context.Context, query string) ([]Candidate, error) {
	tracks, err := c.search(ctx, query)
	if err != nil {
		return nil, err
	}
	return mapTracks(tracks, ""), nil
}

func (c *CatalogClient) search(ctx context.Context, query string) ([]track, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&type=track&market=US&limit=50", c.cfg.APIURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: catalog search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingest: catalog search: unexpected status %d", resp.StatusCode)
	}

	var parsed trackSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ingest: catalog search: %w", err)
	}
	return parsed.Tracks.Items, nil
}

// catalogSource is the external_api_name recorded on imported compositions.
const catalogSource = "www.spotify.com"

func mapTracks(tracks []track, composerOverride string) []Candidate {
	candidates := make([]Candidate, 0, len(tracks))
	for _, t := range tracks {
		composer := composerOverride
		if composer == "" && len(t.Artists) > 0 {
			composer = t.Artists[0].Name
		}
		if t.Name == "" || composer == "" {
			continue
		}
		candidate := Candidate{
			Title:    t.Name,
			Composer: composer,
			Source:   catalogSource,
		}
		if year := releaseYear(t.Album.ReleaseDate); year > 0 {
			candidate.Year = &year
		}
		if t.DurationMS > 0 {
			seconds := (t.DurationMS + 500) / 1000
			candidate.DurationSeconds = &seconds
		}
		description := fmt.Sprintf("%s from the album %s by %s.", t.Name, t.Album.Name, composer)
		candidate.Description = &description
		candidates = append(candidates, candidate)
	}
	return candidates
}

// releaseYear parses the leading year out of a release date, which the
// catalog reports with year, month, or day precision.
func releaseYear(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}
