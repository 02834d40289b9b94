package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernmaestros/maestro/internal/composers"
	"github.com/modernmaestros/maestro/internal/compositions"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

type stubComposerStore struct {
	mu     sync.Mutex
	byName map[string]int64
	nextID int64
}

func newStubComposerStore() *stubComposerStore {
	return &stubComposerStore{byName: make(map[string]int64), nextID: 1}
}

func (s *stubComposerStore) FindByName(ctx context.Context, name string) (*composers.Composer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return &composers.Composer{ID: id, Name: name}, nil
}

func (s *stubComposerStore) Create(ctx context.Context, composer composers.Composer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[composer.Name]; ok {
		return 0, httpx.ErrConflict
	}
	id := s.nextID
	s.nextID++
	s.byName[composer.Name] = id
	return id, nil
}

type stubCompositionStore struct {
	mu        sync.Mutex
	keys      map[string]bool
	created   []compositions.Composition
	failTitle string
}

func newStubCompositionStore() *stubCompositionStore {
	return &stubCompositionStore{keys: make(map[string]bool)}
}

func (s *stubCompositionStore) Create(ctx context.Context, composition compositions.Composition) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if composition.Title == s.failTitle && s.failTitle != "" {
		return 0, errors.New("connection reset")
	}
	year := -1
	if composition.Year != nil {
		year = *composition.Year
	}
	key := fmt.Sprintf("%s|%d|%d", composition.Title, composition.ComposerID, year)
	if s.keys[key] {
		return 0, httpx.ErrConflict
	}
	s.keys[key] = true
	s.created = append(s.created, composition)
	return int64(len(s.created)), nil
}

func testCandidate(title, composer string, year int) Candidate {
	y := year
	return Candidate{Title: title, Composer: composer, Year: &y, Source: "www.spotify.com"}
}

func TestImportInsertsAndSkips(t *testing.T) {
	composerStore := newStubComposerStore()
	compositionStore := newStubCompositionStore()
	importer := NewImporter(composerStore, compositionStore, slog.New(slog.NewTextHandler(io.Discard, nil)))

	candidates := []Candidate{
		testCandidate("Angel's Bone", "Du Yun", 2016),
		testCandidate("Angel's Bone", "Du Yun", 2016),
		testCandidate("Partita", "Caroline Shaw", 2013),
		{Title: "", Composer: "Nobody"},
	}
	summary, err := importer.Import(context.Background(), "catalog:test", candidates)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.NotEmpty(t, summary.RunID)

	// Both composers exist exactly once.
	assert.Len(t, composerStore.byName, 2)
}

func TestImportRecordFailureDoesNotAbort(t *testing.T) {
	composerStore := newStubComposerStore()
	compositionStore := newStubCompositionStore()
	compositionStore.failTitle = "Broken Record"
	importer := NewImporter(composerStore, compositionStore, slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := importer.Import(context.Background(), "catalog:test", []Candidate{
		testCandidate("Broken Record", "Du Yun", 2016),
		testCandidate("Partita", "Caroline Shaw", 2013),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 1, summary.Failed)
}

func TestImportMixedBatchCountsEverySkip(t *testing.T) {
	composerStore := newStubComposerStore()
	compositionStore := newStubCompositionStore()
	importer := NewImporter(composerStore, compositionStore, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// Invalid candidates interleaved with natural-key duplicates, so the
	// batch loop and the workers bump the skip counter concurrently.
	candidates := make([]Candidate, 0, 400)
	for i := 0; i < 200; i++ {
		candidates = append(candidates, Candidate{Composer: "Nobody"})
		candidates = append(candidates, testCandidate("Partita", "Caroline Shaw", 2013))
	}

	summary, err := importer.Import(context.Background(), "catalog:test", candidates)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Inserted)
	assert.Equal(t, 399, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestImportReusesExistingComposer(t *testing.T) {
	composerStore := newStubComposerStore()
	_, err := composerStore.Create(context.Background(), composers.Composer{Name: "Du Yun"})
	require.NoError(t, err)

	compositionStore := newStubCompositionStore()
	importer := NewImporter(composerStore, compositionStore, slog.New(slog.NewTextHandler(io.Discard, nil)))

	summary, err := importer.Import(context.Background(), "catalog:test", []Candidate{
		testCandidate("Angel's Bone", "Du Yun", 2016),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)
	assert.Len(t, composerStore.byName, 1)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Du Yun", NormalizeName("  Du   Yun "))
	assert.Equal(t, "Du Yun", NormalizeName("Du\tYun"))
	assert.Equal(t, "", NormalizeName("   "))
}
