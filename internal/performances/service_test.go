package performances

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernmaestros/maestro/internal/auth"
	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

type mockRepository struct {
	performances map[int64]*Performance
	compositions map[int64]bool
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		performances: make(map[int64]*Performance),
		compositions: map[int64]bool{1: true},
		nextID:       1,
	}
}

func (m *mockRepository) Create(ctx context.Context, performance Performance) (int64, error) {
	id := m.nextID
	m.nextID++
	performance.ID = id
	performance.CreatedAt = time.Now()
	performance.UpdatedAt = performance.CreatedAt
	m.performances[id] = &performance
	return id, nil
}

func (m *mockRepository) List(ctx context.Context, req ListPerformancesRequest) ([]Performance, error) {
	result := []Performance{}
	for _, p := range m.performances {
		if req.CompositionID != nil && p.CompositionID != *req.CompositionID {
			continue
		}
		if req.UserID != nil && (p.UserID == nil || *p.UserID != *req.UserID) {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Performance, error) {
	p, ok := m.performances[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	p, ok := m.performances[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if v, ok := updates["location"].(string); ok {
		p.Location = &v
	}
	if v, ok := updates["file_url"].(string); ok {
		p.FileURL = v
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.performances[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.performances, id)
	return nil
}

func (m *mockRepository) CompositionExists(ctx context.Context, compositionID int64) (bool, error) {
	return m.compositions[compositionID], nil
}

func clara() *auth.Claims { return &auth.Claims{UserID: 5, Username: "clara"} }
func felix() *auth.Claims { return &auth.Claims{UserID: 6, Username: "felix"} }
func admin() *auth.Claims { return &auth.Claims{UserID: 1, Username: "root", IsAdmin: true} }

func TestCreatePerformanceSetsOwner(t *testing.T) {
	service := NewService(newMockRepository())

	performance, err := service.Create(context.Background(), clara(), CreatePerformanceRequest{
		CompositionID: 1,
		FileURL:       "https://cdn.example.com/rec.mp3",
	})
	require.NoError(t, err)
	require.NotNil(t, performance.UserID)
	assert.Equal(t, int64(5), *performance.UserID)
}

func TestCreatePerformanceUnknownComposition(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), clara(), CreatePerformanceRequest{
		CompositionID: 99,
		FileURL:       "https://cdn.example.com/rec.mp3",
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdatePerformanceOwnership(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.Create(context.Background(), clara(), CreatePerformanceRequest{
		CompositionID: 1,
		FileURL:       "https://cdn.example.com/rec.mp3",
	})
	require.NoError(t, err)

	location := "Carnegie Hall"
	_, err = service.Update(context.Background(), felix(), created.ID, UpdatePerformanceRequest{Location: &location})
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	updated, err := service.Update(context.Background(), clara(), created.ID, UpdatePerformanceRequest{Location: &location})
	require.NoError(t, err)
	require.NotNil(t, updated.Location)
	assert.Equal(t, location, *updated.Location)

	_, err = service.Update(context.Background(), admin(), created.ID, UpdatePerformanceRequest{Location: &location})
	assert.NoError(t, err)
}

func TestDeletePerformanceOwnership(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.Create(context.Background(), clara(), CreatePerformanceRequest{
		CompositionID: 1,
		FileURL:       "https://cdn.example.com/rec.mp3",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), felix(), created.ID)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	require.NoError(t, service.Delete(context.Background(), clara(), created.ID))
	_, err = service.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListPerformancesFilters(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), clara(), CreatePerformanceRequest{
		CompositionID: 1, FileURL: "https://cdn.example.com/a.mp3",
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), felix(), CreatePerformanceRequest{
		CompositionID: 1, FileURL: "https://cdn.example.com/b.mp3",
	})
	require.NoError(t, err)

	owner := int64(5)
	listed, err := service.List(context.Background(), ListPerformancesRequest{UserID: &owner})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
