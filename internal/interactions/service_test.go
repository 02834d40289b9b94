package interactions

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
	interactions map[int64]*Interaction
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{interactions: make(map[int64]*Interaction), nextID: 1}
}

func (m *mockRepository) Create(ctx context.Context, interaction Interaction) (int64, error) {
	id := m.nextID
	m.nextID++
	interaction.ID = id
	interaction.CreatedAt = time.Now()
	interaction.UpdatedAt = interaction.CreatedAt
	m.interactions[id] = &interaction
	return id, nil
}

func (m *mockRepository) List(ctx context.Context, req ListInteractionsRequest) ([]Interaction, error) {
	result := []Interaction{}
	for _, in := range m.interactions {
		if req.TargetID != nil && in.TargetID != *req.TargetID {
			continue
		}
		if req.TargetType != "" && in.TargetType != req.TargetType {
			continue
		}
		if req.UserID != nil && (in.UserID == nil || *in.UserID != *req.UserID) {
			continue
		}
		result = append(result, *in)
	}
	return result, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Interaction, error) {
	in, ok := m.interactions[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	copied := *in
	return &copied, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	in, ok := m.interactions[id]
	if !ok {
		return httpx.ErrNotFound
	}
	if v, ok := updates["content"].(string); ok {
		in.Content = &v
	}
	if v, ok := updates["rating"].(int); ok {
		in.Rating = &v
	}
	in.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.interactions[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.interactions, id)
	return nil
}

func clara() *auth.Claims { return &auth.Claims{UserID: 5, Username: "clara"} }
func felix() *auth.Claims { return &auth.Claims{UserID: 6, Username: "felix"} }
func admin() *auth.Claims { return &auth.Claims{UserID: 1, Username: "root", IsAdmin: true} }

func TestCreateInteractionSetsOwner(t *testing.T) {
	service := NewService(newMockRepository())

	rating := 5
	interaction, err := service.Create(context.Background(), clara(), CreateInteractionRequest{
		TargetID:        1,
		TargetType:      "composition",
		InteractionType: "rating",
		Rating:          &rating,
	})
	require.NoError(t, err)
	require.NotNil(t, interaction.UserID)
	assert.Equal(t, int64(5), *interaction.UserID)
	require.NotNil(t, interaction.Rating)
	assert.Equal(t, 5, *interaction.Rating)
}

func TestUpdateInteractionOwnership(t *testing.T) {
	service := NewService(newMockRepository())

	content := "Stunning premiere."
	created, err := service.Create(context.Background(), clara(), CreateInteractionRequest{
		TargetID:        1,
		TargetType:      "performance",
		InteractionType: "comment",
		Content:         &content,
	})
	require.NoError(t, err)

	edited := "Stunning premiere, wonderful brass."
	_, err = service.Update(context.Background(), felix(), created.ID, UpdateInteractionRequest{Content: &edited})
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	updated, err := service.Update(context.Background(), clara(), created.ID, UpdateInteractionRequest{Content: &edited})
	require.NoError(t, err)
	require.NotNil(t, updated.Content)
	assert.Equal(t, edited, *updated.Content)
}

func TestDeleteInteractionAdminOverride(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.Create(context.Background(), clara(), CreateInteractionRequest{
		TargetID:        1,
		TargetType:      "composition",
		InteractionType: "like",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), felix(), created.ID)
	assert.ErrorIs(t, err, httpx.ErrForbidden)

	require.NoError(t, service.Delete(context.Background(), admin(), created.ID))
	_, err = service.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListInteractionsByTarget(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), clara(), CreateInteractionRequest{
		TargetID: 1, TargetType: "composition", InteractionType: "like",
	})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), felix(), CreateInteractionRequest{
		TargetID: 2, TargetType: "performance", InteractionType: "like",
	})
	require.NoError(t, err)

	target := int64(1)
	listed, err := service.List(context.Background(), ListInteractionsRequest{TargetID: &target, TargetType: "composition"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}
