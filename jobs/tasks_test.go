package jobs

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogImportTask(t *testing.T) {
	task, err := NewCatalogImportTask(CatalogImportPayload{Artist: "Du Yun"})
	require.NoError(t, err)
	assert.Equal(t, TaskCatalogImport, task.Type())

	var payload CatalogImportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, "Du Yun", payload.Artist)
}

func TestNewScrapeImportTask(t *testing.T) {
	task, err := NewScrapeImportTask(ScrapeImportPayload{URL: "http://example.com/new-compositions"})
	require.NoError(t, err)
	assert.Equal(t, TaskScrapeImport, task.Type())
}

func TestHandleCatalogImportBadPayload(t *testing.T) {
	handler := HandleCatalogImport(nil, nil)

	err := handler(context.Background(), asynq.NewTask(TaskCatalogImport, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(context.Background(), asynq.NewTask(TaskCatalogImport, []byte(`{"artist":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleScrapeImportBadPayload(t *testing.T) {
	handler := HandleScrapeImport(nil, nil)

	err := handler(context.Background(), asynq.NewTask(TaskScrapeImport, []byte(`{"url":""}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
