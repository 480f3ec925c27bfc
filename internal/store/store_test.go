package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"admin-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires database (set TEST_DATABASE_URL)")
	}

	store, err := NewStore(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.EnsureSchema(context.Background()))
	return store
}

func TestTemplateLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	tmpl := &models.MessageTemplate{Name: "Restock", Body: "Hi {name}, rice is back!"}
	require.NoError(t, store.CreateTemplate(ctx, tmpl))
	assert.NotEmpty(t, tmpl.ID)
	t.Cleanup(func() { _ = store.DeleteTemplate(ctx, tmpl.ID) })

	got, err := store.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Body, got.Body)

	tmpl.Body = "Hi {name}, dal is back!"
	require.NoError(t, store.UpdateTemplate(ctx, tmpl))

	got, err = store.GetTemplate(ctx, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi {name}, dal is back!", got.Body)

	list, err := store.ListTemplates(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestMissingTemplate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	missing := "00000000-0000-0000-0000-000000000000"

	_, err := store.GetTemplate(ctx, missing)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	err = store.DeleteTemplate(ctx, missing)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	err = store.UpdateTemplate(ctx, &models.MessageTemplate{ID: missing, Name: "x", Body: "y"})
	assert.True(t, errors.Is(err, ErrTemplateNotFound))
}
