package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterhub/rosterhub-api/internal/models"
)

func TestMemoryStoreLoadEmptyReturnsSeed(t *testing.T) {
	store := NewMemoryStore(nil)
	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.Equal(t, "seed-1", students[0].ID)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore(nil)
	saved := []models.Student{
		{ID: "s-1", Name: "Dana", Email: "dana@example.com", Course: "CS", Status: models.StatusActive},
	}

	require.True(t, store.Save(context.Background(), saved))
	assert.Equal(t, saved, store.Load(context.Background()))
}

func TestMemoryStoreSaveEmptySetIsNotSeed(t *testing.T) {
	store := NewMemoryStore(nil)
	require.True(t, store.Save(context.Background(), []models.Student{}))

	// An explicitly saved empty roster stays empty; only a missing or
	// corrupt snapshot falls back to the seed set.
	assert.Empty(t, store.Load(context.Background()))
}

func TestMemoryStoreCorruptPayloadFallsBackToSeed(t *testing.T) {
	store := NewMemoryStore(nil)

	store.SetRaw([]byte(`not json at all`))
	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.Equal(t, "Alice Johnson", students[0].Name)

	store.SetRaw([]byte(`{"unexpected":"object"}`))
	students = store.Load(context.Background())
	require.Len(t, students, 3)
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore(nil)
	require.True(t, store.Save(context.Background(), []models.Student{{ID: "s-1"}}))
	require.True(t, store.Clear(context.Background()))

	students := store.Load(context.Background())
	require.Len(t, students, 3)
	assert.Equal(t, "seed-1", students[0].ID)
}

func TestMemoryStoreFailWrites(t *testing.T) {
	store := NewMemoryStore(nil)
	store.FailWrites(true)

	assert.False(t, store.Save(context.Background(), []models.Student{{ID: "s-1"}}))
	assert.False(t, store.Clear(context.Background()))

	store.FailWrites(false)
	assert.True(t, store.Save(context.Background(), []models.Student{{ID: "s-1"}}))
}
