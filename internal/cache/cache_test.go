package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopmatch/internal/domain"
)

func TestStoreReplaceAll(t *testing.T) {
	store := NewGames()
	store.Put(domain.Game{ID: 99, CourtName: "stale"})

	store.ReplaceAll([]domain.Game{
		{ID: 1, CourtName: "Riverside"},
		{ID: 2, CourtName: "Hilltop"},
	})

	assert.Equal(t, 2, store.Len())

	// The stale entry did not survive the wholesale replacement
	_, ok := store.Get(99)
	assert.False(t, ok)

	g, ok := store.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Riverside", g.CourtName)
}

func TestStoreReplaceAllEmpty(t *testing.T) {
	store := NewGames()
	store.Put(domain.Game{ID: 1})

	store.ReplaceAll(nil)
	assert.Equal(t, 0, store.Len())
}

func TestStorePutOverwrites(t *testing.T) {
	store := NewGames()
	store.Put(domain.Game{ID: 1, CurrentPlayers: 3})
	store.Put(domain.Game{ID: 1, CurrentPlayers: 4})

	assert.Equal(t, 1, store.Len())
	g, _ := store.Get(1)
	assert.Equal(t, 4, g.CurrentPlayers)
}

func TestStoreDelete(t *testing.T) {
	store := NewGames()
	store.Put(domain.Game{ID: 1})

	store.Delete(1)
	_, ok := store.Get(1)
	assert.False(t, ok)

	// Deleting an absent id is a no-op
	store.Delete(42)
	assert.Equal(t, 0, store.Len())
}

func TestStoreAll(t *testing.T) {
	store := NewCourts()
	store.ReplaceAll([]domain.Court{
		{ID: 1, Name: "Riverside"},
		{ID: 2, Name: "Hilltop"},
	})

	all := store.All()
	assert.Len(t, all, 2)

	ids := map[int64]bool{}
	for _, c := range all {
		ids[c.ID] = true
	}
	assert.True(t, ids[1] && ids[2])
}

func TestStoreClear(t *testing.T) {
	store := NewGames()
	store.Put(domain.Game{ID: 1})
	store.Clear()
	assert.Equal(t, 0, store.Len())
}
