package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknab/tracknab/indexer/search"
)

func newTestStorage(t *testing.T) *BoltStorage {
	t.Helper()
	store, err := NewBoltStorage(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHandleResultDiscovery(t *testing.T) {
	store := newTestStorage(t)
	item := &search.ResultItem{
		Site:        "example",
		Title:       "Foo.Show.S02E05.720p",
		Link:        "https://example.org/dl/1",
		Size:        734003200,
		PublishDate: time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	isNew, isUpdate, err := store.HandleResultDiscovery(item)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.False(t, isUpdate)
	assert.True(t, item.IsNew())
	assert.NotEmpty(t, item.Fingerprint)

	// a second sighting of the same release is neither new nor an update
	again := &search.ResultItem{
		Site:        item.Site,
		Title:       item.Title,
		Link:        item.Link,
		Size:        item.Size,
		PublishDate: item.PublishDate,
	}
	isNew, isUpdate, err = store.HandleResultDiscovery(again)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.False(t, isUpdate)

	// same release with a changed publish date counts as an update
	bumped := &search.ResultItem{
		Site:        item.Site,
		Title:       item.Title,
		Link:        item.Link,
		Size:        item.Size,
		PublishDate: item.PublishDate.Add(time.Hour),
	}
	isNew, isUpdate, err = store.HandleResultDiscovery(bumped)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.True(t, isUpdate)
	assert.True(t, bumped.IsUpdate())
}

func TestGetNewest(t *testing.T) {
	store := newTestStorage(t)
	base := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "middle", "new"} {
		_, _, err := store.HandleResultDiscovery(&search.ResultItem{
			Site:        "example",
			Title:       title,
			Link:        "https://example.org/dl/" + title,
			PublishDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	items, err := store.GetNewest(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Title)
	assert.Equal(t, "middle", items[1].Title)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}
