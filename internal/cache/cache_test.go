package cache

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"storegen/internal/logger"
	"storegen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	data    map[string][]byte
	setErr  error
	setKeys []string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}}
}

func (m *memStorage) Get(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStorage) Set(key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setKeys = append(m.setKeys, key)
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func newTestCache(storage Storage) *Cache {
	return New(storage, logger.New("error"))
}

func sampleStore(id, name string) models.Store {
	return models.Store{
		ID:   id,
		Name: name,
		Slug: models.Slugify(name),
		Products: []models.Product{
			{ID: id + "-p1", Name: "Thing", Price: 9.99},
		},
	}
}

func TestAddPersistsSynchronously(t *testing.T) {
	storage := newMemStorage()
	c := newTestCache(storage)

	c.Add(sampleStore("s1", "Acme"))

	var persisted []models.Store
	require.NoError(t, json.Unmarshal(storage.data[storesKey], &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, "s1", persisted[0].ID)
}

func TestAddReplacesSameID(t *testing.T) {
	c := newTestCache(newMemStorage())
	c.Add(sampleStore("s1", "Acme"))
	c.Add(sampleStore("s2", "Beta"))

	updated := sampleStore("s1", "Acme Renamed")
	c.Add(updated)

	stores := c.List()
	require.Len(t, stores, 2)
	assert.Equal(t, "s1", stores[0].ID)
	assert.Equal(t, "Acme Renamed", stores[0].Name)
}

func TestRemoveReturnsStoreForRollback(t *testing.T) {
	c := newTestCache(newMemStorage())
	c.Add(sampleStore("s1", "Acme"))
	c.SetCurrent("s1")

	removed, ok := c.Remove("s1")
	require.True(t, ok)
	assert.Equal(t, "Acme", removed.Name)
	assert.Empty(t, c.List())
	_, hasCurrent := c.Current()
	assert.False(t, hasCurrent)

	// Rollback path: re-inserting restores the snapshot.
	c.Add(removed)
	got, ok := c.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Acme", got.Name)
}

func TestPersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	storage := newMemStorage()
	storage.setErr = errors.New("disk full")
	c := newTestCache(storage)

	c.Add(sampleStore("s1", "Acme"))

	_, ok := c.Get("s1")
	assert.True(t, ok, "in-memory state must survive a persistence failure")
}

func TestLoadRoundTrip(t *testing.T) {
	storage := newMemStorage()
	c := newTestCache(storage)
	c.Add(sampleStore("s1", "Acme"))
	c.Add(sampleStore("s2", "Beta"))
	before := storage.data[storesKey]

	reloaded := newTestCache(storage)
	require.NoError(t, reloaded.Load())
	reloaded.ReplaceAll(reloaded.List())

	assert.JSONEq(t, string(before), string(storage.data[storesKey]))
}

func TestInlineImagesTruncatedOnPersist(t *testing.T) {
	storage := newMemStorage()
	c := newTestCache(storage)

	big := "data:image/png;base64," + strings.Repeat("A", 4096)
	store := sampleStore("s1", "Acme")
	store.LogoURL = big
	store.Products[0].Image.Src.Medium = big
	store.Collections = []models.Collection{{ID: "c1", Name: "All", ImageURL: big}}
	c.Add(store)

	var persisted []models.Store
	require.NoError(t, json.Unmarshal(storage.data[storesKey], &persisted))
	assert.True(t, strings.HasSuffix(persisted[0].LogoURL, truncatedMarker))
	assert.Less(t, len(persisted[0].LogoURL), 64)
	assert.True(t, strings.HasSuffix(persisted[0].Products[0].Image.Src.Medium, truncatedMarker))
	assert.True(t, strings.HasSuffix(persisted[0].Collections[0].ImageURL, truncatedMarker))

	// The in-memory copy keeps the full payload.
	inMem, _ := c.Get("s1")
	assert.Equal(t, big, inMem.LogoURL)
}

func TestDurableURLsNotTruncated(t *testing.T) {
	long := "https://cdn.example.com/" + strings.Repeat("x", 4096)
	assert.Equal(t, long, truncateInlineImage(long))

	short := "data:image/png;base64,AAAA"
	assert.Equal(t, short, truncateInlineImage(short))
}

func TestCartPersistedSeparately(t *testing.T) {
	storage := newMemStorage()
	c := newTestCache(storage)

	p := models.Product{ID: "p1", Name: "Thing", Price: 5}
	c.AddToCart(p, "s1")
	c.AddToCart(p, "s1")
	c.UpdateQuantity("p1", "s1", 5)

	var cart models.Cart
	require.NoError(t, json.Unmarshal(storage.data[cartKey], &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	c.UpdateQuantity("p1", "s1", 0)
	assert.Empty(t, c.Cart().Items)
}
