package cloud

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"storegen/internal/logger"
	"storegen/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cloud.db")
	engine, err := New("sqlite://"+dbPath, logger.New("error"))
	require.NoError(t, err)
	return engine
}

func ownedStore(id, name, ownerID string) models.Store {
	owner := ownerID
	return models.Store{
		ID:              id,
		Name:            name,
		Slug:            models.Slugify(name),
		Description:     "Handmade goods",
		LogoURL:         "https://cdn.example.com/logo.png",
		TemplateVersion: "v1",
		DataSource:      models.SourceShopify,
		OwnerID:         &owner,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
		Theme:           models.Theme{PrimaryColor: "#112233", FontFamily: "Inter"},
		Content:         map[string]string{"hero.title": "Welcome"},
		HeroImage: models.ImageRef{
			Src: models.ImageSrc{Large: "https://cdn.example.com/hero.png"},
			Alt: name,
		},
	}
}

func seedStore(t *testing.T, e *Engine, store models.Store, products []models.Product, collections []models.Collection) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.SaveStore(ctx, store))
	for _, p := range products {
		require.NoError(t, e.SaveProduct(ctx, store.ID, p))
	}
	for _, c := range collections {
		require.NoError(t, e.SaveCollection(ctx, store.ID, c))
	}
}

func TestEngineSaveLoadRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	store := ownedStore("s1", "Acme Goods", "owner-1")
	products := []models.Product{
		{
			ID:        "p1",
			Name:      "Mug",
			Price:     12.5,
			Currency:  "USD",
			Image:     models.ImageRef{Src: models.ImageSrc{Large: "https://cdn.example.com/mug.png"}},
			CreatedAt: store.CreatedAt,
		},
		{ID: "p2", Name: "Kettle", Price: 30, Currency: "USD", CreatedAt: store.CreatedAt},
	}
	collections := []models.Collection{
		{ID: "c1", Name: "Kitchen", ProductIDs: []string{"p1", "p2"}},
	}
	seedStore(t, engine, store, products, collections)

	loaded, err := engine.Load(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, "Acme Goods", got.Name)
	assert.Equal(t, "acme-goods", got.Slug)
	require.NotNil(t, got.OwnerID)
	assert.Equal(t, "owner-1", *got.OwnerID)
	assert.WithinDuration(t, store.CreatedAt, got.CreatedAt, time.Second)
	assert.Equal(t, "#112233", got.Theme.PrimaryColor)
	assert.Equal(t, "Welcome", got.Content["hero.title"])
	assert.Equal(t, "https://cdn.example.com/hero.png", got.HeroImage.Src.Large)

	require.Len(t, got.Products, 2)
	assert.Equal(t, 12.5, got.Products[0].Price)
	// The flat remote URL list hydrates back into both sizes.
	assert.Equal(t, "https://cdn.example.com/mug.png", got.Products[0].Image.Src.Large)
	assert.Equal(t, "https://cdn.example.com/mug.png", got.Products[0].Image.Src.Medium)

	require.Len(t, got.Collections, 1)
	assert.Equal(t, []string{"p1", "p2"}, got.Collections[0].ProductIDs)
}

func TestEngineLoadScopesByOwner(t *testing.T) {
	engine := newTestEngine(t)
	seedStore(t, engine, ownedStore("s1", "Mine", "owner-1"), nil, nil)
	seedStore(t, engine, ownedStore("s2", "Theirs", "owner-2"), nil, nil)

	loaded, err := engine.Load(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Mine", loaded[0].Name)
}

func TestEngineSlugExists(t *testing.T) {
	engine := newTestEngine(t)
	seedStore(t, engine, ownedStore("s1", "Acme Goods", "owner-1"), nil, nil)

	taken, err := engine.SlugExists(context.Background(), "acme-goods")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = engine.SlugExists(context.Background(), "unclaimed-name")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestEngineWritePatchesHeaderOnly(t *testing.T) {
	engine := newTestEngine(t)
	store := ownedStore("s1", "Acme Goods", "owner-1")
	seedStore(t, engine, store,
		[]models.Product{{ID: "p1", Name: "Mug", CreatedAt: store.CreatedAt}}, nil)

	err := engine.Write(context.Background(), "s1", map[string]interface{}{
		"description": "Updated copy",
		"theme":       models.Theme{PrimaryColor: "#ffffff"},
		"products":    []models.Product{{ID: "ghost", Name: "Ghost"}},
	})
	require.NoError(t, err)

	loaded, err := engine.Load(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Updated copy", loaded[0].Description)
	assert.Equal(t, "#ffffff", loaded[0].Theme.PrimaryColor)
	require.Len(t, loaded[0].Products, 1)
	assert.Equal(t, "Mug", loaded[0].Products[0].Name,
		"a products key in the update never touches the product rows")
}

func TestEngineDeleteRemovesAllRows(t *testing.T) {
	engine := newTestEngine(t)
	doomed := ownedStore("s1", "Doomed", "owner-1")
	seedStore(t, engine, doomed,
		[]models.Product{{ID: "p1", Name: "Mug", CreatedAt: doomed.CreatedAt}},
		[]models.Collection{{ID: "c1", Name: "Kitchen", ProductIDs: []string{"p1"}}})
	survivor := ownedStore("s2", "Survivor", "owner-1")
	seedStore(t, engine, survivor,
		[]models.Product{{ID: "p2", Name: "Kettle", CreatedAt: survivor.CreatedAt}}, nil)

	require.NoError(t, engine.Delete(context.Background(), "s1"))

	loaded, err := engine.Load(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Survivor", loaded[0].Name)
	require.Len(t, loaded[0].Products, 1)

	taken, err := engine.SlugExists(context.Background(), "doomed")
	require.NoError(t, err)
	assert.False(t, taken)
}
