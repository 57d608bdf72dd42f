package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"storegen/internal/assets"
	"storegen/internal/cache"
	"storegen/internal/events"
	"storegen/internal/ident"
	"storegen/internal/logger"
	"storegen/internal/models"
)

// ErrSlugTaken rejects a finalize whose derived slug already exists in
// the cloud. ErrUniquenessCheckFailed means the probe itself could not
// complete; renaming will not help, retrying might.
var (
	ErrSlugTaken             = errors.New("store name is already taken")
	ErrUniquenessCheckFailed = errors.New("store name uniqueness check failed")
)

// CloudStore is the persistence surface store operations need.
type CloudStore interface {
	Load(ctx context.Context, ownerID string) ([]models.Store, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	SaveStore(ctx context.Context, store models.Store) error
	SaveProduct(ctx context.Context, storeID string, product models.Product) error
	SaveCollection(ctx context.Context, storeID string, collection models.Collection) error
	Write(ctx context.Context, storeID string, updates map[string]interface{}) error
	Delete(ctx context.Context, storeID string) error
}

// EventPublisher is satisfied by events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, storeID string, data map[string]interface{})
}

// FinalizeOptions tune one finalize run.
type FinalizeOptions struct {
	OwnerID  string
	Progress func(percent int, message string)
}

// Creator converts a candidate store from the wizard or the generator
// into a persisted one. Only the slug uniqueness check is fatal;
// everything after it degrades and accumulates.
type Creator struct {
	cloud  CloudStore
	cache  *cache.Cache
	assets *assets.Pipeline
	events EventPublisher
	logger *logger.Logger
}

func NewCreator(cloud CloudStore, c *cache.Cache, pipeline *assets.Pipeline, publisher EventPublisher, logger *logger.Logger) *Creator {
	return &Creator{
		cloud:  cloud,
		cache:  c,
		assets: pipeline,
		events: publisher,
		logger: logger,
	}
}

// Finalize persists a candidate store: uniqueness check, identifier
// assignment, asset uploads, cloud writes, reference rewriting, cache
// publish. Returns the hydrated store, or an error only when the slug
// check fails.
func (cr *Creator) Finalize(ctx context.Context, candidate models.Store, opts FinalizeOptions) (models.Store, error) {
	progress := opts.Progress
	if progress == nil {
		progress = func(int, string) {}
	}

	progress(5, "Checking store name...")
	store := candidate
	store.Slug = models.Slugify(store.Name)
	taken, err := cr.cloud.SlugExists(ctx, store.Slug)
	if err != nil {
		return models.Store{}, fmt.Errorf("%w: %v", ErrUniquenessCheckFailed, err)
	}
	if taken {
		return models.Store{}, ErrSlugTaken
	}

	progress(15, "Assigning identifiers...")
	if store.ID == "" {
		store.ID = ident.New()
	}
	if store.CreatedAt.IsZero() {
		store.CreatedAt = time.Now().UTC()
	}
	if opts.OwnerID != "" {
		owner := opts.OwnerID
		store.OwnerID = &owner
	}

	idmap := NewReconciliationMap()
	for i := range store.Products {
		localKey := store.Products[i].ID
		if store.Products[i].ID == "" {
			store.Products[i].ID = ident.New()
		}
		if store.Products[i].CreatedAt.IsZero() {
			store.Products[i].CreatedAt = store.CreatedAt
		}
		idmap.Record(localKey, store.Products[i].Name, store.Products[i].ID)
	}
	for i := range store.Collections {
		if store.Collections[i].ID == "" {
			store.Collections[i].ID = ident.New()
		}
	}

	progress(25, "Uploading images...")
	cr.uploadAssets(ctx, &store)

	progress(60, "Saving store...")
	failures := 0
	if err := cr.cloud.SaveStore(ctx, store); err != nil {
		failures++
		cr.logger.Error("Failed to save store %s: %v", store.ID, err)
	}
	for _, product := range store.Products {
		if err := cr.cloud.SaveProduct(ctx, store.ID, product); err != nil {
			failures++
			cr.logger.Error("Failed to save product %s in store %s: %v", product.ID, store.ID, err)
		}
	}

	progress(80, "Linking collections...")
	for i := range store.Collections {
		store.Collections[i].ProductIDs = resolveReferences(idmap, store.Collections[i].ProductIDs, cr.logger)
		if err := cr.cloud.SaveCollection(ctx, store.ID, store.Collections[i]); err != nil {
			failures++
			cr.logger.Error("Failed to save collection %s in store %s: %v", store.Collections[i].ID, store.ID, err)
		}
	}
	if failures > 0 {
		cr.logger.Warn("Store %s finalized with %d failed cloud writes", store.ID, failures)
	}

	progress(95, "Publishing store...")
	cr.cache.Add(store)
	cr.cache.SetCurrent(store.ID)
	cr.events.Publish(ctx, events.TypeStoreCreated, store.ID, map[string]interface{}{
		"name":   store.Name,
		"slug":   store.Slug,
		"source": store.DataSource,
	})

	progress(100, "Done")
	return store, nil
}

// uploadAssets pushes the logo, hero, every product image and every
// collection image through the pipeline. Product uploads run
// concurrently; none of them can fail the finalize.
func (cr *Creator) uploadAssets(ctx context.Context, store *models.Store) {
	if store.LogoURL != "" {
		result := cr.assets.Upload(ctx, store.LogoURL, assetPath("logos", store.ID, "logo"))
		store.LogoURL = result.URL
	}
	if hero := store.HeroImage.FirstImageURL(); hero != "" {
		result := cr.assets.Upload(ctx, hero, assetPath("heroes", store.ID, "hero"))
		store.HeroImage.Src.Large = result.URL
		store.HeroImage.Src.Medium = result.URL
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range store.Products {
		product := &store.Products[i]
		g.Go(func() error {
			input := product.Image.FirstImageURL()
			result := cr.assets.Upload(gctx, input, assetPath("products", store.ID, product.ID))
			product.Image.Src.Large = result.URL
			product.Image.Src.Medium = result.URL
			if product.Image.Alt == "" {
				product.Image.Alt = product.Name
			}
			return nil
		})
	}
	_ = g.Wait()

	for i := range store.Collections {
		collection := &store.Collections[i]
		result := cr.assets.Upload(ctx, collection.ImageURL, assetPath("collections", store.ID, collection.ID))
		collection.ImageURL = result.URL
	}
}

func resolveReferences(idmap *ReconciliationMap, refs []string, logger *logger.Logger) []string {
	resolved := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		id, ok := idmap.Resolve(ref)
		if !ok {
			logger.Warn("Dropping unresolved product reference %q", ref)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		resolved = append(resolved, id)
	}
	return resolved
}

func assetPath(kind, storeID, entityID string) string {
	return fmt.Sprintf("%s/%s/%s/%s.png", kind, storeID, entityID, ident.New()[:8])
}
