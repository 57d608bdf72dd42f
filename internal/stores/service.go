package stores

import (
	"context"
	"errors"
	"fmt"

	"storegen/internal/assets"
	"storegen/internal/cache"
	"storegen/internal/cloud"
	"storegen/internal/events"
	"storegen/internal/logger"
	"storegen/internal/models"
)

// ErrStoreNotFound reports an operation against a store the cache does
// not hold.
var ErrStoreNotFound = errors.New("store not found")

// Service owns the lifecycle of persisted stores: cloud/cache
// reconciliation on load, local-first mutation, optimistic deletion.
type Service struct {
	cloud  CloudStore
	cache  *cache.Cache
	assets *assets.Pipeline
	events EventPublisher
	logger *logger.Logger
}

func NewService(cloudStore CloudStore, c *cache.Cache, pipeline *assets.Pipeline, publisher EventPublisher, logger *logger.Logger) *Service {
	return &Service{
		cloud:  cloudStore,
		cache:  c,
		assets: pipeline,
		events: publisher,
		logger: logger,
	}
}

// Sync pulls the owner's cloud stores and merges them over the local
// cache: cloud wins on identifier collision, local-only entries
// survive. A cloud failure leaves the cache untouched.
func (s *Service) Sync(ctx context.Context, ownerID string) error {
	remote, err := s.cloud.Load(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load cloud stores: %w", err)
	}
	merged := cloud.Merge(s.cache.List(), remote)
	s.cache.ReplaceAll(merged)
	s.logger.Info("Synced %d stores for owner %s", len(merged), ownerID)
	return nil
}

func (s *Service) List() []models.Store {
	return s.cache.List()
}

func (s *Service) Get(id string) (models.Store, error) {
	store, ok := s.cache.Get(id)
	if !ok {
		return models.Store{}, ErrStoreNotFound
	}
	return store, nil
}

func (s *Service) Current() (models.Store, bool) {
	return s.cache.Current()
}

func (s *Service) SetCurrent(id string) error {
	if _, ok := s.cache.Get(id); !ok {
		return ErrStoreNotFound
	}
	s.cache.SetCurrent(id)
	return nil
}

// UpdateStore applies a partial update local-first: the cache mutation
// stands even when the cloud write fails, which is only warned about.
// The next Sync is the implicit retry.
func (s *Service) UpdateStore(ctx context.Context, id string, updates map[string]interface{}) (models.Store, error) {
	store, ok := s.cache.Get(id)
	if !ok {
		return models.Store{}, ErrStoreNotFound
	}
	if err := applyUpdates(&store, updates); err != nil {
		return models.Store{}, err
	}
	s.cache.Update(store)

	if err := s.cloud.Write(ctx, id, updates); err != nil {
		s.logger.Warn("Cloud write for store %s failed, local state stands: %v", id, err)
	}
	s.events.Publish(ctx, events.TypeStoreUpdated, id, map[string]interface{}{"fields": updateKeys(updates)})
	return store, nil
}

// UpdateProductImage replaces one product image, running the new input
// through the asset pipeline first.
func (s *Service) UpdateProductImage(ctx context.Context, storeID, productID, input string) (models.Store, error) {
	store, ok := s.cache.Get(storeID)
	if !ok {
		return models.Store{}, ErrStoreNotFound
	}

	found := false
	for i := range store.Products {
		if store.Products[i].ID != productID {
			continue
		}
		result := s.assets.Upload(ctx, input, assetPath("products", storeID, productID))
		store.Products[i].Image.Src.Large = result.URL
		store.Products[i].Image.Src.Medium = result.URL
		found = true

		s.cache.Update(store)
		if err := s.cloud.SaveProduct(ctx, storeID, store.Products[i]); err != nil {
			s.logger.Warn("Cloud product write for %s failed, local state stands: %v", productID, err)
		}
		break
	}
	if !found {
		return models.Store{}, fmt.Errorf("product %s not found in store %s", productID, storeID)
	}

	s.events.Publish(ctx, events.TypeStoreUpdated, storeID, map[string]interface{}{"product_id": productID})
	return store, nil
}

// UpdateTemplateVersion switches the store's template variant. Moving
// to v2 upgrades the default font to Montserrat; a custom font is left
// alone.
func (s *Service) UpdateTemplateVersion(ctx context.Context, id, version string) (models.Store, error) {
	store, ok := s.cache.Get(id)
	if !ok {
		return models.Store{}, ErrStoreNotFound
	}
	store.TemplateVersion = version
	if version == "v2" && store.Theme.FontFamily == models.DefaultFontFamily {
		store.Theme.FontFamily = "Montserrat"
	}
	s.cache.Update(store)

	updates := map[string]interface{}{
		"template_version": version,
		"theme":            store.Theme,
	}
	if err := s.cloud.Write(ctx, id, updates); err != nil {
		s.logger.Warn("Cloud write for store %s failed, local state stands: %v", id, err)
	}
	s.events.Publish(ctx, events.TypeStoreUpdated, id, map[string]interface{}{"template_version": version})
	return store, nil
}

// DeleteStore removes the store optimistically from the cache, then
// from the cloud. A cloud failure rolls the local removal back.
func (s *Service) DeleteStore(ctx context.Context, id string) error {
	removed, ok := s.cache.Remove(id)
	if !ok {
		return ErrStoreNotFound
	}
	if err := s.cloud.Delete(ctx, id); err != nil {
		s.cache.Add(removed)
		return fmt.Errorf("failed to delete store %s from cloud: %w", id, err)
	}
	s.events.Publish(ctx, events.TypeStoreDeleted, id, map[string]interface{}{"name": removed.Name})
	return nil
}

func applyUpdates(store *models.Store, updates map[string]interface{}) error {
	for key, value := range updates {
		switch key {
		case "name":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			// The slug is derived once at creation and never follows
			// later renames.
			store.Name = v
		case "description":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			store.Description = v
		case "logo_url":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			store.LogoURL = v
		case "template_version":
			v, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			store.TemplateVersion = v
		case "theme":
			v, ok := value.(models.Theme)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			store.Theme = v
		case "content":
			v, ok := value.(map[string]string)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			if store.Content == nil {
				store.Content = make(map[string]string, len(v))
			}
			for ck, cv := range v {
				store.Content[ck] = cv
			}
		case "hero_image":
			v, ok := value.(models.ImageRef)
			if !ok {
				return fmt.Errorf("invalid value for %q", key)
			}
			store.HeroImage = v
		default:
			return fmt.Errorf("unknown update field %q", key)
		}
	}
	return nil
}

func updateKeys(updates map[string]interface{}) []string {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	return keys
}
