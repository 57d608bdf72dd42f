package cache

import (
	"encoding/json"
	"fmt"
	"sync"

	"storegen/internal/logger"
	"storegen/internal/models"
)

const (
	storesKey = "stores"
	cartKey   = "cart"
)

// Storage persists serialized records on the device. A single key holds
// the whole store list, a second one the cart.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// Cache is the local-first copy of all store data. The in-memory list is
// authoritative for the session; every mutation is written through to
// Storage in the same call. Persistence failures are warnings, not
// errors.
type Cache struct {
	mu        sync.Mutex
	stores    []models.Store
	cart      models.Cart
	currentID string

	storage Storage
	logger  *logger.Logger
}

func New(storage Storage, logger *logger.Logger) *Cache {
	return &Cache{
		storage: storage,
		logger:  logger,
	}
}

// Load reads persisted records. Called once at startup, before any
// mutation.
func (c *Cache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.storage.Get(storesKey)
	if err != nil {
		return fmt.Errorf("failed to read cached stores: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.stores); err != nil {
			return fmt.Errorf("failed to parse cached stores: %w", err)
		}
	}

	cartData, err := c.storage.Get(cartKey)
	if err != nil {
		return fmt.Errorf("failed to read cached cart: %w", err)
	}
	if len(cartData) > 0 {
		if err := json.Unmarshal(cartData, &c.cart); err != nil {
			c.logger.Warn("Failed to parse cached cart, starting empty: %v", err)
			c.cart = models.Cart{}
		}
	}
	return nil
}

func (c *Cache) List() []models.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Store, len(c.stores))
	copy(out, c.stores)
	return out
}

func (c *Cache) Get(id string) (models.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.stores {
		if s.ID == id {
			return s, true
		}
	}
	return models.Store{}, false
}

// Add inserts a store at the head of the list, replacing any existing
// entry with the same identifier.
func (c *Cache) Add(store models.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make([]models.Store, 0, len(c.stores)+1)
	next = append(next, store)
	for _, s := range c.stores {
		if s.ID != store.ID {
			next = append(next, s)
		}
	}
	c.stores = next
	c.persistStores()
}

func (c *Cache) Update(store models.Store) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.stores {
		if s.ID == store.ID {
			c.stores[i] = store
			c.persistStores()
			return true
		}
	}
	return false
}

// Remove takes a store out of the cache and returns it so a failed cloud
// deletion can roll the removal back via Add.
func (c *Cache) Remove(id string) (models.Store, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.stores {
		if s.ID == id {
			c.stores = append(c.stores[:i:i], c.stores[i+1:]...)
			if c.currentID == id {
				c.currentID = ""
			}
			c.persistStores()
			return s, true
		}
	}
	return models.Store{}, false
}

// ReplaceAll swaps the whole list, used by the reconciliation merge.
func (c *Cache) ReplaceAll(stores []models.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stores = make([]models.Store, len(stores))
	copy(c.stores, stores)
	c.persistStores()
}

func (c *Cache) SetCurrent(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentID = id
}

func (c *Cache) Current() (models.Store, bool) {
	c.mu.Lock()
	id := c.currentID
	c.mu.Unlock()
	if id == "" {
		return models.Store{}, false
	}
	return c.Get(id)
}

// persistStores serializes the list with oversized inline images
// truncated. Callers must hold c.mu.
func (c *Cache) persistStores() {
	trimmed := make([]models.Store, len(c.stores))
	for i, s := range c.stores {
		trimmed[i] = truncateStore(s)
	}
	data, err := json.Marshal(trimmed)
	if err != nil {
		c.logger.Warn("Failed to serialize store cache: %v", err)
		return
	}
	if err := c.storage.Set(storesKey, data); err != nil {
		c.logger.Warn("Failed to persist store cache, in-memory state remains authoritative: %v", err)
	}
}
