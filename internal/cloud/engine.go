package cloud

import (
	"context"
	"fmt"
	"strings"

	"storegen/internal/logger"
	"storegen/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Engine mirrors local store mutations to the remote document database
// and hydrates full Store records back out of it. Writes are per-entity,
// never transactional across entities.
type Engine struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(databaseURL string, logger *logger.Logger) (*Engine, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &Engine{db: db, logger: logger}, nil
}

// createTables declares created_at as TIMESTAMP, which both drivers
// scan back into time.Time. TIMESTAMPTZ would not round-trip on sqlite.
func createTables(db *gorm.DB) error {
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		description TEXT,
		logo_url TEXT,
		hero_image TEXT,
		theme TEXT,
		content TEXT,
		template_version TEXT,
		data_source TEXT,
		owner_id TEXT,
		created_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS store_products (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		price DECIMAL(10,2),
		currency TEXT DEFAULT 'USD',
		images TEXT,
		variants TEXT,
		created_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS store_collections (
		id TEXT PRIMARY KEY,
		store_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		image_url TEXT,
		product_ids TEXT
	);
	`
	for _, stmt := range strings.Split(createTablesSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

// Load fetches all stores owned by ownerID with their products and
// collections fully hydrated. Sub-record fetch failures degrade to
// partial stores and a log entry.
func (e *Engine) Load(ctx context.Context, ownerID string) ([]models.Store, error) {
	var rows []storeRow
	if err := e.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load stores: %w", err)
	}

	stores := make([]models.Store, 0, len(rows))
	for _, row := range rows {
		store := row.toModel()

		var productRows []productRow
		if err := e.db.WithContext(ctx).
			Where("store_id = ?", row.ID).
			Find(&productRows).Error; err != nil {
			e.logger.Error("Failed to load products for store %s: %v", row.ID, err)
		}
		for _, pr := range productRows {
			store.Products = append(store.Products, pr.toModel())
		}

		var collectionRows []collectionRow
		if err := e.db.WithContext(ctx).
			Where("store_id = ?", row.ID).
			Find(&collectionRows).Error; err != nil {
			e.logger.Error("Failed to load collections for store %s: %v", row.ID, err)
		}
		for _, cr := range collectionRows {
			store.Collections = append(store.Collections, cr.toModel())
		}

		stores = append(stores, store)
	}
	return stores, nil
}

// SlugExists probes the cloud copy for a store with the given slug.
func (e *Engine) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&storeRow{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}

func (e *Engine) SaveStore(ctx context.Context, store models.Store) error {
	row, err := storeToRow(store)
	if err != nil {
		return err
	}
	if err := e.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to write store %s: %w", store.ID, err)
	}
	return nil
}

func (e *Engine) SaveProduct(ctx context.Context, storeID string, product models.Product) error {
	row, err := productToRow(storeID, product)
	if err != nil {
		return err
	}
	if err := e.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to write product %s: %w", product.ID, err)
	}
	return nil
}

func (e *Engine) SaveCollection(ctx context.Context, storeID string, collection models.Collection) error {
	row, err := collectionToRow(storeID, collection)
	if err != nil {
		return err
	}
	if err := e.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection.ID, err)
	}
	return nil
}

// Write applies a partial update to the store header record. The
// product, collection and settings sub-documents are never patched
// through this path.
func (e *Engine) Write(ctx context.Context, storeID string, updates map[string]interface{}) error {
	columns, err := updateColumns(updates)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	if err := e.db.WithContext(ctx).
		Model(&storeRow{}).
		Where("id = ?", storeID).
		Updates(columns).Error; err != nil {
		return fmt.Errorf("failed to update store %s: %w", storeID, err)
	}
	return nil
}

// Delete removes products, then collections, then the store record,
// all-or-nothing: a failure at any step leaves the whole store in
// place. The caller owns rolling back its optimistic local removal.
func (e *Engine) Delete(ctx context.Context, storeID string) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", storeID).Delete(&productRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete products for store %s: %w", storeID, err)
		}
		if err := tx.Where("store_id = ?", storeID).Delete(&collectionRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete collections for store %s: %w", storeID, err)
		}
		if err := tx.Where("id = ?", storeID).Delete(&storeRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete store %s: %w", storeID, err)
		}
		return nil
	})
}
