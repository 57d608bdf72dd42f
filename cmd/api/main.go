package main

import (
	"log"

	"storegen/internal/api"
	"storegen/internal/assets"
	"storegen/internal/cache"
	"storegen/internal/cloud"
	"storegen/internal/config"
	"storegen/internal/events"
	"storegen/internal/generator"
	"storegen/internal/importer"
	"storegen/internal/importer/bigcommerce"
	"storegen/internal/importer/shopify"
	"storegen/internal/logger"
	"storegen/internal/stores"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Local cache, loaded synchronously before anything mutates it
	storage, err := cache.NewSQLiteStorage(cfg.CacheDBPath)
	if err != nil {
		logger.Fatal("Failed to open cache database: %v", err)
	}
	localCache := cache.New(storage, logger)
	if err := localCache.Load(); err != nil {
		logger.Warn("Starting with an empty cache: %v", err)
	}

	// Cloud document store
	engine, err := cloud.New(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to cloud store: %v", err)
	}

	// Blob storage
	var blobs assets.BlobStore
	if cfg.CloudinaryURL != "" {
		blobs, err = assets.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			logger.Fatal("Failed to initialize blob storage: %v", err)
		}
	} else {
		logger.Warn("CLOUDINARY_URL not set, inline images will degrade to placeholders")
		blobs = assets.Disabled()
	}
	pipeline := assets.NewPipeline(blobs, cfg.PlaceholderURL, logger)

	// Event stream
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	// Services
	service := stores.NewService(engine, localCache, pipeline, publisher, logger)
	creator := stores.NewCreator(engine, localCache, pipeline, publisher, logger)
	gen := generator.New(generator.NewStaticContent(), logger)

	sources := []importer.Source{
		shopify.NewSource(cfg.ShopifyAPIVersion, logger),
		bigcommerce.NewSource(logger),
	}

	// Initialize API server
	server := api.New(cfg, logger, api.Deps{
		Service:   service,
		Creator:   creator,
		Generator: gen,
		Cache:     localCache,
		Sources:   sources,
	})

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
