package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storegen/internal/api/handlers"
	"storegen/internal/api/middleware"
	"storegen/internal/cache"
	"storegen/internal/config"
	"storegen/internal/generator"
	"storegen/internal/importer"
	"storegen/internal/logger"
	"storegen/internal/stores"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Deps carries the wired services the HTTP surface exposes.
type Deps struct {
	Service   *stores.Service
	Creator   *stores.Creator
	Generator *generator.Generator
	Cache     *cache.Cache
	Sources   []importer.Source
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Deps) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	storeHandler := handlers.NewStoreHandler(deps.Service, deps.Creator, deps.Generator, logger)
	pageSizes := map[string]int{
		"shopify":     cfg.ShopifyPageSize,
		"bigcommerce": cfg.BigCommercePageSize,
	}
	wizardHandler := handlers.NewWizardHandler(deps.Sources, pageSizes, deps.Creator, logger)
	cartHandler := handlers.NewCartHandler(deps.Cache, deps.Service)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	v1 := router.Group("/api/v1")
	{
		storesGroup := v1.Group("/stores")
		{
			storesGroup.GET("", storeHandler.List)
			storesGroup.GET("/current", storeHandler.Current)
			storesGroup.GET("/:id", storeHandler.Get)
			storesGroup.POST("/generate", storeHandler.Generate)
			storesGroup.POST("/sync", storeHandler.Sync)
			storesGroup.PUT("/:id", storeHandler.Update)
			storesGroup.POST("/:id/activate", storeHandler.Activate)
			storesGroup.POST("/:id/template", storeHandler.UpdateTemplate)
			storesGroup.PUT("/:id/products/:productId/image", storeHandler.UpdateProductImage)
			storesGroup.DELETE("/:id", storeHandler.Delete)
		}

		imports := v1.Group("/import/:platform")
		{
			imports.GET("", wizardHandler.Status)
			imports.POST("/connect", wizardHandler.Connect)
			imports.POST("/products", wizardHandler.FetchProducts)
			imports.POST("/collections", wizardHandler.FetchCollections)
			imports.POST("/advance", wizardHandler.Advance)
			imports.PUT("/products/:id", wizardHandler.EditProduct)
			imports.POST("/finalize", wizardHandler.Finalize)
			imports.POST("/reset", wizardHandler.Reset)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", cartHandler.Get)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:productId", cartHandler.UpdateQuantity)
			cart.DELETE("/items/:productId", cartHandler.RemoveItem)
			cart.DELETE("", cartHandler.Clear)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	s.server = &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the Gin router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
