package handlers

import (
	"errors"
	"net/http"

	"storegen/internal/generator"
	"storegen/internal/logger"
	"storegen/internal/models"
	"storegen/internal/stores"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	service   *stores.Service
	creator   *stores.Creator
	generator *generator.Generator
	logger    *logger.Logger
}

func NewStoreHandler(service *stores.Service, creator *stores.Creator, gen *generator.Generator, logger *logger.Logger) *StoreHandler {
	return &StoreHandler{
		service:   service,
		creator:   creator,
		generator: gen,
		logger:    logger,
	}
}

func (h *StoreHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.List()})
}

func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.service.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) Current(c *gin.Context) {
	store, ok := h.service.Current()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No current store"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) Activate(c *gin.Context) {
	if err := h.service.SetCurrent(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StoreHandler) Sync(c *gin.Context) {
	var req struct {
		OwnerID string `json:"owner_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Sync(c.Request.Context(), req.OwnerID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to sync stores"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.service.List()})
}

// Generate builds a store from a prompt and finalizes it in one call.
func (h *StoreHandler) Generate(c *gin.Context) {
	var req struct {
		Prompt       string `json:"prompt" binding:"required"`
		Name         string `json:"name"`
		Type         string `json:"type"`
		ProductCount int    `json:"product_count"`
		OwnerID      string `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, err := h.generator.Generate(c.Request.Context(), req.Prompt, generator.Options{
		NameOverride: req.Name,
		TypeOverride: req.Type,
		ProductCount: req.ProductCount,
		Progress: func(percent int, message string) {
			h.logger.Debug("Generation %d%%: %s", percent, message)
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate store"})
		return
	}

	store, err := h.creator.Finalize(c.Request.Context(), candidate, stores.FinalizeOptions{OwnerID: req.OwnerID})
	if err != nil {
		if errors.Is(err, stores.ErrSlugTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Store name is already taken"})
			return
		}
		if errors.Is(err, stores.ErrUniquenessCheckFailed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify store name, try again"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create store"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": store})
}

type updateStoreRequest struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	LogoURL         *string           `json:"logo_url"`
	TemplateVersion *string           `json:"template_version"`
	Theme           *models.Theme     `json:"theme"`
	Content         map[string]string `json:"content"`
	HeroImage       *models.ImageRef  `json:"hero_image"`
}

func (r updateStoreRequest) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Description != nil {
		updates["description"] = *r.Description
	}
	if r.LogoURL != nil {
		updates["logo_url"] = *r.LogoURL
	}
	if r.TemplateVersion != nil {
		updates["template_version"] = *r.TemplateVersion
	}
	if r.Theme != nil {
		updates["theme"] = *r.Theme
	}
	if r.Content != nil {
		updates["content"] = r.Content
	}
	if r.HeroImage != nil {
		updates["hero_image"] = *r.HeroImage
	}
	return updates
}

func (h *StoreHandler) Update(c *gin.Context) {
	var req updateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := req.updates()
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields in request"})
		return
	}

	store, err := h.service.UpdateStore(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		if errors.Is(err, stores.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) UpdateTemplate(c *gin.Context) {
	var req struct {
		Version string `json:"version" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.service.UpdateTemplateVersion(c.Request.Context(), c.Param("id"), req.Version)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) UpdateProductImage(c *gin.Context) {
	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.service.UpdateProductImage(c.Request.Context(), c.Param("id"), c.Param("productId"), req.Image)
	if err != nil {
		if errors.Is(err, stores.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": store})
}

func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteStore(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, stores.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Cloud deletion failed, store restored locally"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
