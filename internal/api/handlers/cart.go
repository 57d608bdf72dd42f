package handlers

import (
	"net/http"

	"storegen/internal/cache"
	"storegen/internal/stores"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cache   *cache.Cache
	service *stores.Service
}

func NewCartHandler(c *cache.Cache, service *stores.Service) *CartHandler {
	return &CartHandler{cache: c, service: service}
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.cache.Cart()})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		StoreID   string `json:"store_id" binding:"required"`
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, err := h.service.Get(req.StoreID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}
	for _, product := range store.Products {
		if product.ID == req.ProductID {
			h.cache.AddToCart(product, store.ID)
			c.JSON(http.StatusOK, gin.H{"data": h.cache.Cart()})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	storeID := c.Query("store_id")
	if storeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store_id parameter"})
		return
	}
	h.cache.RemoveFromCart(c.Param("productId"), storeID)
	c.JSON(http.StatusOK, gin.H{"data": h.cache.Cart()})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req struct {
		StoreID  string `json:"store_id" binding:"required"`
		Quantity int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.cache.UpdateQuantity(c.Param("productId"), req.StoreID, req.Quantity)
	c.JSON(http.StatusOK, gin.H{"data": h.cache.Cart()})
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.cache.ClearCart()
	c.JSON(http.StatusOK, gin.H{"data": h.cache.Cart()})
}
