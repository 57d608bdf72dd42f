package handlers

import (
	"errors"
	"net/http"

	"storegen/internal/importer"
	"storegen/internal/logger"
	"storegen/internal/stores"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

// WizardHandler exposes one import wizard session per source platform.
// Sessions live for the process lifetime; resetting a wizard is the
// only way to start over.
type WizardHandler struct {
	sessions  map[string]*importer.Session
	pageSizes map[string]int
	creator   *stores.Creator
	logger    *logger.Logger
}

// NewWizardHandler builds one session per source platform. pageSizes
// overrides the default fetch size per platform name.
func NewWizardHandler(sources []importer.Source, pageSizes map[string]int, creator *stores.Creator, logger *logger.Logger) *WizardHandler {
	sessions := make(map[string]*importer.Session, len(sources))
	for _, source := range sources {
		sessions[source.Name()] = importer.NewSession(source)
	}
	return &WizardHandler{
		sessions:  sessions,
		pageSizes: pageSizes,
		creator:   creator,
		logger:    logger,
	}
}

func (h *WizardHandler) pageSize(platform string) int {
	if size, ok := h.pageSizes[platform]; ok && size > 0 {
		return size
	}
	return defaultPageSize
}

func (h *WizardHandler) session(c *gin.Context) (*importer.Session, bool) {
	session, ok := h.sessions[c.Param("platform")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown import platform"})
	}
	return session, ok
}

func (h *WizardHandler) Status(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	products, productPage := session.Products()
	collections, collectionPage := session.Collections()
	c.JSON(http.StatusOK, gin.H{
		"platform":          session.Platform(),
		"step":              session.Step(),
		"last_error":        session.LastError(),
		"metadata":          session.Metadata(),
		"products":          len(products),
		"products_more":     productPage.HasMore,
		"collections":       len(collections),
		"collections_more":  collectionPage.HasMore,
		"ready_to_finalize": session.ReadyToFinalize(),
	})
}

func (h *WizardHandler) Connect(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Domain      string `json:"domain" binding:"required"`
		AccessToken string `json:"access_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creds := importer.Credentials{Domain: req.Domain, AccessToken: req.AccessToken}
	if err := session.Connect(c.Request.Context(), creds); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "step": session.Step()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": session.Step(), "metadata": session.Metadata()})
}

func (h *WizardHandler) FetchProducts(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		First int `json:"first"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.First <= 0 {
		req.First = h.pageSize(c.Param("platform"))
	}

	if err := session.FetchProducts(c.Request.Context(), req.First); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "step": session.Step()})
		return
	}
	products, page := session.Products()
	c.JSON(http.StatusOK, gin.H{"products": products, "has_more": page.HasMore})
}

func (h *WizardHandler) FetchCollections(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		First int `json:"first"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.First <= 0 {
		req.First = h.pageSize(c.Param("platform"))
	}

	if err := session.FetchCollections(c.Request.Context(), req.First); err != nil {
		if errors.Is(err, importer.ErrCollectionsNotSupported) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Platform does not support collections"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "step": session.Step()})
		return
	}
	collections, page := session.Collections()
	c.JSON(http.StatusOK, gin.H{"collections": collections, "has_more": page.HasMore})
}

func (h *WizardHandler) Advance(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.AdvanceToItems(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "step": session.Step()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"step": session.Step()})
}

func (h *WizardHandler) EditProduct(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var edit importer.ProductPreview
	if err := c.ShouldBindJSON(&edit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.EditProduct(c.Param("id"), edit); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	products, _ := session.Products()
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *WizardHandler) Finalize(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		OwnerID string `json:"owner_id"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	candidate, err := session.BuildStore()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "step": session.Step()})
		return
	}

	store, err := h.creator.Finalize(c.Request.Context(), candidate, stores.FinalizeOptions{
		OwnerID: req.OwnerID,
		Progress: func(percent int, message string) {
			h.logger.Debug("Finalize %d%%: %s", percent, message)
		},
	})
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

	session.Complete()
	c.JSON(http.StatusCreated, gin.H{"data": store, "step": session.Step()})
}

func (h *WizardHandler) Reset(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, gin.H{"step": session.Step()})
}
