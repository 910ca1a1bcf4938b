package fixture

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/opalaxis/beamsolopex-companion/pkg/permissions"
	"github.com/opalaxis/beamsolopex-companion/pkg/security"
)

// ReferenceHandler serves assets and the lookup lists.
type ReferenceHandler struct {
	store *MemoryStore
}

func NewReferenceHandler(store *MemoryStore) *ReferenceHandler {
	return &ReferenceHandler{store: store}
}

func (h *ReferenceHandler) RegisterRoutes(router gin.IRouter) {
	manage := security.Authorize(permissions.ManageAssetReceipts.String())

	router.GET("/assets", h.GetAssets)
	router.GET("/assets/:id", h.GetAsset)
	router.POST("/assets", manage, h.CreateAsset)
	router.POST("/assets/:id", manage, h.UpdateAsset)
	router.GET("/locations", h.GetLocations)
	router.GET("/conditions", h.GetConditions)
	router.GET("/operational-statuses", h.GetOperationalStatuses)
}

func (h *ReferenceHandler) GetAssets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListAssets()})
}

func (h *ReferenceHandler) GetAsset(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	asset, err := h.store.GetAsset(id)
	if err != nil {
		writeStoreError(c, err, "Could not get asset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": asset})
}

func (h *ReferenceHandler) CreateAsset(c *gin.Context) {
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	created, err := h.store.CreateAsset(asset)
	if err != nil {
		writeStoreError(c, err, "Could not create asset")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Asset created successfully", "data": created})
}

func (h *ReferenceHandler) UpdateAsset(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var asset models.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	updated, err := h.store.UpdateAsset(id, asset)
	if err != nil {
		writeStoreError(c, err, "Could not update asset")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset updated successfully", "data": updated})
}

// Lookup lists are returned without the data envelope.
func (h *ReferenceHandler) GetLocations(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Locations())
}

func (h *ReferenceHandler) GetConditions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Conditions())
}

func (h *ReferenceHandler) GetOperationalStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.OperationalStatuses())
}
