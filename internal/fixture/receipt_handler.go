package fixture

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/pkg/auditlog"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/opalaxis/beamsolopex-companion/pkg/permissions"
	"github.com/opalaxis/beamsolopex-companion/pkg/security"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	store    *MemoryStore
	auditLog *auditlog.Auditlog
	logger   *zap.Logger
}

func NewReceiptHandler(store *MemoryStore, auditLog *auditlog.Auditlog, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{store: store, auditLog: auditLog, logger: logger}
}

func (h *ReceiptHandler) RegisterRoutes(router gin.IRouter) {
	create := security.Authorize(permissions.CreateAssetReceipt.String(), permissions.ManageAssetReceipts.String())
	remove := security.Authorize(permissions.DeleteAssetReceipt.String(), permissions.ManageAssetReceipts.String())

	router.GET("/store-asset-receipt", h.GetReceipts)
	router.GET("/store-asset-receipt/:id", h.GetReceipt)
	router.GET("/store-asset-receipt/:id/history", h.GetReceiptHistory)
	router.POST("/store-asset-receipt", create, h.CreateReceipt)
	router.PUT("/store-asset-receipt/:id", h.UpdateReceipt)
	router.DELETE("/store-asset-receipt/:id", remove, h.DeleteReceipt)
}

func (h *ReceiptHandler) GetReceipts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.store.ListReceipts()})
}

func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	receipt, err := h.store.GetReceipt(id)
	if err != nil {
		writeStoreError(c, err, "Could not get asset receipt")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": receipt})
}

func (h *ReceiptHandler) CreateReceipt(c *gin.Context) {
	var receipt models.AssetReceipt
	if err := c.ShouldBindJSON(&receipt); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	created, err := h.store.CreateReceipt(receipt)
	if err != nil {
		writeStoreError(c, err, "Could not create asset receipt")
		return
	}

	h.auditLog.Log("create", actorID(c), created, &created)
	h.logger.Info("Asset receipt created", zap.Int("id", created.ID), zap.String("asset_id", created.AssetID.String()))
	c.JSON(http.StatusCreated, gin.H{"message": "Asset receipt created successfully", "data": created})
}

// UpdateReceipt also lets the receiving user correct their own receipt.
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	existing, err := h.store.GetReceipt(id)
	if err != nil {
		writeStoreError(c, err, "Could not update asset receipt")
		return
	}
	if !h.mayEdit(c, existing) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "This action is unauthorized."})
		return
	}

	var receipt models.AssetReceipt
	if err := c.ShouldBindJSON(&receipt); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	updated, err := h.store.UpdateReceipt(id, receipt)
	if err != nil {
		writeStoreError(c, err, "Could not update asset receipt")
		return
	}

	h.auditLog.Log("update", actorID(c), updated, &updated)
	h.logger.Info("Asset receipt updated", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Asset receipt updated successfully", "data": updated})
}

func (h *ReceiptHandler) mayEdit(c *gin.Context, existing models.AssetReceipt) bool {
	if security.HasAnyPermission(c, permissions.EditAssetReceipt.String(), permissions.ManageAssetReceipts.String()) {
		return true
	}
	claims, ok := security.ClaimsFrom(c)
	return ok && claims.Name != "" && claims.Name == existing.ReceivedBy
}

func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteReceipt(id); err != nil {
		writeStoreError(c, err, "Could not delete asset receipt")
		return
	}

	deleted := models.AssetReceipt{ID: id}
	h.auditLog.Log("delete", actorID(c), nil, &deleted)
	h.logger.Info("Asset receipt deleted", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Asset receipt deleted successfully"})
}

// GetReceiptHistory lists the recorded changes of a receipt, including
// deleted ones.
func (h *ReceiptHandler) GetReceiptHistory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.auditLog.ResourceLog("asset_receipt", id)})
}

func actorID(c *gin.Context) *int {
	claims, ok := security.ClaimsFrom(c)
	if !ok {
		return nil
	}
	id := claims.UserID()
	return &id
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid id", "details": c.Param("id")})
		return 0, false
	}
	return id, true
}

func writeStoreError(c *gin.Context, err error, message string) {
	var invalid *InvalidError
	switch {
	case errors.As(err, &invalid):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"message": invalid.Message})
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Record not found.", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
