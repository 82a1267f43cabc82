package warehouses

import (
	"net/http"
	"strconv"

	custom_error "modparts/pkg/errors"
	"modparts/pkg/models"

	"github.com/gin-gonic/gin"
)

type WarehouseHandler struct {
	Repository *WarehouseRepository
}

type UpdateWarehouseRequest struct {
	ID        int      `json:"id" binding:"required"`
	Name      *string  `json:"name"`
	Code      *string  `json:"code"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	AdminID   *int     `json:"admin_id"`
}

func NewWarehouseHandler(r *WarehouseRepository) *WarehouseHandler {
	return &WarehouseHandler{Repository: r}
}

func (h *WarehouseHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/inventory/warehouses", h.GetWarehouses)
}

func (h *WarehouseHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.POST("/inventory/warehouses", h.CreateWarehouse)
	router.PUT("/inventory/warehouses", h.UpdateWarehouse)
	router.DELETE("/inventory/warehouses", h.RemoveWarehouse)
}

func (h *WarehouseHandler) GetWarehouses(c *gin.Context) {
	if rawID := c.Query("id"); rawID != "" {
		warehouseID, err := strconv.Atoi(rawID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse id"})
			return
		}

		warehouse, err := h.Repository.GetWarehouse(warehouseID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Warehouse not found", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, warehouse)
		return
	}

	includeInactive := c.Query("include_inactive") == "true"
	warehouses, err := h.Repository.GetWarehouses(includeInactive)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list warehouses", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, warehouses)
}

func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var warehouse models.Warehouse
	if err := c.ShouldBindJSON(&warehouse); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if warehouse.Name == "" || warehouse.Code == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: name and code are required"})
		return
	}

	err := h.Repository.PersistWarehouse(&warehouse)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not insert warehouse, code not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert warehouse"})
		return
	}

	c.JSON(http.StatusCreated, warehouse)
}

func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	warehouse, err := h.Repository.UpdateWarehouse(req.ID, req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not update warehouse, code not unique", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update warehouse", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, warehouse)
}

func (h *WarehouseHandler) RemoveWarehouse(c *gin.Context) {
	warehouseID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	if err := h.Repository.DeactivateWarehouse(warehouseID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate warehouse", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Warehouse deactivated successfully"})
}
