package bins

import (
	"net/http"
	"strconv"
	"strings"

	custom_error "modparts/pkg/errors"
	"modparts/pkg/models"

	"github.com/gin-gonic/gin"
)

type BinHandler struct {
	Repository *BinRepository
}

type UpdateBinRequest struct {
	ID          int     `json:"id" binding:"required"`
	BinNumber   *string `json:"bin_number"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
}

func NewBinHandler(r *BinRepository) *BinHandler {
	return &BinHandler{Repository: r}
}

func (h *BinHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/inventory/bins", h.GetBins)
	router.GET("/inventory/bin-contents", h.GetBinContents)
}

func (h *BinHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.POST("/inventory/bins", h.CreateBin)
	router.PUT("/inventory/bins", h.UpdateBin)
	router.DELETE("/inventory/bins", h.RemoveBin)
}

func (h *BinHandler) GetBins(c *gin.Context) {
	if rawID := c.Query("id"); rawID != "" {
		binID, err := strconv.Atoi(rawID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid bin id"})
			return
		}

		bin, err := h.Repository.GetBin(binID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Bin not found", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, bin)
		return
	}

	warehouseID := 0
	if rawWarehouseID := c.Query("warehouse_id"); rawWarehouseID != "" {
		var err error
		warehouseID, err = strconv.Atoi(rawWarehouseID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse_id"})
			return
		}
	}

	includeInactive := c.Query("include_inactive") == "true"
	bins, err := h.Repository.GetBins(warehouseID, includeInactive)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list bins", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bins)
}

func (h *BinHandler) CreateBin(c *gin.Context) {
	var bin models.Bin
	if err := c.ShouldBindJSON(&bin); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if bin.WarehouseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: warehouse_id"})
		return
	}
	if bin.BinNumber == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: bin_number"})
		return
	}

	err := h.Repository.PersistBin(&bin)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Bin number already exists in this warehouse", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not insert bin"})
		return
	}

	c.JSON(http.StatusCreated, bin)
}

func (h *BinHandler) UpdateBin(c *gin.Context) {
	var req UpdateBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	bin, err := h.Repository.UpdateBin(req.ID, req)
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Bin number already exists in this warehouse", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not update bin", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bin)
}

func (h *BinHandler) RemoveBin(c *gin.Context) {
	binID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	if err := h.Repository.DeactivateBin(binID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate bin", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bin deactivated successfully"})
}

func (h *BinHandler) GetBinContents(c *gin.Context) {
	warehouseID, err := strconv.Atoi(c.Query("warehouse_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: warehouse_id"})
		return
	}

	contents, err := h.Repository.GetBinContents(warehouseID, c.Query("search"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not aggregate bin contents", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, contents)
}

func splitAggregated(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	return strings.Split(*raw, ",")
}
