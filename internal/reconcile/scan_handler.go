package reconcile

import (
	"net/http"
	"strconv"

	"modparts/pkg/security"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	Matcher *Matcher
}

func NewScanHandler(matcher *Matcher) *ScanHandler {
	return &ScanHandler{Matcher: matcher}
}

func (h *ScanHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/inventory/scan", h.Scan)
}

func (h *ScanHandler) Scan(c *gin.Context) {
	identifier := c.Query("identifier")
	if identifier == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: identifier"})
		return
	}

	warehouseID := 0
	if raw := c.Query("warehouse_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse_id"})
			return
		}
		warehouseID = parsed
	} else if assigned := security.GetWarehouseIDFromContext(c); assigned != nil {
		warehouseID = *assigned
	}
	if warehouseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: warehouse_id"})
		return
	}

	result, err := h.Matcher.Classify(identifier, warehouseID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to classify scan", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
