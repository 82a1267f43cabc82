package movements

import (
	"errors"
	"net/http"
	"strconv"

	"modparts/internal/products"
	"modparts/pkg/auditlog"
	custom_error "modparts/pkg/errors"
	"modparts/pkg/metadata"
	"modparts/pkg/models"
	"modparts/pkg/security"

	"github.com/gin-gonic/gin"
)

type MovementHandler struct {
	Service    *MovementService
	Repository *MovementRepository
	AuditLog   *auditlog.Auditlog
}

func NewMovementHandler(service *MovementService, repository *MovementRepository, auditLog *auditlog.Auditlog) *MovementHandler {
	return &MovementHandler{
		Service:    service,
		Repository: repository,
		AuditLog:   auditLog,
	}
}

func (h *MovementHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/inventory/movements", h.ListMovements)
	router.GET("/inventory/movements/log", h.GetMovementLog)
	router.POST("/inventory/movements", h.Dispatch)
}

func (h *MovementHandler) RegisterAdminRoutes(router gin.IRouter) {
	router.PUT("/inventory/movements", h.UpdateMovement)
}

func actorFromContext(c *gin.Context) *int {
	if userID, err := security.GetUserIDFromContext(c); err == nil {
		return &userID
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var uniqueErr *custom_error.UniqueViolationError
	return errors.As(err, &uniqueErr)
}

func (h *MovementHandler) Dispatch(c *gin.Context) {
	switch c.Query("action") {
	case "ship":
		h.Ship(c)
	case "receive":
		h.Receive(c)
	case "assign-bin":
		h.AssignBin(c)
	case "add-unexpected":
		h.AddUnexpected(c)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown action, expected one of: ship, receive, assign-bin, add-unexpected"})
	}
}

func (h *MovementHandler) Ship(c *gin.Context) {
	var req ShipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Cannot create an empty shipment"})
		return
	}

	actorID := actorFromContext(c)

	results, err := h.Service.Ship(req, actorID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to ship products", "details": err.Error()})
		return
	}

	failed := 0
	for _, result := range results {
		if !result.Succeeded() {
			failed++
			continue
		}
		movement := models.Movement{ID: result.MovementID}
		go h.AuditLog.Log(
			"ship",
			actorID,
			map[string]interface{}{
				"product_id":        result.ProductID,
				"from_warehouse_id": req.FromWarehouseID,
				"to_warehouse_id":   req.ToWarehouseID,
				"quantity":          req.Quantity,
				"reference":         result.Reference,
				"msg":               "Units shipped, now in transit",
			},
			&movement,
		)
	}

	if failed > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Stock validation failed", "results": results})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"results": results})
}

func (h *MovementHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: movement_id"})
		return
	}

	// The receiving warehouse comes from the request or, failing that, from
	// the operator's own warehouse assignment in the token.
	if req.WarehouseID == 0 {
		if assigned := security.GetWarehouseIDFromContext(c); assigned != nil {
			req.WarehouseID = *assigned
		}
	}
	if req.WarehouseID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: warehouse_id"})
		return
	}

	result, err := h.Service.Receive(req)
	switch {
	case errors.Is(err, ErrMovementNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
		return
	case errors.Is(err, ErrAlreadyReceived):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Movement already received"})
		return
	case errors.Is(err, ErrWrongDestination):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "This warehouse is not the movement's destination"})
		return
	case isUniqueViolation(err):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Destination stock row changed concurrently, rescan to merge", "details": err.Error()})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to receive movement", "details": err.Error()})
		return
	}

	movement := models.Movement{ID: result.MovementID}
	go h.AuditLog.Log(
		"receive",
		actorFromContext(c),
		map[string]interface{}{
			"movement_id":  result.MovementID,
			"product_id":   result.ProductID,
			"warehouse_id": result.WarehouseID,
			"quantity":     result.Quantity,
			"created_row":  result.CreatedRow,
			"msg":          "Movement received at destination",
		},
		&movement,
	)

	c.JSON(http.StatusOK, result)
}

func (h *MovementHandler) AssignBin(c *gin.Context) {
	var req AssignBinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: product_id, bin_number and warehouse_id are required"})
		return
	}

	err := h.Service.AssignBin(req)
	switch {
	case errors.Is(err, products.ErrProductNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	case errors.Is(err, ErrBinNotFound):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Bin does not exist at this warehouse"})
		return
	case errors.Is(err, ErrBinCapacityExceeded):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Bin capacity exceeded"})
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to assign bin", "details": err.Error()})
		return
	}

	product := models.Product{ID: req.ProductID}
	go h.AuditLog.Log(
		"assign_bin",
		actorFromContext(c),
		map[string]interface{}{
			"product_id":   req.ProductID,
			"warehouse_id": req.WarehouseID,
			"bin_number":   req.BinNumber,
			"msg":          "Product placed in bin",
		},
		&product,
	)

	c.JSON(http.StatusOK, gin.H{"message": "Bin assigned successfully"})
}

func (h *MovementHandler) AddUnexpected(c *gin.Context) {
	var req AddUnexpectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: part_number, warehouse_id and quantity are required"})
		return
	}

	result, err := h.Service.AddUnexpected(req)
	if isUniqueViolation(err) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Destination stock row changed concurrently, rescan to merge", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to add unexpected stock", "details": err.Error()})
		return
	}

	product := models.Product{ID: result.ProductID}
	go h.AuditLog.Log(
		"add_unexpected",
		actorFromContext(c),
		map[string]interface{}{
			"part_number":  req.PartNumber,
			"warehouse_id": req.WarehouseID,
			"quantity":     req.Quantity,
			"created_row":  result.CreatedRow,
			"msg":          "Unexpected stock added without a matching movement",
		},
		&product,
	)

	c.JSON(http.StatusCreated, result)
}

func (h *MovementHandler) ListMovements(c *gin.Context) {
	var filter MovementFilter
	filter.Status = c.Query("status")

	if raw := c.Query("product_id"); raw != "" {
		productID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}
		filter.ProductID = productID
	}
	if raw := c.Query("warehouse_id"); raw != "" {
		warehouseID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid warehouse_id"})
			return
		}
		filter.WarehouseID = warehouseID
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = uint(limit)
	}

	history, err := h.Repository.ListMovements(filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to list movements", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *MovementHandler) GetMovementLog(c *gin.Context) {
	movementID, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	entries, err := h.AuditLog.ResourceLog(movementID, "movement")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to load movement log", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func (h *MovementHandler) UpdateMovement(c *gin.Context) {
	var req UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: id"})
		return
	}

	if req.Status != nil {
		if _, err := metadata.NewMovementStatus(*req.Status); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	err := h.Repository.UpdateMovement(req.ID, req.Status, req.Notes)
	if errors.Is(err, ErrMovementNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Movement not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to update movement", "details": err.Error()})
		return
	}

	movement, err := h.Repository.GetMovement(req.ID)
	if err != nil || movement == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Movement updated"})
		return
	}

	c.JSON(http.StatusOK, movement)
}
